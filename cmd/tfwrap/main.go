package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tfwrap/tfwrap/internal/cache"
	"github.com/tfwrap/tfwrap/internal/platform"
	"github.com/tfwrap/tfwrap/internal/provision"
	"github.com/tfwrap/tfwrap/internal/supervise"
	"github.com/tfwrap/tfwrap/internal/version"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// Provisioning aborts on an interrupt and is time-bounded; the tool
	// itself runs unbounded once spawned, with signals forwarded to it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	cacheRoot, err := cache.DefaultRoot()
	if err != nil {
		return 1, err
	}

	desired, err := resolveVersion(ctx, cacheRoot)
	if err != nil {
		return 1, err
	}

	host, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return 1, fmt.Errorf("detect host platform: %w", err)
	}

	manager, err := provision.NewManager(provision.Config{
		CacheRoot: cacheRoot,
		Host:      host,
	})
	if err != nil {
		return 1, err
	}

	binPath, err := manager.Ensure(ctx, desired)
	if err != nil {
		return 1, err
	}

	// From here on the child owns signal handling.
	stop()
	return supervise.Run(binPath, args)
}

// resolveVersion picks the version to guarantee. An explicit
// TERRAFORM_VERSION pin wins; otherwise the latest release is looked
// up, and a failed lookup degrades to no preference rather than
// blocking the run.
func resolveVersion(ctx context.Context, cacheRoot string) (string, error) {
	resolver := version.NewResolver(cacheRoot)
	desired, err := resolver.Resolve(ctx, os.Getenv("TERRAFORM_VERSION"))
	if err != nil {
		if errors.Is(err, version.ErrResolutionFailed) {
			fmt.Fprintf(os.Stderr, "Warning: could not determine latest version: %v\n", err)
			return "", nil
		}
		return "", err
	}
	return desired, nil
}
