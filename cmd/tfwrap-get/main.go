package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tfwrap/tfwrap/internal/cache"
	"github.com/tfwrap/tfwrap/internal/platform"
	"github.com/tfwrap/tfwrap/internal/provision"
	"github.com/tfwrap/tfwrap/internal/version"
)

// getOptions holds the parsed command-line options.
type getOptions struct {
	version   string
	outputDir string
	force     bool
	noExtract bool
	showHelp  bool
}

func main() {
	code, err := runGet(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func runGet(args []string) (int, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return 1, err
	}

	if opts.showHelp {
		printHelp()
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cacheRoot, err := cache.DefaultRoot()
	if err != nil {
		return 1, err
	}

	ver := opts.version
	if ver == "" {
		ver = os.Getenv("TERRAFORM_VERSION")
	}
	resolver := version.NewResolver(cacheRoot)
	ver, err = resolver.Resolve(ctx, ver)
	if err != nil {
		if !errors.Is(err, version.ErrResolutionFailed) {
			return 1, err
		}
		fmt.Fprintf(os.Stderr, "Warning: could not determine latest version: %v\n", err)
		ver = provision.DefaultVersion
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

	path, err := manager.Provision(ctx, ver, provision.Options{
		OutputDir: opts.outputDir,
		Force:     opts.force,
		NoExtract: opts.noExtract,
	})
	if err != nil {
		return 1, err
	}

	fmt.Println(path)
	return 0, nil
}

// parseArgs parses command-line arguments. An unknown option prints
// help and asks for a clean exit instead of failing.
func parseArgs(args []string) (getOptions, error) {
	var opts getOptions

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			opts.showHelp = true
		case "--force", "-f":
			opts.force = true
		case "--no-extract":
			opts.noExtract = true
		case "--version", "-v":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", args[i])
			}
			i++
			opts.version = args[i]
		case "--output", "-o":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", args[i])
			}
			i++
			opts.outputDir = args[i]
		default:
			fmt.Printf("Unknown option: %s\n", args[i])
			opts.showHelp = true
			return opts, nil
		}
	}

	return opts, nil
}

// printHelp prints usage for tfwrap-get
func printHelp() {
	fmt.Println("Usage: tfwrap-get [options]")
	fmt.Println()
	fmt.Println("Download a terraform release into the tfwrap cache.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help            Show this help message")
	fmt.Println("  -v, --version <ver>   Version to download (default: latest)")
	fmt.Println("  -o, --output <dir>    Extract into <dir> instead of the cache")
	fmt.Println("  -f, --force           Re-download even if already cached")
	fmt.Println("  --no-extract          Keep the archive without unpacking it")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TERRAFORM_VERSION     Version used when --version is absent")
	fmt.Println("  TFWRAP_CACHE_DIR      Overrides the cache root directory")
	fmt.Println("  GITHUB_TOKEN          Authenticates latest-version lookups")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tfwrap-get                      Download the latest release")
	fmt.Println("  tfwrap-get -v 1.12.0            Download a specific version")
	fmt.Println("  tfwrap-get -o ./bin -v 1.12.0   Extract into ./bin")
	fmt.Println()
}
