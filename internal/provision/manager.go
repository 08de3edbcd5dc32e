package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tfwrap/tfwrap/internal/cache"
	"github.com/tfwrap/tfwrap/internal/platform"
	"github.com/tfwrap/tfwrap/internal/transaction"
)

// lockWait bounds how long a run waits for a concurrent provisioning
// of the same version before giving up.
const lockWait = 2 * time.Minute

// Config holds configuration for the provisioning manager.
type Config struct {
	// CacheRoot is the per-user directory owning all provisioned
	// versions. Required.
	CacheRoot string
	// Host is the detected host platform. Required.
	Host platform.Host
	// Extractor selects the extraction strategy. Defaults to the
	// in-process archive reader.
	Extractor Extractor
	// ReleasesURL overrides the archive distribution endpoint.
	ReleasesURL string
	// DefaultVersion overrides the version used when no hint exists.
	DefaultVersion string
}

// Manager orchestrates binary lookup, download, and extraction.
type Manager struct {
	cache          *cache.Cache
	downloader     *Downloader
	extractor      Extractor
	host           platform.Host
	releasesURL    string
	defaultVersion string

	// probe checks for a system-installed tool; replaced in tests.
	probe func(ctx context.Context) bool
}

// NewManager creates a new provisioning manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.CacheRoot == "" {
		return nil, fmt.Errorf("CacheRoot is required")
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = NewNativeArchiveReader()
	}

	releasesURL := cfg.ReleasesURL
	if releasesURL == "" {
		releasesURL = DefaultReleasesURL
	}

	defaultVersion := cfg.DefaultVersion
	if defaultVersion == "" {
		defaultVersion = DefaultVersion
	}

	return &Manager{
		cache:          cache.New(cfg.CacheRoot, BinaryName()),
		downloader:     NewDownloader(),
		extractor:      extractor,
		host:           cfg.Host,
		releasesURL:    releasesURL,
		defaultVersion: defaultVersion,
		probe:          pathProbe,
	}, nil
}

// Ensure returns a runnable path for the desired version, downloading
// only on a cache and PATH miss. With no desired version the best
// cached version, then any working system install, then the default
// version is used.
func (m *Manager) Ensure(ctx context.Context, desired string) (string, error) {
	if path, ok := m.cache.Find(desired); ok {
		return path, nil
	}

	if m.probe(ctx) {
		// PATH resolution is deferred to the spawn step.
		return ToolName, nil
	}

	ver := desired
	if ver == "" {
		ver = m.defaultVersion
	}

	return m.Provision(ctx, ver, Options{})
}

// Provision runs the download-extract transaction for one version and
// returns the runnable path (or the archive path with NoExtract).
func (m *Manager) Provision(ctx context.Context, ver string, opts Options) (string, error) {
	destDir := opts.OutputDir
	locked := opts.OutputDir == ""
	if locked {
		destDir = m.cache.VersionDir(ver)

		lock, err := transaction.AcquireWait(ctx, m.cache.Root(), ver, lockWait)
		if err != nil {
			return "", fmt.Errorf("lock version %s: %w", ver, err)
		}
		defer lock.Release()

		// Another invocation may have finished while we waited.
		if !opts.Force {
			if path, ok := m.cache.Find(ver); ok {
				return path, nil
			}
		}
	}

	target, err := platform.MapHost(m.host)
	if err != nil {
		return "", err
	}

	archivePath := filepath.Join(destDir, ArchiveName(ver, target))
	if opts.Force || !fileExists(archivePath) {
		url := ArchiveURL(m.releasesURL, ver, target)
		logstep(fmt.Sprintf("downloading %s %s", ToolName, ver))
		logdetail(fmt.Sprintf("from %s", url))
		if err := m.downloader.Fetch(ctx, url, archivePath); err != nil {
			return "", err
		}
	} else {
		logdetail(fmt.Sprintf("reusing archive %s", archivePath))
	}

	if opts.NoExtract {
		return archivePath, nil
	}

	logdetail(fmt.Sprintf("extracting into %s", destDir))
	if err := m.extractor.Extract(archivePath, destDir); err != nil {
		return "", err
	}

	binPath := filepath.Join(destDir, BinaryName())
	if !fileExists(binPath) {
		return "", &ExtractionError{
			Archive: archivePath,
			Err:     fmt.Errorf("archive has no %s entry", BinaryName()),
		}
	}

	// The archive did its job; removal failure is not worth a word.
	_ = os.Remove(archivePath)

	return binPath, nil
}

// pathProbe invokes the system-installed tool with a trivial
// diagnostic command. Any failure, including the tool being absent,
// is an ordinary miss.
func pathProbe(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, ToolName, "version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}
