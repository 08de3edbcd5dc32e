package provision

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/tfwrap/tfwrap/internal/platform"
)

const (
	// ToolName is the wrapped executable's well-known name.
	ToolName = "terraform"

	// DefaultVersion is provisioned when no version was requested and
	// the latest-version lookup could not produce an answer.
	DefaultVersion = "1.12.2"

	// DefaultReleasesURL is the archive distribution endpoint.
	DefaultReleasesURL = "https://releases.hashicorp.com/terraform"
)

// BinaryName returns the runnable entry filename for this host.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return ToolName + ".exe"
	}
	return ToolName
}

// ArchiveName returns the canonical release archive filename for a
// version and target platform.
func ArchiveName(version string, target platform.Target) string {
	return fmt.Sprintf("%s_%s_%s_%s.zip", ToolName, version, target.OS, target.Arch)
}

// ArchiveURL returns the download URL for a version and target.
func ArchiveURL(baseURL, version string, target platform.Target) string {
	return fmt.Sprintf("%s/%s/%s", baseURL, version, ArchiveName(version, target))
}

// ErrTooManyRedirects reports a redirect chain exceeding the cap.
var ErrTooManyRedirects = errors.New("too many redirects")

// DownloadError reports a failed archive transfer. StatusCode is zero
// when the failure happened below HTTP (network error, redirect cap).
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a failed archive extraction. The destination
// directory may be left partially populated; callers treat this as
// terminal for the current provisioning attempt.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Options adjusts a single provisioning transaction. The zero value is
// the behavior Ensure uses.
type Options struct {
	// OutputDir overrides the version's cache directory as the
	// download and extraction destination.
	OutputDir string
	// Force refetches the archive even when one is already present.
	Force bool
	// NoExtract stops after the download and returns the archive path.
	NoExtract bool
}

// fileExists reports whether path is a non-empty regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
