// Package platform identifies the host machine and maps it into the
// vocabulary used by the HashiCorp release archive naming scheme.
//
// Identification and mapping are deliberately separate steps: the
// detector answers "what is this machine" in a normalized vocabulary,
// and the mapper translates that answer into the distributor's naming.
// The mapper never falls back to a default; an input outside its table
// is a hard error.
package platform

import (
	"context"
	"fmt"
)

// Host is the normalized identification of the machine tfwrap runs on.
type Host struct {
	OS   string // "linux", "macos", "windows", "freebsd", "openbsd", "solaris"
	Arch string // "x64", "x86", "arm64", "arm"

	// Linux distribution details, populated on a best-effort basis
	// and used only for diagnostics. Empty elsewhere.
	Distro        string // e.g. "ubuntu"
	DistroVersion string // e.g. "22.04"
}

// String renders the host for error messages and logs.
func (h Host) String() string {
	if h.Distro != "" {
		return fmt.Sprintf("%s/%s (%s %s)", h.OS, h.Arch, h.Distro, h.DistroVersion)
	}
	return fmt.Sprintf("%s/%s", h.OS, h.Arch)
}

// Target is the distributor-side naming for a platform, used to build
// release archive filenames and URLs.
type Target struct {
	OS   string // "linux", "darwin", "windows", "freebsd", "openbsd", "solaris"
	Arch string // "amd64", "386", "arm64", "arm"
}

// UnsupportedPlatformError reports a host with no release artifact.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s/%s", e.OS, e.Arch)
}

// Detector is the interface for host identification.
type Detector interface {
	Detect(ctx context.Context) (Host, error)
}
