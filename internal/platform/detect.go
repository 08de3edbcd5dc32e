package platform

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the Go runtime identifiers.
type RealDetector struct{}

// NewDetector creates a new host detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect identifies the host and returns it in normalized vocabulary.
// Unknown GOOS/GOARCH values are passed through untranslated; the
// mapper rejects them later with a precise error instead of this
// function guessing.
//
// On Linux, distribution details are added via gopsutil for diagnostic
// messages. Failure to detect the distribution is not an error; the
// fields stay empty and detection continues. A cancelled context
// aborts detection before any work happens.
func (d *RealDetector) Detect(ctx context.Context) (Host, error) {
	if err := ctx.Err(); err != nil {
		return Host{}, err
	}

	h := Host{
		OS:   normalizeOS(runtime.GOOS),
		Arch: normalizeArch(runtime.GOARCH),
	}

	if runtime.GOOS == "linux" {
		distro, _, version, err := host.PlatformInformationWithContext(ctx)
		if err == nil {
			h.Distro = distro
			h.DistroVersion = version
		}
	}

	return h, nil
}

// normalizeOS translates GOOS into the normalized OS vocabulary.
func normalizeOS(goos string) string {
	switch goos {
	case "darwin":
		return "macos"
	case "illumos":
		return "sunos"
	default:
		return goos
	}
}

// normalizeArch translates GOARCH into the normalized arch vocabulary.
func normalizeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}
