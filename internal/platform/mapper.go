package platform

import "fmt"

// Release archive vocabulary for each normalized identifier. Every
// supported input maps to exactly one output; anything absent from
// these tables is unsupported, never silently defaulted.
var (
	targetOS = map[string]string{
		"windows": "windows",
		"macos":   "darwin",
		"linux":   "linux",
		"freebsd": "freebsd",
		"openbsd": "openbsd",
		"solaris": "solaris",
		"sunos":   "solaris",
	}

	targetArch = map[string]string{
		"x64":     "amd64",
		"x86_64":  "amd64",
		"x86":     "386",
		"ia32":    "386",
		"arm64":   "arm64",
		"aarch64": "arm64",
		"arm":     "arm",
	}
)

// Map translates a normalized OS/arch pair into the distributor's
// naming. It is a pure function: same input, same output, no I/O.
func Map(os, arch string) (Target, error) {
	tos, ok := targetOS[os]
	if !ok {
		return Target{}, &UnsupportedPlatformError{OS: os, Arch: arch}
	}

	tarch, ok := targetArch[arch]
	if !ok {
		return Target{}, &UnsupportedPlatformError{OS: os, Arch: arch}
	}

	return Target{OS: tos, Arch: tarch}, nil
}

// MapHost translates a detected host. On an unsupported host the error
// carries the full host description, distribution details included, so
// the user sees exactly what was detected.
func MapHost(h Host) (Target, error) {
	target, err := Map(h.OS, h.Arch)
	if err != nil {
		if h.Distro != "" {
			return Target{}, fmt.Errorf("%w (host %s)", err, h)
		}
		return Target{}, err
	}
	return target, nil
}
