// Package version resolves which terraform version tfwrap should run:
// an explicit request is taken verbatim, otherwise the latest published
// release is looked up remotely with a time-boxed on-disk cache.
package version

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Pattern matches a three-component numeric version, the directory
// naming used by the binary cache.
var Pattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Compare orders two version strings component-wise, treating missing
// components as zero, so "1.12" and "1.12.0" are equal. It returns -1,
// 0 or +1. Pre-release and build metadata are not part of the version
// vocabulary here.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

// Normalize strips the leading tag prefix letter from a release tag,
// e.g. "v1.12.2" -> "1.12.2".
func Normalize(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

func canonical(v string) string {
	return "v" + Normalize(v)
}
