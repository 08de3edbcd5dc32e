package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSupportedPairs(t *testing.T) {
	tests := []struct {
		os       string
		arch     string
		wantOS   string
		wantArch string
	}{
		{"windows", "x64", "windows", "amd64"},
		{"windows", "x86", "windows", "386"},
		{"macos", "x64", "darwin", "amd64"},
		{"macos", "arm64", "darwin", "arm64"},
		{"macos", "aarch64", "darwin", "arm64"},
		{"linux", "x64", "linux", "amd64"},
		{"linux", "x86_64", "linux", "amd64"},
		{"linux", "ia32", "linux", "386"},
		{"linux", "arm", "linux", "arm"},
		{"freebsd", "x64", "freebsd", "amd64"},
		{"openbsd", "arm64", "openbsd", "arm64"},
		{"solaris", "x64", "solaris", "amd64"},
		{"sunos", "x64", "solaris", "amd64"},
	}

	for _, tt := range tests {
		t.Run(tt.os+"_"+tt.arch, func(t *testing.T) {
			target, err := Map(tt.os, tt.arch)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOS, target.OS)
			assert.Equal(t, tt.wantArch, target.Arch)
		})
	}
}

func TestMapUnsupportedPairs(t *testing.T) {
	tests := []struct {
		name string
		os   string
		arch string
	}{
		{"unknown_os", "plan9", "x64"},
		{"unknown_arch", "linux", "mips"},
		{"both_unknown", "aix", "ppc64"},
		{"empty", "", ""},
		{"distributor_vocab_not_accepted", "darwin", "amd64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Map(tt.os, tt.arch)
			require.Error(t, err)

			var perr *UnsupportedPlatformError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.os, perr.OS)
			assert.Equal(t, tt.arch, perr.Arch)
		})
	}
}

func TestMapHostUnsupportedIncludesDistro(t *testing.T) {
	h := Host{OS: "linux", Arch: "mips", Distro: "ubuntu", DistroVersion: "22.04"}

	_, err := MapHost(h)
	require.Error(t, err)

	// The detected distribution must reach the user, and the typed
	// error must survive the wrapping.
	assert.Contains(t, err.Error(), "ubuntu 22.04")
	var perr *UnsupportedPlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "mips", perr.Arch)
}

func TestMapHostUnsupportedWithoutDistro(t *testing.T) {
	_, err := MapHost(Host{OS: "plan9", Arch: "x64"})
	require.Error(t, err)
	assert.Equal(t, "unsupported platform: plan9/x64", err.Error())
}

func TestMapIsDeterministic(t *testing.T) {
	first, err := Map("linux", "arm64")
	require.NoError(t, err)

	second, err := Map("linux", "arm64")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
