package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"1.12.0", "1.12.0", 0},
		{"1.12", "1.12.0", 0},
		{"1.12.0", "1.12", 0},
		{"1", "1.0.0", 0},
		{"1.12.1", "1.12.0", 1},
		{"1.12.0", "1.12.1", -1},
		{"1.13.0", "1.12.9", 1},
		{"2.0.0", "1.99.99", 1},
		{"0.11.14", "0.12.0", -1},
		{"10.0.0", "9.0.0", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Compare(tt.a, tt.b), "Compare(%q, %q)", tt.a, tt.b)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.12.2", "1.12.2"},
		{"1.12.2", "1.12.2"},
		{" v1.12.2\n", "1.12.2"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestPattern(t *testing.T) {
	assert.True(t, Pattern.MatchString("1.12.0"))
	assert.True(t, Pattern.MatchString("0.11.14"))
	assert.False(t, Pattern.MatchString("1.12"))
	assert.False(t, Pattern.MatchString("v1.12.0"))
	assert.False(t, Pattern.MatchString("1.12.0-beta1"))
	assert.False(t, Pattern.MatchString("latest"))
	assert.False(t, Pattern.MatchString(""))
}
