package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Language", Language},
		{"CLI", CLI},
		{"Viewer", Viewer},
		{"Server", Server},
		{"Store", Store},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"cli", CLI},
		{"fdl", CLI},
		{"view", Viewer},
		{"serve", Server},
		{"store", Store},
		{"unknown", Language},
		{"", Language},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComponentVersion(tt.name); got != tt.expected {
				t.Errorf("ComponentVersion(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "fdl "+CLI) {
		t.Errorf("String() = %q, want prefix %q", s, "fdl "+CLI)
	}
	if !strings.Contains(s, "language "+Language) {
		t.Errorf("String() = %q lacks language version", s)
	}
}
