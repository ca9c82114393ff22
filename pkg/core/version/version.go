// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     version
// Description: Central version management for the library and tools
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for the FDL components
const (
	// Language version of the accepted grammar
	Language = "1.0.0"

	// Component versions
	CLI    = "1.1.0"
	Viewer = "1.1.0"
	Server = "1.0.0"
	Store  = "1.0.0"
)

// Commit is set at build time via -ldflags "-X ...version.Commit=<sha>"
var Commit = "dev"

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "cli", "fdl":
		return CLI
	case "viewer", "view":
		return Viewer
	case "server", "serve":
		return Server
	case "store":
		return Store
	default:
		return Language
	}
}

// String returns a one-line description for `fdl version`
func String() string {
	return fmt.Sprintf("fdl %s (language %s, commit %s, %s %s/%s)",
		CLI, Language, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
