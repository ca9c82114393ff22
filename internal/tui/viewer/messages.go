// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     viewer
// Description: Message types for async operations in the viewer
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package viewer

import (
	"github.com/msto63/fdl/internal/watch"
)

// reloadMsg carries a fresh parse result from the file watcher
type reloadMsg struct {
	result watch.Result
}

// watchClosedMsg is sent when the watcher's result channel is closed
type watchClosedMsg struct{}
