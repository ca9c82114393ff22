// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     log
// Description: Package documentation
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

/*
Package log provides structured logging for the FDL tools.

Loggers are immutable from the caller's point of view: WithField, WithName,
WithLevel and friends return copies, so a component can derive its own
logger without affecting others.

	logger := log.GetDefault().WithField("component", "watch")
	logger.Info("file changed", log.Fields{"path": path})

Library packages take an optional *Logger and fall back to Nop(), so they
never write anything unless the application asks for it.
*/
package log
