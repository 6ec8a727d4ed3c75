// Package logging assembles the structured slog loggers used across muxkit.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing so the CLI and library code emit log lines with the same
// shape. The console handler flattens groups to dotted keys and adds caller
// information only at debug level.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
