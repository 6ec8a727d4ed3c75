// Package main hosts the muxkit CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into chapter
// timeline edits, subtitle shifts, track probing, video metadata caching, and
// configuration scaffolding. It centralizes configuration resolution,
// timestamp source selection, and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
