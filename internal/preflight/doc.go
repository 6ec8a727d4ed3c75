// Package preflight provides readiness checks for the external binaries
// and filesystem paths that muxkit depends on.
//
// The CLI "muxkit tools" command uses RunAll to display environment health:
// directory access (work/output/log) and binary availability (ffprobe,
// mkvextract, aegisub-cli). Optional binaries report as passed with a note
// when missing.
package preflight
