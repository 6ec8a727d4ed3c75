// Package language normalizes the language metadata containers attach to
// audio and subtitle tracks, so the probe table and track filters agree on
// ISO 639-1 codes and display names regardless of which spelling the
// source file used.
package language
