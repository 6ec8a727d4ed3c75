// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no muxkit-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//   - Timing: per-frame presentation timestamps of a video stream
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - InspectTiming: executes ffprobe in packet mode and returns Timing
//
// Helper methods on Result provide convenient access to stream counts,
// duration parsing, and bitrate extraction.
package ffprobe
