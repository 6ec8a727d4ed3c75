// Package timestamps converts between frame numbers and wall-clock time.
//
// A Timestamps value wraps a source of frame-to-time correspondence: a
// constant frame rate, an explicit per-frame presentation-timestamp list
// (exact for variable frame rate video), or a parsed timecode text file.
// Conversions are monotonic and immutable after construction, so a single
// Timestamps value is safe to share across goroutines.
//
// Key types:
//   - Timestamps: bidirectional frame/time conversion
//   - Rational: exact fraction used for frame rates and time scales
//   - Source: tagged designation of where frame timing comes from
//
// Primary entry points:
//   - NewFPS: constant-frame-rate timestamps
//   - NewFixed: explicit per-frame tick list
//   - ParseTimecodeFile: v1/v2/v4 timecode text files
//   - Resolve: turns an ambiguous Source into concrete Timestamps
package timestamps
