// Package videometa caches per-frame video timing as a JSON side-car file.
//
// A Meta snapshot holds a video's ordered presentation timestamps plus its
// frame-rate and time-scale rationals, serialized with the rationals as
// exact "num/den" strings. Ensure probes a video at most once: the snapshot
// is written beside the source as <video>.meta.json and reused until that
// file is deleted. Concurrent generation is serialized with a file lock
// beside the side-car.
package videometa
