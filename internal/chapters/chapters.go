// Package chapters models a chapter timeline: ordered (time, label) entries
// with frame-based trimming, shifting, renaming, and OGM/Matroska-XML
// serialization. Internal storage is always time-based; frame-typed input is
// converted through a timestamp source at construction.
package chapters

import (
	"errors"
	"fmt"
	"time"

	"muxkit/internal/timestamps"
)

// ErrTooManyNames is returned when a rename supplies more labels than
// chapters exist.
var ErrTooManyNames = errors.New("chapters: more names than chapters")

// Chapter is one timeline entry.
type Chapter struct {
	Time time.Duration
	Name string
}

// Mark is a chapter position given either as a frame number or a time.
type Mark struct {
	Frame *int
	Time  *time.Duration
	Name  string
}

// AtFrame builds a frame-typed mark.
func AtFrame(frame int, name string) Mark {
	return Mark{Frame: &frame, Name: name}
}

// AtTime builds a time-typed mark.
func AtTime(t time.Duration, name string) Mark {
	return Mark{Time: &t, Name: name}
}

// Timeline is an ordered chapter list bound to a timestamp source. Ordering
// is caller-maintained; operations preserve relative order.
type Timeline struct {
	chapters []Chapter
	ts       timestamps.Timestamps
}

// New builds a timeline, converting frame-typed marks to times immediately.
func New(ts timestamps.Timestamps, marks ...Mark) (*Timeline, error) {
	tl := &Timeline{ts: ts}
	converted, err := tl.convert(marks)
	if err != nil {
		return nil, err
	}
	tl.chapters = converted
	return tl, nil
}

// FromChapters builds a timeline from already time-based chapters.
func FromChapters(ts timestamps.Timestamps, chapters []Chapter) *Timeline {
	tl := &Timeline{ts: ts}
	tl.chapters = append(tl.chapters, chapters...)
	return tl
}

func (t *Timeline) convert(marks []Mark) ([]Chapter, error) {
	out := make([]Chapter, 0, len(marks))
	for _, m := range marks {
		switch {
		case m.Frame != nil:
			if *m.Frame < 0 {
				return nil, fmt.Errorf("chapters: negative frame %d", *m.Frame)
			}
			out = append(out, Chapter{Time: t.frameTime(*m.Frame), Name: m.Name})
		case m.Time != nil:
			if *m.Time < 0 {
				return nil, fmt.Errorf("chapters: negative time %v", *m.Time)
			}
			out = append(out, Chapter{Time: *m.Time, Name: m.Name})
		default:
			return nil, errors.New("chapters: mark has neither frame nor time")
		}
	}
	return out, nil
}

// Chapters returns a copy of the entries.
func (t *Timeline) Chapters() []Chapter {
	out := make([]Chapter, len(t.chapters))
	copy(out, t.chapters)
	return out
}

// Len returns the number of chapters.
func (t *Timeline) Len() int { return len(t.chapters) }

func (t *Timeline) frameTime(frame int) time.Duration {
	ms := t.ts.FrameToTime(frame, timestamps.TimeStart, timestamps.PrecisionMillisecond)
	return time.Duration(ms) * time.Millisecond
}

func (t *Timeline) frameOf(d time.Duration) int {
	return t.ts.TimeToFrame(d.Milliseconds(), timestamps.TimeStart)
}

// Trim cuts the timeline. trimStart drops entries before that frame — except
// an entry sitting exactly at time zero, kept as an anchor — and shifts the
// rest left. trimEnd is an exclusive cutoff: entries whose frame number is at
// or beyond it are removed. When totalFrames is positive, shifted entries
// past the end of the retained span are dropped too.
func (t *Timeline) Trim(trimStart, trimEnd, totalFrames int) *Timeline {
	if trimStart > 0 {
		startOffset := t.frameTime(trimStart)
		limit := time.Duration(-1)
		if totalFrames > 0 {
			limit = t.frameTime(totalFrames - 1)
		}
		kept := make([]Chapter, 0, len(t.chapters))
		for _, ch := range t.chapters {
			frame := t.frameOf(ch.Time)
			if frame == 0 {
				kept = append(kept, ch)
				continue
			}
			if frame-trimStart < 0 {
				continue
			}
			shifted := Chapter{Time: ch.Time - startOffset, Name: ch.Name}
			if limit >= 0 && shifted.Time > limit {
				continue
			}
			kept = append(kept, shifted)
		}
		t.chapters = kept
	}
	if trimEnd > 0 {
		kept := make([]Chapter, 0, len(t.chapters))
		for _, ch := range t.chapters {
			if t.frameOf(ch.Time) < trimEnd {
				kept = append(kept, ch)
			}
		}
		t.chapters = kept
	}
	return t
}

// Shift moves a single chapter by a frame count, flooring at time zero.
func (t *Timeline) Shift(index, frames int) error {
	if index < 0 || index >= len(t.chapters) {
		return fmt.Errorf("chapters: index %d out of range (%d chapters)", index, len(t.chapters))
	}
	delta := time.Duration(0)
	if frames != 0 {
		ms := t.ts.FrameToTime(abs(frames), timestamps.TimeStart, timestamps.PrecisionMillisecond)
		delta = time.Duration(ms) * time.Millisecond
		if frames < 0 {
			delta = -delta
		}
	}
	shifted := t.chapters[index].Time + delta
	if shifted < 0 {
		shifted = 0
	}
	t.chapters[index].Time = shifted
	return nil
}

// SetNames replaces labels positionally. Fewer names than chapters leaves
// the remainder blank; more is an error.
func (t *Timeline) SetNames(names []string) error {
	if len(names) > len(t.chapters) {
		return fmt.Errorf("%w: %d names for %d chapters", ErrTooManyNames, len(names), len(t.chapters))
	}
	for i := range t.chapters {
		if i < len(names) {
			t.chapters[i].Name = names[i]
		} else {
			t.chapters[i].Name = ""
		}
	}
	return nil
}

// Add inserts marks at the given position.
func (t *Timeline) Add(index int, marks ...Mark) error {
	if index < 0 || index > len(t.chapters) {
		return fmt.Errorf("chapters: insert index %d out of range (%d chapters)", index, len(t.chapters))
	}
	converted, err := t.convert(marks)
	if err != nil {
		return err
	}
	t.chapters = append(t.chapters[:index], append(converted, t.chapters[index:]...)...)
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
