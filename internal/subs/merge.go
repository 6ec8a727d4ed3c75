package subs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"muxkit/internal/timestamps"
)

// ErrSyncpointNotFound is returned when a named syncpoint exists in neither
// the effect/actor field nor the text of any line.
var ErrSyncpointNotFound = errors.New("syncpoint not found")

// Syncpoint describes how the merged document is aligned to the target.
//
// When Name is set, the target frame is located by a line in the receiving
// document whose effect (or actor, with UseActor) or text matches it. When
// only Frame is set, that frame is the target directly. OtherName names the
// syncpoint in the merged document; it defaults to Name, and when absent
// there the first dialogue line stands in.
type Syncpoint struct {
	Frame     int
	Name      string
	OtherName string
	UseActor  bool
}

// Merge appends another document's events to this one, shifting them so both
// syncpoints land on the same frame, and copies over styles this document
// does not declare yet. A nil sync merges without any retiming.
func (d *Document) Merge(other *Document, sync *Syncpoint, ts timestamps.Timestamps) error {
	merged := make([]Event, len(other.Events))
	copy(merged, other.Events)

	offset := 0
	if sync != nil {
		target := sync.Frame
		if sync.Name != "" {
			frame, ok := findSyncpoint(d.Events, sync.Name, sync.UseActor, ts)
			if !ok {
				return fmt.Errorf("%w: %q in target document", ErrSyncpointNotFound, sync.Name)
			}
			target = frame
		}

		otherName := sync.OtherName
		if otherName == "" {
			otherName = sync.Name
		}
		second := -1
		if otherName != "" {
			if frame, ok := findSyncpoint(merged, otherName, sync.UseActor, ts); ok {
				merged = removeSyncpointLine(merged, otherName, sync.UseActor)
				second = frame
			}
		}

		sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })

		if second < 0 {
			// Fall back to the merged document's first dialogue line.
			for _, ev := range merged {
				if ev.Kind != Comment {
					second = syncFrame(ev, ts)
					break
				}
			}
		}
		if second >= 0 {
			offset = target - second
		}
	} else {
		sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	}

	for _, ev := range merged {
		if offset != 0 {
			ev, _, _ = ShiftFrames(ev, offset, ts)
		}
		d.Events = append(d.Events, ev)
	}

	existing := make(map[string]bool)
	for _, name := range d.Styles() {
		existing[name] = true
	}
	for _, name := range other.Styles() {
		if existing[name] {
			continue
		}
		if raw, ok := other.styleLine(name); ok {
			d.appendStyleLine(raw)
		}
	}
	return nil
}

// syncFrame is the frame a syncpoint line counts as: the frame after the one
// its start time maps to, matching how the authoring workflow picks sync
// targets.
func syncFrame(ev Event, ts timestamps.Timestamps) int {
	return ts.TimeToFrame(ev.Start.Milliseconds(), timestamps.TimeStart) + 1
}

func findSyncpoint(events []Event, name string, useActor bool, ts timestamps.Timestamps) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, ev := range events {
		if matchesSyncpoint(ev, want, useActor) {
			return syncFrame(ev, ts), true
		}
	}
	return 0, false
}

func removeSyncpointLine(events []Event, name string, useActor bool) []Event {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, ev := range events {
		if matchesSyncpoint(ev, want, useActor) {
			return append(events[:i], events[i+1:]...)
		}
	}
	return events
}

func matchesSyncpoint(ev Event, want string, useActor bool) bool {
	field := ev.Effect
	if useActor {
		field = ev.Name
	}
	return strings.ToLower(strings.TrimSpace(field)) == want ||
		strings.ToLower(strings.TrimSpace(ev.Text)) == want
}
