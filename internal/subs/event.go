package subs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes rendered dialogue from comment lines.
type Kind int

const (
	Dialogue Kind = iota
	Comment
)

func (k Kind) String() string {
	if k == Comment {
		return "Comment"
	}
	return "Dialogue"
}

// Event is one timed subtitle line. Timing lives in Start/End; everything
// else is carried through untouched.
type Event struct {
	Kind    Kind
	Layer   int
	Start   time.Duration
	End     time.Duration
	Style   string
	Name    string
	MarginL int
	MarginR int
	MarginV int
	Effect  string
	Text    string
}

// eventFieldCount is the number of comma-separated fields in a V4+ event
// line; the text field absorbs any further commas.
const eventFieldCount = 10

func parseEvent(kind Kind, value string) (Event, error) {
	fields := strings.SplitN(value, ",", eventFieldCount)
	if len(fields) != eventFieldCount {
		return Event{}, fmt.Errorf("event line has %d fields, want %d: %q", len(fields), eventFieldCount, value)
	}

	layer, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Event{}, fmt.Errorf("event layer %q: %w", fields[0], err)
	}
	start, err := ParseTime(strings.TrimSpace(fields[1]))
	if err != nil {
		return Event{}, err
	}
	end, err := ParseTime(strings.TrimSpace(fields[2]))
	if err != nil {
		return Event{}, err
	}
	marginL, _ := strconv.Atoi(strings.TrimSpace(fields[5]))
	marginR, _ := strconv.Atoi(strings.TrimSpace(fields[6]))
	marginV, _ := strconv.Atoi(strings.TrimSpace(fields[7]))

	return Event{
		Kind:    kind,
		Layer:   layer,
		Start:   start,
		End:     end,
		Style:   fields[3],
		Name:    fields[4],
		MarginL: marginL,
		MarginR: marginR,
		MarginV: marginV,
		Effect:  fields[8],
		Text:    fields[9],
	}, nil
}

func formatEvent(ev Event) string {
	return fmt.Sprintf("%s: %d,%s,%s,%s,%s,%d,%d,%d,%s,%s",
		ev.Kind, ev.Layer, FormatTime(ev.Start), FormatTime(ev.End),
		ev.Style, ev.Name, ev.MarginL, ev.MarginR, ev.MarginV, ev.Effect, ev.Text)
}

// ParseTime parses an ASS timestamp (H:MM:SS.cc).
func ParseTime(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q: want h:mm:ss.cc", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", value, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", value, err)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("timestamp %q: negative component", value)
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, nil
}

// FormatTime renders a duration as an ASS timestamp, truncating to
// centiseconds the way the format stores times.
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d / (10 * time.Millisecond)
	h := cs / 360000
	cs %= 360000
	m := cs / 6000
	cs %= 6000
	s := cs / 100
	cs %= 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
