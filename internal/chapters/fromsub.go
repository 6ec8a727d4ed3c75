package chapters

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"muxkit/internal/subs"
	"muxkit/internal/timestamps"
)

var chapterNamePattern = regexp.MustCompile(`\{([^\\].*?)\}`)

// FromSub extracts chapters from a subtitle document's chapter-marked lines:
// events whose effect contains "chapter" or "chptr". The label comes from a
// {braces} comment in the line text, falling back to the text of comment
// lines.
func FromSub(doc *subs.Document, ts timestamps.Timestamps) *Timeline {
	var out []Chapter
	for _, ev := range doc.Events {
		effect := strings.ToLower(ev.Effect)
		if !strings.Contains(effect, "chapter") && !strings.Contains(effect, "chptr") {
			continue
		}
		name := ""
		if match := chapterNamePattern.FindStringSubmatch(ev.Text); match != nil {
			name = match[1]
		} else if ev.Kind == subs.Comment {
			name = strings.TrimSpace(ev.Text)
		}
		out = append(out, Chapter{Time: ev.Start, Name: name})
	}
	return FromChapters(ts, out)
}

// Print renders a human-readable listing with frame numbers.
func (t *Timeline) Print(w io.Writer) {
	for _, ch := range t.chapters {
		fmt.Fprintf(w, "%s: %s | frame %d\n", ch.Name, FormatTimestamp(ch.Time), t.frameOf(ch.Time))
	}
}
