package subs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Document is a parsed ASS file. Events are the mutable timed lines; every
// other line of the file is preserved verbatim in order.
type Document struct {
	// head holds everything up to and including the [Events] section's
	// Format line; tail holds any sections following the events.
	head   []string
	tail   []string
	Events []Event
}

// ParseFile reads and parses an ASS document from disk.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitle: %w", err)
	}
	defer file.Close()
	doc, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse subtitle %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads an ASS document. Event lines are parsed into Events; all other
// content is kept as-is.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inEvents := false
	afterEvents := false
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if strings.EqualFold(trimmed, "[events]") {
				inEvents = true
				afterEvents = false
				doc.head = append(doc.head, line)
				continue
			}
			if inEvents {
				inEvents = false
				afterEvents = true
			}
		}

		switch {
		case afterEvents:
			doc.tail = append(doc.tail, line)
		case inEvents:
			if value, ok := cutEventPrefix(trimmed, "Dialogue:"); ok {
				ev, err := parseEvent(Dialogue, value)
				if err != nil {
					return nil, err
				}
				doc.Events = append(doc.Events, ev)
			} else if value, ok := cutEventPrefix(trimmed, "Comment:"); ok {
				ev, err := parseEvent(Comment, value)
				if err != nil {
					return nil, err
				}
				doc.Events = append(doc.Events, ev)
			} else {
				doc.head = append(doc.head, line)
			}
		default:
			doc.head = append(doc.head, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read subtitle: %w", err)
	}
	return doc, nil
}

func cutEventPrefix(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimLeft(line[len(prefix):], " "), true
}

// Write serializes the document, regenerating event lines from Events and
// copying everything else through unchanged.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range d.head {
		fmt.Fprintln(bw, line)
	}
	for _, ev := range d.Events {
		fmt.Fprintln(bw, formatEvent(ev))
	}
	for _, line := range d.tail {
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}

// WriteFile serializes the document to a path.
func (d *Document) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subtitle: %w", err)
	}
	if err := d.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Styles returns the style names declared in the [V4+ Styles] section, in
// declaration order.
func (d *Document) Styles() []string {
	var names []string
	for _, line := range d.head {
		if value, ok := cutEventPrefix(strings.TrimSpace(line), "Style:"); ok {
			name, _, _ := strings.Cut(value, ",")
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}

// styleLine returns the raw declaration line of a style, if present.
func (d *Document) styleLine(name string) (string, bool) {
	for _, line := range d.head {
		if value, ok := cutEventPrefix(strings.TrimSpace(line), "Style:"); ok {
			n, _, _ := strings.Cut(value, ",")
			if strings.TrimSpace(n) == name {
				return line, true
			}
		}
	}
	return "", false
}

// appendStyleLine inserts a raw style declaration after the last existing one
// (or after the styles Format line when none exist yet).
func (d *Document) appendStyleLine(raw string) {
	insert := -1
	inStyles := false
	for i, line := range d.head {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inStyles = strings.Contains(strings.ToLower(trimmed), "styles")
			continue
		}
		if !inStyles {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "style:") || strings.HasPrefix(lower, "format:") {
			insert = i + 1
		}
	}
	if insert < 0 {
		d.head = append(d.head, raw)
		return
	}
	d.head = append(d.head[:insert], append([]string{raw}, d.head[insert:]...)...)
}
