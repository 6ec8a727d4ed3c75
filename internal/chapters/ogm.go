package chapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ogmPattern = regexp.MustCompile(`(?im)^CHAPTER(?P<num>\d+)=(?P<time>.*)\r?\nCHAPTER\d+NAME=(?P<name>.*)$`)

// FormatOGM renders the timeline in the OGM text chapter format:
// alternating CHAPTERxx= / CHAPTERxxNAME= line pairs, indices zero-padded to
// two digits.
func (t *Timeline) FormatOGM() string {
	var b strings.Builder
	for i, ch := range t.chapters {
		fmt.Fprintf(&b, "CHAPTER%02d=%s\n", i, FormatTimestamp(ch.Time))
		fmt.Fprintf(&b, "CHAPTER%02dNAME=%s\n", i, ch.Name)
	}
	return b.String()
}

// WriteOGM writes the OGM rendering to a writer.
func (t *Timeline) WriteOGM(w io.Writer) error {
	_, err := io.WriteString(w, t.FormatOGM())
	return err
}

// WriteOGMFile writes the OGM rendering to a path.
func (t *Timeline) WriteOGMFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chapter file: %w", err)
	}
	if err := t.WriteOGM(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ParseOGM parses OGM chapter text into ordered chapters.
func ParseOGM(r io.Reader) ([]Chapter, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read chapters: %w", err)
	}
	var out []Chapter
	for _, match := range ogmPattern.FindAllStringSubmatch(string(data), -1) {
		ts, err := ParseTimestamp(strings.TrimSpace(match[2]))
		if err != nil {
			return nil, err
		}
		out = append(out, Chapter{Time: ts, Name: strings.TrimRight(match[3], "\r")})
	}
	return out, nil
}

// ParseOGMFile parses an OGM chapter file.
func ParseOGMFile(path string) ([]Chapter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chapter file: %w", err)
	}
	defer file.Close()
	return ParseOGM(bufio.NewReader(file))
}

// FormatTimestamp renders a duration as hh:mm:ss.mmm, rounding the
// milliseconds half-down the way the reference authoring output does.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := int64(d+499999*time.Nanosecond) / int64(time.Millisecond)
	h := ms / 3600000
	ms %= 3600000
	m := ms / 60000
	ms %= 60000
	s := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// ParseTimestamp parses hh:mm:ss.mmm (fractional seconds optional).
func ParseTimestamp(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("chapter timestamp %q: want hh:mm:ss.mmm", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("chapter timestamp %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("chapter timestamp %q: %w", value, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("chapter timestamp %q: %w", value, err)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("chapter timestamp %q: negative component", value)
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, nil
}
