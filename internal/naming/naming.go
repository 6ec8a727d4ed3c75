// Package naming renders output file names from show/episode tokens.
//
// Templates use $show$ and $ep$ placeholders. Show names pass through title
// casing; the rendered result is sanitized so it is always a safe file name.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokens are the values substituted into a template.
type Tokens struct {
	Show    string
	Episode string
}

// Render substitutes tokens into the template and sanitizes the result.
// An empty template falls back to "$show$ - $ep$"; tokens without a value
// disappear along with their surrounding separators.
func Render(template string, tokens Tokens) string {
	if strings.TrimSpace(template) == "" {
		template = "$show$ - $ep$"
	}
	out := strings.ReplaceAll(template, "$show$", TitleCase(tokens.Show))
	out = strings.ReplaceAll(out, "$ep$", strings.TrimSpace(tokens.Episode))
	return Sanitize(out)
}

// TitleCase normalizes a show name: separators become spaces, words get
// title casing.
func TitleCase(name string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}

// Sanitize strips characters that are unsafe in file names and collapses
// leftover separator runs.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	out = strings.Trim(out, " -.")
	return out
}

// WithExtension appends an extension, replacing any the name already carries.
func WithExtension(name, ext string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if ext == "" {
		return name
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return name + ext
}
