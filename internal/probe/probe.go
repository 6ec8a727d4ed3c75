// Package probe turns ffprobe container inspections into track listings.
//
// A Track is the slice of stream metadata that matters when deciding what to
// mux: index, type, codec, language, title, and the default/forced flags.
// Tracks lists everything; filters narrow by type, language, or name.
package probe

import (
	"context"
	"strings"

	"muxkit/internal/language"
	"muxkit/internal/media/ffprobe"
)

// TrackType classifies a stream.
type TrackType string

const (
	Video    TrackType = "video"
	Audio    TrackType = "audio"
	Subtitle TrackType = "subtitle"
)

// Track is one stream's muxing-relevant metadata.
type Track struct {
	Index    int
	Type     TrackType
	Codec    string
	Language string
	Name     string
	Default  bool
	Forced   bool
}

// LanguageName returns the human-readable language of the track.
func (t Track) LanguageName() string {
	return language.DisplayName(t.Language)
}

// File is a probed container with its track listing.
type File struct {
	Path   string
	Result ffprobe.Result
	Tracks []Track
}

// Inspect probes a container and parses its track listing.
func Inspect(ctx context.Context, binary, path string) (*File, error) {
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Result: result, Tracks: Tracks(result)}, nil
}

// Tracks extracts the track listing from an inspection result. Streams of
// unrecognized codec types (data, attachments) are skipped.
func Tracks(result ffprobe.Result) []Track {
	out := make([]Track, 0, len(result.Streams))
	for _, stream := range result.Streams {
		kind := TrackType(strings.ToLower(stream.CodecType))
		switch kind {
		case Video, Audio, Subtitle:
		default:
			continue
		}
		out = append(out, Track{
			Index:    stream.Index,
			Type:     kind,
			Codec:    stream.CodecName,
			Language: language.ToISO2(stream.Tags.Language),
			Name:     stream.Tags.Title,
			Default:  stream.Disposition.Default != 0,
			Forced:   stream.Disposition.Forced != 0,
		})
	}
	return out
}

// Filter narrows a track listing. Zero-valued fields match everything;
// language and name matching is case-insensitive, name matches substrings.
type Filter struct {
	Type     TrackType
	Language string
	Name     string
}

// Apply returns the tracks matching the filter, in listing order.
func (f Filter) Apply(tracks []Track) []Track {
	lang := language.ToISO2(f.Language)
	if lang == "" {
		lang = strings.ToLower(strings.TrimSpace(f.Language))
	}
	name := strings.ToLower(strings.TrimSpace(f.Name))

	var out []Track
	for _, track := range tracks {
		if f.Type != "" && track.Type != f.Type {
			continue
		}
		if lang != "" && track.Language != lang {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(track.Name), name) {
			continue
		}
		out = append(out, track)
	}
	return out
}
