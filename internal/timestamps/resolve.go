package timestamps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidSource is returned when a Source designates nothing usable.
var ErrInvalidSource = errors.New("timestamps: invalid source")

// Meta is the cached per-frame timing snapshot of a probed video. The
// videometa package provides the concrete implementation; the indirection
// keeps the probing collaborator a black box.
type Meta interface {
	PTSTicks() []int64
	FPSRational() Rational
	TimeScaleRational() Rational
}

// Prober turns a video path into per-frame timing metadata. Resolve calls it
// for paths that look like video files.
type Prober func(ctx context.Context, videoPath string) (Meta, error)

type sourceKind int

const (
	kindNone sourceKind = iota
	kindTimestamps
	kindMeta
	kindPath
	kindTicks
	kindRational
	kindString
	kindFloat
)

// Source designates where frame timing comes from. The zero value means
// "nothing supplied" and resolves to the NTSC film rate with a warning.
type Source struct {
	kind     sourceKind
	ts       Timestamps
	meta     Meta
	path     string
	ticks    []int64
	rational Rational
	str      string
	float    float64
}

// FromTimestamps wraps an already-built source; Resolve returns it unchanged.
func FromTimestamps(ts Timestamps) Source { return Source{kind: kindTimestamps, ts: ts} }

// FromMeta builds a source from cached video metadata.
func FromMeta(meta Meta) Source { return Source{kind: kindMeta, meta: meta} }

// FromPath designates a file: video files are probed, anything else is
// parsed as a timecode text file.
func FromPath(path string) Source { return Source{kind: kindPath, path: path} }

// FromTicks designates an explicit presentation-timestamp list.
func FromTicks(ticks []int64) Source { return Source{kind: kindTicks, ticks: ticks} }

// FromRational designates a constant frame rate.
func FromRational(fps Rational) Source { return Source{kind: kindRational, rational: fps} }

// FromString designates a numeric or "num/den" frame rate string.
func FromString(value string) Source { return Source{kind: kindString, str: value} }

// FromFloat designates an approximate frame rate; well-known broadcast rates
// snap to their exact rational forms.
func FromFloat(value float64) Source { return Source{kind: kindFloat, float: value} }

type resolveConfig struct {
	scale    Rational
	scaleSet bool
	rounding RoundingMethod
	logger   *slog.Logger
	quiet    bool
	prober   Prober
}

// ResolveOption adjusts Resolve behavior.
type ResolveOption func(*resolveConfig)

// WithTimeScale sets the tick rate for sources that need one. Without it the
// Matroska millisecond scale is assumed and a warning is logged.
func WithTimeScale(scale Rational) ResolveOption {
	return func(c *resolveConfig) {
		c.scale = scale
		c.scaleSet = true
	}
}

// WithRounding selects the tick synthesis rounding method.
func WithRounding(rounding RoundingMethod) ResolveOption {
	return func(c *resolveConfig) { c.rounding = rounding }
}

// WithLogger routes defaulting warnings to the given logger.
func WithLogger(logger *slog.Logger) ResolveOption {
	return func(c *resolveConfig) { c.logger = logger }
}

// WithProber supplies the video probing collaborator for path sources.
func WithProber(prober Prober) ResolveOption {
	return func(c *resolveConfig) { c.prober = prober }
}

// Quiet suppresses defaulting warnings.
func Quiet() ResolveOption {
	return func(c *resolveConfig) { c.quiet = true }
}

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".m2ts": true, ".ts": true,
	".avi": true, ".mov": true, ".webm": true, ".vob": true,
}

// Resolve turns a Source into concrete Timestamps following a fixed priority:
// already-built timestamps, cached metadata, video path, timecode file path,
// raw tick list, rational or numeric frame rate, and finally nothing, which
// falls back to 24000/1001 with a warning.
func Resolve(ctx context.Context, src Source, opts ...ResolveOption) (Timestamps, error) {
	cfg := resolveConfig{scale: ScaleMKV, rounding: RoundNearest}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch src.kind {
	case kindTimestamps:
		return src.ts, nil

	case kindMeta:
		return NewFixed(src.meta.PTSTicks(), src.meta.TimeScaleRational(), src.meta.FPSRational(), cfg.rounding)

	case kindPath:
		if _, err := os.Stat(src.path); err != nil {
			return nil, fmt.Errorf("timestamp source: %w", err)
		}
		if videoExtensions[strings.ToLower(filepath.Ext(src.path))] {
			if cfg.prober == nil {
				return nil, fmt.Errorf("%w: video path %q given but no prober configured", ErrInvalidSource, src.path)
			}
			meta, err := cfg.prober(ctx, src.path)
			if err != nil {
				return nil, fmt.Errorf("probe %s: %w", src.path, err)
			}
			return NewFixed(meta.PTSTicks(), meta.TimeScaleRational(), meta.FPSRational(), cfg.rounding)
		}
		return ParseTimecodeFile(src.path, cfg.scaleOrDefault(), cfg.rounding)

	case kindTicks:
		return NewFixed(src.ticks, cfg.scaleOrDefault(), Rational{}, cfg.rounding)

	case kindRational:
		return NewFPS(src.rational, cfg.scaleOrDefault(), cfg.rounding)

	case kindString:
		fps, err := ParseRational(src.str)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return NewFPS(fps, cfg.scaleOrDefault(), cfg.rounding)

	case kindFloat:
		fps, err := RationalFromFloat(src.float)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return NewFPS(fps, cfg.scaleOrDefault(), cfg.rounding)

	case kindNone:
		cfg.warn("no timestamp source supplied, assuming 24000/1001", slog.String("fps", RateNTSCFilm.String()))
		return NewFPS(RateNTSCFilm, cfg.scaleOrDefault(), cfg.rounding)

	default:
		return nil, fmt.Errorf("%w: unrecognized source kind", ErrInvalidSource)
	}
}

func (c *resolveConfig) scaleOrDefault() Rational {
	if !c.scaleSet {
		c.warn("no time scale supplied, assuming milliseconds", slog.String("scale", ScaleMKV.String()))
		c.scaleSet = true
		c.scale = ScaleMKV
	}
	return c.scale
}

func (c *resolveConfig) warn(msg string, attrs ...any) {
	if c.quiet {
		return
	}
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, attrs...)
}
