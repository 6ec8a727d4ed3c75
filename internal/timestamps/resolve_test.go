package timestamps_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"muxkit/internal/timestamps"
)

type stubMeta struct {
	ticks []int64
	fps   timestamps.Rational
	scale timestamps.Rational
}

func (m stubMeta) PTSTicks() []int64                      { return m.ticks }
func (m stubMeta) FPSRational() timestamps.Rational      { return m.fps }
func (m stubMeta) TimeScaleRational() timestamps.Rational { return m.scale }

func TestResolveDefaultsToNTSCFilmWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ts, err := timestamps.Resolve(context.Background(), timestamps.Source{}, timestamps.WithLogger(logger))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := ts.FPS(); got != timestamps.RateNTSCFilm {
		t.Fatalf("expected 24000/1001, got %v", got)
	}
	if !strings.Contains(buf.String(), "24000/1001") {
		t.Fatalf("expected a default fps warning, got %q", buf.String())
	}
}

func TestResolveQuietSuppressesWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := timestamps.Resolve(context.Background(), timestamps.Source{},
		timestamps.WithLogger(logger), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no warnings, got %q", buf.String())
	}
}

func TestResolvePassesThroughTimestamps(t *testing.T) {
	ts, err := timestamps.NewFPS(timestamps.RatePAL, timestamps.ScaleMKV, timestamps.RoundNearest)
	if err != nil {
		t.Fatalf("NewFPS: %v", err)
	}
	resolved, err := timestamps.Resolve(context.Background(), timestamps.FromTimestamps(ts), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved != ts {
		t.Fatal("expected the prebuilt source to be returned unchanged")
	}
}

func TestResolveFromMeta(t *testing.T) {
	meta := stubMeta{
		ticks: []int64{0, 42, 83},
		fps:   timestamps.RateNTSCFilm,
		scale: timestamps.ScaleMKV,
	}
	ts, err := timestamps.Resolve(context.Background(), timestamps.FromMeta(meta), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := ts.PTS(2); got != 83 {
		t.Fatalf("expected tick 83, got %d", got)
	}
}

func TestResolveFromString(t *testing.T) {
	ts, err := timestamps.Resolve(context.Background(), timestamps.FromString("30000/1001"), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := ts.FPS(); got != timestamps.RateNTSC {
		t.Fatalf("expected 30000/1001, got %v", got)
	}

	if _, err := timestamps.Resolve(context.Background(), timestamps.FromString("bogus"), timestamps.Quiet()); !errors.Is(err, timestamps.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := timestamps.Resolve(context.Background(), timestamps.FromPath("/nonexistent/timecodes.txt"), timestamps.Quiet())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestResolveTimecodePath(t *testing.T) {
	path := writeTimecodes(t, "timecodes.txt", "# timecode format v2\n0\n42\n83\n")
	ts, err := timestamps.Resolve(context.Background(), timestamps.FromPath(path), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := ts.PTS(1); got != 42 {
		t.Fatalf("expected tick 42, got %d", got)
	}
}

func TestResolveVideoPathUsesProber(t *testing.T) {
	video := writeTimecodes(t, "movie.mkv", "not really a video")

	var probed string
	prober := func(ctx context.Context, path string) (timestamps.Meta, error) {
		probed = path
		return stubMeta{ticks: []int64{0, 42}, fps: timestamps.RateNTSCFilm, scale: timestamps.ScaleMKV}, nil
	}

	ts, err := timestamps.Resolve(context.Background(), timestamps.FromPath(video),
		timestamps.WithProber(prober), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if probed != video {
		t.Fatalf("expected prober to receive %q, got %q", video, probed)
	}
	if got := ts.PTS(1); got != 42 {
		t.Fatalf("expected tick 42, got %d", got)
	}

	if _, err := timestamps.Resolve(context.Background(), timestamps.FromPath(video), timestamps.Quiet()); !errors.Is(err, timestamps.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource without a prober, got %v", err)
	}
}

func TestResolveTicks(t *testing.T) {
	ts, err := timestamps.Resolve(context.Background(), timestamps.FromTicks([]int64{0, 42, 83}), timestamps.Quiet())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := ts.PTS(2); got != 83 {
		t.Fatalf("expected tick 83, got %d", got)
	}
}
