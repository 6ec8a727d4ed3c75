package videometa_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"muxkit/internal/timestamps"
	"muxkit/internal/videometa"
)

func TestMetaJSONKeepsExactRationals(t *testing.T) {
	meta := videometa.Meta{
		PTS:       []int64{0, 42, 83, 125},
		FPS:       timestamps.RateNTSCFilm,
		TimeScale: timestamps.ScaleMKV,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if !strings.Contains(string(data), `"24000/1001"`) {
		t.Fatalf("expected fps encoded as exact fraction string, got %s", data)
	}
	if strings.Contains(string(data), "23.97") {
		t.Fatalf("expected no float frame rate in payload, got %s", data)
	}

	var back videometa.Meta
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if back.FPS != meta.FPS {
		t.Fatalf("expected fps %v back, got %v", meta.FPS, back.FPS)
	}
	if back.TimeScale != meta.TimeScale {
		t.Fatalf("expected timescale %v back, got %v", meta.TimeScale, back.TimeScale)
	}
	if len(back.PTS) != len(meta.PTS) || back.PTS[3] != 125 {
		t.Fatalf("expected timestamps preserved, got %v", back.PTS)
	}
}

func TestMetaJSONHandlesUnknownFPS(t *testing.T) {
	meta := videometa.Meta{
		PTS:       []int64{0, 40},
		TimeScale: timestamps.ScaleMKV,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var back videometa.Meta
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !back.FPS.IsZero() {
		t.Fatalf("expected zero fps back, got %v", back.FPS)
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mkv.meta.json")
	meta := &videometa.Meta{
		PTS:       []int64{0, 500, 1000},
		FPS:       timestamps.RatePAL,
		TimeScale: timestamps.ScaleM2TS,
	}
	if err := meta.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	loaded, err := videometa.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.TimeScale != timestamps.ScaleM2TS {
		t.Fatalf("expected 90kHz timescale back, got %v", loaded.TimeScale)
	}
}

func TestLoadRejectsBadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.meta.json")
	if err := os.WriteFile(path, []byte(`{"pts":[10,5],"fps":"25","timescale":"1000"}`), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if _, err := videometa.Load(path); err == nil {
		t.Fatal("expected error for non-monotonic timestamps")
	}
}

func TestEnsureProbesOnce(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("not really a video"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	calls := 0
	probe := func(ctx context.Context, path string) (*videometa.Meta, error) {
		calls++
		return &videometa.Meta{
			PTS:       []int64{0, 42, 83},
			FPS:       timestamps.RateNTSCFilm,
			TimeScale: timestamps.ScaleMKV,
		}, nil
	}

	first, err := videometa.Ensure(context.Background(), video, probe, nil)
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one probe call, got %d", calls)
	}
	if _, err := os.Stat(videometa.SidecarPath(video)); err != nil {
		t.Fatalf("expected side-car written beside video: %v", err)
	}

	second, err := videometa.Ensure(context.Background(), video, probe, nil)
	if err != nil {
		t.Fatalf("Ensure returned error on cached run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected cached run to skip probing, got %d calls", calls)
	}
	if second.FPS != first.FPS || len(second.PTS) != len(first.PTS) {
		t.Fatalf("expected identical snapshot from cache, got %+v", second)
	}
}

func TestEnsureInvalidatedByDeletingSidecar(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	calls := 0
	probe := func(ctx context.Context, path string) (*videometa.Meta, error) {
		calls++
		return &videometa.Meta{PTS: []int64{0, 40}, TimeScale: timestamps.ScaleMKV}, nil
	}

	if _, err := videometa.Ensure(context.Background(), video, probe, nil); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if err := os.Remove(videometa.SidecarPath(video)); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := videometa.Ensure(context.Background(), video, probe, nil); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected re-probe after cache deletion, got %d calls", calls)
	}
}

func TestEnsureMissingVideo(t *testing.T) {
	probe := func(ctx context.Context, path string) (*videometa.Meta, error) {
		t.Fatal("probe must not run for a missing video")
		return nil, nil
	}
	if _, err := videometa.Ensure(context.Background(), filepath.Join(t.TempDir(), "gone.mkv"), probe, nil); err == nil {
		t.Fatal("expected error for missing video")
	}
}

func TestProberFeedsResolver(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	probe := func(ctx context.Context, path string) (*videometa.Meta, error) {
		return &videometa.Meta{
			PTS:       []int64{0, 42, 83, 125},
			FPS:       timestamps.RateNTSCFilm,
			TimeScale: timestamps.ScaleMKV,
		}, nil
	}

	ts, err := timestamps.Resolve(context.Background(), timestamps.FromPath(video),
		timestamps.WithProber(videometa.Prober(probe, nil)),
		timestamps.WithTimeScale(timestamps.ScaleMKV),
	)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := ts.FrameToTime(2, timestamps.TimeStart, timestamps.PrecisionMillisecond); got != 83 {
		t.Fatalf("expected frame 2 at 83ms, got %d", got)
	}
}

func TestEnsureSurfacesProbeError(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(video, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	wantErr := errors.New("probe exploded")
	probe := func(ctx context.Context, path string) (*videometa.Meta, error) {
		return nil, wantErr
	}
	if _, err := videometa.Ensure(context.Background(), video, probe, nil); !errors.Is(err, wantErr) {
		t.Fatalf("expected probe error surfaced, got %v", err)
	}
	if _, err := os.Stat(videometa.SidecarPath(video)); err == nil {
		t.Fatal("expected no side-car after failed probe")
	}
}
