package videometa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"muxkit/internal/timestamps"
)

const sidecarSuffix = ".meta.json"

// ProbeFunc extracts a timing snapshot from a video file.
type ProbeFunc func(ctx context.Context, videoPath string) (*Meta, error)

// SidecarPath returns where a video's cached metadata lives.
func SidecarPath(videoPath string) string {
	return videoPath + sidecarSuffix
}

// Load reads a snapshot from a side-car file.
func Load(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load video meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("load video meta %s: %w", path, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("load video meta %s: %w", path, err)
	}
	return &meta, nil
}

// WriteFile persists the snapshot. The write goes through a temp file and
// rename so readers never see a partial side-car.
func (m *Meta) WriteFile(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode video meta: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write video meta: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write video meta: %w", err)
	}
	return nil
}

// Ensure returns the video's timing snapshot, probing at most once. An
// existing side-car is reused; otherwise the probe runs under a file lock so
// concurrent callers generate the cache exactly once.
func Ensure(ctx context.Context, videoPath string, probe ProbeFunc, logger *slog.Logger) (*Meta, error) {
	if probe == nil {
		return nil, errors.New("video meta: no probe function")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video meta: %w", err)
	}

	sidecar := SidecarPath(videoPath)
	if meta, err := Load(sidecar); err == nil {
		logger.Debug("reusing cached video metadata", "path", sidecar, "frames", len(meta.PTS))
		return meta, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("discarding unreadable video metadata cache", "path", sidecar, "error", err)
	}

	lock := flock.New(sidecar + ".lock")
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("video meta lock: %w", err)
	}
	if !locked {
		return nil, errors.New("video meta lock: not acquired")
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	// Another process may have generated the cache while we waited.
	if meta, err := Load(sidecar); err == nil {
		return meta, nil
	}

	logger.Info("probing video timing", "path", videoPath)
	meta, err := probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if err := meta.WriteFile(sidecar); err != nil {
		return nil, err
	}
	logger.Debug("wrote video metadata cache", "path", sidecar, "frames", len(meta.PTS))
	return meta, nil
}

// Prober adapts Ensure into the resolver's probing collaborator.
func Prober(probe ProbeFunc, logger *slog.Logger) timestamps.Prober {
	return func(ctx context.Context, videoPath string) (timestamps.Meta, error) {
		return Ensure(ctx, videoPath, probe, logger)
	}
}
