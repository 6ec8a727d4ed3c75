package chapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"muxkit/internal/timestamps"
)

// commandContext is swapped out by tests.
var commandContext = exec.CommandContext

// FromMKV extracts the chapter timeline embedded in a Matroska file by
// running mkvextract in simple (OGM) mode.
func FromMKV(ctx context.Context, binary, path string, ts timestamps.Timestamps) (*Timeline, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvextract"
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("chapters from mkv: empty path")
	}

	cmd := commandContext(ctx, binary, path, "chapters", "-s")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("mkvextract chapters: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	parsed, err := ParseOGM(&stdout)
	if err != nil {
		return nil, err
	}
	return FromChapters(ts, parsed), nil
}
