package videometa

import (
	"context"
	"fmt"

	"muxkit/internal/media/ffprobe"
	"muxkit/internal/timestamps"
)

// FFProbe returns a ProbeFunc backed by ffprobe packet inspection. An empty
// binary falls back to "ffprobe" on PATH.
func FFProbe(binary string) ProbeFunc {
	return func(ctx context.Context, videoPath string) (*Meta, error) {
		timing, err := ffprobe.InspectTiming(ctx, binary, videoPath)
		if err != nil {
			return nil, err
		}

		// ffprobe reports the tick unit (e.g. 1/1000 of a second); the
		// snapshot stores its reciprocal, ticks per second.
		base, err := timestamps.ParseRational(timing.TimeBase)
		if err != nil {
			return nil, fmt.Errorf("video probe time base: %w", err)
		}
		if base.IsZero() {
			return nil, fmt.Errorf("video probe: unusable time base %q", timing.TimeBase)
		}
		scale := timestamps.NewRational(base.Den, base.Num)

		// VFR streams often report 0/0 here; a zero rate is fine, the
		// fixed source derives one from the tick span when needed.
		fps := timestamps.Rational{}
		if timing.AvgFrameRate != "" && timing.AvgFrameRate != "0/0" {
			fps, err = timestamps.ParseRational(timing.AvgFrameRate)
			if err != nil {
				return nil, fmt.Errorf("video probe frame rate: %w", err)
			}
		}

		meta := &Meta{PTS: timing.PTS, FPS: fps, TimeScale: scale}
		if err := meta.Validate(); err != nil {
			return nil, err
		}
		return meta, nil
	}
}
