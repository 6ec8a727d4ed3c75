package videometa

import (
	"encoding/json"
	"errors"
	"fmt"

	"muxkit/internal/timestamps"
)

// Meta is a video's cached per-frame timing snapshot.
type Meta struct {
	PTS       []int64
	FPS       timestamps.Rational
	TimeScale timestamps.Rational
}

// PTSTicks returns the ordered presentation timestamps.
func (m *Meta) PTSTicks() []int64 { return m.PTS }

// FPSRational returns the frame rate.
func (m *Meta) FPSRational() timestamps.Rational { return m.FPS }

// TimeScaleRational returns the tick rate in ticks per second.
func (m *Meta) TimeScaleRational() timestamps.Rational { return m.TimeScale }

// Validate checks the snapshot is usable as a timestamp source.
func (m *Meta) Validate() error {
	if len(m.PTS) == 0 {
		return errors.New("video meta: no timestamps")
	}
	for i := 1; i < len(m.PTS); i++ {
		if m.PTS[i] < m.PTS[i-1] {
			return fmt.Errorf("video meta: timestamps not monotonic at index %d", i)
		}
	}
	if m.TimeScale.IsZero() {
		return errors.New("video meta: missing time scale")
	}
	return nil
}

// Rationals cross the JSON boundary as exact num/den strings so no
// precision is lost to floating point.
type metaJSON struct {
	PTS       []int64 `json:"pts"`
	FPS       string  `json:"fps"`
	TimeScale string  `json:"timescale"`
}

func (m Meta) MarshalJSON() ([]byte, error) {
	fps := m.FPS.String()
	if m.FPS.IsZero() {
		fps = "0"
	}
	return json.Marshal(metaJSON{
		PTS:       m.PTS,
		FPS:       fps,
		TimeScale: m.TimeScale.String(),
	})
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	var payload metaJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("video meta: %w", err)
	}
	fps, err := timestamps.ParseRational(payload.FPS)
	if err != nil {
		return fmt.Errorf("video meta fps: %w", err)
	}
	scale, err := timestamps.ParseRational(payload.TimeScale)
	if err != nil {
		return fmt.Errorf("video meta timescale: %w", err)
	}
	m.PTS = payload.PTS
	m.FPS = fps
	m.TimeScale = scale
	return nil
}
