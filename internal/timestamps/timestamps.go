package timestamps

import (
	"errors"
	"fmt"
	"time"
)

// TimeType selects which edge of a frame a conversion refers to.
//
// An event starting at time t is first visible on the earliest frame whose
// presentation timestamp is >= t; an event ending at t is last visible on the
// latest frame presented strictly before t. Start/End conversions encode
// those two conventions.
type TimeType int

const (
	TimeStart TimeType = iota
	TimeEnd
)

// RoundingMethod controls how synthesized presentation timestamps are
// quantized to integer ticks. RoundNearest matches the Matroska muxer
// convention; RoundFloor is the strict non-compatible variant.
type RoundingMethod int

const (
	RoundNearest RoundingMethod = iota
	RoundFloor
)

// Precision values accepted by time conversions: centisecond quantization
// matches the ASS subtitle format, millisecond the Matroska one.
const (
	PrecisionCentisecond = 2
	PrecisionMillisecond = 3
)

// ErrNotMonotonic is returned when an explicit tick list decreases.
var ErrNotMonotonic = errors.New("timestamps: tick list is not monotonic")

// Timestamps converts between frame numbers and times. Implementations are
// immutable after construction and safe for concurrent use.
//
// Times are expressed in milliseconds quantized (by flooring) to the grid the
// precision argument selects, so quantized times never escape the frame
// interval they belong to.
type Timestamps interface {
	// PTS returns the presentation timestamp of a frame in time-scale ticks.
	// Negative frames are treated as frame 0.
	PTS(frame int) int64

	// FPS returns the frame rate the source was built with, or the rate
	// derived from its tick list.
	FPS() Rational

	// TimeScale returns the number of ticks per second.
	TimeScale() Rational

	// FrameToTime returns the time of a frame edge in milliseconds.
	FrameToTime(frame int, tt TimeType, precision int) int64

	// TimeToFrame returns the frame a time in milliseconds falls on, per the
	// TimeType conventions. For TimeEnd, a time at or before the first
	// frame's timestamp has no containing frame and yields -1.
	TimeToFrame(ms int64, tt TimeType) int

	// CenteredTime returns the midpoint between a frame edge and the next
	// one, in milliseconds. Authoring tools store these boundary-robust
	// times, so shifted subtitle lines use them too.
	CenteredTime(frame int, tt TimeType, precision int) int64
}

type fpsSource struct {
	fps      Rational
	scale    Rational
	rounding RoundingMethod
}

// NewFPS builds constant-frame-rate timestamps: frame 0 sits at time zero and
// every frame lasts exactly 1/fps seconds.
func NewFPS(fps, scale Rational, rounding RoundingMethod) (Timestamps, error) {
	if fps.Num <= 0 || fps.Den <= 0 {
		return nil, fmt.Errorf("timestamps: invalid fps %s", fps)
	}
	if scale.Num <= 0 || scale.Den <= 0 {
		return nil, fmt.Errorf("timestamps: invalid time scale %s", scale)
	}
	return &fpsSource{fps: fps, scale: scale, rounding: rounding}, nil
}

func (s *fpsSource) PTS(frame int) int64 {
	if frame < 0 {
		frame = 0
	}
	return synthTick(int64(frame), s.scale, s.fps, s.rounding)
}

func (s *fpsSource) FPS() Rational       { return s.fps }
func (s *fpsSource) TimeScale() Rational { return s.scale }

func (s *fpsSource) FrameToTime(frame int, tt TimeType, precision int) int64 {
	return frameToTime(s, frame, tt, precision)
}

func (s *fpsSource) TimeToFrame(ms int64, tt TimeType) int {
	return timeToFrame(s, ms, tt)
}

func (s *fpsSource) CenteredTime(frame int, tt TimeType, precision int) int64 {
	return centeredTime(s, frame, tt, precision)
}

type fixedSource struct {
	ticks    []int64
	fps      Rational
	scale    Rational
	rounding RoundingMethod
}

// NewFixed builds timestamps from an explicit per-frame tick list, exact for
// variable frame rate video. Frames past the end of the list extrapolate from
// the last tick at the given fps; when fps is zero it is derived from the
// list's overall span.
func NewFixed(ticks []int64, scale, fps Rational, rounding RoundingMethod) (Timestamps, error) {
	if len(ticks) == 0 {
		return nil, errors.New("timestamps: empty tick list")
	}
	if scale.Num <= 0 || scale.Den <= 0 {
		return nil, fmt.Errorf("timestamps: invalid time scale %s", scale)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] < ticks[i-1] {
			return nil, fmt.Errorf("%w: tick %d (%d) < tick %d (%d)", ErrNotMonotonic, i, ticks[i], i-1, ticks[i-1])
		}
	}
	if fps.IsZero() {
		fps = deriveFPS(ticks, scale)
	}
	if fps.Num <= 0 || fps.Den <= 0 {
		return nil, fmt.Errorf("timestamps: invalid fps %s", fps)
	}
	copied := make([]int64, len(ticks))
	copy(copied, ticks)
	return &fixedSource{ticks: copied, fps: fps, scale: scale, rounding: rounding}, nil
}

func deriveFPS(ticks []int64, scale Rational) Rational {
	span := ticks[len(ticks)-1] - ticks[0]
	if len(ticks) < 2 || span <= 0 {
		return RateNTSCFilm
	}
	return NewRational(int64(len(ticks)-1)*scale.Num, span*scale.Den)
}

func (s *fixedSource) PTS(frame int) int64 {
	if frame < 0 {
		frame = 0
	}
	if frame < len(s.ticks) {
		return s.ticks[frame]
	}
	past := int64(frame - (len(s.ticks) - 1))
	return s.ticks[len(s.ticks)-1] + synthTick(past, s.scale, s.fps, s.rounding)
}

func (s *fixedSource) FPS() Rational       { return s.fps }
func (s *fixedSource) TimeScale() Rational { return s.scale }

func (s *fixedSource) FrameToTime(frame int, tt TimeType, precision int) int64 {
	return frameToTime(s, frame, tt, precision)
}

func (s *fixedSource) TimeToFrame(ms int64, tt TimeType) int {
	return timeToFrame(s, ms, tt)
}

func (s *fixedSource) CenteredTime(frame int, tt TimeType, precision int) int64 {
	return centeredTime(s, frame, tt, precision)
}

// synthTick computes RM(n * scale / fps) in ticks for n frames.
func synthTick(n int64, scale, fps Rational, rounding RoundingMethod) int64 {
	num := n * scale.Num * fps.Den
	den := scale.Den * fps.Num
	if rounding == RoundNearest {
		return (2*num + den) / (2 * den)
	}
	return num / den
}

func frameToTime(ts Timestamps, frame int, tt TimeType, precision int) int64 {
	if frame < 0 {
		frame = 0
	}
	if tt == TimeEnd {
		frame++
	}
	return quantizeMilliseconds(ts.PTS(frame), ts.TimeScale(), precision)
}

// centeredTime places the returned time midway between the frame edge and
// the previous one, the boundary-robust convention authoring tools write.
// TimeToFrame maps such a time back to the exact same frame, which keeps a
// zero-frame shift idempotent.
func centeredTime(ts Timestamps, frame int, tt TimeType, precision int) int64 {
	if frame < 0 {
		frame = 0
	}
	scale := ts.TimeScale()
	var a, b int64
	if tt == TimeEnd {
		a, b = ts.PTS(frame), ts.PTS(frame+1)
	} else {
		if frame == 0 {
			return quantizeMilliseconds(ts.PTS(0), scale, precision)
		}
		a, b = ts.PTS(frame-1), ts.PTS(frame)
	}
	grid := precisionGrid(precision)
	return floorDiv((a+b)*1000*scale.Den, 2*scale.Num*grid) * grid
}

func timeToFrame(ts Timestamps, ms int64, tt TimeType) int {
	// Smallest frame whose exact PTS time is >= ms; the comparison is done
	// in cross-multiplied integer form so no precision is lost.
	scale := ts.TimeScale()
	atOrAfter := func(frame int) bool {
		return ts.PTS(frame)*1000*scale.Den >= ms*scale.Num
	}

	lo, hi := 0, 1
	for !atOrAfter(hi) {
		lo = hi
		hi *= 2
	}
	for lo < hi {
		mid := lo + (hi-lo)/2
		if atOrAfter(mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if tt == TimeStart {
		return lo
	}
	// TimeEnd: latest frame presented strictly before ms.
	return lo - 1
}

func quantizeMilliseconds(ticks int64, scale Rational, precision int) int64 {
	grid := precisionGrid(precision)
	return floorDiv(ticks*1000*scale.Den, scale.Num*grid) * grid
}

func precisionGrid(precision int) int64 {
	if precision <= PrecisionCentisecond {
		return 10
	}
	return 1
}

func floorDiv(num, den int64) int64 {
	q := num / den
	if (num%den != 0) && ((num < 0) != (den < 0)) {
		q--
	}
	return q
}

// MPLSToDuration converts a Blu-ray playlist timestamp (45 kHz clock) to a
// duration.
func MPLSToDuration(tick int64) time.Duration {
	return time.Duration(tick) * time.Second / 45000
}
