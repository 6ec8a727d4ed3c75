package timestamps_test

import (
	"testing"
	"time"

	"muxkit/internal/timestamps"
)

func mustFPS(t *testing.T, fps, scale timestamps.Rational, rounding timestamps.RoundingMethod) timestamps.Timestamps {
	t.Helper()
	ts, err := timestamps.NewFPS(fps, scale, rounding)
	if err != nil {
		t.Fatalf("NewFPS: %v", err)
	}
	return ts
}

func TestFPSKnownBoundaries(t *testing.T) {
	ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleMKV, timestamps.RoundNearest)

	cases := []struct {
		frame int
		want  int64
	}{
		{0, 0},
		{1, 42},
		{2, 83},
		{3, 125},
		{24, 1001},
	}
	for _, tc := range cases {
		if got := ts.PTS(tc.frame); got != tc.want {
			t.Fatalf("PTS(%d): expected %d, got %d", tc.frame, tc.want, got)
		}
	}

	if got := ts.FrameToTime(0, timestamps.TimeEnd, timestamps.PrecisionMillisecond); got != 42 {
		t.Fatalf("expected end of frame 0 at 42ms, got %d", got)
	}
	if got := ts.FrameToTime(1, timestamps.TimeStart, timestamps.PrecisionCentisecond); got != 40 {
		t.Fatalf("expected centisecond quantization to floor 42 to 40, got %d", got)
	}
}

func TestFPSCenteredTime(t *testing.T) {
	ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleMKV, timestamps.RoundNearest)

	// Frame 0 has no previous edge; its start stays at the exact time.
	if got := ts.CenteredTime(0, timestamps.TimeStart, timestamps.PrecisionCentisecond); got != 0 {
		t.Fatalf("expected centered time 0, got %d", got)
	}
	// Frame 1 start: midway between edges 0 and 42ms, floored to centiseconds.
	if got := ts.CenteredTime(1, timestamps.TimeStart, timestamps.PrecisionCentisecond); got != 20 {
		t.Fatalf("expected centered time 20, got %d", got)
	}
	if got := ts.CenteredTime(1, timestamps.TimeStart, timestamps.PrecisionMillisecond); got != 21 {
		t.Fatalf("expected centered time 21, got %d", got)
	}
	// Frame 0 end: midway between edges 0 and 42ms.
	if got := ts.CenteredTime(0, timestamps.TimeEnd, timestamps.PrecisionCentisecond); got != 20 {
		t.Fatalf("expected centered end time 20, got %d", got)
	}

	// A centered time always maps back to the frame it was produced from.
	for frame := 1; frame < 2000; frame++ {
		start := ts.CenteredTime(frame, timestamps.TimeStart, timestamps.PrecisionCentisecond)
		if back := ts.TimeToFrame(start, timestamps.TimeStart); back != frame {
			t.Fatalf("centered start of frame %d (%dms) mapped back to %d", frame, start, back)
		}
		end := ts.CenteredTime(frame, timestamps.TimeEnd, timestamps.PrecisionCentisecond)
		if back := ts.TimeToFrame(end, timestamps.TimeEnd); back != frame {
			t.Fatalf("centered end of frame %d (%dms) mapped back to %d", frame, end, back)
		}
	}
}

func TestTimeToFrameConventions(t *testing.T) {
	ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleMKV, timestamps.RoundNearest)

	cases := []struct {
		ms   int64
		tt   timestamps.TimeType
		want int
	}{
		{0, timestamps.TimeStart, 0},
		{1, timestamps.TimeStart, 1},
		{41, timestamps.TimeStart, 1},
		{42, timestamps.TimeStart, 1},
		{43, timestamps.TimeStart, 2},
		{0, timestamps.TimeEnd, -1},
		{42, timestamps.TimeEnd, 0},
		{43, timestamps.TimeEnd, 1},
		{1001, timestamps.TimeEnd, 23},
	}
	for _, tc := range cases {
		if got := ts.TimeToFrame(tc.ms, tc.tt); got != tc.want {
			t.Fatalf("TimeToFrame(%d, %v): expected %d, got %d", tc.ms, tc.tt, tc.want, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleMKV, timestamps.RoundNearest)
	for frame := 0; frame < 5000; frame++ {
		ms := ts.FrameToTime(frame, timestamps.TimeStart, timestamps.PrecisionMillisecond)
		if back := ts.TimeToFrame(ms, timestamps.TimeStart); back != frame {
			t.Fatalf("round trip failed at frame %d: time %d mapped back to %d", frame, ms, back)
		}
	}
}

func TestMonotonic(t *testing.T) {
	for _, rounding := range []timestamps.RoundingMethod{timestamps.RoundNearest, timestamps.RoundFloor} {
		ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleMKV, rounding)
		prev := int64(-1)
		for frame := 0; frame < 2000; frame++ {
			ms := ts.FrameToTime(frame, timestamps.TimeStart, timestamps.PrecisionMillisecond)
			if ms < prev {
				t.Fatalf("rounding %v: frame %d time %d went below %d", rounding, frame, ms, prev)
			}
			prev = ms
		}
	}
}

func TestFixedSourceVFR(t *testing.T) {
	// Uneven spacing: a VFR timeline where frame 0 does not start at zero.
	ticks := []int64{500, 542, 583, 700, 742}
	ts, err := timestamps.NewFixed(ticks, timestamps.ScaleMKV, timestamps.RateNTSCFilm, timestamps.RoundNearest)
	if err != nil {
		t.Fatalf("NewFixed: %v", err)
	}

	if got := ts.PTS(3); got != 700 {
		t.Fatalf("expected tick 700, got %d", got)
	}
	// Times at or before the first tick have no containing end frame.
	if got := ts.TimeToFrame(500, timestamps.TimeEnd); got != -1 {
		t.Fatalf("expected -1 for time at first tick, got %d", got)
	}
	if got := ts.TimeToFrame(400, timestamps.TimeStart); got != 0 {
		t.Fatalf("expected frame 0 for time before first tick, got %d", got)
	}
	// Past the list the source extrapolates at the supplied fps.
	if got := ts.PTS(5); got != 742+42 {
		t.Fatalf("expected extrapolated tick %d, got %d", 742+42, got)
	}
}

func TestFixedRejectsNonMonotonic(t *testing.T) {
	_, err := timestamps.NewFixed([]int64{0, 42, 41}, timestamps.ScaleMKV, timestamps.Rational{}, timestamps.RoundNearest)
	if err == nil {
		t.Fatal("expected error for non-monotonic ticks")
	}
}

func TestM2TSScale(t *testing.T) {
	ts := mustFPS(t, timestamps.RateNTSCFilm, timestamps.ScaleM2TS, timestamps.RoundNearest)
	// One frame at 90kHz: 90000*1001/24000 = 3753.75 -> 3754 ticks.
	if got := ts.PTS(1); got != 3754 {
		t.Fatalf("expected 3754 ticks, got %d", got)
	}
	// Still 41ms after quantization.
	if got := ts.FrameToTime(1, timestamps.TimeStart, timestamps.PrecisionMillisecond); got != 41 {
		t.Fatalf("expected 41ms, got %d", got)
	}
}

func TestMPLSToDuration(t *testing.T) {
	if got := timestamps.MPLSToDuration(45000); got != time.Second {
		t.Fatalf("expected 1s, got %v", got)
	}
	if got := timestamps.MPLSToDuration(22500); got != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", got)
	}
}

func TestParseRational(t *testing.T) {
	cases := []struct {
		in   string
		want timestamps.Rational
	}{
		{"24000/1001", timestamps.Rational{24000, 1001}},
		{"24", timestamps.Rational{24, 1}},
		{"23.976", timestamps.Rational{2997, 125}},
		{"25", timestamps.Rational{25, 1}},
	}
	for _, tc := range cases {
		got, err := timestamps.ParseRational(tc.in)
		if err != nil {
			t.Fatalf("ParseRational(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRational(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "abc", "-24", "24/0"} {
		if _, err := timestamps.ParseRational(bad); err == nil {
			t.Fatalf("ParseRational(%q): expected error", bad)
		}
	}
}

func TestRationalFromFloatSnapsBroadcastRates(t *testing.T) {
	got, err := timestamps.RationalFromFloat(23.976)
	if err != nil {
		t.Fatalf("RationalFromFloat: %v", err)
	}
	if got != timestamps.RateNTSCFilm {
		t.Fatalf("expected 24000/1001, got %v", got)
	}
	got, err = timestamps.RationalFromFloat(25)
	if err != nil {
		t.Fatalf("RationalFromFloat: %v", err)
	}
	if (got != timestamps.Rational{25, 1}) {
		t.Fatalf("expected 25, got %v", got)
	}
}
