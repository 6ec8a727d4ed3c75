package timestamps

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
)

// ParseTimecodeFile reads a v1/v2/v4 timecode text file and returns explicit
// per-frame timestamps. v2 and v4 files carry one timestamp in milliseconds
// per line; v1 files carry an assumed rate plus "start,end,fps" override
// ranges that are expanded to per-frame times.
func ParseTimecodeFile(path string, scale Rational, rounding RoundingMethod) (Timestamps, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timecode file: %w", err)
	}
	defer file.Close()

	if scale.Num <= 0 || scale.Den <= 0 {
		return nil, fmt.Errorf("timestamps: invalid time scale %s", scale)
	}

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read timecode file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("timecode file %s: empty", path)
	}

	header := strings.ToLower(lines[0])
	switch {
	case strings.Contains(header, "format v1"):
		return parseTimecodesV1(lines[1:], scale, rounding)
	case strings.Contains(header, "format v2"), strings.Contains(header, "format v4"):
		return parseTimecodesV2(lines[1:], scale, rounding)
	default:
		// Headerless files are treated as a bare v2 timestamp list.
		return parseTimecodesV2(lines, scale, rounding)
	}
}

func parseTimecodesV2(lines []string, scale Rational, rounding RoundingMethod) (Timestamps, error) {
	ticks := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ms, ok := new(big.Rat).SetString(line)
		if !ok {
			return nil, fmt.Errorf("timecode line %q: not a timestamp", line)
		}
		ticks = append(ticks, ratToTick(ms, scale, rounding))
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("timecode file has no timestamps")
	}
	return NewFixed(ticks, scale, Rational{}, rounding)
}

type v1Range struct {
	start, end int
	fps        *big.Rat
}

func parseTimecodesV1(lines []string, scale Rational, rounding RoundingMethod) (Timestamps, error) {
	var assume *big.Rat
	var ranges []v1Range

	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := cutPrefixFold(line, "assume"); ok {
			fps, parsed := new(big.Rat).SetString(strings.TrimSpace(rest))
			if !parsed || fps.Sign() <= 0 {
				return nil, fmt.Errorf("timecode line %q: invalid assumed fps", line)
			}
			assume = fps
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("timecode line %q: want start,end,fps", line)
		}
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("timecode line %q: %w", line, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("timecode line %q: %w", line, err)
		}
		fps, parsed := new(big.Rat).SetString(strings.TrimSpace(parts[2]))
		if !parsed || fps.Sign() <= 0 {
			return nil, fmt.Errorf("timecode line %q: invalid fps", line)
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("timecode line %q: invalid frame range", line)
		}
		ranges = append(ranges, v1Range{start: start, end: end, fps: fps})
	}

	if assume == nil {
		return nil, fmt.Errorf("timecode v1 file is missing an Assume line")
	}

	last := 0
	for _, r := range ranges {
		if r.end > last {
			last = r.end
		}
	}

	fpsAt := func(frame int) *big.Rat {
		for _, r := range ranges {
			if frame >= r.start && frame <= r.end {
				return r.fps
			}
		}
		return assume
	}

	// Frame f's time is the accumulated duration of frames 0..f-1, kept
	// exact with big.Rat so long VFR timelines do not drift.
	ticks := make([]int64, 0, last+2)
	elapsed := new(big.Rat)
	for frame := 0; frame <= last+1; frame++ {
		ticks = append(ticks, ratToTickSeconds(elapsed, scale, rounding))
		elapsed.Add(elapsed, new(big.Rat).Inv(fpsAt(frame)))
	}

	fps, err := ratToRational(assume)
	if err != nil {
		return nil, err
	}
	return NewFixed(ticks, scale, fps, rounding)
}

// ratToTick converts a time in milliseconds to scale ticks.
func ratToTick(ms *big.Rat, scale Rational, rounding RoundingMethod) int64 {
	seconds := new(big.Rat).Quo(ms, big.NewRat(1000, 1))
	return ratToTickSeconds(seconds, scale, rounding)
}

// ratToTickSeconds converts a time in seconds to scale ticks.
func ratToTickSeconds(seconds *big.Rat, scale Rational, rounding RoundingMethod) int64 {
	v := new(big.Rat).Mul(seconds, big.NewRat(scale.Num, scale.Den))
	num := new(big.Int).Set(v.Num())
	den := new(big.Int).Set(v.Denom())
	if rounding == RoundNearest {
		num.Mul(num, big.NewInt(2)).Add(num, den)
		den.Mul(den, big.NewInt(2))
	}
	return new(big.Int).Div(num, den).Int64()
}

func ratToRational(r *big.Rat) (Rational, error) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Rational{}, fmt.Errorf("timestamps: fps %s out of range", r)
	}
	return NewRational(r.Num().Int64(), r.Denom().Int64()), nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
