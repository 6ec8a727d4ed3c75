// Package trim validates and canonicalizes trim ranges.
//
// A trim is a (start, end) pair of frame numbers or milliseconds where nil
// means "from the beginning" or "to the end" and negative values count back
// from a known total length. Normalize resolves a list of trims into
// absolute ranges, rejecting the ambiguous and the unresolvable.
package trim

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every rejection Normalize produces.
var ErrInvalid = errors.New("invalid trim")

// Trim is one range. Nil boundaries are open ("from the beginning" / "to the
// end"); negative values are relative to the total length.
type Trim struct {
	Start *int
	End   *int
}

// New builds a trim from two optional boundaries. Pass nil for an open side.
func New(start, end *int) Trim {
	return Trim{Start: start, End: end}
}

// Bound is a convenience for building trim literals: trim.New(trim.Bound(0), nil).
func Bound(v int) *int {
	return &v
}

// Normalize resolves trims into absolute ranges given the total length.
//
// Rules, applied per trim in order:
//   - an end of exactly 0 is ambiguous (use nil for "no trim") and rejected;
//   - a negative start on the first trim is rejected unless
//     allowNegativeStart, in which case it survives as-is to signal padding
//     before the real start;
//   - negative values require usesFrames (millisecond trims cannot be
//     relative) and a positive total to resolve against;
//   - remaining negative boundaries are resolved by adding total.
//
// The input is never mutated; the result preserves order.
func Normalize(trims []Trim, total int, usesFrames, allowNegativeStart bool) ([]Trim, error) {
	if len(trims) == 0 {
		return nil, fmt.Errorf("%w: no trims given", ErrInvalid)
	}

	out := make([]Trim, 0, len(trims))
	for index, t := range trims {
		if t.End != nil && *t.End == 0 {
			return nil, fmt.Errorf("%w: trim %d ends with 0, use nil for an open end", ErrInvalid, index)
		}

		negativeStart := t.Start != nil && *t.Start < 0
		negativeEnd := t.End != nil && *t.End < 0

		if negativeStart && index == 0 && !allowNegativeStart {
			return nil, fmt.Errorf("%w: the first trim cannot have a negative start", ErrInvalid)
		}

		if negativeStart || negativeEnd {
			if !usesFrames {
				return nil, fmt.Errorf("%w: trim %d uses a negative value, not allowed in millisecond mode", ErrInvalid, index)
			}
			if total <= 0 {
				return nil, fmt.Errorf("%w: trim %d uses a negative value but no total length is known", ErrInvalid, index)
			}
		}

		resolved := Trim{Start: copyBound(t.Start), End: copyBound(t.End)}
		if negativeEnd {
			*resolved.End = total + *t.End
		}
		if negativeStart && !(allowNegativeStart && index == 0) {
			*resolved.Start = total + *t.Start
		}
		out = append(out, resolved)
	}
	return out, nil
}

func copyBound(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
