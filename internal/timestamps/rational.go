package timestamps

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rational is an exact fraction. Frame rates and time scales are kept as
// rationals throughout so that 24000/1001 never degrades to 23.976.
type Rational struct {
	Num int64
	Den int64
}

// Common frame rates and time scales.
var (
	RateNTSCFilm = Rational{24000, 1001}
	RateNTSC     = Rational{30000, 1001}
	RateFilm     = Rational{24, 1}
	RatePAL      = Rational{25, 1}

	// ScaleMKV is the Matroska default time scale (milliseconds).
	ScaleMKV = Rational{1000, 1}
	// ScaleM2TS is the MPEG transport stream 90 kHz clock.
	ScaleM2TS = Rational{90000, 1}
)

// NewRational returns num/den reduced to lowest terms.
func NewRational(num, den int64) Rational {
	return Rational{num, den}.reduce()
}

// ParseRational parses "24000/1001", "24", or "23.976" into an exact fraction.
// Decimal inputs become exact decimal fractions (23.976 -> 23976/1000 reduced).
func ParseRational(value string) (Rational, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Rational{}, fmt.Errorf("parse rational: empty value")
	}
	if num, den, ok := strings.Cut(value, "/"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("parse rational %q: %w", value, err)
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("parse rational %q: %w", value, err)
		}
		if d <= 0 || n < 0 {
			return Rational{}, fmt.Errorf("parse rational %q: must be positive", value)
		}
		return NewRational(n, d), nil
	}
	if whole, frac, ok := strings.Cut(value, "."); ok {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || w < 0 {
			return Rational{}, fmt.Errorf("parse rational %q: invalid number", value)
		}
		den := int64(1)
		for range frac {
			den *= 10
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("parse rational %q: invalid fraction", value)
		}
		return NewRational(w*den+f, den), nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return Rational{}, fmt.Errorf("parse rational %q: invalid number", value)
	}
	return Rational{n, 1}, nil
}

// RationalFromFloat approximates a float as a fraction. Well-known broadcast
// rates (23.976, 29.97, 59.94) map to their exact 1001-denominator forms.
func RationalFromFloat(value float64) (Rational, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Rational{}, fmt.Errorf("rational from float: invalid value %v", value)
	}
	known := []Rational{
		RateNTSCFilm, RateNTSC, {60000, 1001}, {120000, 1001},
	}
	for _, r := range known {
		if math.Abs(value-r.Float64()) < 1e-3 {
			return r, nil
		}
	}
	if value == math.Trunc(value) && value < float64(math.MaxInt64) {
		return Rational{int64(value), 1}, nil
	}
	// Continued-fraction expansion bounded to keep int64 math safe.
	const maxDen = 1000000
	var h0, h1 int64 = 0, 1
	var k0, k1 int64 = 1, 0
	x := value
	for i := 0; i < 32; i++ {
		a := int64(math.Floor(x))
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		return Rational{}, fmt.Errorf("rational from float: cannot approximate %v", value)
	}
	return NewRational(h1, k1), nil
}

// Float64 returns the fraction as a float. For display only; conversions
// always use the exact integer form.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders the fraction as "num/den", or just "num" when den is 1.
func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// IsZero reports whether the rational is the zero value.
func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

func (r Rational) reduce() Rational {
	if r.Den == 0 || r.Num == 0 {
		return r
	}
	g := gcd(r.Num, r.Den)
	return Rational{r.Num / g, r.Den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
