// Package fp implements a deterministic Q48.16 fixed-point scalar.
//
// Two peers running identical operation sequences on identical inputs must
// produce identical raw integers. That rules out float64/float32 anywhere in
// the arithmetic path: this package only ever adds, subtracts, and does
// integer multiply/divide on the underlying int64.
package fp

import (
	"fmt"
	"math/bits"
)

// FractionBits is the number of fractional bits (Q48.16).
const FractionBits = 16

const one = int64(1) << FractionBits

// Fixed is a signed fixed-point number with 16 fractional bits, stored as a
// raw int64. Overflow is wrapping and unchecked; callers are expected to
// keep logical values within roughly ±2^47 (dividends within ±2^30; see Div).
type Fixed int64

// Zero, One and Two are small integer constants used throughout the kernel.
var (
	Zero = Fixed(0)
	One  = FromInt(1)
	Two  = FromInt(2)
	Half = FromRaw(one / 2)
)

// FromInt converts an integer to fixed-point. Like a narrowing cast, bits
// that don't fit are truncated.
func FromInt(v int64) Fixed {
	return Fixed(v * one)
}

// FromFloat64 converts a float64 to fixed-point, rounding half-away-from-zero.
// Intended for test fixtures and tuning constants computed once at package
// init, never for per-tick simulation arithmetic.
func FromFloat64(v float64) Fixed {
	scaled := v * float64(one)
	if scaled >= 0 {
		return Fixed(int64(scaled + 0.5))
	}
	return Fixed(int64(scaled - 0.5))
}

// FromRaw constructs a Fixed from its raw underlying integer representation.
func FromRaw(raw int64) Fixed {
	return Fixed(raw)
}

// Raw returns the raw underlying integer representation. Used for wire
// (de)serialization and checksums; do not use it for arithmetic shortcuts.
func (f Fixed) Raw() int64 {
	return int64(f)
}

// Float64 converts back to a float64, for logging/debugging only.
func (f Fixed) Float64() float64 {
	return float64(f) / float64(one)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}

// Add returns f + other.
func (f Fixed) Add(other Fixed) Fixed {
	return f + other
}

// Sub returns f - other.
func (f Fixed) Sub(other Fixed) Fixed {
	return f - other
}

// Neg returns -f.
func (f Fixed) Neg() Fixed {
	return -f
}

// Abs returns the absolute value of f.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Mul multiplies two fixed-point values, rounding the last bit half-away-
// from-zero. Computes the doubled intermediate (a*b)/(2^15) and folds the
// extra bit back in, matching the reference fixed-point library's rounding
// rule exactly. The raw product is formed in 128 bits, so it cannot overflow
// before the shift.
func (f Fixed) Mul(other Fixed) Fixed {
	a, b := int64(f), int64(other)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = -ua
	}
	if b < 0 {
		ub = -ub
	}
	hi, lo := bits.Mul64(ua, ub)
	v := int64(hi<<(64-FractionBits+1) | lo>>(FractionBits-1))
	if (a < 0) != (b < 0) {
		v = -v
	}
	return Fixed(v/2 + v%2)
}

// Div divides f by other, rounding the last bit half-away-from-zero. Scales
// the numerator by 2^16 (doubled for rounding) before dividing. The scaled
// numerator is formed in int64, so it wraps once |f| reaches 2^30.
func (f Fixed) Div(other Fixed) Fixed {
	v := (int64(f) * one * 2) / int64(other)
	return Fixed(v/2 + v%2)
}

// Cmp returns -1, 0 or 1 as f is less than, equal to, or greater than other.
func (f Fixed) Cmp(other Fixed) int {
	switch {
	case f < other:
		return -1
	case f > other:
		return 1
	default:
		return 0
	}
}

func (f Fixed) LessThan(other Fixed) bool         { return f < other }
func (f Fixed) LessOrEqual(other Fixed) bool      { return f <= other }
func (f Fixed) GreaterThan(other Fixed) bool      { return f > other }
func (f Fixed) GreaterOrEqual(other Fixed) bool   { return f >= other }
func (f Fixed) Equal(other Fixed) bool            { return f == other }
func (f Fixed) IsZero() bool                      { return f == 0 }
func (f Fixed) IsNegative() bool                  { return f < 0 }

// Min returns the smaller of a and b.
func Min(a, b Fixed) Fixed {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Fixed) Fixed {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Fixed) Fixed {
	return Max(lo, Min(hi, v))
}

// Floor rounds down towards negative infinity, returning a whole-number
// Fixed value.
func (f Fixed) Floor() Fixed {
	raw := int64(f)
	if raw >= 0 || raw%one == 0 {
		return Fixed((raw / one) * one)
	}
	return Fixed((raw/one - 1) * one)
}

// MaxValue and MinValue bound the representable range of Fixed.
const (
	MaxValue = Fixed(1<<63 - 1)
	MinValue = Fixed(-1 << 63)
)

// Epsilon is a small tolerance value used by near-equality checks.
var Epsilon = FromRaw(1)
