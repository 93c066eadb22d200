// Package coord implements planetary-scale world coordinates: an exact
// 128-bit millimeter integer type, and the floating-origin conversion
// contract used to hand positions to a 32-bit physics engine.
package coord

import (
	"fmt"
	"math/bits"
)

// Int128 is a signed 128-bit integer split into a two's-complement high
// and low half, mirroring the wire encoding (six i64: hi/lo per axis).
// Go has no native 128-bit integer; arithmetic is built on math/bits so
// the hot per-tick paths in this package never allocate.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128FromInt64 widens a plain int64 into an Int128.
func Int128FromInt64(v int64) Int128 {
	if v < 0 {
		return Int128{Hi: -1, Lo: uint64(v)}
	}
	return Int128{Hi: 0, Lo: uint64(v)}
}

// Add returns a + b.
func (a Int128) Add(b Int128) Int128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, _ := bits.Add64(uint64(a.Hi), uint64(b.Hi), carry)
	return Int128{Hi: int64(hi), Lo: lo}
}

// Sub returns a - b, exact and total within the addressable range.
func (a Int128) Sub(b Int128) Int128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, _ := bits.Sub64(uint64(a.Hi), uint64(b.Hi), borrow)
	return Int128{Hi: int64(hi), Lo: lo}
}

// Neg returns -a.
func (a Int128) Neg() Int128 {
	return Int128{}.Sub(a)
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Int128) Cmp(b Int128) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// IsZero reports whether a is exactly zero.
func (a Int128) IsZero() bool { return a.Hi == 0 && a.Lo == 0 }

// negative reports whether a represents a negative value.
func (a Int128) negative() bool { return a.Hi < 0 }

// Float64 converts a to the nearest representable float64. Values whose
// magnitude exceeds ~2^53 lose precision, as documented in the
// WorldPosition conversion contract — callers needing exact round-trips
// for such magnitudes should not go through this path.
func (a Int128) Float64() float64 {
	neg := a.negative()
	u := a
	if neg {
		u = a.Neg()
	}
	f := float64(u.Hi)*18446744073709551616.0 + float64(u.Lo)
	if neg {
		f = -f
	}
	return f
}

// Int128FromFloat64Round converts f to the nearest Int128, rounding to
// the nearest integer (ties away from zero), per the local_to_world
// round-to-nearest-mm contract.
func Int128FromFloat64Round(f float64) Int128 {
	neg := f < 0
	if neg {
		f = -f
	}
	hi := int64(f / 18446744073709551616.0)
	rem := f - float64(hi)*18446744073709551616.0
	lo := uint64(rem + 0.5)
	v := Int128{Hi: hi, Lo: lo}
	if neg {
		v = v.Neg()
	}
	return v
}

func (a Int128) String() string {
	if a.Hi == 0 {
		return fmt.Sprintf("%d", a.Lo)
	}
	return fmt.Sprintf("(hi=%d,lo=%d)", a.Hi, a.Lo)
}
