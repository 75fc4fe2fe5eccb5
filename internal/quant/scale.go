package quant

import "math"

// Block scales are stored in a single metadata byte per block: an 8-bit
// minifloat with 4 exponent bits (bias 7) and 3 mantissa bits, no sign
// (scales are non-negative by construction). Representable range is
// about [2**-9, 480] with <= 1/16 relative error, which is plenty for a
// per-block magnitude. This is a private sidecar code, not an
// interchange format.

// scaleToCode rounds a non-negative scale to its 8-bit code.
func scaleToCode(s float32) uint8 {
	if s <= 0 || math.IsNaN(float64(s)) {
		return 0
	}
	bits := math.Float32bits(s)
	exp := int(bits>>23&0xff) - 127
	frac := bits & 0x7fffff
	e := exp + 7
	if e >= 16 {
		return 0x7f // clamp to max representable
	}
	if e <= 0 {
		// Subnormal range: value = m * 2**-9. Rounding can carry into
		// the smallest normal (m == 8 encodes as e=1, m=0), which the
		// bit layout yields for free.
		m := int(s*512 + 0.5)
		return uint8(m)
	}
	m := int((frac + 0x80000) >> 20) // round mantissa to 3 bits
	if m == 8 {
		m = 0
		e++
		if e >= 16 {
			return 0x7f
		}
	}
	return uint8(e<<3 | m)
}

// scaleFromCode decodes an 8-bit scale code.
func scaleFromCode(c uint8) float32 {
	e := int(c >> 3)
	m := int(c & 7)
	if e == 0 {
		return float32(m) * float32(math.Exp2(-9))
	}
	return float32(1+float64(m)/8) * float32(math.Exp2(float64(e-7)))
}
