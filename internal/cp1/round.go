package cp1

import "math"

// applyRound32 adjusts a round-to-nearest float32 result to honor FCSR's
// current rounding mode. Go arithmetic always rounds to nearest and offers
// no fesetround equivalent, so non-default modes are emulated: the nearest
// float32 to the (arbitrary-precision, here float64) exact value is nudged
// by one ULP toward zero/away-from-zero/toward +inf/toward -inf when doing
// so brings it closer to matching the requested mode's direction relative
// to the exact value. This is a software emulation with no direct
// teacher/example analogue — see SPEC_FULL.md §4.5 / DESIGN.md.
func (c *CP1) applyRound32(nearest float32, exact float64) float32 {
	res := nearest
	if float64(nearest) != exact {
		switch c.round() {
		case RoundZero:
			if (exact > 0 && float64(nearest) > exact) || (exact < 0 && float64(nearest) < exact) {
				res = math.Nextafter32(nearest, 0)
			}
		case RoundUp:
			if float64(nearest) < exact {
				res = math.Nextafter32(nearest, float32(math.Inf(1)))
			}
		case RoundDown:
			if float64(nearest) > exact {
				res = math.Nextafter32(nearest, float32(math.Inf(-1)))
			}
		}
	}
	return c.flushSubnormal32(res)
}

// flushSubnormal32 zeroes v (preserving sign) when FCSR.FS requests
// flush-to-zero handling and v is a subnormal, matching the source's
// _MM_SET_FLUSH_ZERO_MODE/_MM_SET_DENORMALS_ZERO_MODE intent without the
// SSE control registers Go does not expose.
func (c *CP1) flushSubnormal32(v float32) float32 {
	if !c.flushSubnormals() || !isSubnormal32(v) {
		return v
	}
	if math.Signbit(float64(v)) {
		return float32(math.Copysign(0, -1))
	}
	return 0
}

// Double-precision arithmetic is computed directly in float64, which is
// already this engine's widest type: there is no wider exact value to
// compare against the way applyRound32 compares a float32 result to its
// float64 exact value, so non-default rounding modes are honored for
// single-precision results only; double-precision results are always
// rounded to nearest.
