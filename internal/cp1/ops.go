package cp1

import "math"

// Each op below mirrors a handler in original_source/src/cp1.cpp's
// function_table (add/sub/mul/div/sqrt/abs/mov/neg/sel/seleqz/selnez/
// recip/rsqrt/maddf/msubf/rint/class_/min/max/mina/maxa/cvt_s/cvt_d/
// cmp_*), generalized over fmt (single vs double) the way the source's
// templated lambda-over-member-pointer pattern does.

func (c *CP1) opAdd(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		a, b := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		exact := float64(a) + float64(b)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || isNaN32(b), false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a, b := c.fpr[fsr].Double(), c.fpr[ftr].Double()
	res := a + b
	r := c.handleResult64(math.IsNaN(a) || math.IsNaN(b), false, math.IsInf(res, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0), false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opSub(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		a, b := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		exact := float64(a) - float64(b)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || isNaN32(b), false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a, b := c.fpr[fsr].Double(), c.fpr[ftr].Double()
	res := a - b
	r := c.handleResult64(math.IsNaN(a) || math.IsNaN(b), false, math.IsInf(res, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0), false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opMul(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		a, b := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		invalid := (math.IsInf(float64(a), 0) && b == 0) || (math.IsInf(float64(b), 0) && a == 0)
		exact := float64(a) * float64(b)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || isNaN32(b) || invalid, false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a, b := c.fpr[fsr].Double(), c.fpr[ftr].Double()
	invalid := (math.IsInf(a, 0) && b == 0) || (math.IsInf(b, 0) && a == 0)
	res := a * b
	r := c.handleResult64(math.IsNaN(a) || math.IsNaN(b) || invalid, false, math.IsInf(res, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0), false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opDiv(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		a, b := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		divByZero := b == 0 && !isNaN32(a) && a != 0
		invalid := (a == 0 && b == 0) || (math.IsInf(float64(a), 0) && math.IsInf(float64(b), 0))
		exact := float64(a) / float64(b)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || isNaN32(b) || invalid, divByZero && !invalid, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a, b := c.fpr[fsr].Double(), c.fpr[ftr].Double()
	divByZero := b == 0 && !math.IsNaN(a) && a != 0
	invalid := (a == 0 && b == 0) || (math.IsInf(a, 0) && math.IsInf(b, 0))
	res := a / b
	r := c.handleResult64(math.IsNaN(a) || math.IsNaN(b) || invalid, divByZero && !invalid, math.IsInf(res, 0) && !math.IsInf(a, 0), false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opSqrt(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		a := c.fpr[fsr].Single()
		invalid := a < 0 && !isNaN32(a)
		exact := math.Sqrt(float64(a))
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || invalid, false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a := c.fpr[fsr].Double()
	invalid := a < 0 && !math.IsNaN(a)
	res := math.Sqrt(a)
	r := c.handleResult64(math.IsNaN(a) || invalid, false, false, false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opAbs(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		c.fpr[fdr].SetSingle(float32(math.Abs(float64(c.fpr[fsr].Single()))))
	} else {
		c.fpr[fdr].SetDouble(math.Abs(c.fpr[fsr].Double()))
	}
	return opResult{}
}

func (c *CP1) opMov(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		c.fpr[fdr].SetSingle(c.fpr[fsr].Single())
	} else {
		c.fpr[fdr].SetDouble(c.fpr[fsr].Double())
	}
	return opResult{}
}

func (c *CP1) opNeg(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		c.fpr[fdr].SetSingle(-c.fpr[fsr].Single())
	} else {
		c.fpr[fdr].SetDouble(-c.fpr[fsr].Double())
	}
	return opResult{}
}

// opSel, opSeleqz, opSelnez: bit-test of fd's/ft's integer low bit gates
// the copy, per spec.md §4.5.
func (c *CP1) opSel(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if c.fpr[fdr].Raw64()&1 != 0 {
		c.fpr[fdr] = c.fpr[ftr]
	} else {
		c.fpr[fdr] = c.fpr[fsr]
	}
	return opResult{}
}

func (c *CP1) opSeleqz(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if c.fpr[ftr].Raw64()&1 != 0 {
		c.fpr[fdr].SetRaw64(0)
	} else {
		c.fpr[fdr] = c.fpr[fsr]
	}
	return opResult{}
}

func (c *CP1) opSelnez(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if c.fpr[ftr].Raw64()&1 != 0 {
		c.fpr[fdr] = c.fpr[fsr]
	} else {
		c.fpr[fdr].SetRaw64(0)
	}
	return opResult{}
}

func (c *CP1) opRecip(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		a := c.fpr[fsr].Single()
		exact := 1 / float64(a)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a), a == 0, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a := c.fpr[fsr].Double()
	res := 1 / a
	r := c.handleResult64(math.IsNaN(a), a == 0, false, false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opRsqrt(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		a := c.fpr[fsr].Single()
		exact := 1 / math.Sqrt(float64(a))
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(a) || a < 0, a == 0, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a := c.fpr[fsr].Double()
	res := 1 / math.Sqrt(a)
	r := c.handleResult64(math.IsNaN(a) || a < 0, a == 0, false, false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

// opMaddf: fd = fd + fs*ft. opMsubf: fd = fd - fs*ft, per spec.md §4.5.
func (c *CP1) opMaddf(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		s, t, d := c.fpr[fsr].Single(), c.fpr[ftr].Single(), c.fpr[fdr].Single()
		exact := float64(d) + float64(s)*float64(t)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(s) || isNaN32(t) || isNaN32(d), false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	s, t, d := c.fpr[fsr].Double(), c.fpr[ftr].Double(), c.fpr[fdr].Double()
	res := d + s*t
	r := c.handleResult64(math.IsNaN(s) || math.IsNaN(t) || math.IsNaN(d), false, false, false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opMsubf(word uint32) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		s, t, d := c.fpr[fsr].Single(), c.fpr[ftr].Single(), c.fpr[fdr].Single()
		exact := float64(d) - float64(s)*float64(t)
		res := c.applyRound32(float32(exact), exact)
		r := c.handleResult32(isNaN32(s) || isNaN32(t) || isNaN32(d), false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	s, t, d := c.fpr[fsr].Double(), c.fpr[ftr].Double(), c.fpr[fdr].Double()
	res := d - s*t
	r := c.handleResult64(math.IsNaN(s) || math.IsNaN(t) || math.IsNaN(d), false, false, false, false)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

func (c *CP1) opRint(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		a := c.fpr[fsr].Single()
		exact := float64(a)
		res := float32(math.RoundToEven(exact))
		r := c.handleResult32(isNaN32(a), false, res, exact)
		if !r.trap {
			c.fpr[fdr].SetSingle(res)
		}
		return r
	}
	a := c.fpr[fsr].Double()
	res := math.RoundToEven(a)
	r := c.handleResult64(math.IsNaN(a), false, false, false, res != a)
	if !r.trap {
		c.fpr[fdr].SetDouble(res)
	}
	return r
}

// class mask bits, per the MIPS32r6 CLASS.fmt 10-bit classification.
const (
	classSNaN        = 1 << 0
	classQNaN        = 1 << 1
	classNegInf      = 1 << 2
	classNegNormal   = 1 << 3
	classNegSubnorm  = 1 << 4
	classNegZero     = 1 << 5
	classPosInf      = 1 << 6
	classPosNormal   = 1 << 7
	classPosSubnorm  = 1 << 8
	classPosZero     = 1 << 9
)

func classifyFloat(v float64, isZero, isSubnormal, isNaN, isSignalingNaN bool) uint32 {
	neg := math.Signbit(v)
	switch {
	case isNaN:
		if isSignalingNaN {
			return classSNaN
		}
		return classQNaN
	case math.IsInf(v, 0):
		if neg {
			return classNegInf
		}
		return classPosInf
	case isZero:
		if neg {
			return classNegZero
		}
		return classPosZero
	case isSubnormal:
		if neg {
			return classNegSubnorm
		}
		return classPosSubnorm
	default:
		if neg {
			return classNegNormal
		}
		return classPosNormal
	}
}

func (c *CP1) opClass(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	if fmtOf(word) == fmtSingle {
		a := c.fpr[fsr].Single()
		mask := classifyFloat(float64(a), a == 0, isSubnormal32(a), isNaN32(a), false)
		c.fpr[fdr].SetSingle(math.Float32frombits(mask))
	} else {
		a := c.fpr[fsr].Double()
		mask := classifyFloat(a, a == 0, isSubnormal64(a), math.IsNaN(a), false)
		c.fpr[fdr].SetDouble(math.Float64frombits(uint64(mask)))
	}
	return opResult{}
}

func isSubnormal32(v float32) bool {
	bits := math.Float32bits(v)
	exp := bits >> 23 & 0xFF
	return exp == 0 && bits&0x7FFFFF != 0
}

func isSubnormal64(v float64) bool {
	bits := math.Float64bits(v)
	exp := bits >> 52 & 0x7FF
	return exp == 0 && bits&0xFFFFFFFFFFFFF != 0
}

// opMin/opMax: IEEE 754-2008 minNum/maxNum. opMina/opMaxa: magnitude
// variants, per spec.md §4.5.
func (c *CP1) opMin(word uint32) opResult { return c.minMax(word, false, false) }
func (c *CP1) opMax(word uint32) opResult { return c.minMax(word, true, false) }
func (c *CP1) opMina(word uint32) opResult { return c.minMax(word, false, true) }
func (c *CP1) opMaxa(word uint32) opResult { return c.minMax(word, true, true) }

func (c *CP1) minMax(word uint32, wantMax, byMagnitude bool) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	if fmtOf(word) == fmtSingle {
		a, b := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		if isNaN32(a) || isNaN32(b) {
			c.fpr[fdr].SetSingle(float32(math.NaN()))
			return c.routeException(ExcInvalid)
		}
		av, bv := float64(a), float64(b)
		if byMagnitude {
			av, bv = math.Abs(av), math.Abs(bv)
		}
		if (wantMax && av >= bv) || (!wantMax && av <= bv) {
			c.fpr[fdr].SetSingle(a)
		} else {
			c.fpr[fdr].SetSingle(b)
		}
		return opResult{}
	}
	a, b := c.fpr[fsr].Double(), c.fpr[ftr].Double()
	if math.IsNaN(a) || math.IsNaN(b) {
		c.fpr[fdr].SetDouble(math.NaN())
		return c.routeException(ExcInvalid)
	}
	av, bv := a, b
	if byMagnitude {
		av, bv = math.Abs(av), math.Abs(bv)
	}
	if (wantMax && av >= bv) || (!wantMax && av <= bv) {
		c.fpr[fdr].SetDouble(a)
	} else {
		c.fpr[fdr].SetDouble(b)
	}
	return opResult{}
}

func (c *CP1) opCvtS(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	// source is double (cvt.s.d); single-source conversions are handled by
	// dedicated W/L slots, which are UNIMPLEMENTED here (see SPEC_FULL.md).
	a := c.fpr[fsr].Double()
	exact := a
	res := c.applyRound32(float32(exact), exact)
	r := c.handleResult32(math.IsNaN(a), false, res, exact)
	if !r.trap {
		c.fpr[fdr].SetSingle(res)
	}
	return r
}

func (c *CP1) opCvtD(word uint32) opResult {
	fdr, fsr := fd(word), fs(word)
	a := c.fpr[fsr].Single()
	c.fpr[fdr].SetDouble(float64(a))
	return opResult{}
}

// Comparison predicates produce an all-ones or all-zeros mask in fd
// (32-bit for CMP_FMT_S, 64-bit for CMP_FMT_D), per spec.md §4.5. unordered
// reports whether the predicate itself is satisfied by an unordered
// (NaN-involving) pair — true for UN/UEQ/ULT/ULE (and their signaling
// counterparts), false for the ordered AF/EQ/LT/LE family; ordered pairs
// fall through to pred.
//
// signaling selects which operands trap: the quiet set (cmp.*) traps only
// on a signaling NaN operand, the signaling set (cmp.s*) traps on any NaN,
// matching original_source/src/cp1.cpp's is_SNaN/std::isnan guards and
// spec.md §4.5's documented routing.
func (c *CP1) cmp(word uint32, pred func(a, b float64) bool, unordered, signaling bool) opResult {
	fdr, fsr, ftr := fd(word), fs(word), ft(word)
	var a, b float64
	var sa, sb bool
	var isSingle bool
	switch fmtOf(word) {
	case cmpFmtS:
		isSingle = true
		av, bv := c.fpr[fsr].Single(), c.fpr[ftr].Single()
		a, b = float64(av), float64(bv)
		sa, sb = isSignalingNaN32(av), isSignalingNaN32(bv)
	default:
		a, b = c.fpr[fsr].Double(), c.fpr[ftr].Double()
		sa, sb = isSignalingNaN64(a), isSignalingNaN64(b)
	}

	anyNaN := math.IsNaN(a) || math.IsNaN(b)
	mustTrap := (signaling && anyNaN) || sa || sb
	if mustTrap {
		r := c.routeException(ExcInvalid)
		if r.trap {
			return r
		}
	}

	result := pred(a, b)
	if anyNaN {
		result = unordered
	}

	if isSingle {
		if result {
			c.fpr[fdr].SetRaw32(0xFFFFFFFF)
		} else {
			c.fpr[fdr].SetRaw32(0)
		}
	} else {
		if result {
			c.fpr[fdr].SetRaw64(0xFFFFFFFFFFFFFFFF)
		} else {
			c.fpr[fdr].SetRaw64(0)
		}
	}
	return opResult{}
}

func eq(a, b float64) bool { return a == b }
func lt(a, b float64) bool { return a < b }
func le(a, b float64) bool { return a <= b }
func alwaysFalse(a, b float64) bool { return false }

func (c *CP1) opCmpAf(word uint32) opResult  { return c.cmp(word, alwaysFalse, false, false) }
func (c *CP1) opCmpUn(word uint32) opResult  { return c.cmp(word, alwaysFalse, true, false) }
func (c *CP1) opCmpEq(word uint32) opResult  { return c.cmp(word, eq, false, false) }
func (c *CP1) opCmpUeq(word uint32) opResult { return c.cmp(word, eq, true, false) }
func (c *CP1) opCmpLt(word uint32) opResult  { return c.cmp(word, lt, false, false) }
func (c *CP1) opCmpUlt(word uint32) opResult { return c.cmp(word, lt, true, false) }
func (c *CP1) opCmpLe(word uint32) opResult  { return c.cmp(word, le, false, false) }
func (c *CP1) opCmpUle(word uint32) opResult { return c.cmp(word, le, true, false) }

func (c *CP1) opCmpSaf(word uint32) opResult  { return c.cmp(word, alwaysFalse, false, true) }
func (c *CP1) opCmpSun(word uint32) opResult  { return c.cmp(word, alwaysFalse, true, true) }
func (c *CP1) opCmpSeq(word uint32) opResult  { return c.cmp(word, eq, false, true) }
func (c *CP1) opCmpSueq(word uint32) opResult { return c.cmp(word, eq, true, true) }
func (c *CP1) opCmpSlt(word uint32) opResult  { return c.cmp(word, lt, false, true) }
func (c *CP1) opCmpSult(word uint32) opResult { return c.cmp(word, lt, true, true) }
func (c *CP1) opCmpSle(word uint32) opResult  { return c.cmp(word, le, false, true) }
func (c *CP1) opCmpSule(word uint32) opResult { return c.cmp(word, le, true, true) }

// isSignalingNaN32/64 classify a NaN by its IEEE-754 "is_quiet" mantissa
// MSB (set = quiet, clear = signaling). original_source's own is_SNaN
// compares a NaN against numeric_limits<T>::signaling_NaN() by value,
// which is unreliable once a NaN's payload is altered by arithmetic; this
// implementation inspects the quiet bit directly instead.
func isSignalingNaN32(v float32) bool {
	bits := math.Float32bits(v)
	return (bits&0x7F800000) == 0x7F800000 && bits&0x007FFFFF != 0 && bits&0x00400000 == 0
}

func isSignalingNaN64(v float64) bool {
	bits := math.Float64bits(v)
	return (bits&0x7FF0000000000000) == 0x7FF0000000000000 && bits&0xFFFFFFFFFFFFF != 0 && bits&0x0008000000000000 == 0
}
