package cp1

// FCSR exception bits, matching original_source/include/mips32/cp1.hpp's
// CP1::Exception enum.
const (
	ExcNone         uint32 = 0x00
	ExcInexact      uint32 = 0x01
	ExcUnderflow    uint32 = 0x02
	ExcOverflow     uint32 = 0x04
	ExcDivByZero    uint32 = 0x08
	ExcInvalid      uint32 = 0x10
	ExcUnimplemen   uint32 = 0x20
	ExcReserved     uint32 = 0xFFFFFFFF
)

// FCSR bit-field masks, per original_source/src/cp1.cpp's round()/flags()/
// enable()/cause() accessors, corrected for C++ operator-precedence bugs
// spec.md §9 flags (the source computes e.g. `fcsr & 0x7C >> 2`, where `>>`
// binds tighter than `&` in C++ and silently yields 0 for `flags()`; this
// implementation uses the documented bit positions with explicit Go
// precedence instead of transliterating the broken expression).
const (
	roundMask = 0x3         // bits [1:0]
	flagsMask = 0x7C        // bits [6:2]
	enableMask = 0xF80      // bits [11:7]
	causeMask = 0x3F000     // bits [17:12]

	fcsrFlushSubnormal = 1 << 24
	fcsrABS2008        = 1 << 19
	fcsrNaN2008        = 1 << 18

	fexrMask = 0x0003F07C
	fenrMask = 0x00000F87
	fcsrWritableMask = 0x0163FFFF
)

// Rounding modes, the RN field of FCSR.
const (
	RoundNearest = 0x0
	RoundZero    = 0x1
	RoundUp      = 0x2
	RoundDown    = 0x3
)

func (c *CP1) round() uint32  { return c.fcsr & roundMask }
func (c *CP1) flags() uint32  { return (c.fcsr & flagsMask) >> 2 }
func (c *CP1) enable() uint32 { return (c.fcsr & enableMask) >> 7 }
func (c *CP1) cause() uint32  { return (c.fcsr & causeMask) >> 12 }

func (c *CP1) setFlags(flag uint32) {
	c.fcsr |= (flag & 0x1F) << 2
}

func (c *CP1) setCause(ex uint32) {
	c.fcsr |= (ex & 0x3F) << 12
}

func (c *CP1) clearCause() {
	c.fcsr &^= causeMask
}

// flushSubnormals reports whether FCSR.FS requests flush-to-zero handling
// of subnormal operands/results.
func (c *CP1) flushSubnormals() bool {
	return c.fcsr&fcsrFlushSubnormal != 0
}
