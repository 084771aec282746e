package cpu

import (
	"github.com/famastefano/mips32r6sim/internal/bits"
	"github.com/famastefano/mips32r6sim/internal/cp0"
)

// Load/store helpers are grounded on original_source/src/cpu.cpp's
// op_byte/op_halfword/op_word templates. Every access consults
// c.modeAccessFlags() (kernel mode grants Kernel|Supervisor|User,
// user mode grants User only) rather than the source's own
// `running_mode() ? USER : KERNEL` ternary: running_mode() itself returns
// the nonzero USER or KERNEL access bit, so that ternary is always true and
// the source's load/store path ends up requesting USER access even while
// running in kernel mode — a bug that would make kseg0/kseg1 unreachable
// from loads/stores.

var byteShiftAlign = [4]uint32{0, 8, 16, 24}
var byteMaskAlign = [4]uint32{0xFFFF_FF00, 0xFFFF_00FF, 0xFF00_FFFF, 0x00FF_FFFF}

func (c *CPU) loadByte(word uint32, signExtend bool) {
	base, rt := bits.Rs(word), bits.Rt(word)
	if rt == 0 {
		return
	}
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))
	align := address & 0b11

	ptr := c.MMU.Access(address, c.modeAccessFlags())
	if ptr == nil {
		c.signalException(cp0.ExcAdEL, word, c.PC-4)
		return
	}

	b := *ptr >> byteShiftAlign[align] & 0xFF
	if signExtend {
		b = bits.SignExtend(b, 8)
	}
	c.GPR[rt] = b
}

func (c *CPU) storeByte(word uint32) {
	base, rt := bits.Rs(word), bits.Rt(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))
	align := address & 0b11

	ptr := c.MMU.Access(address, c.modeAccessFlags())
	if ptr == nil {
		c.signalException(cp0.ExcAdES, word, c.PC-4)
		return
	}

	*ptr = *ptr&byteMaskAlign[align] | c.GPR[rt]<<byteShiftAlign[align]
}

var halfShiftAlign = [3]uint32{0, 8, 16}
var halfMaskAlignStore = [3]uint32{0xFFFF_0000, 0xFF00_00FF, 0x0000_FFFF}

func (c *CPU) loadHalfword(word uint32, signExtend bool) {
	base, rt := bits.Rs(word), bits.Rt(word)
	if rt == 0 {
		return
	}
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))
	align := address & 0b11

	low := c.MMU.Access(address, c.modeAccessFlags())
	if low == nil {
		c.signalException(cp0.ExcAdEL, word, c.PC-4)
		return
	}

	var lowHalf, highHalf uint32
	if align == 3 {
		if address > 0xFFFF_FFFB {
			c.signalException(cp0.ExcDBE, word, c.PC-4)
			return
		}
		high := c.MMU.Access(address+4, c.modeAccessFlags())
		if high == nil {
			c.signalException(cp0.ExcAdEL, word, c.PC-4)
			return
		}
		highHalf = *high << 8 & 0xFF00
		lowHalf = *low >> 24 & 0x00FF
	} else {
		lowHalf = *low >> halfShiftAlign[align] & 0xFFFF
	}

	result := highHalf | lowHalf
	if signExtend {
		result = bits.SignExtend(result, 16)
	}
	c.GPR[rt] = result
}

func (c *CPU) storeHalfword(word uint32) {
	base, rt := bits.Rs(word), bits.Rt(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))
	align := address & 0b11

	lowHalf := c.GPR[rt] & 0xFFFF

	low := c.MMU.Access(address, c.modeAccessFlags())
	if low == nil {
		c.signalException(cp0.ExcAdES, word, c.PC-4)
		return
	}

	if align == 3 {
		if address > 0xFFFF_FFFB {
			c.signalException(cp0.ExcDBE, word, c.PC-4)
			return
		}
		high := c.MMU.Access(address+4, c.modeAccessFlags())
		if high == nil {
			c.signalException(cp0.ExcAdES, word, c.PC-4)
			return
		}
		*low = *low&0x00FF_FFFF | lowHalf<<24
		*high = *high&^uint32(0xFF) | lowHalf>>8
	} else {
		*low = *low&halfMaskAlignStore[align] | lowHalf<<halfShiftAlign[align]
	}
}

// loadWord/storeWord implement op_word's (rt, address, word) form, shared by
// lw/sw and the lwc1/ldc1/swc1/sdc1 scratch-register plumbing.
func (c *CPU) loadWord(rt, address, word uint32) {
	align := address & 0b11

	if align == 0 {
		ptr := c.MMU.Access(address, c.modeAccessFlags())
		if ptr == nil {
			c.signalException(cp0.ExcAdEL, word, c.PC-4)
			return
		}
		c.GPR[rt] = *ptr
		return
	}

	if address > 0xFFFF_FFFB {
		c.signalException(cp0.ExcDBE, word, c.PC-4)
		return
	}

	low := c.MMU.Access(address, c.modeAccessFlags())
	high := c.MMU.Access(address+4, c.modeAccessFlags())
	if low == nil || high == nil {
		c.signalException(cp0.ExcAdEL, word, c.PC-4)
		return
	}

	lowWord, highWord := *low, *high
	switch align {
	case 3:
		lowWord >>= 8
		fallthrough
	case 2:
		lowWord >>= 8
		fallthrough
	case 1:
		lowWord >>= 8
	}
	switch align {
	case 1:
		highWord <<= 8
		fallthrough
	case 2:
		highWord <<= 8
		fallthrough
	case 3:
		highWord <<= 8
	}
	c.GPR[rt] = highWord | lowWord
}

func (c *CPU) storeWord(rt, address, word uint32) {
	align := address & 0b11

	if align == 0 {
		ptr := c.MMU.Access(address, c.modeAccessFlags())
		if ptr == nil {
			c.signalException(cp0.ExcAdES, word, c.PC-4)
			return
		}
		*ptr = c.GPR[rt]
		return
	}

	if address > 0xFFFF_FFFB {
		c.signalException(cp0.ExcDBE, word, c.PC-4)
		return
	}

	low := c.MMU.Access(address, c.modeAccessFlags())
	high := c.MMU.Access(address+4, c.modeAccessFlags())
	if low == nil || high == nil {
		c.signalException(cp0.ExcAdES, word, c.PC-4)
		return
	}

	switch align {
	case 1:
		*low = *low&0xFF | c.GPR[rt]<<8
		*high = *high&^uint32(0xFF) | c.GPR[rt]>>24
	case 2:
		*low = *low&0xFFFF | c.GPR[rt]<<16
		*high = *high&^uint32(0xFFFF) | c.GPR[rt]>>16
	default: // 3
		*low = *low&0x00FF_FFFF | c.GPR[rt]<<24
		*high = *high&0xFF00_0000 | c.GPR[rt]>>8
	}
}

func (c *CPU) lb(word uint32)  { c.loadByte(word, true) }
func (c *CPU) lbu(word uint32) { c.loadByte(word, false) }
func (c *CPU) sb(word uint32)  { c.storeByte(word) }

func (c *CPU) lh(word uint32)  { c.loadHalfword(word, true) }
func (c *CPU) lhu(word uint32) { c.loadHalfword(word, false) }
func (c *CPU) sh(word uint32)  { c.storeHalfword(word) }

func (c *CPU) lw(word uint32) {
	rt := bits.Rt(word)
	if rt == 0 {
		return
	}
	address := c.GPR[bits.Rs(word)] + bits.SignExtend16(bits.Immediate(word))
	c.loadWord(rt, address, word)
}

func (c *CPU) sw(word uint32) {
	rt := bits.Rt(word)
	address := c.GPR[bits.Rs(word)] + bits.SignExtend16(bits.Immediate(word))
	c.storeWord(rt, address, word)
}

// lwc1/ldc1/swc1/sdc1 move data between RAM and the FPU via GPR[0..2] as
// scratch, the same trick original_source/src/cpu.cpp's lwc1/ldc1/swc1/sdc1
// use — but per spec.md §9, this port writes each as an independent,
// self-contained sequence rather than reusing the original's
// address-computed-without-gpr[_base] bug in lwc1/swc1 (there, `_base`, the
// register *index*, is added directly instead of `gpr[_base]`, the register
// *value*).
func (c *CPU) lwc1(word uint32) {
	ft := bits.Rt(word)
	base := bits.Rs(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))

	saved0 := c.GPR[0]
	c.loadWord(0, address, word)
	c.CP1.MTC1(ft, c.GPR[0])
	c.GPR[0] = saved0
}

func (c *CPU) swc1(word uint32) {
	ft := bits.Rt(word)
	base := bits.Rs(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))

	saved0 := c.GPR[0]
	c.GPR[0] = c.CP1.MFC1(ft)
	c.storeWord(0, address, word)
	c.GPR[0] = saved0
}

func (c *CPU) ldc1(word uint32) {
	ft := bits.Rt(word)
	base := bits.Rs(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))

	saved1, saved2 := c.GPR[1], c.GPR[2]
	c.loadWord(1, address, word)
	c.loadWord(2, address+4, word)
	c.CP1.MTC1(ft, c.GPR[1])
	c.CP1.MTHC1(ft, c.GPR[2])
	c.GPR[1], c.GPR[2] = saved1, saved2
}

func (c *CPU) sdc1(word uint32) {
	ft := bits.Rt(word)
	base := bits.Rs(word)
	address := c.GPR[base] + bits.SignExtend16(bits.Immediate(word))

	saved0 := c.GPR[0]
	c.GPR[0] = c.CP1.MFC1(ft)
	c.storeWord(0, address, word)
	c.GPR[0] = c.CP1.MFHC1(ft)
	c.storeWord(0, address+4, word)
	c.GPR[0] = saved0
}
