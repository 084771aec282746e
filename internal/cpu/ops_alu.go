package cpu

import (
	"github.com/famastefano/mips32r6sim/internal/bits"
	"github.com/famastefano/mips32r6sim/internal/cp0"
)

func (c *CPU) addiu(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	c.GPR[rt] = c.GPR[rs] + bits.SignExtend16(bits.Immediate(word))
}

func (c *CPU) slti(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if int32(c.GPR[rs]) < int32(bits.SignExtend16(bits.Immediate(word))) {
		c.GPR[rt] = 1
	} else {
		c.GPR[rt] = 0
	}
}

func (c *CPU) sltiu(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] < bits.SignExtend16(bits.Immediate(word)) {
		c.GPR[rt] = 1
	} else {
		c.GPR[rt] = 0
	}
}

func (c *CPU) andi(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	c.GPR[rt] = c.GPR[rs] & bits.Immediate(word)
}

func (c *CPU) ori(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	c.GPR[rt] = c.GPR[rs] | bits.Immediate(word)
}

func (c *CPU) xori(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	c.GPR[rt] = c.GPR[rs] ^ bits.Immediate(word)
}

func (c *CPU) aui(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	c.GPR[rt] = c.GPR[rs] + bits.Immediate(word)<<16
}

/* SPECIAL: shifts */

func (c *CPU) sll(word uint32) {
	rd, rt, shamt := bits.Rd(word), bits.Rt(word), bits.Shamt(word)
	c.GPR[rd] = c.GPR[rt] << shamt
}

// srl doubles as ROTR when bit 21 of the instruction is set, per
// original_source/src/cpu.cpp's CPU::srl().
func (c *CPU) srl(word uint32) {
	rd, rt, shamt := bits.Rd(word), bits.Rt(word), bits.Shamt(word)
	if word&(1<<21) != 0 { // ROTR
		c.GPR[rd] = c.GPR[rt]>>shamt | c.GPR[rt]<<(32-shamt)
	} else {
		c.GPR[rd] = c.GPR[rt] >> shamt
	}
}

func (c *CPU) sra(word uint32) {
	rd, rt, shamt := bits.Rd(word), bits.Rt(word), bits.Shamt(word)
	if c.GPR[rt]&0x8000_0000 != 0 {
		c.GPR[rd] = c.GPR[rt]>>shamt | uint32(0xFFFF_FFFF)<<(32-shamt)
	} else {
		c.GPR[rd] = c.GPR[rt] >> shamt
	}
}

func (c *CPU) sllv(word uint32) {
	rd, rt, rs := bits.Rd(word), bits.Rt(word), bits.Rs(word)
	c.GPR[rd] = c.GPR[rt] << c.GPR[rs]
}

func (c *CPU) lsa(word uint32) {
	rd, rt, rs := bits.Rd(word), bits.Rt(word), bits.Rs(word)
	shamt := bits.Shamt(word) + 1
	c.GPR[rd] = (c.GPR[rs] << shamt) + c.GPR[rt]
}

// srlv doubles as ROTRV when bit 6 is set, per CPU::srlv().
func (c *CPU) srlv(word uint32) {
	rd, rt, rs := bits.Rd(word), bits.Rt(word), bits.Rs(word)
	if word&(1<<6) != 0 { // ROTRV
		c.GPR[rd] = c.GPR[rt]>>c.GPR[rs] | c.GPR[rt]<<(32-c.GPR[rs])
	} else {
		c.GPR[rd] = c.GPR[rt] >> c.GPR[rs]
	}
}

func (c *CPU) srav(word uint32) {
	rd, rt, rs := bits.Rd(word), bits.Rt(word), bits.Rs(word)
	if c.GPR[rt]&0x8000_0000 != 0 {
		c.GPR[rd] = c.GPR[rt]>>c.GPR[rs] | uint32(0xFFFF_FFFF)<<(32-c.GPR[rs])
	} else {
		c.GPR[rd] = c.GPR[rt] >> c.GPR[rs]
	}
}

// jalr also serves as the r6 replacement for the removed JR (rd=$0 makes
// the link write a throwaway register), per spec.md §9.
func (c *CPU) jalr(word uint32) {
	rd, rs := bits.Rd(word), bits.Rs(word)
	c.GPR[rd] = c.PC + 4
	c.PC = c.GPR[rs]
}

func (c *CPU) clz(word uint32) {
	rd, rs := bits.Rd(word), bits.Rs(word)
	if rd == 0 {
		return
	}
	num := c.GPR[rs]
	var count uint32
	if num == 0 {
		count = 32
	} else {
		for num&0x8000_0000 == 0 {
			count++
			num <<= 1
		}
	}
	c.GPR[rd] = count
}

func (c *CPU) clo(word uint32) {
	rd, rs := bits.Rd(word), bits.Rs(word)
	if rd == 0 {
		return
	}
	num := c.GPR[rs]
	var count uint32
	for num&0x8000_0000 != 0 {
		count++
		num <<= 1
	}
	c.GPR[rd] = count
}

// sop30 is MUL ($fn=2) / MUH ($fn=3), per CPU::sop30().
func (c *CPU) sop30(word uint32) {
	const mul, muh = 0b00010, 0b00011
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	switch bits.Shamt(word) {
	case mul:
		c.GPR[rd] = uint32(int32(c.GPR[rs]) * int32(c.GPR[rt]))
	case muh:
		wide := int64(int32(c.GPR[rs])) * int64(int32(c.GPR[rt]))
		c.GPR[rd] = uint32(wide >> 32)
	default:
		c.raiseRI(word)
	}
}

// sop31 is MULU/MUHU, per CPU::sop31(). Both multiply as 64-bit unsigned
// values; the low/high half of the 64-bit product is kept as appropriate.
func (c *CPU) sop31(word uint32) {
	const mulu, muhu = 0b00010, 0b00011
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	switch bits.Shamt(word) {
	case mulu:
		wide := uint64(c.GPR[rs]) * uint64(c.GPR[rt])
		c.GPR[rd] = uint32(wide)
	case muhu:
		wide := uint64(c.GPR[rs]) * uint64(c.GPR[rt])
		c.GPR[rd] = uint32(wide >> 32)
	default:
		c.raiseRI(word)
	}
}

// sop32 is DIV/MOD, per CPU::sop32(). Division by zero leaves rd
// unmodified ("unpredictable" per the architecture, as the source comments).
func (c *CPU) sop32(word uint32) {
	const div, mod = 0b00010, 0b00011
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	switch bits.Shamt(word) {
	case div:
		if c.GPR[rt] != 0 {
			c.GPR[rd] = uint32(int32(c.GPR[rs]) / int32(c.GPR[rt]))
		}
	case mod:
		if c.GPR[rt] != 0 {
			c.GPR[rd] = uint32(int32(c.GPR[rs]) % int32(c.GPR[rt]))
		}
	default:
		c.raiseRI(word)
	}
}

// sop33 is DIVU/MODU. original_source/src/cpu.cpp's CPU::sop33() has a
// dangling-else bug where DIVU falls through to reserved unless the
// instruction is ALSO MODU; per spec.md §9 this is not replicated — DIVU
// and MODU are implemented as independent, correct branches.
func (c *CPU) sop33(word uint32) {
	const divu, modu = 0b00010, 0b00011
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	switch bits.Shamt(word) {
	case divu:
		if c.GPR[rt] != 0 {
			c.GPR[rd] = c.GPR[rs] / c.GPR[rt]
		}
	case modu:
		if c.GPR[rt] != 0 {
			c.GPR[rd] = c.GPR[rs] % c.GPR[rt]
		}
	default:
		c.raiseRI(word)
	}
}

// add/sub trap on a 33-bit unsigned-carry overflow and, when they do, leave
// rd untouched, per CPU::add()/CPU::sub().
func (c *CPU) add(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	sum, overflow := bits.AddOverflow32(c.GPR[rs], c.GPR[rt])
	if overflow {
		c.signalException(cp0.ExcOv, word, c.PC-4)
		return
	}
	c.GPR[rd] = sum
}

func (c *CPU) addu(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = c.GPR[rs] + c.GPR[rt]
}

func (c *CPU) sub(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	diff, overflow := bits.SubOverflow32(c.GPR[rs], c.GPR[rt])
	if overflow {
		c.signalException(cp0.ExcOv, word, c.PC-4)
		return
	}
	c.GPR[rd] = diff
}

func (c *CPU) subu(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = c.GPR[rs] - c.GPR[rt]
}

func (c *CPU) and_(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = c.GPR[rs] & c.GPR[rt]
}

func (c *CPU) or_(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = c.GPR[rs] | c.GPR[rt]
}

func (c *CPU) xor_(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = c.GPR[rs] ^ c.GPR[rt]
}

func (c *CPU) nor_(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	c.GPR[rd] = ^(c.GPR[rs] | c.GPR[rt])
}

func (c *CPU) slt(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	if int32(c.GPR[rs]) < int32(c.GPR[rt]) {
		c.GPR[rd] = 1
	} else {
		c.GPR[rd] = 0
	}
}

func (c *CPU) sltu(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] < c.GPR[rt] {
		c.GPR[rd] = 1
	} else {
		c.GPR[rd] = 0
	}
}

func (c *CPU) tge(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if int32(c.GPR[rs]) >= int32(c.GPR[rt]) {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) tgeu(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] >= c.GPR[rt] {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) tlt(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if int32(c.GPR[rs]) < int32(c.GPR[rt]) {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) tltu(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] < c.GPR[rt] {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) teq(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] == c.GPR[rt] {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) tne(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] != c.GPR[rt] {
		c.signalException(cp0.ExcTr, word, c.PC-4)
	}
}

func (c *CPU) seleqz(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	if c.GPR[rt] != 0 {
		c.GPR[rd] = 0
	} else {
		c.GPR[rd] = c.GPR[rs]
	}
}

func (c *CPU) selnez(word uint32) {
	rd, rs, rt := bits.Rd(word), bits.Rs(word), bits.Rt(word)
	if c.GPR[rt] != 0 {
		c.GPR[rd] = c.GPR[rs]
	} else {
		c.GPR[rd] = 0
	}
}

/* SPECIAL3: bitfield extract/insert */

func (c *CPU) ext(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	size := bits.Rd(word) + 1
	pos := bits.Shamt(word)

	leftShift := 32 - (pos + size)
	rightShift := leftShift + pos

	c.GPR[rt] = c.GPR[rs] << leftShift >> rightShift
}

func (c *CPU) ins(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	pos := bits.Shamt(word)
	size := bits.Rd(word) + 1 - pos

	mask := uint32(0xFFFF_FFFF) << (32 - size) >> (32 - size)

	c.GPR[rt] = (c.GPR[rt] &^ (mask << pos)) | (c.GPR[rs]&mask)<<pos
}
