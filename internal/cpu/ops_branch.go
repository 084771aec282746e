package cpu

import (
	"github.com/famastefano/mips32r6sim/internal/bits"
	"github.com/famastefano/mips32r6sim/internal/cp0"
)

// j/jal: fixed jump. Target bits come from the low 26 bits of the
// instruction shifted left by 2; the top 4 bits of PC are preserved, per
// original_source/src/cpu.cpp's CPU::j/CPU::jal.
func (c *CPU) j(word uint32) {
	c.PC = c.PC&0xF000_0000 | word<<6>>4
}

func (c *CPU) jal(word uint32) {
	c.GPR[31] = c.PC + 4
	c.PC = c.PC&0xF000_0000 | word<<6>>4
}

func (c *CPU) beq(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] == c.GPR[rt] {
		c.PC += bits.SignExtend16(bits.Immediate(word)) << 2
	}
}

func (c *CPU) bne(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if c.GPR[rs] != c.GPR[rt] {
		c.PC += bits.SignExtend16(bits.Immediate(word)) << 2
	}
}

// pop06 covers BLEZALC/BGEZALC/BGEUC: all three unconditionally link
// gpr[31]=pc before testing their condition, per CPU::pop06().
func (c *CPU) pop06(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	c.GPR[31] = c.PC

	var cond bool
	switch {
	case rs == 0 && rt != 0: // BLEZALC
		cond = int32(c.GPR[rt]) <= 0
	case rs == rt && rt != 0: // BGEZALC
		cond = int32(c.GPR[rt]) >= 0
	case rs != rt && rs != 0 && rt != 0: // BGEUC
		cond = c.GPR[rs] >= c.GPR[rt]
	default:
		c.raiseRI(word)
		return
	}

	if cond {
		c.PC += imm
	}
}

// pop07 covers BGTZALC/BLTZALC/BLTUC, per CPU::pop07().
func (c *CPU) pop07(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	c.GPR[31] = c.PC

	var cond bool
	switch {
	case rs == 0 && rt != 0: // BGTZALC
		cond = int32(c.GPR[rt]) > 0
	case rs == rt && rt != 0: // BLTZALC
		cond = int32(c.GPR[rt]) < 0
	case rs != rt && rs != 0 && rt != 0: // BLTUC
		cond = c.GPR[rs] < c.GPR[rt]
	default:
		c.raiseRI(word)
		return
	}

	if cond {
		c.PC += imm
	}
}

// pop10 covers BEQZALC/BEQC/BOVC, per CPU::pop10(). BOVC's condition is a
// 33-bit unsigned-carry check, mirroring the ADD/SUB overflow rule.
func (c *CPU) pop10(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	var cond bool
	switch {
	case rs == 0 && rt != 0: // BEQZALC
		cond = c.GPR[rt] == 0
	case rs < rt && rs != 0 && rt != 0: // BEQC
		cond = c.GPR[rs] == c.GPR[rt]
	case rs >= rt: // BOVC
		_, overflow := bits.AddOverflow32(c.GPR[rs], c.GPR[rt])
		cond = overflow
	default:
		c.raiseRI(word)
		return
	}

	c.GPR[31] = c.PC
	if cond {
		c.PC += imm
	}
}

// pop26 covers BLEZC/BGEZC/BGEC; unlike pop06, gpr[31] is only written when
// the branch is actually taken, per CPU::pop26().
func (c *CPU) pop26(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	var cond bool
	switch {
	case rs == 0 && rt != 0: // BLEZC
		cond = int32(c.GPR[rt]) <= 0
	case rs == rt && rt != 0: // BGEZC
		cond = int32(c.GPR[rt]) >= 0
	case rs != rt && rs != 0 && rt != 0: // BGEC
		cond = int32(c.GPR[rs]) >= int32(c.GPR[rt])
	default:
		c.raiseRI(word)
		return
	}

	if cond {
		c.GPR[31] = c.PC
		c.PC += imm
	}
}

// pop27 covers BGTZC/BLTZC/BLTC, per CPU::pop27().
func (c *CPU) pop27(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	var cond bool
	switch {
	case rs == 0 && rt != 0: // BGTZC
		cond = int32(c.GPR[rt]) > 0
	case rs == rt && rt != 0: // BLTZC
		cond = int32(c.GPR[rt]) < 0
	case rs != rt && rs != 0 && rt != 0: // BLTC
		cond = int32(c.GPR[rs]) < int32(c.GPR[rt])
	default:
		c.raiseRI(word)
		return
	}

	if cond {
		c.GPR[31] = c.PC
		c.PC += imm
	}
}

// pop30 covers BNEC/BNEZALC/BNVC, per CPU::pop30(). BNEZALC links
// unconditionally (like pop06/07), the other two do not.
func (c *CPU) pop30(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	imm := bits.SignExtend16(bits.Immediate(word)) << 2

	switch {
	case rs < rt && rs != 0 && rt != 0: // BNEC
		if c.GPR[rs] != c.GPR[rt] {
			c.PC += imm
		}
	case rs < rt && rt != 0: // BNEZALC
		c.GPR[31] = c.PC
		if c.GPR[rt] != 0 {
			c.PC += imm
		}
	case rs >= rt: // BNVC
		_, overflow := bits.AddOverflow32(c.GPR[rs], c.GPR[rt])
		if !overflow {
			c.PC += imm
		}
	default:
		c.raiseRI(word)
	}
}

// bc is the unconditional compact branch with a 26-bit sign-extended,
// word-shifted target, per CPU::bc().
func (c *CPU) bc(word uint32) {
	c.PC += branchOffset26(word)
}

func (c *CPU) balc(word uint32) {
	offset := branchOffset26(word)
	c.GPR[31] = c.PC
	c.PC += offset
}

func branchOffset26(word uint32) uint32 {
	target := word & 0x03FF_FFFF
	if target&(1<<25) != 0 {
		return 0xF000_0000 | target<<2
	}
	return target << 2
}

// pop66 is BEQZC (rs!=0) or JIC (rs==0), per CPU::pop66().
func (c *CPU) pop66(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if rs != 0 { // BEQZC
		if c.GPR[rs] == 0 {
			imm := word & 0x1F_FFFF
			if imm&(1<<21) != 0 {
				imm |= 0xFFE0_0000
			}
			c.GPR[31] = c.PC
			c.PC += imm << 2
		}
		return
	}
	// JIC
	c.PC = c.GPR[rt] + bits.SignExtend16(bits.Immediate(word))
}

// pop76 is BNEZC (rs!=0) or JIALC (rs==0), per CPU::pop76().
func (c *CPU) pop76(word uint32) {
	rs, rt := bits.Rs(word), bits.Rt(word)
	if rs != 0 { // BNEZC
		if c.GPR[rs] != 0 {
			imm := word & 0x1F_FFFF
			if imm&(1<<21) != 0 {
				imm |= 0xFFE0_0000
			}
			c.GPR[31] = c.PC
			c.PC += imm << 2
		}
		return
	}
	// JIALC
	c.GPR[31] = c.PC
	c.PC = c.GPR[rt] + bits.SignExtend16(bits.Immediate(word))
}

/* REGIMM branches */

func (c *CPU) bltz(word uint32) {
	rs := bits.Rs(word)
	if int32(c.GPR[rs]) < 0 {
		c.PC += bits.SignExtend16(bits.Immediate(word)) << 2
	}
}

func (c *CPU) bgez(word uint32) {
	rs := bits.Rs(word)
	if int32(c.GPR[rs]) >= 0 {
		c.PC += bits.SignExtend16(bits.Immediate(word)) << 2
	}
}

func (c *CPU) nal(word uint32) {
	c.GPR[31] = c.PC + 4
}

func (c *CPU) bal(word uint32) {
	c.GPR[31] = c.PC + 4
	c.PC += bits.SignExtend16(bits.Immediate(word)) << 2
}

func (c *CPU) sigrie(word uint32) {
	c.signalException(cp0.ExcRI, word, c.PC-4)
}
