package cpu

import "github.com/famastefano/mips32r6sim/internal/bits"

func (c *CPU) mfc0(word uint32) {
	rd, rt := bits.Rd(word), bits.Rt(word)
	sel := word & 0x7
	c.GPR[rt] = c.CP0.Read(rd, sel)
}

// mfhc0 always reads as 0: this simulator's CP0 registers are all 32-bit,
// per original_source/src/cpu.cpp's CPU::mfhc0().
func (c *CPU) mfhc0(word uint32) {
	rt := bits.Rt(word)
	c.GPR[rt] = 0
}

func (c *CPU) mtc0(word uint32) {
	rd, rt := bits.Rd(word), bits.Rt(word)
	sel := word & 0x7
	c.CP0.Write(rd, sel, c.GPR[rt])
}

// mthc0 is a no-op, mirroring mfhc0's reasoning.
func (c *CPU) mthc0(word uint32) {}

// mfmc0 reads Status into rt and, per bit 5 of the instruction word, sets
// or clears Status.IE, per CPU::mfmc0().
func (c *CPU) mfmc0(word uint32) {
	rt := bits.Rt(word)
	enableInterrupt := word&(1<<5) != 0

	c.GPR[rt] = c.CP0.Status
	if enableInterrupt {
		c.CP0.Status |= 1
	} else {
		c.CP0.Status &^= 1
	}
}

func (c *CPU) eret(word uint32) {
	c.PC = c.CP0.ERET()
}

/* PCREL */

func (c *CPU) auipc(word uint32) {
	rs := bits.Rs(word)
	c.GPR[rs] = c.PC - 4 + bits.Immediate(word)<<16
}

func (c *CPU) aluipc(word uint32) {
	rs := bits.Rs(word)
	c.GPR[rs] = ^uint32(0xFFFF) & (c.PC + bits.Immediate(word)<<16)
}

func (c *CPU) addiupc(word uint32) {
	rs := bits.Rs(word)
	c.GPR[rs] = c.PC - 4 + bits.SignExtend16(bits.Immediate(word))<<2
}

func (c *CPU) lwpc(word uint32) {
	rs := bits.Rs(word)
	address := (word & 0x000F_FFFF) << 2
	if address&0x0020_0000 != 0 {
		address |= 0xFFC0_0000
	}
	address += c.PC - 4
	c.loadWord(rs, address, word)
}

func (c *CPU) lwupc(word uint32) {
	rs := bits.Rs(word)
	address := (c.PC - 4) + (word&0x000F_FFFF)<<2
	c.loadWord(rs, address, word)
}
