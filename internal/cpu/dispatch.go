package cpu

import (
	"github.com/famastefano/mips32r6sim/internal/bits"
	"github.com/famastefano/mips32r6sim/internal/cp0"
)

type opFunc func(c *CPU, word uint32)

// topLevelTable mirrors original_source/src/cpu.hpp's 64-entry
// CPU::function_table, the opcode[31:26] dispatch. Slots the r6 ISA removed
// outright (COP2, COP1X, BEQL/BNEL, LWL/LWR, SPECIAL2, JALX, MSA, CACHE, LL,
// PREF, SC and the unused "beta" encodings) raise RESERVED, matching the
// source's own placement of &CPU::reserved in those slots.
var topLevelTable = [64]opFunc{
	0:  (*CPU).execSpecial,
	1:  (*CPU).execRegimm,
	2:  (*CPU).j,
	3:  (*CPU).jal,
	4:  (*CPU).beq,
	5:  (*CPU).bne,
	6:  (*CPU).pop06,
	7:  (*CPU).pop07,
	8:  (*CPU).pop10,
	9:  (*CPU).addiu,
	10: (*CPU).slti,
	11: (*CPU).sltiu,
	12: (*CPU).andi,
	13: (*CPU).ori,
	14: (*CPU).xori,
	15: (*CPU).aui,
	16: (*CPU).execCop0,
	17: (*CPU).execCop1,
	18: nil, // COP2 removed
	19: nil, // COP1X removed
	20: nil, // BEQL removed
	21: nil, // BNEL removed
	22: (*CPU).pop26,
	23: (*CPU).pop27,
	24: (*CPU).pop30,
	25: nil, // beta
	26: nil, // beta
	27: nil, // beta
	28: nil, // SPECIAL2 removed
	29: nil, // JALX removed
	30: nil, // MSA removed
	31: (*CPU).execSpecial3,
	32: (*CPU).lb,
	33: (*CPU).lh,
	34: nil, // LWL removed
	35: (*CPU).lw,
	36: (*CPU).lbu,
	37: (*CPU).lhu,
	38: nil, // LWR removed
	39: nil, // beta
	40: (*CPU).sb,
	41: (*CPU).sh,
	42: nil, // SWL removed
	43: (*CPU).sw,
	44: nil, // beta
	45: nil, // beta
	46: nil, // SWR removed
	47: nil, // CACHE removed
	48: nil, // LL removed
	49: (*CPU).lwc1,
	50: (*CPU).bc,
	51: nil, // PREF removed
	52: nil, // beta
	53: (*CPU).ldc1,
	54: (*CPU).pop66,
	55: nil, // beta
	56: nil, // SC removed
	57: (*CPU).swc1,
	58: (*CPU).balc,
	59: (*CPU).execPcrel,
	60: nil, // beta
	61: (*CPU).sdc1,
	62: (*CPU).pop76,
	63: nil, // beta
}

// specialTable mirrors original_source/src/cpu.cpp's special_fn_table, the
// SPECIAL opcode's function[5:0] dispatch.
var specialTable = [64]opFunc{
	0:  (*CPU).sll,
	1:  nil, // MOVCI removed
	2:  (*CPU).srl,
	3:  (*CPU).sra,
	4:  (*CPU).sllv,
	5:  (*CPU).lsa,
	6:  (*CPU).srlv,
	7:  (*CPU).srav,
	8:  nil, // JR removed; use JALR rd=$0
	9:  (*CPU).jalr,
	10: nil, // MOVZ removed
	11: nil, // MOVN removed
	12: (*CPU).syscall,
	13: (*CPU).execBreak,
	14: nil, // SDBBP removed
	15: nil, // SYNC removed
	16: (*CPU).clz,
	17: (*CPU).clo,
	18: nil, // MFLO removed
	19: nil, // MTLO removed
	24: (*CPU).sop30,
	25: (*CPU).sop31,
	26: (*CPU).sop32,
	27: (*CPU).sop33,
	32: (*CPU).add,
	33: (*CPU).addu,
	34: (*CPU).sub,
	35: (*CPU).subu,
	36: (*CPU).and_,
	37: (*CPU).or_,
	38: (*CPU).xor_,
	39: (*CPU).nor_,
	42: (*CPU).slt,
	43: (*CPU).sltu,
	48: (*CPU).tge,
	49: (*CPU).tgeu,
	50: (*CPU).tlt,
	51: (*CPU).tltu,
	52: (*CPU).teq,
	53: (*CPU).seleqz,
	54: (*CPU).tne,
	55: (*CPU).selnez,
}

func (c *CPU) execSpecial(word uint32) {
	if fn := specialTable[bits.Function(word)]; fn != nil {
		fn(c, word)
		return
	}
	c.raiseRI(word)
}

// execRegimm dispatches the REGIMM opcode's rt[20:16] field, per
// original_source/src/cpu.cpp's CPU::regimm().
func (c *CPU) execRegimm(word uint32) {
	switch bits.Rt(word) {
	case 0b00000:
		c.bltz(word)
	case 0b00001:
		c.bgez(word)
	case 0b10000:
		c.nal(word)
	case 0b10001:
		c.bal(word)
	case 0b10111:
		c.sigrie(word)
	default:
		c.raiseRI(word)
	}
}

// execSpecial3 dispatches EXT/INS, per CPU::special3().
func (c *CPU) execSpecial3(word uint32) {
	switch bits.Function(word) {
	case 0b000000:
		c.ext(word)
	case 0b000100:
		c.ins(word)
	default:
		c.raiseRI(word)
	}
}

// execCop0 dispatches the COP0 opcode, per CPU::cop0().
func (c *CPU) execCop0(word uint32) {
	rs := bits.Rs(word)
	if rs&0x10 != 0 {
		if bits.Function(word) == 0b011000 {
			c.eret(word)
		} else {
			c.raiseRI(word)
		}
		return
	}
	switch rs {
	case 0b00000:
		c.mfc0(word)
	case 0b00010:
		c.mfhc0(word)
	case 0b00100:
		c.mtc0(word)
	case 0b00110:
		c.mthc0(word)
	case 0b01011:
		c.mfmc0(word)
	default:
		c.raiseRI(word)
	}
}

// execCop1 dispatches the COP1 opcode: direct GPR<->FPR moves are handled
// here, everything else delegates to the FPU's own function table, per
// CPU::cop1().
func (c *CPU) execCop1(word uint32) {
	const (
		mfc1  = 0b00000
		mfhc1 = 0b00011
		mtc1  = 0b00100
		mthc1 = 0b00111
	)

	ft := bits.Rd(word)
	rt := bits.Rt(word)

	switch bits.Rs(word) {
	case mfc1:
		c.GPR[rt] = c.CP1.MFC1(ft)
	case mfhc1:
		c.GPR[rt] = c.CP1.MFHC1(ft)
	case mtc1:
		c.CP1.MTC1(ft, c.GPR[rt])
	case mthc1:
		c.CP1.MTHC1(ft, c.GPR[rt])
	default:
		trap, reserved := c.CP1.Execute(word)
		if reserved {
			c.raiseRI(word)
		} else if trap {
			c.signalException(cp0.ExcFPE, word, c.PC-4)
		}
	}
}

// execPcrel dispatches the PCREL opcode, per CPU::pcrel().
func (c *CPU) execPcrel(word uint32) {
	fnOpcode := word >> 16 & 0x1F

	switch {
	case fnOpcode == 0b11100 || fnOpcode == 0b11101:
		c.raiseRI(word)
	case fnOpcode == 0b11110:
		c.auipc(word)
	case fnOpcode == 0b11111:
		c.aluipc(word)
	default:
		switch fnOpcode >> 3 {
		case 0:
			c.addiupc(word)
		case 1:
			c.lwpc(word)
		case 2:
			c.lwupc(word)
		case 3:
			c.raiseRI(word) // LDPC removed
		}
	}
}
