package cp1

// CP1 is the MIPS32r6 floating-point unit: 32 FPRs plus FIR/FCSR.
type CP1 struct {
	fpr  [32]FPR
	fir  uint32
	fcsr uint32
}

// New constructs a CP1 with architectural reset defaults.
func New() *CP1 {
	c := &CP1{}
	c.Reset()
	return c
}

// Reset seeds FIR/FCSR to their architectural defaults, matching
// original_source/src/cp1.cpp's CP1::reset().
func (c *CP1) Reset() {
	c.fpr = [32]FPR{}
	c.fir = 0x00C30000  // HAS2008 | F64 | D | S
	c.fcsr = 0x010C0000 // FS | ABS2008 | NAN2008
}

// Read returns the value of an FPU control register (0=FIR, 26=FEXR,
// 28=FENR, 31=FCSR); any other register reads as 0.
func (c *CP1) Read(reg uint32) uint32 {
	switch reg {
	case 0:
		return c.fir
	case 31:
		return c.fcsr
	case 26:
		return c.fcsr & fexrMask
	case 28:
		return c.fcsr & fenrMask
	}
	return 0
}

// Write overwrites an FPU control register, applying the per-register mask;
// FIR is read-only. Any write touching the round-mode/flush-subnormal bits
// takes effect for the next arithmetic op (rounding is consulted per-call,
// see round.go).
func (c *CP1) Write(reg, data uint32) {
	switch reg {
	case 0:
		// fir: read-only
	case 31:
		c.fcsr = (c.fcsr &^ fcsrWritableMask) | (data & fcsrWritableMask)
	case 26:
		c.fcsr = (c.fcsr &^ fexrMask) | (data & fexrMask)
	case 28:
		c.fcsr = (c.fcsr &^ fenrMask) | (data & fenrMask)
	}
}

// MFC1 returns the low 32 bits of fpr[reg].
func (c *CP1) MFC1(reg uint32) uint32 { return c.fpr[reg].Raw32() }

// MFHC1 returns the high 32 bits of fpr[reg].
func (c *CP1) MFHC1(reg uint32) uint32 { return c.fpr[reg].Raw32High() }

// MTC1 overwrites the low 32 bits of fpr[reg].
func (c *CP1) MTC1(reg, word uint32) { c.fpr[reg].SetRaw32(word) }

// MTHC1 overwrites the high 32 bits of fpr[reg].
func (c *CP1) MTHC1(reg, word uint32) { c.fpr[reg].SetRaw32High(word) }

// FPRs exposes the register file for snapshot save/restore.
func (c *CP1) FPRs() *[32]FPR { return &c.fpr }

// FIR returns the fixed implementation register.
func (c *CP1) FIR() uint32 { return c.fir }

// FCSR returns the raw control/status register.
func (c *CP1) FCSR() uint32 { return c.fcsr }

// SetFIR / SetFCSR restore raw state (snapshot).
func (c *CP1) SetFIR(v uint32)  { c.fir = v }
func (c *CP1) SetFCSR(v uint32) { c.fcsr = v }

const (
	fmtSingle = 0x10
	fmtDouble = 0x11
	cmpFmtS   = 0x14
	cmpFmtD   = 0x15
)

func fmtOf(word uint32) uint32 { return word >> 21 & 0x1F }
func fd(word uint32) uint32    { return word >> 6 & 0x1F }
func fs(word uint32) uint32    { return word >> 11 & 0x1F }
func ft(word uint32) uint32    { return word >> 16 & 0x1F }
func function(word uint32) uint32 { return word & 0x3F }

// opResult is returned by every dispatched operation: trap reports whether
// the operation's unmasked exception(s) require a CPU-visible FPE trap;
// reserved reports a reserved-instruction signal (RI, not FPE).
type opResult struct {
	trap     bool
	reserved bool
}

type opFunc func(c *CP1, word uint32) opResult

// functionTable mirrors original_source/src/cp1.cpp's 64-entry
// CP1::function_table exactly, including its RESERVED/UNIMPLEMENTED slots
// (ROUND.L/TRUNC.L/CEIL.L/FLOOR.L/ROUND.W/TRUNC.W/CEIL.W/FLOOR.W/CVT.L/
// CVT.W/CVT.PS) — see SPEC_FULL.md §4.5 / DESIGN.md.
var functionTable = [64]opFunc{
	0:  (*CP1).opAdd,
	1:  (*CP1).opSub,
	2:  (*CP1).opMul,
	3:  (*CP1).opDiv,
	4:  (*CP1).opSqrt,
	5:  (*CP1).opAbs,
	6:  (*CP1).opMov,
	7:  (*CP1).opNeg,
	8:  (*CP1).opUnimplemented, // ROUND.L
	9:  (*CP1).opUnimplemented, // TRUNC.L
	10: (*CP1).opUnimplemented, // CEIL.L
	11: (*CP1).opUnimplemented, // FLOOR.L
	12: (*CP1).opUnimplemented, // ROUND.W
	13: (*CP1).opUnimplemented, // TRUNC.W
	14: (*CP1).opUnimplemented, // CEIL.W
	15: (*CP1).opUnimplemented, // FLOOR.W
	16: (*CP1).opSel,
	17: (*CP1).opReserved, // MOVCF [r6 removed]
	18: (*CP1).opReserved, // MOVZ  [r6 removed]
	19: (*CP1).opReserved, // MOVN  [r6 removed]
	20: (*CP1).opSeleqz,
	21: (*CP1).opRecip,
	22: (*CP1).opRsqrt,
	23: (*CP1).opSelnez,
	24: (*CP1).opMaddf,
	25: (*CP1).opMsubf,
	26: (*CP1).opRint,
	27: (*CP1).opClass,
	28: (*CP1).opMin,
	29: (*CP1).opMax,
	30: (*CP1).opMina,
	31: (*CP1).opMaxa,
	32: (*CP1).opCvtS,
	33: (*CP1).opCvtD,
	36: (*CP1).opUnimplemented, // CVT.L
	37: (*CP1).opUnimplemented, // CVT.W
	38: (*CP1).opUnimplemented, // CVT.PS
	// 40..55: the 16 MIPS32r6 CMP.condn.fmt predicates, grounded on
	// original_source/src/cp1.cpp's function_table tail (there named
	// cabs_af..cabs_sule): the quiet set (40..47) traps only on a
	// signaling NaN operand, the signaling set (48..55) traps on any NaN,
	// per spec.md §4.5. 56..63 are left RESERVED, matching the source.
	40: (*CP1).opCmpAf,
	41: (*CP1).opCmpUn,
	42: (*CP1).opCmpEq,
	43: (*CP1).opCmpUeq,
	44: (*CP1).opCmpLt,
	45: (*CP1).opCmpUlt,
	46: (*CP1).opCmpLe,
	47: (*CP1).opCmpUle,
	48: (*CP1).opCmpSaf,
	49: (*CP1).opCmpSun,
	50: (*CP1).opCmpSeq,
	51: (*CP1).opCmpSueq,
	52: (*CP1).opCmpSlt,
	53: (*CP1).opCmpSult,
	54: (*CP1).opCmpSle,
	55: (*CP1).opCmpSule,
}

// Execute dispatches word (a COP1 instruction with opcode 17) to its
// function-table entry. trap reports whether the CPU must raise FPE;
// reserved reports whether it must raise RI instead.
func (c *CP1) Execute(word uint32) (trap, reserved bool) {
	fn := functionTable[function(word)]
	if fn == nil {
		fn = (*CP1).opReserved
	}
	r := fn(c, word)
	return r.trap, r.reserved
}

func (c *CP1) opReserved(word uint32) opResult { return opResult{reserved: true} }

func (c *CP1) opUnimplemented(word uint32) opResult {
	c.setCause(ExcUnimplemen)
	return opResult{trap: true}
}
