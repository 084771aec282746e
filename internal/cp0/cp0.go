// Package cp0 implements Coprocessor 0, the MIPS32 system control
// coprocessor: privilege/exception state with field-level write masks.
//
// Grounded on original_source/include/mips32/cp0.hpp (register list) and
// src/cp0.cpp (reset defaults, read/write masks) — ported field-for-field,
// with mask application rewritten using explicit Go operator precedence
// (spec.md §9 flags the source's unparenthesized `&~|<<` sequences as a
// correctness hazard to not transliterate literally).
package cp0

// Exception cause codes (ExcCode field of Cause), per spec.md §4.6 / §7.
const (
	ExcInt  = 0x00
	ExcMod  = 0x01
	ExcTLBL = 0x02
	ExcTLBS = 0x03
	ExcAdEL = 0x04
	ExcAdES = 0x05
	ExcIBE  = 0x06
	ExcDBE  = 0x07
	ExcSys  = 0x08
	ExcBp   = 0x09
	ExcRI   = 0x0A
	ExcCpU  = 0x0B
	ExcOv   = 0x0C
	ExcTr   = 0x0D
	ExcFPE  = 0x0F
)

// Status register bit positions relevant to this simulator.
const (
	StatusIE  = 1 << 0
	StatusEXL = 1 << 1
	StatusERL = 1 << 2
	StatusKSU = 0x18 // bits [4:3]
)

// CP0 holds the architectural register file of Coprocessor 0.
type CP0 struct {
	UserLocal uint32 // (4,2)
	HWREna    uint32 // (7,0) read-only
	BadVAddr  uint32 // (8,0) read-only
	BadInstr  uint32 // (8,1) read-only
	Status    uint32 // (12,0)
	IntCtl    uint32 // (12,1)
	SRSCtl    uint32 // (12,2)
	Cause     uint32 // (13,0) read-only to software writes
	EPC       uint32 // (14,0)
	PRId      uint32 // (15,0) read-only
	EBase     uint32 // (15,1)
	Config    [5]uint32 // (16,0..4) read-only
	ErrorEPC  uint32    // (30,0)
	KScratch  [8]uint32 // (31,2..7)
}

// New constructs a CP0 with architectural reset defaults.
func New() *CP0 {
	c := &CP0{}
	c.Reset()
	return c
}

// Reset seeds the architectural defaults, matching
// original_source/src/cp0.cpp's CP0::reset().
func (c *CP0) Reset() {
	*c = CP0{}
	c.Status = 0x2440_0004
	c.IntCtl = 0xC000_0000
	c.EBase = 0x8000_0000
	c.Config[0] = 0x0000_0400
	c.Config[1] = 0x8000_0001
	c.Config[2] = 0x8000_0000
	c.Config[3] = 0x8C00_2000
	c.Config[4] = 0x00FF_0000
}

// Read returns the raw value of register (reg, sel).
func (c *CP0) Read(reg, sel uint32) uint32 {
	switch reg {
	case 4:
		if sel == 2 {
			return c.UserLocal
		}
	case 7:
		if sel == 0 {
			return c.HWREna
		}
	case 8:
		switch sel {
		case 0:
			return c.BadVAddr
		case 1:
			return c.BadInstr
		}
	case 12:
		switch sel {
		case 0:
			return c.Status
		case 1:
			return c.IntCtl
		case 2:
			return c.SRSCtl
		}
	case 13:
		if sel == 0 {
			return c.Cause
		}
	case 14:
		if sel == 0 {
			return c.EPC
		}
	case 15:
		switch sel {
		case 0:
			return c.PRId
		case 1:
			return c.EBase
		}
	case 16:
		if sel < 5 {
			return c.Config[sel]
		}
	case 30:
		if sel == 0 {
			return c.ErrorEPC
		}
	case 31:
		if sel > 1 && sel < 8 {
			return c.KScratch[sel]
		}
	}
	return 0
}

// statusWritableMask is the set of Status bits software can change via MTC0.
const statusWritableMask = 0x3040_FF13

// intCtlWritableMask is the IPTI field (bits [9:5]) of IntCtl.
const intCtlWritableMask = 0x3E0

// srsCtlWritableMask is the writable subset of SRSCtl.
const srsCtlWritableMask = 0xF3C0

// eBaseWritableMask is the writable subset of EBase, gated by its WG bit.
const eBaseWritableMask = 0x3FFF_F000

// Write enforces the field-level masks documented in spec.md §4.4. Writes
// to read-only registers/selects are silently ignored.
func (c *CP0) Write(reg, sel, data uint32) {
	switch reg {
	case 4:
		if sel == 2 {
			c.UserLocal = data
		}
	case 7:
		// hwr_ena: read-only
	case 8:
		// bad_vaddr, bad_instr: read-only
	case 12:
		switch sel {
		case 0:
			c.Status = (c.Status &^ statusWritableMask) | (data & statusWritableMask)
		case 1:
			level := data & intCtlWritableMask
			switch level >> 5 {
			case 0x01, 0x02, 0x04, 0x08, 0x10:
				c.IntCtl = (c.IntCtl &^ intCtlWritableMask) | level
			}
		case 2:
			c.SRSCtl = (c.SRSCtl &^ srsCtlWritableMask) | (data & srsCtlWritableMask)
		}
	case 13:
		// cause: read-only to software writes
	case 14:
		if sel == 0 {
			c.EPC = data
		}
	case 15:
		switch sel {
		case 0:
			// pr_id: read-only
		case 1:
			if c.EBase&(1<<11) != 0 { // WG bit
				c.EBase = (c.EBase &^ eBaseWritableMask) | (data & eBaseWritableMask)
			}
		}
	case 16:
		// config[0..4]: read-only
	case 30:
		if sel == 0 {
			c.ErrorEPC = data
		}
	case 31:
		if sel > 1 && sel < 8 {
			c.KScratch[sel] = data
		}
	}
}

// RunningModeKernel reports whether the processor is currently running in
// kernel mode: kernel iff Status.{EXL|ERL}!=0 OR KSU field == 0, per
// spec.md §4.6's mode-flag mapping.
func (c *CP0) RunningModeKernel() bool {
	if c.Status&(StatusEXL|StatusERL) != 0 {
		return true
	}
	return c.Status&StatusKSU == 0
}

// EnterKernelMode clears Status.KSU, per spec.md §4.6 step 3 (the literal
// C++ `status &= 0x18` is not replicated — see DESIGN.md / SPEC_FULL.md §9).
func (c *CP0) EnterKernelMode() {
	c.Status &^= StatusKSU
}

// EnterUserMode clears Status.{EXL,ERL} and sets KSU to the user value
// (0b10), per spec.md §4.6's ERET description (the literal C++
// `status |= 0x16` is not replicated — see DESIGN.md / SPEC_FULL.md §9).
func (c *CP0) EnterUserMode() {
	c.Status &^= StatusEXL | StatusERL
	c.Status = (c.Status &^ StatusKSU) | (0x02 << 3)
}

// setExcCode writes excCode into Cause bits [6:2].
func (c *CP0) setExcCode(excCode uint32) {
	c.Cause = (c.Cause &^ 0x7C) | ((excCode & 0x1F) << 2)
}

// SetBreakCause records a BREAK exception's cause code only, with none of
// SignalException's ErrorEPC/BadInstr/Status.EXL/kernel-mode/PC-retargeting side
// effects. Grounded on original_source/src/cpu.cpp's CPU::break_(), which
// calls set_ex_cause(Bp) directly and never calls signal_exception.
func (c *CP0) SetBreakCause() {
	c.setExcCode(ExcBp)
}

// ExceptionVector returns the fixed exception entry PC, spec.md §4.6 step 5.
func (c *CP0) ExceptionVector() uint32 {
	return (c.EBase & 0xFFFF_F000) + 0x180
}

// SignalException applies CP0 state transitions for a non-interrupt
// exception, per spec.md §4.6's signal_exception algorithm, and returns the
// new PC (the exception vector). faultingPC is the PC of the faulting
// instruction. MIPS32r6 has no branch delay slots (compact branches only),
// so Cause.BD is never set here.
func (c *CP0) SignalException(excCode uint32, faultingInstr, faultingPC uint32) uint32 {
	switch excCode {
	case ExcAdEL, ExcAdES:
		c.BadVAddr = faultingPC
	}
	c.BadInstr = faultingInstr
	c.ErrorEPC = faultingPC
	c.Status |= StatusEXL

	c.EnterKernelMode()
	c.setExcCode(excCode)

	return c.ExceptionVector()
}

// SignalInterrupt applies the interrupt-specific exception path: if
// interrupts are disabled or the processor is already in an exception
// level, the interrupt is silently ignored (per spec.md §4.6 step 1).
// Returns (newPC, delivered).
func (c *CP0) SignalInterrupt(faultingPC uint32) (uint32, bool) {
	if c.Status&StatusIE == 0 || c.Status&(StatusEXL|StatusERL) != 0 {
		return 0, false
	}
	c.EPC = faultingPC
	c.Status |= StatusEXL
	c.EnterKernelMode()
	c.setExcCode(ExcInt)
	return c.ExceptionVector(), true
}

// ERET applies the return-from-exception transition, per spec.md §4.6.
// Returns the PC to resume at.
func (c *CP0) ERET() uint32 {
	var target uint32
	if c.Status&StatusERL != 0 {
		target = c.ErrorEPC
	} else {
		target = c.EPC
	}
	c.EnterUserMode()
	return target
}
