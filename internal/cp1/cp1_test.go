package cp1

import (
	"math"
	"testing"
)

// encodeCop1 builds a COP1 function word with the given fmt/ft/fs/fd and
// funct fields; the opcode field is left zero here since CP1.Execute reads
// only fmt (the rs field), ft, fs, fd and funct, and cpu.execCop1 passes it
// the whole instruction word.
func encodeCop1(fmtBits, ft, fs, fd, funct uint32) uint32 {
	return fmtBits<<21 | ft<<16 | fs<<11 | fd<<6 | funct
}

// ADD.S f2, f0, f1 with f0=1.5, f1=2.25 expects f2=3.75, no trap.
func TestAddSingle(t *testing.T) {
	c := New()
	c.fpr[0].SetSingle(1.5)
	c.fpr[1].SetSingle(2.25)

	word := encodeCop1(fmtSingle, 1, 0, 2, 0) // funct 0 = add
	trap, reserved := c.Execute(word)
	if trap || reserved {
		t.Fatalf("ADD.S trapped=%v reserved=%v, want neither", trap, reserved)
	}
	if got := c.fpr[2].Single(); got != 3.75 {
		t.Errorf("f2 = %v, want 3.75", got)
	}
}

// DIV.S by zero sets FCSR's DIV0 cause and, with the trap enable bit unset,
// does not trap; the result is +Inf per IEEE-754.
func TestDivByZeroSetsCauseWithoutTrapWhenDisabled(t *testing.T) {
	c := New()
	c.fpr[0].SetSingle(1.0)
	c.fpr[1].SetSingle(0.0)

	word := encodeCop1(fmtSingle, 1, 0, 2, 3) // funct 3 = div
	trap, _ := c.Execute(word)
	if trap {
		t.Fatalf("DIV.S by zero trapped with DIV0 enable clear, want no trap")
	}
	if c.cause()&ExcDivByZero == 0 {
		t.Errorf("FCSR cause.DIV0 not set after division by zero")
	}
	if got := c.fpr[2].Single(); got != float32(math.Inf(1)) {
		t.Errorf("f2 = %v after 1/0, want +Inf", got)
	}
}

// Enabling a cause's matching enable bit turns the same fault into a trap.
func TestDivByZeroTrapsWhenEnabled(t *testing.T) {
	c := New()
	c.fcsr |= ExcDivByZero << 7 // set the enable field's matching bit
	c.fpr[0].SetSingle(1.0)
	c.fpr[1].SetSingle(0.0)

	word := encodeCop1(fmtSingle, 1, 0, 2, 3)
	trap, _ := c.Execute(word)
	if !trap {
		t.Errorf("DIV.S by zero did not trap with DIV0 enable set")
	}
}

// Reserved function codes removed for r6 (MOVCF/MOVZ/MOVN) report reserved,
// not trap.
func TestReservedFunctionCode(t *testing.T) {
	c := New()
	word := encodeCop1(fmtSingle, 0, 0, 0, 17) // MOVCF, r6-removed
	_, reserved := c.Execute(word)
	if !reserved {
		t.Errorf("function code 17 (MOVCF) not reported reserved")
	}
}

// CVT.L/CVT.W are left UNIMPLEMENTED dispatch slots per the source's own
// function_table and spec's explicit allowance.
func TestUnimplementedConversionTraps(t *testing.T) {
	c := New()
	word := encodeCop1(fmtSingle, 0, 0, 0, 36) // CVT.L
	trap, reserved := c.Execute(word)
	if reserved {
		t.Fatalf("CVT.L reported reserved, want unimplemented trap")
	}
	if !trap {
		t.Errorf("CVT.L did not trap, want Unimplemented trap")
	}
}

// CMP.LT.S sets the destination FPR's low 32 bits to all-ones/all-zeros per the
// boolean result, matching the r6 compare-into-FPR (not cc-flag) semantics.
func TestCompareLtSetsBooleanResult(t *testing.T) {
	c := New()
	c.fpr[0].SetSingle(1.0)
	c.fpr[1].SetSingle(2.0)

	word := encodeCop1(cmpFmtS, 1, 0, 3, 44) // CMP.LT.S, predicate 'lt'
	trap, reserved := c.Execute(word)
	if trap || reserved {
		t.Fatalf("CMP.LT.S trapped=%v reserved=%v", trap, reserved)
	}
	if got := c.fpr[3].Raw32(); got != 0xFFFF_FFFF {
		t.Errorf("f3 = %#x after true CMP.LT.S, want 0xFFFFFFFF", got)
	}
}
