package cp0

import "testing"

// ∀ writes to status via MTC0 with data d: resulting value =
// (old &^ mask) | (d & mask), mask = 0x3040FF13.
func TestStatusWriteMask(t *testing.T) {
	c := New()
	old := c.Status
	c.Write(12, 0, 0xFFFF_FFFF)

	want := (old &^ statusWritableMask) | (0xFFFF_FFFF & statusWritableMask)
	if c.Status != want {
		t.Errorf("Status = %#x, want %#x", c.Status, want)
	}
}

// ∀ writes to cause/hwr_ena/bad_*/pr_id/config[*] via MTC0: the register is
// unchanged.
func TestReadOnlyRegistersRejectWrites(t *testing.T) {
	c := New()
	cause, hwrEna, badVAddr, badInstr, prID := c.Cause, c.HWREna, c.BadVAddr, c.BadInstr, c.PRId
	config := c.Config

	c.Write(13, 0, 0xDEAD_BEEF) // cause
	c.Write(7, 0, 0xDEAD_BEEF)  // hwr_ena
	c.Write(8, 0, 0xDEAD_BEEF)  // bad_vaddr
	c.Write(8, 1, 0xDEAD_BEEF)  // bad_instr
	c.Write(15, 0, 0xDEAD_BEEF) // pr_id
	for sel := uint32(0); sel < 5; sel++ {
		c.Write(16, sel, 0xDEAD_BEEF) // config[sel]
	}

	if c.Cause != cause {
		t.Errorf("Cause changed: %#x -> %#x", cause, c.Cause)
	}
	if c.HWREna != hwrEna {
		t.Errorf("HWREna changed: %#x -> %#x", hwrEna, c.HWREna)
	}
	if c.BadVAddr != badVAddr {
		t.Errorf("BadVAddr changed: %#x -> %#x", badVAddr, c.BadVAddr)
	}
	if c.BadInstr != badInstr {
		t.Errorf("BadInstr changed: %#x -> %#x", badInstr, c.BadInstr)
	}
	if c.PRId != prID {
		t.Errorf("PRId changed: %#x -> %#x", prID, c.PRId)
	}
	if c.Config != config {
		t.Errorf("Config changed: %#v -> %#v", config, c.Config)
	}
}

// EBase is writable only when its WG bit (bit 11) is set.
func TestEBaseWriteGatedByWGBit(t *testing.T) {
	c := New()
	before := c.EBase
	c.Write(15, 1, 0x1234_5000)
	if c.EBase != before {
		t.Fatalf("EBase changed without WG bit set: %#x -> %#x", before, c.EBase)
	}

	c.EBase |= 1 << 11
	withWG := c.EBase
	c.Write(15, 1, 0x1234_5000)
	want := (withWG &^ eBaseWritableMask) | (0x1234_5000 & eBaseWritableMask)
	if c.EBase != want {
		t.Errorf("EBase = %#x, want %#x", c.EBase, want)
	}
}

// IntCtl's IPTI field only accepts the documented power-of-two levels.
func TestIntCtlRejectsInvalidLevel(t *testing.T) {
	c := New()
	before := c.IntCtl

	c.Write(12, 1, 3<<5) // level 3: not one of 1,2,4,8,16
	if c.IntCtl != before {
		t.Errorf("IntCtl changed for invalid level 3: %#x -> %#x", before, c.IntCtl)
	}

	c.Write(12, 1, 4<<5) // level 4: valid
	want := (before &^ intCtlWritableMask) | (4 << 5 & intCtlWritableMask)
	if c.IntCtl != want {
		t.Errorf("IntCtl = %#x, want %#x", c.IntCtl, want)
	}
}

// S4's ERET round trip at the CP0 layer: SignalException records the
// faulting PC in ErrorEPC, sets EXL and retargets to the vector; with ERL
// still set from reset, ERET clears EXL/ERL and resumes at ErrorEPC.
func TestSignalExceptionThenERET(t *testing.T) {
	c := New()
	c.EnterKernelMode()

	vector := c.SignalException(ExcRI, 0xBAD_0000, ResetPCForTest)
	if vector != c.ExceptionVector() {
		t.Fatalf("SignalException returned %#x, want vector %#x", vector, c.ExceptionVector())
	}
	if c.Status&StatusEXL == 0 {
		t.Fatalf("Status.EXL not set after SignalException")
	}
	if c.ErrorEPC != ResetPCForTest {
		t.Fatalf("ErrorEPC = %#x, want %#x", c.ErrorEPC, ResetPCForTest)
	}

	pc := c.ERET()
	if pc != ResetPCForTest {
		t.Errorf("ERET() = %#x, want %#x", pc, ResetPCForTest)
	}
	if c.Status&StatusEXL != 0 {
		t.Errorf("Status.EXL still set after ERET")
	}
}

const ResetPCForTest = 0xBFC0_0000
