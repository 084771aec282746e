package cpu

import (
	"testing"

	"github.com/famastefano/mips32r6sim/internal/cp0"
)

// stubTerminal is a minimal hostio.Terminal double recording string writes
// and returning zero values for reads, in the teacher's plain hand-rolled-fake style
// (no mocking library anywhere in the corpus).
type stubTerminal struct {
	strings []string
}

func (s *stubTerminal) WriteInteger(uint32)  {}
func (s *stubTerminal) WriteFloat(float32)   {}
func (s *stubTerminal) WriteDouble(float64)  {}
func (s *stubTerminal) WriteString(b []byte) { s.strings = append(s.strings, string(b)) }
func (s *stubTerminal) ReadInteger() uint32  { return 0 }
func (s *stubTerminal) ReadFloat() float32   { return 0 }
func (s *stubTerminal) ReadDouble() float64  { return 0 }
func (s *stubTerminal) ReadString(uint32) []byte { return nil }
func (s *stubTerminal) ReadChar() byte       { return 0 }

type stubFiles struct{}

func (stubFiles) Open(string, uint32) uint32     { return 0 }
func (stubFiles) Read(uint32, uint32) []byte     { return nil }
func (stubFiles) Write(uint32, []byte) uint32    { return 0 }
func (stubFiles) Close(uint32)                   {}

func newTestCPU() *CPU {
	return New(1<<20, &stubTerminal{}, stubFiles{})
}

func encodeI(opcode, rs, rt, imm uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | imm&0xFFFF
}

// S1 — ADDIU r21, r3, 32000 with r3 = 123098 expects r21 = 155098.
func TestADDIU(t *testing.T) {
	c := newTestCPU()
	c.GPR[3] = 123098

	word := encodeI(9, 3, 21, 32000)
	ptr := c.MMU.Access(c.PC, c.modeAccessFlags())
	*ptr = word

	c.SingleStep()

	if c.GPR[21] != 155098 {
		t.Errorf("GPR[21] = %d, want 155098", c.GPR[21])
	}
	if c.GPR[0] != 0 {
		t.Errorf("GPR[0] = %d, want 0 (architectural zero invariant)", c.GPR[0])
	}
}

// S2 — unaligned LW r1, 1(r2) with r2 = 0x8000_0000, memory words
// 0xABCD_EF12 / 0x3456_7890 expects r1 = 0x90AB_CDEF.
func TestUnalignedLW(t *testing.T) {
	c := newTestCPU()
	c.GPR[2] = 0x8000_0000

	flags := c.modeAccessFlags()
	*c.MMU.Access(0x8000_0000, flags) = 0xABCD_EF12
	*c.MMU.Access(0x8000_0004, flags) = 0x3456_7890

	word := encodeI(35, 2, 1, 1)
	*c.MMU.Access(c.PC, flags) = word

	c.SingleStep()

	if c.GPR[1] != 0x90AB_CDEF {
		t.Errorf("GPR[1] = %#x, want 0x90ABCDEF", c.GPR[1])
	}
}

// S3 — split SDC1: r1 = 0x8000_0000, f0 = 0xAAAA_BBBB_DDDD_EEEE, three
// consecutive words pre-filled with 0xCCCC_CCCC; SDC1 f0, 2(r1) expects
// {0xEEEE_CCCC, 0xBBBB_DDDD, 0xCCCC_AAAA}.
func TestSplitSDC1(t *testing.T) {
	c := newTestCPU()
	c.GPR[1] = 0x8000_0000
	c.CP1.MTC1(0, 0xDDDD_EEEE)
	c.CP1.MTHC1(0, 0xAAAA_BBBB)

	flags := c.modeAccessFlags()
	*c.MMU.Access(0x8000_0000, flags) = 0xCCCC_CCCC
	*c.MMU.Access(0x8000_0004, flags) = 0xCCCC_CCCC
	*c.MMU.Access(0x8000_0008, flags) = 0xCCCC_CCCC

	// SDC1 f0, 2(r1): opcode=61 (sdc1), base=1, ft=0, offset=2.
	word := encodeI(61, 1, 0, 2)
	*c.MMU.Access(c.PC, flags) = word

	c.SingleStep()

	want := [3]uint32{0xEEEE_CCCC, 0xBBBB_DDDD, 0xCCCC_AAAA}
	got := [3]uint32{
		*c.MMU.Access(0x8000_0000, flags),
		*c.MMU.Access(0x8000_0004, flags),
		*c.MMU.Access(0x8000_0008, flags),
	}
	if got != want {
		t.Errorf("words = %#v, want %#v", got, want)
	}
}

// S4 — SIGRIE at reset vector traps to 0x8000_0180; ERET there returns to
// the faulting PC with Status.EXL cleared.
func TestERETRoundTrip(t *testing.T) {
	c := newTestCPU()
	flags := c.modeAccessFlags()

	// SIGRIE: REGIMM opcode, rt = 0b10111.
	*c.MMU.Access(ResetPC, flags) = encodeI(1, 0, 0b10111, 0)
	// ERET: COP0 opcode, rs = 0b10000 (CO bit), function = 0b011000.
	*c.MMU.Access(0x8000_0180, flags) = 16<<26 | 0b10000<<21 | 0b011000

	c.SingleStep()
	if c.PC != 0x8000_0180 {
		t.Fatalf("PC after SIGRIE = %#x, want 0x80000180", c.PC)
	}
	if c.CP0.Status&cp0.StatusEXL == 0 {
		t.Fatalf("Status.EXL not set after SIGRIE trap")
	}

	c.SingleStep()
	if c.PC != ResetPC {
		t.Errorf("PC after ERET = %#x, want %#x", c.PC, ResetPC)
	}
	if c.CP0.Status&cp0.StatusEXL != 0 {
		t.Errorf("Status.EXL still set after ERET")
	}
}

// S5 — print_string syscall stops at the first NUL; the string is staged at
// address 0 and its NUL is byte 13, so every byte lies in the first block.
func TestSyscallPrintStringStopsAtNUL(t *testing.T) {
	c := newTestCPU()
	term := &stubTerminal{}
	c.Terminal = term

	flags := c.modeAccessFlags()
	msg := "Hello World!\n\x00"
	for i := 0; i < len(msg); i += 4 {
		var w uint32
		for j := 0; j < 4 && i+j < len(msg); j++ {
			w |= uint32(msg[i+j]) << (8 * j)
		}
		*c.MMU.Access(uint32(i), flags) = w
	}

	c.GPR[4] = 0 // a0: string address
	c.GPR[2] = 4 // v0: print_string

	// SYSCALL: SPECIAL opcode, function 0b001100.
	*c.MMU.Access(c.PC, flags) = 0<<26 | 0b001100

	c.SingleStep()

	if len(term.strings) != 1 || term.strings[0] != "Hello World!\n" {
		t.Errorf("terminal received %q, want [\"Hello World!\\n\"]", term.strings)
	}
}

// Every retired instruction must leave GPR[0] architecturally zero.
func TestGPRZeroInvariant(t *testing.T) {
	c := newTestCPU()
	flags := c.modeAccessFlags()
	// ADDIU r0, r0, 5 — attempts to write r0.
	*c.MMU.Access(c.PC, flags) = encodeI(9, 0, 0, 5)

	c.SingleStep()

	if c.GPR[0] != 0 {
		t.Errorf("GPR[0] = %d after write attempt, want 0", c.GPR[0])
	}
}

// ADD traps on 33-bit unsigned-carry overflow without writing rd.
func TestADDOverflowTraps(t *testing.T) {
	c := newTestCPU()
	flags := c.modeAccessFlags()
	c.GPR[1] = 0xF000_0000
	c.GPR[2] = 0xF000_0000
	c.GPR[3] = 0x1234_5678 // sentinel: must survive the trap

	// ADD rd=3, rs=1, rt=2: SPECIAL opcode, function 0b100000.
	*c.MMU.Access(c.PC, flags) = 0<<26 | 1<<21 | 2<<16 | 3<<11 | 0b100000

	c.SingleStep()

	if c.GPR[3] != 0x1234_5678 {
		t.Errorf("GPR[3] = %#x after overflow, want unchanged 0x12345678", c.GPR[3])
	}
	if c.CP0.Cause>>2&0x1F != cp0.ExcOv {
		t.Errorf("Cause.ExcCode = %#x, want Ov (%#x)", c.CP0.Cause>>2&0x1F, cp0.ExcOv)
	}
}
