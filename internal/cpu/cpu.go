// Package cpu implements the MIPS32r6 instruction execution engine (C6):
// fetch, decode, dispatch, execute; branch and load/store logic; syscall
// dispatch; exception entry; single-step and run loop.
//
// Grounded on original_source/src/cpu.cpp/cpu.hpp for dispatch-table shape
// and the exact per-instruction algorithms, and on the teacher's
// internal/mips32/instructions.go for the general Go idiom of a struct with
// an Execute-by-table method (flat switch/array dispatch over a plain
// struct, no heavy interface hierarchy).
package cpu

import (
	"sync/atomic"

	"github.com/famastefano/mips32r6sim/internal/bits"
	"github.com/famastefano/mips32r6sim/internal/cp0"
	"github.com/famastefano/mips32r6sim/internal/cp1"
	"github.com/famastefano/mips32r6sim/internal/hostio"
	"github.com/famastefano/mips32r6sim/internal/mmu"
	"github.com/famastefano/mips32r6sim/internal/ram"
)

// ExitCode is the result of run()/single_step(), per spec.md §7.
type ExitCode int32

const (
	None ExitCode = iota
	ManualStop
	Interrupt
	Exception
	Exit
)

// ResetPC is the hard-reset program counter, spec.md §3.
const ResetPC uint32 = 0xBFC0_0000

// CPU is the MIPS32r6 fetch/decode/dispatch/execute engine.
type CPU struct {
	GPR [32]uint32
	PC  uint32

	CP0 *cp0.CP0
	CP1 *cp1.CP1
	MMU *mmu.MMU
	RAM *ram.RAM
	RIO *ram.IO

	Terminal hostio.Terminal
	Files    hostio.FileHandler

	exitCode atomic.Int32
}

// New constructs a CPU wired to a fresh RAM of the given allocation limit
// (bytes) and the injected host adapters, then hard-resets it.
// blockBytes is the footprint of a single resident block in bytes.
const blockBytes = ram.BlockSize * 4

func New(allocLimitBytes uint32, terminal hostio.Terminal, files hostio.FileHandler) *CPU {
	blocks := allocLimitBytes / blockBytes
	if blocks == 0 {
		blocks = 1
	}
	r := ram.New(blocks)
	m := mmu.New(r, mmu.Fixed())
	c := &CPU{
		CP0:      cp0.New(),
		CP1:      cp1.New(),
		MMU:      m,
		RAM:      r,
		RIO:      ram.NewIO(r),
		Terminal: terminal,
		Files:    files,
	}
	c.HardReset()
	return c
}

// HardReset restores architectural reset state, per spec.md §4.6's state
// machine: GPR/PC/CP0/CP1 reset, kernel mode entered, PC = ResetPC.
func (c *CPU) HardReset() {
	c.GPR = [32]uint32{}
	c.CP0.Reset()
	c.CP1.Reset()
	c.CP0.EnterKernelMode()
	c.PC = ResetPC
	c.exitCode.Store(int32(None))
}

// Stop cooperatively requests the run loop to halt at the next instruction
// boundary. Safe to call from another goroutine (spec.md §5).
func (c *CPU) Stop() {
	c.exitCode.Store(int32(ManualStop))
}

func (c *CPU) loadExitCode() ExitCode { return ExitCode(c.exitCode.Load()) }
func (c *CPU) storeExitCode(e ExitCode) { c.exitCode.Store(int32(e)) }

// LoadExitCodeForInspection exposes the current exit code to read-only
// inspector views (internal/machine.Inspector) without granting write
// access to engine-internal callers.
func (c *CPU) LoadExitCodeForInspection() int32 { return c.exitCode.Load() }

// ResetExitCode clears the exit code to NONE, used by snapshot restore
// (exit-code is never persisted, per spec.md §6).
func (c *CPU) ResetExitCode() { c.exitCode.Store(int32(None)) }

// modeAccessFlags returns the MMU access flags for the processor's current
// running mode, per spec.md §4.6's mode-flag mapping.
func (c *CPU) modeAccessFlags() uint32 {
	if c.CP0.RunningModeKernel() {
		return mmu.Kernel | mmu.Supervisor | mmu.User
	}
	return mmu.User
}

// Run executes instructions until exitCode becomes non-NONE, returning it.
func (c *CPU) Run() ExitCode {
	for c.loadExitCode() == None {
		c.stepOnce(true)
	}
	return c.loadExitCode()
}

// SingleStep executes exactly one instruction without consulting the
// external stop flag, per spec.md §4.6, returning the resulting exit code.
func (c *CPU) SingleStep() ExitCode {
	c.storeExitCode(None)
	c.stepOnce(false)
	return c.loadExitCode()
}

// stepOnce implements the fetch-execute loop body of spec.md §4.6.
func (c *CPU) stepOnce(checkStop bool) {
	word := c.MMU.Access(c.PC, c.modeAccessFlags())
	if c.PC&3 != 0 || word == nil {
		c.signalException(cp0.ExcAdEL, 0, c.PC)
		return
	}
	c.PC += 4
	c.dispatch(*word)
	c.GPR[0] = 0
}

// signalException raises an architectural exception: updates CP0 and
// retargets PC, per spec.md §4.6's signal_exception algorithm. It never
// touches the exit code: per original_source/src/cpu.cpp, signal_exception
// always lets execution continue at the vector. Only BREAK (directly, via
// execBreak) and the exiting SYSCALL codes alter the exit code.
func (c *CPU) signalException(excCode uint32, faultingWord, faultingPC uint32) {
	c.PC = c.CP0.SignalException(excCode, faultingWord, faultingPC)
}

func (c *CPU) dispatch(word uint32) {
	opcode := bits.Opcode(word)
	if fn := topLevelTable[opcode]; fn != nil {
		fn(c, word)
		return
	}
	c.raiseRI(word)
}

func (c *CPU) raiseRI(word uint32) {
	c.signalException(cp0.ExcRI, word, c.PC-4)
}
