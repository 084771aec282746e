// Package machine wires the instruction engine to injected host adapters
// and the snapshot serializer — the "façade" spec.md §1/§6 calls out as an
// external collaborator with a real-but-out-of-core implementation.
//
// Grounded on the teacher's cmd/mipsvm/main.go construction sequence
// (build memory, build CPU, run in a goroutine, forward OS signals to
// Stop) generalized into a reusable type so cmd/mipsvm's main becomes a
// thin flag-parsing wrapper.
package machine

import (
	"fmt"

	"github.com/famastefano/mips32r6sim/internal/cpu"
	"github.com/famastefano/mips32r6sim/internal/hostio"
	"github.com/famastefano/mips32r6sim/internal/mmu"
	"github.com/famastefano/mips32r6sim/internal/snapshot"
)

// Machine owns a CPU and the host adapters it was constructed with.
type Machine struct {
	CPU *cpu.CPU

	allocLimitBytes uint32
	terminal        hostio.Terminal
	files           hostio.FileHandler
}

// New constructs a Machine with a fresh CPU, per spec.md §6's façade
// constructor ("construct with RAM allocation limit and adapters").
func New(allocLimitBytes uint32, terminal hostio.Terminal, files hostio.FileHandler) *Machine {
	return &Machine{
		CPU:             cpu.New(allocLimitBytes, terminal, files),
		allocLimitBytes: allocLimitBytes,
		terminal:        terminal,
		files:           files,
	}
}

// Run drives the CPU's fetch/execute loop to completion, returning the
// resulting exit code.
func (m *Machine) Run() cpu.ExitCode { return m.CPU.Run() }

// Stop cooperatively halts a running Machine; safe to call from another
// goroutine, per spec.md §5.
func (m *Machine) Stop() { m.CPU.Stop() }

// SingleStep executes exactly one instruction.
func (m *Machine) SingleStep() cpu.ExitCode { return m.CPU.SingleStep() }

// Reset restores the Machine to its hard-reset architectural state,
// keeping the same RAM/adapters (per spec.md §6's `reset()`).
func (m *Machine) Reset() { m.CPU.HardReset() }

// SwapIODevice replaces the Terminal adapter in place, for tests or
// alternate front-ends (spec.md §6's `swap_io_device`).
func (m *Machine) SwapIODevice(t hostio.Terminal) {
	m.terminal = t
	m.CPU.Terminal = t
}

// SwapFileHandler replaces the FileHandler adapter in place (spec.md §6's
// `swap_file_handler`).
func (m *Machine) SwapFileHandler(f hostio.FileHandler) {
	m.files = f
	m.CPU.Files = f
}

// Inspector is a read-only view over architectural state for tests and
// debugging front-ends, per spec.md §6's "inspector view for tests".
type Inspector struct {
	cpu *cpu.CPU
}

// Inspect returns an Inspector bound to the Machine's current CPU.
func (m *Machine) Inspect() Inspector { return Inspector{cpu: m.CPU} }

func (i Inspector) PC() uint32           { return i.cpu.PC }
func (i Inspector) GPR(n int) uint32     { return i.cpu.GPR[n] }
func (i Inspector) ExitCode() cpu.ExitCode {
	return cpu.ExitCode(i.cpu.LoadExitCodeForInspection())
}

// Save serializes the Machine's full architectural state to the four
// `<name>.{ram,cp0,cp1,cpu}` files, per spec.md §6. The CPU must already be
// stopped (spec.md §5: "Snapshot save/restore must not run concurrently
// with execution").
func (m *Machine) Save(name string) error {
	if err := snapshot.SaveRAM(name, m.CPU.RAM); err != nil {
		return fmt.Errorf("machine: save %s: %w", name, err)
	}
	if err := snapshot.SaveCP0(name, m.CPU.CP0); err != nil {
		return fmt.Errorf("machine: save %s: %w", name, err)
	}
	if err := snapshot.SaveCP1(name, m.CPU.CP1); err != nil {
		return fmt.Errorf("machine: save %s: %w", name, err)
	}
	state := snapshot.CPUState{Segments: m.CPU.MMU.Segments(), PC: m.CPU.PC, GPR: m.CPU.GPR}
	if err := snapshot.SaveCPU(name, state); err != nil {
		return fmt.Errorf("machine: save %s: %w", name, err)
	}
	return nil
}

// Load restores a Machine's architectural state from the four snapshot
// files written by Save, leaving the host adapters untouched. Exit code is
// always reset to NONE, per spec.md §6.
func (m *Machine) Load(name string) error {
	r, err := snapshot.LoadRAM(name)
	if err != nil {
		return fmt.Errorf("machine: load %s: %w", name, err)
	}
	if err := snapshot.LoadCP0(name, m.CPU.CP0); err != nil {
		return fmt.Errorf("machine: load %s: %w", name, err)
	}
	if err := snapshot.LoadCP1(name, m.CPU.CP1); err != nil {
		return fmt.Errorf("machine: load %s: %w", name, err)
	}
	state, err := snapshot.LoadCPU(name)
	if err != nil {
		return fmt.Errorf("machine: load %s: %w", name, err)
	}

	m.CPU.RAM = r
	m.CPU.RIO = m.CPU.RIO.Rebind(r)
	m.CPU.MMU = mmu.New(r, state.Segments)
	m.CPU.PC = state.PC
	m.CPU.GPR = state.GPR
	m.CPU.ResetExitCode()
	return nil
}
