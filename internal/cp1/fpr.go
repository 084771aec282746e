// Package cp1 implements Coprocessor 1, the MIPS32r6 floating-point unit:
// a 32x64-bit register file, FCSR, IEEE-754 arithmetic/comparison/
// conversion operations, and trap-vs-flag exception routing.
//
// Grounded on original_source/include/mips32/fpr.hpp (the tagged-union FPR
// cell), include/mips32/cp1.hpp + src/cp1.hpp (declarations), and
// src/cp1.cpp (the 64-entry function_table, FCSR field layout, reset
// defaults). Go has no libc `fenv.h` equivalent exposing hardware FP
// exception flags, so exception detection and rounding-mode emulation are
// reimplemented per spec.md §4.5 / SPEC_FULL.md §4.5 — see fpexcept.go and
// round.go, and DESIGN.md for the justification of this deviation.
package cp1

import "math"

// FPR is a tagged-union view over an 8-byte storage cell, addressable as
// single-precision, double-precision, or raw 32/64-bit integers — the Go
// rendering of `union FPR { float f; uint32_t i32; double d; uint64_t i64; }`.
type FPR struct {
	bits uint64
}

// Single returns the low 32 bits reinterpreted as a float32.
func (f FPR) Single() float32 { return math.Float32frombits(uint32(f.bits)) }

// SetSingle writes v into the low 32 bits, leaving the high 32 bits intact.
func (f *FPR) SetSingle(v float32) {
	f.bits = (f.bits &^ 0xFFFFFFFF) | uint64(math.Float32bits(v))
}

// Double returns the full 64 bits reinterpreted as a float64.
func (f FPR) Double() float64 { return math.Float64frombits(f.bits) }

// SetDouble overwrites the full 64 bits.
func (f *FPR) SetDouble(v float64) { f.bits = math.Float64bits(v) }

// Raw32 returns the low 32 bits as a plain integer (MFC1 semantics).
func (f FPR) Raw32() uint32 { return uint32(f.bits) }

// SetRaw32 overwrites the low 32 bits (MTC1 semantics).
func (f *FPR) SetRaw32(v uint32) {
	f.bits = (f.bits &^ 0xFFFFFFFF) | uint64(v)
}

// Raw32High returns the high 32 bits as a plain integer (MFHC1 semantics).
func (f FPR) Raw32High() uint32 { return uint32(f.bits >> 32) }

// SetRaw32High overwrites the high 32 bits (MTHC1 semantics).
func (f *FPR) SetRaw32High(v uint32) {
	f.bits = (f.bits & 0xFFFFFFFF) | uint64(v)<<32
}

// Raw64 returns the full 64 bits as a plain integer.
func (f FPR) Raw64() uint64 { return f.bits }

// SetRaw64 overwrites the full 64 bits.
func (f *FPR) SetRaw64(v uint64) { f.bits = v }
