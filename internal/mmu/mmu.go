// Package mmu implements the MIPS32 fixed-segment address translator (C3):
// a short, statically-initialized list of segments gating access by mode.
//
// Grounded on original_source/src/mmu.cpp (linear scan, first match wins)
// and src/mmu.hpp for the segment flag encoding — the single-bit-per-mode
// USER=1/SUPERVISOR=2/KERNEL=4/ALL=7/DEBUG=8/CACHED=0x10 scheme, which is
// the version actually paired with the live cpu.cpp/mmu.cpp (see
// SPEC_FULL.md §4.3; the older include/mips32/mmu.hpp copy uses a
// different, stale encoding and is not followed).
package mmu

import "github.com/famastefano/mips32r6sim/internal/ram"

// Access-flag bits, matching original_source/src/mmu.hpp's Segment consts.
const (
	User       uint32 = 0x01
	Supervisor uint32 = 0x02
	Kernel     uint32 = 0x04
	All        uint32 = 0x07
	Debug      uint32 = 0x08
	Cached     uint32 = 0x10
)

// Segment is a contiguous virtual-address range with an access-mode mask.
type Segment struct {
	Base, Limit, Access uint32
}

func (s Segment) contains(addr uint32) bool {
	return s.Base <= addr && addr < s.Base+s.Limit
}

func (s Segment) hasAccess(flags uint32) bool {
	return s.Access&flags != 0
}

// MMU translates addresses by consulting an ordered segment list.
type MMU struct {
	ram      *ram.RAM
	segments []Segment
}

// Fixed is the MIPS32 reset-time segment mapping from spec.md §4.3.
func Fixed() []Segment {
	return []Segment{
		{Base: 0x0000_0000, Limit: 0x7FFF_FFFF, Access: User},
		{Base: 0x8000_0000, Limit: 0x3FFF_FFFF, Access: Kernel},
		{Base: 0xC000_0000, Limit: 0x1FFF_FFFF, Access: Supervisor},
		{Base: 0xE000_0000, Limit: 0x1FFF_FFFF, Access: Kernel},
	}
}

// New constructs an MMU over ram with the given segment list (in priority
// order; the first matching, access-permitting segment wins).
func New(r *ram.RAM, segments []Segment) *MMU {
	return &MMU{ram: r, segments: segments}
}

// Access returns a pointer to the word at addr if some segment both
// contains addr and permits accessFlags; otherwise it returns nil and the
// caller must raise AdEL/AdES.
func (m *MMU) Access(addr, accessFlags uint32) *uint32 {
	for _, seg := range m.segments {
		if seg.contains(addr) && seg.hasAccess(accessFlags) {
			return m.ram.Access(addr)
		}
	}
	return nil
}

// Segments returns the current segment list (for snapshot).
func (m *MMU) Segments() []Segment { return m.segments }
