package mmu

import (
	"os"
	"testing"

	"github.com/famastefano/mips32r6sim/internal/ram"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

// Kernel-mode accesses reach kseg0/kseg3; user-mode accesses are confined to
// useg, per the fixed segment mapping of spec.md §4.3.
func TestFixedMappingGatesByMode(t *testing.T) {
	chdirTemp(t)

	m := New(ram.New(4), Fixed())

	if p := m.Access(0x8000_0000, User); p != nil {
		t.Errorf("user-mode access to kseg0 base succeeded, want nil")
	}
	if p := m.Access(0x8000_0000, Kernel); p == nil {
		t.Errorf("kernel-mode access to kseg0 base failed, want a word reference")
	}
	if p := m.Access(0x0000_1000, User); p == nil {
		t.Errorf("user-mode access to useg failed, want a word reference")
	}
	if p := m.Access(0xFFFF_FFFF, User|Kernel); p != nil {
		t.Errorf("access past the last segment's limit succeeded, want nil")
	}
}

// The first segment whose range contains addr and whose mask intersects the
// requested flags wins, regardless of later overlapping segments; a segment
// whose mask does not intersect the flags is skipped.
func TestFirstMatchingSegmentWins(t *testing.T) {
	chdirTemp(t)

	r := ram.New(4)
	segs := []Segment{
		{Base: 0, Limit: 0x1000, Access: User},
		{Base: 0, Limit: 0x1000, Access: Kernel},
	}
	m := New(r, segs)

	if p := m.Access(0x10, Kernel); p == nil {
		t.Errorf("Kernel access found no segment, want the second (Kernel) segment's word")
	}
	if p := m.Access(0x10, User); p == nil {
		t.Errorf("User access to the first segment failed, want a word reference")
	}
}
