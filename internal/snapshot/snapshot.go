// Package snapshot implements save/restore of simulator state to the
// four-file format of spec.md §6: <name>.ram, <name>.cp0, <name>.cp1,
// <name>.cpu, each prefixed with the same 8-byte header.
//
// Grounded on the teacher's encoding/binary usage in utils.go (MemoryWrite/
// MemoryRead16-at-a-time little-endian framing) and cmd/mips_disassemble's
// binary.Read-based instruction-stream decoding, generalized to whole-struct
// little-endian encode/decode.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/famastefano/mips32r6sim/internal/cp0"
	"github.com/famastefano/mips32r6sim/internal/cp1"
	"github.com/famastefano/mips32r6sim/internal/mmu"
	"github.com/famastefano/mips32r6sim/internal/ram"
)

const (
	magic   uint32 = 0x66616D61 // "fama"
	version uint32 = 1
)

var order = binary.LittleEndian

func writeHeader(w io.Writer) error {
	var hdr [8]byte
	order.PutUint32(hdr[0:4], magic)
	order.PutUint32(hdr[4:8], version)
	_, err := w.Write(hdr[:])
	return err
}

func readHeader(r io.Reader) error {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("snapshot: reading header: %w", err)
	}
	if order.Uint32(hdr[0:4]) != magic {
		return fmt.Errorf("snapshot: bad magic %#x", order.Uint32(hdr[0:4]))
	}
	if order.Uint32(hdr[4:8]) != version {
		return fmt.Errorf("snapshot: unsupported version %d", order.Uint32(hdr[4:8]))
	}
	return nil
}

// SaveRAM writes <name>.ram per spec.md §6: alloc_limit, resident_count,
// swap_count, then each resident block's {base, access_count, data}, then
// each swapped block's {base, access_count=0, data} recovered from its
// spill file.
func SaveRAM(name string, r *ram.RAM) error {
	f, err := os.Create(name + ".ram")
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if err := writeHeader(w); err != nil {
		return err
	}

	resident := r.ResidentBlocks()
	swapped, err := r.SwappedBlocks()
	if err != nil {
		return err
	}

	if err := binary.Write(w, order, r.AllocLimit()); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint32(len(resident))); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint32(len(swapped))); err != nil {
		return err
	}

	writeBlock := func(b ram.BlockSnapshot) error {
		if err := binary.Write(w, order, b.BaseAddress); err != nil {
			return err
		}
		if err := binary.Write(w, order, b.AccessCount); err != nil {
			return err
		}
		return binary.Write(w, order, b.Data)
	}

	for _, b := range resident {
		if err := writeBlock(b); err != nil {
			return err
		}
	}
	for _, b := range swapped {
		if err := writeBlock(b); err != nil {
			return err
		}
	}

	return w.Flush()
}

// LoadRAM reconstructs a RAM from <name>.ram. For each swapped block it
// rewrites the block's on-disk `.block` spill file with the snapshotted
// contents before restoring, so a later swap-in reads back exactly what was
// saved rather than whatever the file held at restore time.
func LoadRAM(name string) (*ram.RAM, error) {
	f, err := os.Open(name + ".ram")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	if err := readHeader(r); err != nil {
		return nil, err
	}

	var allocLimit, residentCount, swapCount uint32
	if err := binary.Read(r, order, &allocLimit); err != nil {
		return nil, err
	}
	if err := binary.Read(r, order, &residentCount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, order, &swapCount); err != nil {
		return nil, err
	}

	readBlock := func() (ram.BlockSnapshot, error) {
		var b ram.BlockSnapshot
		if err := binary.Read(r, order, &b.BaseAddress); err != nil {
			return b, err
		}
		if err := binary.Read(r, order, &b.AccessCount); err != nil {
			return b, err
		}
		b.Data = make([]uint32, ram.BlockSize)
		if err := binary.Read(r, order, b.Data); err != nil {
			return b, err
		}
		return b, nil
	}

	resident := make([]ram.BlockSnapshot, residentCount)
	for i := range resident {
		b, err := readBlock()
		if err != nil {
			return nil, err
		}
		resident[i] = b
	}

	swappedBases := make([]uint32, swapCount)
	for i := range swappedBases {
		b, err := readBlock()
		if err != nil {
			return nil, err
		}
		// Rewrite the spill file with the snapshotted bytes: the .block file
		// on disk may hold newer (perturbed) contents from execution that
		// happened after this snapshot was taken.
		if err := ram.WriteSwappedBlockFile(b.BaseAddress, b.Data); err != nil {
			return nil, fmt.Errorf("snapshot: restoring swapped block 0x%08X: %w", b.BaseAddress, err)
		}
		swappedBases[i] = b.BaseAddress
	}

	out := ram.New(allocLimit)
	out.Restore(allocLimit, resident, swappedBases)
	return out, nil
}

// SaveCP0 writes <name>.cp0: a single trivially-copyable register dump.
func SaveCP0(name string, c *cp0.CP0) error {
	f, err := os.Create(name + ".cp0")
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writeHeader(w); err != nil {
		return err
	}
	if err := binary.Write(w, order, c); err != nil {
		return err
	}
	return w.Flush()
}

// LoadCP0 restores CP0 state from <name>.cp0 into dst.
func LoadCP0(name string, dst *cp0.CP0) error {
	f, err := os.Open(name + ".cp0")
	if err != nil {
		return err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	if err := readHeader(r); err != nil {
		return err
	}
	return binary.Read(r, order, dst)
}

// SaveCP1 writes <name>.cp1: 32 FPRs (8 bytes each), then FIR, FCSR. The
// "opaque host FP environment" spec.md mentions is a no-op here: this
// simulator's rounding/flush emulation is pure per-call state (round.go),
// not a process-global fesetenv, so there is nothing additional to persist.
func SaveCP1(name string, c *cp1.CP1) error {
	f, err := os.Create(name + ".cp1")
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writeHeader(w); err != nil {
		return err
	}
	if err := binary.Write(w, order, c.FPRs()); err != nil {
		return err
	}
	if err := binary.Write(w, order, c.FIR()); err != nil {
		return err
	}
	if err := binary.Write(w, order, c.FCSR()); err != nil {
		return err
	}
	return w.Flush()
}

// LoadCP1 restores CP1 state from <name>.cp1 into dst.
func LoadCP1(name string, dst *cp1.CP1) error {
	f, err := os.Open(name + ".cp1")
	if err != nil {
		return err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	if err := readHeader(r); err != nil {
		return err
	}
	var raw [32]uint64
	if err := binary.Read(r, order, &raw); err != nil {
		return err
	}
	fprs := dst.FPRs()
	for i := range fprs {
		fprs[i].SetRaw64(raw[i])
	}
	var fir, fcsr uint32
	if err := binary.Read(r, order, &fir); err != nil {
		return err
	}
	if err := binary.Read(r, order, &fcsr); err != nil {
		return err
	}
	dst.SetFIR(fir)
	dst.SetFCSR(fcsr)
	return nil
}

// CPUState is the subset of CPU fields the .cpu file persists: segment
// list, PC, GPRs. Exit code is always restored to NONE, per spec.md §6.
type CPUState struct {
	Segments []mmu.Segment
	PC       uint32
	GPR      [32]uint32
}

// SaveCPU writes <name>.cpu: segment count, segments, PC, 32×GPR.
func SaveCPU(name string, s CPUState) error {
	f, err := os.Create(name + ".cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writeHeader(w); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint32(len(s.Segments))); err != nil {
		return err
	}
	if err := binary.Write(w, order, s.Segments); err != nil {
		return err
	}
	if err := binary.Write(w, order, s.PC); err != nil {
		return err
	}
	if err := binary.Write(w, order, s.GPR); err != nil {
		return err
	}
	return w.Flush()
}

// LoadCPU restores the .cpu file's contents.
func LoadCPU(name string) (CPUState, error) {
	var s CPUState
	f, err := os.Open(name + ".cpu")
	if err != nil {
		return s, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	if err := readHeader(r); err != nil {
		return s, err
	}
	var segCount uint32
	if err := binary.Read(r, order, &segCount); err != nil {
		return s, err
	}
	s.Segments = make([]mmu.Segment, segCount)
	if err := binary.Read(r, order, s.Segments); err != nil {
		return s, err
	}
	if err := binary.Read(r, order, &s.PC); err != nil {
		return s, err
	}
	if err := binary.Read(r, order, &s.GPR); err != nil {
		return s, err
	}
	return s, nil
}
