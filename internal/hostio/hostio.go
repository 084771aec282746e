// Package hostio defines the injected host-adapter interfaces (Terminal,
// FileHandler) that the CPU's SYSCALL dispatch delegates to, plus concrete
// stdio/filesystem implementations.
//
// Grounded on original_source/include/mips32/io_device.hpp and
// file_handler.hpp for interface shape; the concrete StdioTerminal's
// TRAP_GETC-style single-key read is grounded on the teacher's root
// main.go LC-3 TRAP dispatch, but uses golang.org/x/term for raw-mode
// stdin instead of the teacher's github.com/eiannone/keyboard — the
// teacher's own go.mod declares x/term for exactly this purpose and never
// wires it (its call sites are commented out); this module completes that
// wiring, following smoynes-elsie's internal/tty pattern as a secondary
// reference for the raw-mode idiom (see DESIGN.md).
package hostio

// Terminal is the console I/O collaborator for the print_*/read_* syscalls.
type Terminal interface {
	WriteInteger(v uint32)
	WriteFloat(v float32)
	WriteDouble(v float64)
	WriteString(s []byte)

	ReadInteger() uint32
	ReadFloat() float32
	ReadDouble() float64
	ReadString(maxCount uint32) []byte
	ReadChar() byte
}

// FileHandler is the file I/O collaborator for the file_* syscalls. Flags
// are passed as the raw 32-bit guest value rather than the original's
// type-punned "pointer reinterpreted as a C string" (the flag bits are
// defined in osfile.go).
type FileHandler interface {
	Open(name string, flags uint32) uint32
	Read(fd uint32, count uint32) []byte
	Write(fd uint32, data []byte) uint32
	Close(fd uint32)
}
