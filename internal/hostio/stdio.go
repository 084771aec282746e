package hostio

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"
)

// StdioTerminal implements Terminal over the process's stdin/stdout.
// Line-oriented reads go through a buffered reader in cooked mode;
// ReadChar briefly switches the terminal to raw mode via golang.org/x/term
// so a single keystroke is delivered unechoed and un-line-buffered, the
// way the teacher's TRAP_GETC/TRAP_IN handlers intended (its go.mod
// declares x/term for exactly this, though the call sites are commented
// out — this wires it for real).
type StdioTerminal struct {
	in  *bufio.Reader
	out *os.File
}

// NewStdioTerminal constructs a StdioTerminal over the process's standard
// streams.
func NewStdioTerminal() *StdioTerminal {
	return &StdioTerminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (t *StdioTerminal) WriteInteger(v uint32) { fmt.Fprintf(t.out, "%d", int32(v)) }
func (t *StdioTerminal) WriteFloat(v float32)  { fmt.Fprintf(t.out, "%g", v) }
func (t *StdioTerminal) WriteDouble(v float64) { fmt.Fprintf(t.out, "%g", v) }
func (t *StdioTerminal) WriteString(s []byte)  { t.out.Write(s) }

func (t *StdioTerminal) ReadInteger() uint32 {
	var v int32
	if _, err := fmt.Fscan(t.in, &v); err != nil {
		log.Printf("hostio: read_integer: %v", err)
	}
	return uint32(v)
}

func (t *StdioTerminal) ReadFloat() float32 {
	var v float32
	if _, err := fmt.Fscan(t.in, &v); err != nil {
		log.Printf("hostio: read_float: %v", err)
	}
	return v
}

func (t *StdioTerminal) ReadDouble() float64 {
	var v float64
	if _, err := fmt.Fscan(t.in, &v); err != nil {
		log.Printf("hostio: read_double: %v", err)
	}
	return v
}

func (t *StdioTerminal) ReadString(maxCount uint32) []byte {
	line, err := t.in.ReadString('\n')
	if err != nil && len(line) == 0 {
		log.Printf("hostio: read_string: %v", err)
	}
	if uint32(len(line)) > maxCount {
		line = line[:maxCount]
	}
	return []byte(line)
}

// ReadChar reads a single raw keystroke without echo or line buffering.
// It puts stdin into raw mode for the duration of one read and restores
// cooked mode before returning, so the buffered line reader above stays
// consistent across interleaved read_char/read_integer calls.
func (t *StdioTerminal) ReadChar() byte {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		b, err := t.in.ReadByte()
		if err != nil {
			log.Printf("hostio: read_char: %v", err)
			return 0
		}
		return b
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		log.Printf("hostio: read_char: entering raw mode: %v", err)
		return 0
	}
	defer term.Restore(fd, old)

	var buf [1]byte
	if _, err := os.Stdin.Read(buf[:]); err != nil {
		log.Printf("hostio: read_char: %v", err)
		return 0
	}
	return buf[0]
}
