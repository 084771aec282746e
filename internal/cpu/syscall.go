package cpu

import "github.com/famastefano/mips32r6sim/internal/cp0"

const (
	regV0 = 2
	regA0 = 4
	regA1 = 5
	regA2 = 6
)

// syscall dispatches on $v0, per original_source/src/cpu.cpp's
// CPU::syscall(). v0==7 (read_double) calls Terminal.ReadDouble rather than
// the source's ReadFloat — per spec.md §9, that mismatch is a bug in the
// original and is not replicated here.
func (c *CPU) syscall(word uint32) {
	v0 := c.GPR[regV0]

	switch v0 {
	case 1: // print int
		c.Terminal.WriteInteger(c.GPR[regA0])
	case 2: // print float, $f12
		c.Terminal.WriteFloat(float32FromBits(c.CP1.MFC1(12)))
	case 3: // print double, $f12/$f12h
		lo, hi := uint64(c.CP1.MFC1(12)), uint64(c.CP1.MFHC1(12))
		c.Terminal.WriteDouble(float64FromBits(lo | hi<<32))
	case 4: // print string
		str := c.RIO.ReadNULTerminated(c.GPR[regA0], 0xFFFF_FFFF)
		c.Terminal.WriteString(str)
	case 5: // read int
		c.GPR[regV0] = c.Terminal.ReadInteger()
	case 6: // read float, $f0
		c.CP1.MTC1(0, float32Bits(c.Terminal.ReadFloat()))
	case 7: // read double, $f0/$f0h
		bits := float64Bits(c.Terminal.ReadDouble())
		c.CP1.MTC1(0, uint32(bits))
		c.CP1.MTHC1(0, uint32(bits>>32))
	case 8: // read string
		length := c.GPR[regA1]
		buf := c.Terminal.ReadString(length)
		c.RIO.Write(c.GPR[regA0], buf)
	case 9: // sbrk: unimplemented, raises an Int exception as a placeholder
		c.signalException(cp0.ExcInt, word, c.PC-4)
	case 10, 17: // exit
		c.storeExitCode(Exit)
	case 11: // print char
		c.Terminal.WriteString([]byte{byte(c.GPR[regA0] & 0xFF)})
	case 12: // read char
		c.GPR[regV0] = uint32(c.Terminal.ReadChar())
	case 13: // file open
		name := c.RIO.ReadNULTerminated(c.GPR[regA0], 0xFFFF_FFFF)
		c.GPR[regV0] = c.Files.Open(string(name), c.GPR[regA1])
	case 14: // file read
		fd, buf, count := c.GPR[regA0], c.GPR[regA1], c.GPR[regA2]
		data := c.Files.Read(fd, count)
		c.GPR[regV0] = uint32(len(data))
		c.RIO.Write(buf, data)
	case 15: // file write
		fd, buf, count := c.GPR[regA0], c.GPR[regA1], c.GPR[regA2]
		data := c.RIO.Read(buf, count)
		c.GPR[regV0] = c.Files.Write(fd, data)
	case 16: // file close
		c.Files.Close(c.GPR[regA0])
		c.GPR[regV0] = 0
	default:
		c.signalException(cp0.ExcSys, word, c.PC-4)
	}
}

// execBreak signals only the cause code, not a full exception entry,
// mirroring original_source/src/cpu.cpp's CPU::break_(): it calls
// set_ex_cause directly, never signal_exception.
func (c *CPU) execBreak(word uint32) {
	c.CP0.SetBreakCause()
	c.storeExitCode(Exception)
}
