// Package chip8 implements the CHIP-8 interpreter core.
//
// # Machine Overview
//
// The interpreter owns all emulated hardware state:
//   - 4KB of memory, the first FontSize bytes hold the hexadecimal font
//   - 16 general purpose 8-bit registers V0-VF, VF doubles as flag output
//   - a 16-bit index register I and a 16-bit program counter
//   - a 16 entry return address stack
//   - 16 key flags, set by the host
//   - delay and sound timers, decremented by the host at 60 Hz
//   - a 64x32 monochrome framebuffer
//
// # Memory Layout
//
//	0x000-0x04F: built-in font glyphs 0-F, 5 bytes each
//	0x050-0x1FF: unused interpreter area
//	ProgramStart-0xFFF: program and data area
//
// # Driving the Interpreter
//
// The interpreter never runs on its own. The host calls Tick for every
// instruction at the CPU rate and TickTimers on a separate 60 Hz schedule:
//
//	interp := chip8.New(chip8.WithLogger(logger))
//	if err := interp.Load(rom); err != nil {
//		return err
//	}
//	for {
//		for range instructionsPerFrame {
//			if err := interp.Tick(); err != nil {
//				return err
//			}
//		}
//		interp.TickTimers()
//		present(interp.Display())
//	}
//
// The key wait instruction FX0A does not block. It rewinds the program
// counter until a key is pressed, so timers keep running while waiting.
//
// None of the methods are safe for concurrent use.
package chip8
