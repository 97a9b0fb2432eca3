package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// mnemonic returns the CHIP-8 family instruction name for an opcode word,
// or an empty string if the word is not part of the instruction set.
// It is only used to describe opcodes in errors, decoding for execution
// is done by the interpreter itself.
func mnemonic(w uint16) string {
	firstNibble := (w & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&w == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return ""
}
