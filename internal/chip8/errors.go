package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplementedOpcode is returned for instruction words that the
	// interpreter does not execute.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	// ErrStackOverflow is returned when a subroutine call exceeds the stack capacity.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning from a subroutine with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrProgramTooLarge is returned when a program does not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrMemoryBounds is returned when an instruction accesses memory outside of the address space.
	ErrMemoryBounds = errors.New("memory access out of bounds")
	// ErrInvalidKey is returned for key indexes outside of 0-15.
	ErrInvalidKey = errors.New("invalid key")
)

// OpcodeError describes an instruction word that could not be executed.
type OpcodeError struct {
	Address uint16 // address the word was fetched from
	Opcode  uint16
}

func (e *OpcodeError) Error() string {
	if name := mnemonic(e.Opcode); name != "" {
		return fmt.Sprintf("%s 0x%04X (%s) at 0x%03X", ErrUnimplementedOpcode, e.Opcode, name, e.Address)
	}
	return fmt.Sprintf("%s 0x%04X at 0x%03X", ErrUnimplementedOpcode, e.Opcode, e.Address)
}

// Unwrap returns ErrUnimplementedOpcode so errors.Is can match it.
func (e *OpcodeError) Unwrap() error {
	return ErrUnimplementedOpcode
}

// AddressError describes a memory access outside of the address space.
type AddressError struct {
	Opcode  uint16 // instruction word, 0 for instruction fetches
	Address int    // first offending address
}

func (e *AddressError) Error() string {
	if e.Opcode == 0 {
		return fmt.Sprintf("%s: fetch at 0x%04X", ErrMemoryBounds, e.Address)
	}
	return fmt.Sprintf("%s: opcode 0x%04X accessed 0x%04X", ErrMemoryBounds, e.Opcode, e.Address)
}

// Unwrap returns ErrMemoryBounds so errors.Is can match it.
func (e *AddressError) Unwrap() error {
	return ErrMemoryBounds
}
