package chip8

import "fmt"

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Tick fetches, decodes and executes one instruction.
// On error the state is left as it was before the instruction was fetched.
func (i *Interpreter) Tick() error {
	address := i.pc
	op, err := i.fetch()
	if err != nil {
		return err
	}
	if err := i.execute(address, op); err != nil {
		i.pc = address
		return err
	}
	return nil
}

// fetch reads the big-endian instruction word at the program counter and
// advances the program counter past it.
func (i *Interpreter) fetch() (uint16, error) {
	if int(i.pc)+1 >= MemorySize {
		return 0, &AddressError{Address: int(i.pc)}
	}
	op := uint16(i.memory[i.pc])<<8 | uint16(i.memory[i.pc+1])
	i.pc += opcodeSize
	return op, nil
}

//nolint:funlen,cyclop,gocyclo,gocognit // flat dispatch over the whole instruction set
func (i *Interpreter) execute(address, op uint16) error {
	x := extractRegisterX(op)
	y := extractRegisterY(op)
	nn := extractByte(op)
	nnn := extractAddress(op)

	switch op >> 12 {
	case 0x0:
		switch op {
		case 0x0000: // NOP
		case 0x00E0: // CLS
			i.display.clear()
		case 0x00EE: // RET
			ret, err := i.pop()
			if err != nil {
				return fmt.Errorf("returning at 0x%03X: %w", address, err)
			}
			i.pc = ret
		default:
			return &OpcodeError{Address: address, Opcode: op}
		}

	case 0x1: // JP addr
		i.pc = nnn

	case 0x2: // CALL addr
		if err := i.push(i.pc); err != nil {
			return err
		}
		i.pc = nnn

	case 0x3: // SE Vx, byte
		if i.v[x] == nn {
			i.skip()
		}

	case 0x4: // SNE Vx, byte
		if i.v[x] != nn {
			i.skip()
		}

	case 0x5: // SE Vx, Vy
		if op&0x000F != 0 {
			return &OpcodeError{Address: address, Opcode: op}
		}
		if i.v[x] == i.v[y] {
			i.skip()
		}

	case 0x6: // LD Vx, byte
		i.v[x] = nn

	case 0x7: // ADD Vx, byte
		i.v[x] += nn

	case 0x8:
		return i.executeALU(address, op, x, y)

	case 0x9: // SNE Vx, Vy
		if op&0x000F != 0 {
			return &OpcodeError{Address: address, Opcode: op}
		}
		if i.v[x] != i.v[y] {
			i.skip()
		}

	case 0xA: // LD I, addr
		i.index = nnn

	case 0xB: // JP V0, addr
		// the sum is intentionally not masked to 12 bits
		i.pc = uint16(i.v[0]) + nnn

	case 0xC: // RND Vx, byte
		i.v[x] = i.random.Byte() & nn

	case 0xD: // DRW Vx, Vy, nibble
		return i.draw(op, x, y, extractNibble(op))

	case 0xE:
		return i.executeKeySkip(address, op, x)

	case 0xF:
		return i.executeMisc(address, op, x)
	}
	return nil
}

// executeALU executes the 8XYN register arithmetic and logic instructions.
// Vx is always written before VF, so VF holds the flag when x is 0xF.
func (i *Interpreter) executeALU(address, op uint16, x, y int) error {
	vx, vy := i.v[x], i.v[y]

	switch extractNibble(op) {
	case 0x0: // LD Vx, Vy
		i.v[x] = vy
	case 0x1: // OR Vx, Vy
		i.v[x] = vx | vy
	case 0x2: // AND Vx, Vy
		i.v[x] = vx & vy
	case 0x3: // XOR Vx, Vy
		i.v[x] = vx ^ vy
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		i.v[x] = byte(sum)
		i.v[flagRegister] = boolToByte(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		i.v[x] = vx - vy
		i.v[flagRegister] = boolToByte(vx >= vy)
	case 0x6: // SHR Vx
		i.v[x] = vx >> 1
		i.v[flagRegister] = vx & 0x01
	case 0x7: // SUBN Vx, Vy
		i.v[x] = vy - vx
		i.v[flagRegister] = boolToByte(vy >= vx)
	case 0xE: // SHL Vx
		i.v[x] = vx << 1
		i.v[flagRegister] = (vx >> 7) & 0x01
	default:
		return &OpcodeError{Address: address, Opcode: op}
	}
	return nil
}

// executeKeySkip executes EX9E and EXA1.
func (i *Interpreter) executeKeySkip(address, op uint16, x int) error {
	var wantPressed bool
	switch extractByte(op) {
	case 0x9E: // SKP Vx
		wantPressed = true
	case 0xA1: // SKNP Vx
		wantPressed = false
	default:
		return &OpcodeError{Address: address, Opcode: op}
	}

	key := int(i.v[x])
	if key >= KeyCount {
		return fmt.Errorf("%w: V%X holds %d at 0x%03X", ErrInvalidKey, x, key, address)
	}
	if i.keys[key] == wantPressed {
		i.skip()
	}
	return nil
}

// executeMisc executes the FXNN timer, key, index and memory instructions.
func (i *Interpreter) executeMisc(address, op uint16, x int) error {
	switch extractByte(op) {
	case 0x07: // LD Vx, DT
		i.v[x] = i.delay

	case 0x0A: // LD Vx, K
		i.waitForKey(x)

	case 0x15: // LD DT, Vx
		i.delay = i.v[x]

	case 0x18: // LD ST, Vx
		i.sound = i.v[x]

	case 0x1E: // ADD I, Vx
		i.index += uint16(i.v[x])

	case 0x29: // LD F, Vx
		i.index = uint16(i.v[x]) * glyphSize

	case 0x33: // LD B, Vx
		if err := i.checkRange(op, i.index, 3); err != nil {
			return err
		}
		vx := i.v[x]
		i.memory[i.index] = vx / 100
		i.memory[i.index+1] = (vx / 10) % 10
		i.memory[i.index+2] = vx % 10

	case 0x55: // LD [I], Vx
		if err := i.checkRange(op, i.index, x+1); err != nil {
			return err
		}
		copy(i.memory[i.index:], i.v[:x+1])

	case 0x65: // LD Vx, [I]
		if err := i.checkRange(op, i.index, x+1); err != nil {
			return err
		}
		copy(i.v[:x+1], i.memory[i.index:])

	default:
		return &OpcodeError{Address: address, Opcode: op}
	}
	return nil
}

// waitForKey stores the lowest pressed key in Vx. Without a pressed key the
// program counter is rewound so that the instruction executes again on the
// next tick.
func (i *Interpreter) waitForKey(x int) {
	for key, pressed := range i.keys {
		if pressed {
			i.v[x] = byte(key)
			return
		}
	}
	i.pc -= opcodeSize
}

// draw XORs an 8 pixel wide sprite of the given height read from memory at I
// onto the display. The origin wraps around the screen and so does every
// pixel of the sprite. VF is set if any set pixel was cleared.
func (i *Interpreter) draw(op uint16, x, y, height int) error {
	if err := i.checkRange(op, i.index, height); err != nil {
		return err
	}

	originX := int(i.v[x]) % ScreenWidth
	originY := int(i.v[y]) % ScreenHeight
	collision := false

	for row := range height {
		line := i.memory[int(i.index)+row]
		for col := range 8 {
			if line&(0x80>>col) == 0 {
				continue
			}
			if i.display.flip(originX+col, originY+row) {
				collision = true
			}
		}
	}

	i.v[flagRegister] = boolToByte(collision)
	return nil
}

// checkRange verifies that length bytes starting at address are inside of memory.
func (i *Interpreter) checkRange(op, address uint16, length int) error {
	if length == 0 {
		return nil
	}
	if last := int(address) + length - 1; last >= MemorySize {
		first := max(int(address), MemorySize)
		return &AddressError{Opcode: op, Address: first}
	}
	return nil
}

func (i *Interpreter) skip() {
	i.pc += opcodeSize
}

// extractRegisterX extracts the X register nibble from an opcode.
func extractRegisterX(op uint16) int {
	return int(op&0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from an opcode.
func extractRegisterY(op uint16) int {
	return int(op&0x00F0) >> 4
}

// extractNibble extracts the lowest nibble N from an opcode.
func extractNibble(op uint16) int {
	return int(op & 0x000F)
}

// extractByte extracts the immediate byte NN from an opcode.
func extractByte(op uint16) byte {
	return byte(op & 0x00FF)
}

// extractAddress extracts the 12-bit address NNN from an opcode.
func extractAddress(op uint16) uint16 {
	return op & 0x0FFF
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
