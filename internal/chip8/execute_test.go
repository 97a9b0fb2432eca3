package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTick_Fetch(t *testing.T) {
	i := newTestInterpreter(t, 0x0000, 0x0000)
	assert.NoError(t, i.Tick())
	assert.Equal(t, uint16(ProgramStart+2), i.PC())
	assert.NoError(t, i.Tick())
	assert.Equal(t, uint16(ProgramStart+4), i.PC())
}

func TestTick_ClearScreen(t *testing.T) {
	i := newTestInterpreter(t,
		0xF029, // LD F, V0
		0xD005, // DRW V0, V0, 5
		0x00E0, // CLS
	)
	tickN(t, i, 2)
	assert.True(t, i.Display().Lit() > 0)
	tickN(t, i, 1)
	assert.Equal(t, 0, i.Display().Lit())
}

func TestTick_JumpAndSubroutine(t *testing.T) {
	i := newTestInterpreter(t,
		0x2206, // 200: CALL $206
		0x1ABC, // 202: JP $ABC
		0x0000, // 204
		0x00EE, // 206: RET
	)

	tickN(t, i, 1)
	assert.Equal(t, uint16(0x206), i.PC())
	assert.Equal(t, 1, i.sp)
	assert.Equal(t, uint16(0x202), i.stack[0])

	tickN(t, i, 1)
	assert.Equal(t, uint16(0x202), i.PC())
	assert.Equal(t, 0, i.sp)

	tickN(t, i, 1)
	assert.Equal(t, uint16(0xABC), i.PC())
}

func TestTick_JumpWithOffset(t *testing.T) {
	tests := []struct {
		name     string
		v0       uint16
		opcode   uint16
		expected uint16
	}{
		{"zero offset", 0x6000, 0xB300, 0x300},
		{"offset added", 0x6010, 0xB300, 0x310},
		{"sum not masked to 12 bits", 0x60FF, 0xBFFF, 0x10FE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newTestInterpreter(t, tt.v0, tt.opcode)
			tickN(t, i, 2)
			assert.Equal(t, tt.expected, i.PC())
		})
	}
}

func TestTick_Skips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		skip   bool
	}{
		{"SE byte equal", 0x3142, true},
		{"SE byte not equal", 0x3143, false},
		{"SNE byte equal", 0x4142, false},
		{"SNE byte not equal", 0x4143, true},
		{"SE register equal", 0x5120, true},
		{"SE register not equal", 0x5130, false},
		{"SNE register equal", 0x9120, false},
		{"SNE register not equal", 0x9130, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newTestInterpreter(t,
				0x6142, // LD V1, $42
				0x6242, // LD V2, $42
				0x6307, // LD V3, $07
				tt.opcode,
			)
			tickN(t, i, 3)

			before := i.PC()
			tickN(t, i, 1)
			if tt.skip {
				assert.Equal(t, before+4, i.PC())
			} else {
				assert.Equal(t, before+2, i.PC())
			}
		})
	}
}

func TestTick_LoadAndAddImmediate(t *testing.T) {
	for vx := range 256 {
		for _, nn := range []int{0x00, 0x01, 0x7F, 0x80, 0xFF} {
			i := newTestInterpreter(t, 0x6500|uint16(vx), 0x7500|uint16(nn))
			tickN(t, i, 2)
			assert.Equal(t, byte((vx+nn)%256), i.Register(5))
			assert.Equal(t, byte(0), i.Register(flagRegister))
		}
	}
}

func TestTick_Logic(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected byte
	}{
		{"LD", 0x8120, 0x0F},
		{"OR", 0x8121, 0x3F},
		{"AND", 0x8122, 0x0C},
		{"XOR", 0x8123, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newTestInterpreter(t, 0x613C, 0x620F, tt.opcode)
			tickN(t, i, 3)
			assert.Equal(t, tt.expected, i.Register(1))
			assert.Equal(t, byte(0x0F), i.Register(2))
		})
	}
}

// runALU executes an 8XYN instruction with V1=vx and V2=vy.
func runALU(t *testing.T, vx, vy byte, n uint16) *Interpreter {
	t.Helper()
	i := New()
	i.v[1] = vx
	i.v[2] = vy
	i.memory[ProgramStart] = 0x81
	i.memory[ProgramStart+1] = byte(0x20 | n)
	tickN(t, i, 1)
	return i
}

func TestTick_AddWithCarry(t *testing.T) {
	for vx := range 256 {
		for vy := range 256 {
			i := runALU(t, byte(vx), byte(vy), 0x4)
			assert.Equal(t, byte((vx+vy)%256), i.Register(1))
			assert.Equal(t, boolToByte(vx+vy >= 256), i.Register(flagRegister))
		}
	}
}

func TestTick_Subtract(t *testing.T) {
	for vx := range 256 {
		for vy := range 256 {
			i := runALU(t, byte(vx), byte(vy), 0x5)
			assert.Equal(t, byte(vx-vy), i.Register(1))
			assert.Equal(t, boolToByte(vx >= vy), i.Register(flagRegister))

			i = runALU(t, byte(vx), byte(vy), 0x7)
			assert.Equal(t, byte(vy-vx), i.Register(1))
			assert.Equal(t, boolToByte(vy >= vx), i.Register(flagRegister))
		}
	}
}

func TestTick_Shifts(t *testing.T) {
	for vx := range 256 {
		i := runALU(t, byte(vx), 0xAA, 0x6)
		assert.Equal(t, byte(vx>>1), i.Register(1))
		assert.Equal(t, byte(vx&1), i.Register(flagRegister))
		assert.Equal(t, byte(0xAA), i.Register(2))

		i = runALU(t, byte(vx), 0xAA, 0xE)
		assert.Equal(t, byte(vx<<1), i.Register(1))
		assert.Equal(t, byte(vx>>7), i.Register(flagRegister))
	}
}

func TestTick_FlagRegisterAsOperand(t *testing.T) {
	i := newTestInterpreter(t,
		0x6FFF, // LD VF, $FF
		0x6101, // LD V1, $01
		0x8F14, // ADD VF, V1
	)
	tickN(t, i, 3)
	assert.Equal(t, byte(1), i.Register(flagRegister))
}

func TestTick_Index(t *testing.T) {
	i := newTestInterpreter(t,
		0xAFFF, // LD I, $FFF
		0x6010, // LD V0, $10
		0xF01E, // ADD I, V0
	)
	tickN(t, i, 3)
	assert.Equal(t, uint16(0x100F), i.Index())

	i.index = 0xFFFF
	i.v[0] = 2
	i.pc = ProgramStart + 4
	tickN(t, i, 1)
	assert.Equal(t, uint16(0x0001), i.Index())
}

func TestTick_Random(t *testing.T) {
	values := []byte{0xFF, 0xA5, 0x00}
	next := 0
	random := RandomFunc(func() byte {
		b := values[next]
		next++
		return b
	})

	i := New(WithRandomSource(random))
	assert.NoError(t, i.Load([]byte{0xC1, 0x0F, 0xC2, 0xF0, 0xC3, 0xFF}))
	tickN(t, i, 3)
	assert.Equal(t, byte(0x0F), i.Register(1))
	assert.Equal(t, byte(0xA0), i.Register(2))
	assert.Equal(t, byte(0x00), i.Register(3))
}

func TestTick_RandomDefaultSourceMasked(t *testing.T) {
	i := New()
	assert.NoError(t, i.Load([]byte{0xC4, 0x0A}))
	for range 64 {
		i.pc = ProgramStart
		tickN(t, i, 1)
		assert.Equal(t, byte(0), i.Register(4)&^0x0A)
	}
}

func TestTick_DrawWrapAndCollision(t *testing.T) {
	i := newTestInterpreter(t,
		0x603F, // LD V0, 63
		0x6100, // LD V1, 0
		0xA300, // LD I, $300
		0xD011, // DRW V0, V1, 1
		0xD011, // DRW V0, V1, 1
	)
	i.memory[0x300] = 0xFF

	tickN(t, i, 4)
	assert.Equal(t, byte(0), i.Register(flagRegister))
	assert.Equal(t, 8, i.Display().Lit())
	for _, col := range []int{63, 0, 1, 2, 3, 4, 5, 6} {
		assert.True(t, i.Display().Pixel(col, 0))
	}
	assert.False(t, i.Display().Pixel(7, 0))
	assert.Equal(t, uint16(0x300), i.Index())

	tickN(t, i, 1)
	assert.Equal(t, byte(1), i.Register(flagRegister))
	assert.Equal(t, 0, i.Display().Lit())
}

func TestTick_DrawOriginWrapsVertically(t *testing.T) {
	i := newTestInterpreter(t,
		0x6045, // LD V0, 69
		0x6123, // LD V1, 35
		0xF229, // LD F, V2
		0xD015, // DRW V0, V1, 5
	)
	tickN(t, i, 4)

	// glyph 0 at origin (5, 3)
	assert.True(t, i.Display().Pixel(5, 3))
	assert.True(t, i.Display().Pixel(8, 3))
	assert.True(t, i.Display().Pixel(5, 7))
	assert.False(t, i.Display().Pixel(6, 4))
	assert.Equal(t, 14, i.Display().Lit())
}

func TestTick_DrawSpriteRowsWrap(t *testing.T) {
	i := newTestInterpreter(t,
		0x6000, // LD V0, 0
		0x611F, // LD V1, 31
		0xA300, // LD I, $300
		0xD012, // DRW V0, V1, 2
	)
	i.memory[0x300] = 0x80
	i.memory[0x301] = 0x80
	tickN(t, i, 4)

	assert.True(t, i.Display().Pixel(0, 31))
	assert.True(t, i.Display().Pixel(0, 0))
	assert.Equal(t, 2, i.Display().Lit())
}

func TestTick_KeySkips(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		pressed bool
		skip    bool
	}{
		{"SKP pressed", 0xE59E, true, true},
		{"SKP released", 0xE59E, false, false},
		{"SKNP pressed", 0xE5A1, true, false},
		{"SKNP released", 0xE5A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newTestInterpreter(t, 0x650B, tt.opcode)
			assert.NoError(t, i.SetKey(0xB, tt.pressed))
			tickN(t, i, 2)
			if tt.skip {
				assert.Equal(t, uint16(ProgramStart+6), i.PC())
			} else {
				assert.Equal(t, uint16(ProgramStart+4), i.PC())
			}
		})
	}
}

func TestTick_KeySkipInvalidKey(t *testing.T) {
	i := newTestInterpreter(t, 0x6510, 0xE59E)
	tickN(t, i, 1)

	err := i.Tick()
	assert.True(t, errors.Is(err, ErrInvalidKey))
	assert.Equal(t, uint16(ProgramStart+2), i.PC())
}

func TestTick_WaitForKey(t *testing.T) {
	i := newTestInterpreter(t,
		0x6005, // LD V0, 5
		0xF015, // LD DT, V0
		0xF30A, // LD V3, K
	)
	tickN(t, i, 2)
	waitAddress := i.PC()

	for range 3 {
		tickN(t, i, 1)
		assert.Equal(t, waitAddress, i.PC())
		i.TickTimers()
	}
	assert.Equal(t, byte(2), i.DelayTimer())

	assert.NoError(t, i.SetKey(0xC, true))
	assert.NoError(t, i.SetKey(0x7, true))
	tickN(t, i, 1)
	assert.Equal(t, waitAddress+2, i.PC())
	assert.Equal(t, byte(0x7), i.Register(3))
}

func TestTick_Timers(t *testing.T) {
	i := newTestInterpreter(t,
		0x6A09, // LD VA, 9
		0xFA15, // LD DT, VA
		0xFB07, // LD VB, DT
	)
	tickN(t, i, 2)
	i.TickTimers()
	tickN(t, i, 1)
	assert.Equal(t, byte(8), i.Register(0xB))
}

func TestTick_FontAddress(t *testing.T) {
	for digit := range 16 {
		i := newTestInterpreter(t, 0x6E00|uint16(digit), 0xFE29)
		tickN(t, i, 2)

		assert.Equal(t, uint16(5*digit), i.Index())
		glyph := Glyph(byte(digit))
		for offset := range glyphSize {
			assert.Equal(t, glyph[offset], i.Memory(i.Index()+uint16(offset)))
		}
	}
}

func TestTick_BCD(t *testing.T) {
	tests := []struct {
		value    uint16
		expected [3]byte
	}{
		{255, [3]byte{2, 5, 5}},
		{7, [3]byte{0, 0, 7}},
		{100, [3]byte{1, 0, 0}},
		{42, [3]byte{0, 4, 2}},
	}

	for _, tt := range tests {
		i := newTestInterpreter(t, 0xA400, 0x6400|tt.value, 0xF433)
		tickN(t, i, 3)
		assert.Equal(t, tt.expected[0], i.Memory(0x400))
		assert.Equal(t, tt.expected[1], i.Memory(0x401))
		assert.Equal(t, tt.expected[2], i.Memory(0x402))
		assert.Equal(t, uint16(0x400), i.Index())
	}
}

func TestTick_StoreAndLoadRegisters(t *testing.T) {
	i := newTestInterpreter(t,
		0x6011, // LD V0, $11
		0x6122, // LD V1, $22
		0x6233, // LD V2, $33
		0x6344, // LD V3, $44
		0xA500, // LD I, $500
		0xF255, // LD [I], V2
		0x6000, // LD V0, 0
		0x6100, // LD V1, 0
		0x6200, // LD V2, 0
		0xF165, // LD V1, [I]
	)
	tickN(t, i, 6)
	assert.Equal(t, byte(0x11), i.Memory(0x500))
	assert.Equal(t, byte(0x22), i.Memory(0x501))
	assert.Equal(t, byte(0x33), i.Memory(0x502))
	assert.Equal(t, byte(0x00), i.Memory(0x503))
	assert.Equal(t, uint16(0x500), i.Index())

	tickN(t, i, 4)
	assert.Equal(t, byte(0x11), i.Register(0))
	assert.Equal(t, byte(0x22), i.Register(1))
	assert.Equal(t, byte(0x00), i.Register(2))
	assert.Equal(t, byte(0x44), i.Register(3))
	assert.Equal(t, uint16(0x500), i.Index())
}

func TestTick_UnimplementedOpcodes(t *testing.T) {
	opcodes := []uint16{0x0123, 0x00FF, 0x5121, 0x9128, 0x8128, 0x812F, 0xE19F, 0xF1FF, 0xF175}

	for _, opcode := range opcodes {
		i := newTestInterpreter(t, opcode)

		err := i.Tick()
		assert.True(t, errors.Is(err, ErrUnimplementedOpcode))

		var opErr *OpcodeError
		assert.True(t, errors.As(err, &opErr))
		assert.Equal(t, opcode, opErr.Opcode)
		assert.Equal(t, uint16(ProgramStart), opErr.Address)
		assert.Equal(t, uint16(ProgramStart), i.PC())
	}
}

func TestTick_Stack(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		i := newTestInterpreter(t, 0x2200) // CALL $200
		tickN(t, i, StackSize)

		err := i.Tick()
		assert.True(t, errors.Is(err, ErrStackOverflow))
		assert.Equal(t, StackSize, i.sp)
		assert.Equal(t, uint16(ProgramStart), i.PC())
	})

	t.Run("underflow", func(t *testing.T) {
		i := newTestInterpreter(t, 0x00EE)

		err := i.Tick()
		assert.True(t, errors.Is(err, ErrStackUnderflow))
		assert.Equal(t, 0, i.sp)
		assert.Equal(t, uint16(ProgramStart), i.PC())
	})
}

func TestTick_MemoryBounds(t *testing.T) {
	t.Run("fetch after unmasked jump", func(t *testing.T) {
		i := newTestInterpreter(t, 0x60FF, 0xBFFF)
		tickN(t, i, 2)

		err := i.Tick()
		assert.True(t, errors.Is(err, ErrMemoryBounds))
		assert.Equal(t, uint16(0x10FE), i.PC())
	})

	t.Run("store crosses end of memory", func(t *testing.T) {
		i := newTestInterpreter(t, 0xAFFE, 0x6177, 0xF255)
		tickN(t, i, 2)

		err := i.Tick()
		var addrErr *AddressError
		assert.True(t, errors.As(err, &addrErr))
		assert.Equal(t, MemorySize, addrErr.Address)
		assert.Equal(t, byte(0), i.Memory(0xFFE))
		assert.Equal(t, uint16(ProgramStart+4), i.PC())
	})

	t.Run("sprite rows beyond memory", func(t *testing.T) {
		i := newTestInterpreter(t, 0xAFFF, 0xD002)
		tickN(t, i, 1)

		err := i.Tick()
		assert.True(t, errors.Is(err, ErrMemoryBounds))
		assert.Equal(t, 0, i.Display().Lit())
	})

	t.Run("bcd beyond memory", func(t *testing.T) {
		i := newTestInterpreter(t, 0xAFFE, 0xF033)
		tickN(t, i, 1)
		assert.True(t, errors.Is(i.Tick(), ErrMemoryBounds))
	})
}
