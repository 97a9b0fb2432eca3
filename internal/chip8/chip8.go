package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 machine constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096
	// ProgramStart is the address programs are loaded to and execution starts at.
	ProgramStart = 0x200
	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	// flagRegister is VF, which instructions overwrite with carry, borrow,
	// shifted out bits and sprite collisions.
	flagRegister = 0xF
)

// Interpreter contains the complete emulated machine state.
type Interpreter struct {
	logger *log.Logger
	random RandomSource

	pc     uint16
	memory [MemorySize]byte
	v      [RegisterCount]byte
	index  uint16
	stack  [StackSize]uint16
	sp     int
	keys   [KeyCount]bool
	delay  byte
	sound  byte

	display Display
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithRandomSource sets the source of random bytes used by CXNN.
func WithRandomSource(random RandomSource) Option {
	return func(i *Interpreter) {
		i.random = random
	}
}

// New returns a new interpreter with the font loaded and the program
// counter at ProgramStart.
func New(options ...Option) *Interpreter {
	i := &Interpreter{
		random: defaultRandom{},
	}
	for _, option := range options {
		option(i)
	}
	i.initialize()
	return i
}

// Reset restores the state to the same initial condition as New,
// which also clears any loaded program.
func (i *Interpreter) Reset() {
	i.initialize()
	if i.logger != nil {
		i.logger.Debug("Interpreter reset", log.Hex("pc", i.pc))
	}
}

func (i *Interpreter) initialize() {
	i.pc = ProgramStart
	i.memory = [MemorySize]byte{}
	i.v = [RegisterCount]byte{}
	i.index = 0
	i.stack = [StackSize]uint16{}
	i.sp = 0
	i.keys = [KeyCount]bool{}
	i.delay = 0
	i.sound = 0
	i.display.clear()
	copy(i.memory[:FontSize], font[:])
}

// Load copies the program verbatim into memory starting at ProgramStart.
func (i *Interpreter) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(i.memory[ProgramStart:], program)
	if i.logger != nil {
		i.logger.Debug("Program loaded",
			log.Int("program_size", len(program)),
			log.Hex("start", uint16(ProgramStart)))
	}
	return nil
}

// SetKey updates the pressed state of a key.
func (i *Interpreter) SetKey(key int, pressed bool) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	i.keys[key] = pressed
	return nil
}

// TickTimers decrements the delay and sound timers by one if they are
// not already zero.
func (i *Interpreter) TickTimers() {
	if i.delay > 0 {
		i.delay--
	}
	if i.sound > 0 {
		i.sound--
	}
}

// Display returns the framebuffer. It must be treated as read-only.
func (i *Interpreter) Display() *Display {
	return &i.display
}

// PC returns the program counter.
func (i *Interpreter) PC() uint16 {
	return i.pc
}

// Index returns the index register I.
func (i *Interpreter) Index() uint16 {
	return i.index
}

// Register returns the value of register Vx. Only the low nibble of x is used.
func (i *Interpreter) Register(x int) byte {
	return i.v[x&0x0F]
}

// DelayTimer returns the current delay timer value.
func (i *Interpreter) DelayTimer() byte {
	return i.delay
}

// SoundTimer returns the current sound timer value.
func (i *Interpreter) SoundTimer() byte {
	return i.sound
}

// SoundActive returns whether the host should currently emit a tone.
func (i *Interpreter) SoundActive() bool {
	return i.sound > 0
}

// Key returns whether the key is pressed, invalid keys report false.
func (i *Interpreter) Key(key int) bool {
	if key < 0 || key >= KeyCount {
		return false
	}
	return i.keys[key]
}

// Memory returns the byte at the address, wrapping addresses into the
// address space.
func (i *Interpreter) Memory(address uint16) byte {
	return i.memory[int(address)%MemorySize]
}

func (i *Interpreter) push(address uint16) error {
	if i.sp >= StackSize {
		return fmt.Errorf("%w: calling from 0x%03X", ErrStackOverflow, address)
	}
	i.stack[i.sp] = address
	i.sp++
	return nil
}

func (i *Interpreter) pop() (uint16, error) {
	if i.sp == 0 {
		return 0, ErrStackUnderflow
	}
	i.sp--
	return i.stack[i.sp], nil
}
