// Package machine drives the interpreter at a fixed frame rate, running a
// batch of instructions and one timer tick per frame.
package machine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoProgram is returned when restarting a machine that was never booted.
var ErrNoProgram = errors.New("no program loaded")

// Config contains the emulation speed settings.
type Config struct {
	CPUHz   int // instructions per second
	TimerHz int // timer ticks and frames per second
}

// FrameSink receives the display after every executed frame.
type FrameSink interface {
	// Present is called once per frame, returning false stops the machine.
	Present(display *chip8.Display) bool
}

// Machine owns the interpreter and paces it. It is not safe for concurrent
// use, frontends call it only from their frame loop.
type Machine struct {
	logger *log.Logger
	interp *chip8.Interpreter
	beeper audio.Beeper
	config Config

	rom    []byte
	frames uint64
	paused bool
}

// New returns a new machine driving the interpreter.
func New(logger *log.Logger, interp *chip8.Interpreter, config Config, beeper audio.Beeper) *Machine {
	if beeper == nil {
		beeper = &audio.Silent{}
	}
	return &Machine{
		logger: logger,
		interp: interp,
		beeper: beeper,
		config: config,
	}
}

// InstructionsPerFrame returns the number of instructions executed per frame.
func (m *Machine) InstructionsPerFrame() int {
	if m.config.TimerHz <= 0 {
		return 1
	}
	return max(1, m.config.CPUHz/m.config.TimerHz)
}

// FrameDuration returns the wall clock duration of one frame.
func (m *Machine) FrameDuration() time.Duration {
	if m.config.TimerHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(m.config.TimerHz)
}

// Boot resets the interpreter and loads the program.
func (m *Machine) Boot(rom []byte) error {
	m.interp.Reset()
	if err := m.interp.Load(rom); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	m.rom = rom
	m.frames = 0
	m.beeper.SetActive(false)

	m.logger.Debug("Machine booted",
		log.Int("rom_size", len(rom)),
		log.Int("instructions_per_frame", m.InstructionsPerFrame()))
	return nil
}

// Restart resets the interpreter and reloads the program passed to Boot.
func (m *Machine) Restart() error {
	if m.rom == nil {
		return ErrNoProgram
	}
	m.logger.Info("Restarting program")
	return m.Boot(m.rom)
}

// StepFrame executes one frame: a batch of instructions followed by a
// single timer tick. A paused machine does nothing.
func (m *Machine) StepFrame() error {
	if m.paused {
		return nil
	}

	for range m.InstructionsPerFrame() {
		if err := m.interp.Tick(); err != nil {
			m.beeper.SetActive(false)
			return fmt.Errorf("frame %d: %w", m.frames, err)
		}
	}
	m.interp.TickTimers()
	m.beeper.SetActive(m.interp.SoundActive())
	m.frames++
	return nil
}

// Run executes frames paced by the timer rate until the context is done,
// the sink stops the machine or an instruction fails.
func (m *Machine) Run(ctx context.Context, sink FrameSink) error {
	ticker := time.NewTicker(m.FrameDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := m.StepFrame(); err != nil {
			return err
		}
		if !sink.Present(m.interp.Display()) {
			return nil
		}
	}
}

// RunFrames executes the given number of frames as fast as possible.
func (m *Machine) RunFrames(ctx context.Context, frames int) error {
	for range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// SetKey updates the pressed state of a CHIP-8 key.
func (m *Machine) SetKey(key int, pressed bool) error {
	if err := m.interp.SetKey(key, pressed); err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	return nil
}

// SetPaused pauses or resumes execution.
func (m *Machine) SetPaused(paused bool) {
	if m.paused == paused {
		return
	}
	m.paused = paused
	if paused {
		m.beeper.SetActive(false)
	}
	m.logger.Debug("Pause state changed", log.String("state", pauseState(paused)))
}

// Paused returns whether execution is paused.
func (m *Machine) Paused() bool {
	return m.paused
}

// Display returns the framebuffer of the interpreter.
func (m *Machine) Display() *chip8.Display {
	return m.interp.Display()
}

// Frames returns the number of frames executed since booting.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Interpreter returns the driven interpreter.
func (m *Machine) Interpreter() *chip8.Interpreter {
	return m.interp
}

func pauseState(paused bool) string {
	if paused {
		return "paused"
	}
	return "running"
}
