// Package terminal implements a frontend that renders into an ANSI terminal
// and reads keys from stdin in raw mode.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/render"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// Compile-time check to ensure Terminal implements frontend.Frontend.
var _ frontend.Frontend = (*Terminal)(nil)

// ErrNotTerminal is returned when stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// HoldFrames is the number of frames a key stays pressed after its
// character was read. Terminals only report key presses, so releases
// are simulated.
const HoldFrames = 6

// Control characters handled by the frontend.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1B
)

const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// minimum terminal size, one extra line for the status
const (
	minColumns = chip8.ScreenWidth
	minRows    = chip8.ScreenHeight/2 + 1
)

// Terminal renders the display with half block characters.
type Terminal struct {
	logger *log.Logger
	layout keymap.Layout
	in     *os.File
	out    io.Writer
}

// New returns a terminal frontend using stdin and stdout.
func New(logger *log.Logger, layout keymap.Layout) *Terminal {
	return &Terminal{
		logger: logger,
		layout: layout,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// Run switches the terminal to raw mode and runs the machine until the
// user quits with Escape or Ctrl+C.
func (t *Terminal) Run(ctx context.Context, m *machine.Machine) error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	if columns, rows, err := term.GetSize(fd); err == nil && (columns < minColumns || rows < minRows) {
		t.logger.Warn("Terminal is smaller than the display",
			log.Int("columns", columns),
			log.Int("rows", rows))
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	_, _ = io.WriteString(t.out, ansiHideCursor+ansiClear)
	defer func() { _, _ = io.WriteString(t.out, ansiShowCursor+"\r\n") }()

	input := make(chan byte, 64)
	go readInput(t.in, input)

	p := newPresenter(t.logger, m, t.layout, input, t.out)
	if err := m.Run(ctx, p); err != nil {
		return err
	}
	return p.err
}

// readInput forwards all bytes read from the reader to the channel. The
// goroutine ends when reading fails, a blocking read on stdin can not be
// interrupted, so it is left running when the frontend stops.
func readInput(reader io.Reader, input chan<- byte) {
	buf := make([]byte, 16)
	for {
		n, err := reader.Read(buf)
		for _, b := range buf[:n] {
			input <- b
		}
		if err != nil {
			close(input)
			return
		}
	}
}

// presenter handles input and output between frames.
type presenter struct {
	logger *log.Logger
	m      *machine.Machine
	layout keymap.Layout
	input  <-chan byte
	out    *bufio.Writer
	held   [chip8.KeyCount]int // remaining frames per pressed key
	err    error
}

func newPresenter(logger *log.Logger, m *machine.Machine, layout keymap.Layout,
	input <-chan byte, out io.Writer) *presenter {

	return &presenter{
		logger: logger,
		m:      m,
		layout: layout,
		input:  input,
		out:    bufio.NewWriter(out),
	}
}

// Present releases expired keys, handles pending input and draws the display.
func (p *presenter) Present(display *chip8.Display) bool {
	p.releaseKeys()
	if !p.handleInput() {
		return false
	}
	if err := p.draw(display); err != nil {
		p.err = err
		return false
	}
	return true
}

// releaseKeys counts down the hold time of pressed keys.
func (p *presenter) releaseKeys() {
	for key, frames := range p.held {
		if frames == 0 {
			continue
		}
		p.held[key]--
		if p.held[key] == 0 {
			p.setKey(key, false)
		}
	}
}

// handleInput processes all buffered input without blocking and returns
// false if the user quit.
func (p *presenter) handleInput() bool {
	for {
		select {
		case b, ok := <-p.input:
			if !ok {
				return false
			}
			if !p.handleByte(b) {
				return false
			}
		default:
			return true
		}
	}
}

func (p *presenter) handleByte(b byte) bool {
	switch b {
	case keyCtrlC, keyEscape:
		p.logger.Debug("Quit requested")
		return false
	case 'p', 'P':
		p.m.SetPaused(!p.m.Paused())
		return true
	case 'l', 'L':
		if err := p.m.Restart(); err != nil {
			p.err = err
			return false
		}
		p.held = [chip8.KeyCount]int{}
		return true
	}

	key, ok := p.layout.KeyForRune(rune(b))
	if !ok {
		return true
	}
	p.held[key] = HoldFrames
	p.setKey(key, true)
	return true
}

func (p *presenter) setKey(key int, pressed bool) {
	if err := p.m.SetKey(key, pressed); err != nil {
		p.logger.Error("Setting key failed", log.Err(err))
	}
}

// draw writes the display followed by a status line. Raw mode needs
// explicit carriage returns.
func (p *presenter) draw(display *chip8.Display) error {
	text := strings.ReplaceAll(render.Text(display), "\n", "\r\n")
	status := "running"
	if p.m.Paused() {
		status = "paused "
	}

	_, _ = p.out.WriteString(ansiHome)
	_, _ = p.out.WriteString(text)
	_, _ = fmt.Fprintf(p.out, "[%s] frame %-8d  p: pause  l: restart  esc: quit", status, p.m.Frames())
	if err := p.out.Flush(); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}
