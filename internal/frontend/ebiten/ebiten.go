// Package ebiten implements a windowed frontend using the ebiten game library.
package ebiten

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

// Compile-time check to ensure Ebiten implements frontend.Frontend.
var _ frontend.Frontend = (*Ebiten)(nil)

const windowTitle = "retrochip8"

// Palette of the monochrome display.
var (
	ColorOn  = color.RGBA{R: 0xE8, G: 0xF0, B: 0xD8, A: 0xFF}
	ColorOff = color.RGBA{R: 0x18, G: 0x20, B: 0x18, A: 0xFF}
)

// Ebiten shows the display in a scaled window.
type Ebiten struct {
	logger *log.Logger
	layout keymap.Layout
	scale  int
}

// New returns an ebiten frontend with the given window scale factor.
func New(logger *log.Logger, layout keymap.Layout, scale int) *Ebiten {
	return &Ebiten{
		logger: logger,
		layout: layout,
		scale:  scale,
	}
}

// Run opens the window and runs the machine from the ebiten update loop,
// one machine frame per tick. It has to be called from the main goroutine.
func (e *Ebiten) Run(ctx context.Context, m *machine.Machine) error {
	g, err := newGame(ctx, e.logger, m, e.layout)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(chip8.ScreenWidth*e.scale, chip8.ScreenHeight*e.scale)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(int(time.Second / m.FrameDuration()))

	e.logger.Debug("Opening window",
		log.Int("width", chip8.ScreenWidth*e.scale),
		log.Int("height", chip8.ScreenHeight*e.scale))

	if err := ebiten.RunGame(g); err != nil {
		if errors.Is(err, ebiten.Termination) {
			return nil
		}
		return err
	}
	if g.ctx.Err() != nil {
		return g.ctx.Err()
	}
	return nil
}

// game implements ebiten.Game.
type game struct {
	ctx    context.Context
	logger *log.Logger
	m      *machine.Machine
	keys   [chip8.KeyCount]ebiten.Key
	pixels []byte
}

func newGame(ctx context.Context, logger *log.Logger, m *machine.Machine, layout keymap.Layout) (*game, error) {
	g := &game{
		ctx:    ctx,
		logger: logger,
		m:      m,
		pixels: make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*4),
	}
	for key, r := range layout.Runes() {
		k, ok := keyForRune(r)
		if !ok {
			return nil, fmt.Errorf("no keyboard key for character %q", r)
		}
		g.keys[key] = k
	}
	return g, nil
}

// Update handles hotkeys, updates the CHIP-8 keys and executes one frame.
func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if err := g.m.Restart(); err != nil {
			return fmt.Errorf("restarting: %w", err)
		}
		g.logger.Info("Program restarted")
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.m.SetPaused(!g.m.Paused())
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	for key, k := range g.keys {
		if err := g.m.SetKey(key, ebiten.IsKeyPressed(k)); err != nil {
			return err
		}
	}

	return g.m.StepFrame()
}

// Draw paints the framebuffer and the pause overlay.
func (g *game) Draw(screen *ebiten.Image) {
	fillPixels(g.pixels, g.m.Display())
	screen.WritePixels(g.pixels)

	if g.m.Paused() {
		text.Draw(screen, "PAUSED", basicfont.Face7x13, 11, 20, color.RGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF})
	}
}

// Layout keeps the logical screen at the CHIP-8 resolution, ebiten scales
// it to the window.
func (g *game) Layout(_, _ int) (int, int) {
	return chip8.ScreenWidth, chip8.ScreenHeight
}

// fillPixels converts the display into RGBA pixels.
func fillPixels(pixels []byte, display *chip8.Display) {
	for y := range chip8.ScreenHeight {
		for x := range chip8.ScreenWidth {
			c := ColorOff
			if display.Pixel(x, y) {
				c = ColorOn
			}
			offset := (x + chip8.ScreenWidth*y) * 4
			pixels[offset] = c.R
			pixels[offset+1] = c.G
			pixels[offset+2] = c.B
			pixels[offset+3] = c.A
		}
	}
}
