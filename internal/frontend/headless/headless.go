// Package headless implements a frontend without window or input that runs
// a fixed number of frames and prints the final display.
package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/render"
	"github.com/retroenv/retrogolib/log"
)

// Compile-time check to ensure Headless implements frontend.Frontend.
var _ frontend.Frontend = (*Headless)(nil)

// Headless runs frames without pacing.
type Headless struct {
	logger *log.Logger
	frames int
	writer io.Writer
}

// New returns a headless frontend that runs the given number of frames and
// writes the final display to the writer.
func New(logger *log.Logger, frames int, writer io.Writer) *Headless {
	return &Headless{
		logger: logger,
		frames: frames,
		writer: writer,
	}
}

// Run executes all frames and prints the display.
func (h *Headless) Run(ctx context.Context, m *machine.Machine) error {
	if err := m.RunFrames(ctx, h.frames); err != nil {
		return fmt.Errorf("running frames: %w", err)
	}

	h.logger.Info("Headless run finished",
		log.Int("frames", h.frames),
		log.Int("lit_pixels", m.Display().Lit()))

	if _, err := io.WriteString(h.writer, render.Text(m.Display())); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}
