// Package session orchestrates the emulation workflow stages.
package session

import (
	"context"
	"fmt"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Session orchestrates the complete emulation workflow.
type Session struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulation session.
func New(logger *log.Logger) *Session {
	return &Session{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the program with the frontend and sound output selected by
// the options.
func (s *Session) Execute(ctx context.Context, opts options.Program) error {
	fe, err := config.CreateFrontend(s.logger, opts)
	if err != nil {
		return fmt.Errorf("creating frontend: %w", err)
	}

	beeper := config.CreateBeeper(s.logger, opts)
	defer func() {
		if err := beeper.Close(); err != nil {
			s.logger.Error("Closing audio failed", log.Err(err))
		}
	}()

	return s.ExecuteWithFrontend(ctx, opts, fe, beeper)
}

// ExecuteWithFrontend runs the program with a preconfigured frontend and
// sound output. This is useful for testing and programmatic usage.
func (s *Session) ExecuteWithFrontend(ctx context.Context, opts options.Program,
	fe frontend.Frontend, beeper audio.Beeper) error {

	system, err := s.detector.Detect(opts)
	if err != nil {
		return fmt.Errorf("detecting system: %w", err)
	}

	rom, err := s.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	s.logger.Info("Program loaded",
		log.String("file", opts.Input),
		log.Stringer("system", system),
		log.Int("size", len(rom)))

	interp := chip8.New(chip8.WithLogger(s.logger))
	m := machine.New(s.logger, interp, config.CreateMachineConfig(opts), beeper)
	if err := m.Boot(rom); err != nil {
		return fmt.Errorf("booting machine: %w", err)
	}

	if err := fe.Run(ctx, m); err != nil {
		return fmt.Errorf("running %s frontend: %w", opts.Frontend, err)
	}

	s.logger.Info("Emulation finished", log.Int("frames", int(m.Frames())))
	return nil
}
