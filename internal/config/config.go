// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/ebiten"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineConfig returns the machine speed settings of the options.
func CreateMachineConfig(opts options.Program) machine.Config {
	return machine.Config{
		CPUHz:   opts.CPUHz,
		TimerHz: opts.TimerHz,
	}
}

// CreateBeeper returns the sound output for the options. Headless runs and
// muted runs are silent, an unavailable audio device falls back to silence.
func CreateBeeper(logger *log.Logger, opts options.Program) audio.Beeper {
	if opts.Mute || opts.Frontend == options.Headless {
		return &audio.Silent{}
	}

	beeper, err := audio.NewOto(logger)
	if err != nil {
		logger.Warn("Audio not available, sound disabled", log.Err(err))
		return &audio.Silent{}
	}
	return beeper
}

// CreateFrontend returns the frontend selected by the options.
func CreateFrontend(logger *log.Logger, opts options.Program) (frontend.Frontend, error) {
	switch opts.Frontend {
	case options.Ebiten:
		return ebiten.New(logger, keymap.QWERTY, opts.Scale), nil
	case options.Terminal:
		return terminal.New(logger, keymap.QWERTY), nil
	case options.Headless:
		return headless.New(logger, opts.Frames, os.Stdout), nil
	default:
		return nil, fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}
