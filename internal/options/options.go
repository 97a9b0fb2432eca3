// Package options contains the program options.
package options

// Frontend names.
const (
	Ebiten   = "ebiten"
	Terminal = "terminal"
	Headless = "headless"
)

// Frontends lists all supported frontend names.
var Frontends = []string{Ebiten, Terminal, Headless}

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
}

// Flags contains behavior options.
type Flags struct {
	System   string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Frontend string `flag:"f" usage:"frontend: ebiten, terminal, headless" default:"ebiten"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
	Mute     bool   `flag:"mute" usage:"disable sound output"`
}

// Timing contains emulation speed options.
type Timing struct {
	CPUHz   int `flag:"cpu" usage:"instructions executed per second" default:"700"`
	TimerHz int // timer and frame rate, fixed
	Frames  int `flag:"frames" usage:"number of frames to run in headless mode" default:"600"`
	Scale   int `flag:"scale" usage:"window scale factor" default:"10"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Timing
}

// Default returns the program options with all defaults applied.
func Default() Program {
	return Program{
		Flags: Flags{
			Frontend: Ebiten,
		},
		Timing: Timing{
			CPUHz:   700,
			TimerHz: 60,
			Frames:  600,
			Scale:   10,
		},
	}
}
