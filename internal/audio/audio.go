// Package audio produces the tone that is audible while the sound timer
// of the interpreter is running.
package audio

// Beeper switches the tone output on and off.
type Beeper interface {
	// SetActive turns the tone on or off, repeated calls with the same
	// state have no effect.
	SetActive(active bool)
	// Close releases the audio device.
	Close() error
}

// Silent is a Beeper without any audio output.
type Silent struct {
	active bool
}

// SetActive records the tone state.
func (s *Silent) SetActive(active bool) {
	s.active = active
}

// Active returns the last tone state that was set.
func (s *Silent) Active() bool {
	return s.active
}

// Close does nothing.
func (s *Silent) Close() error {
	return nil
}
