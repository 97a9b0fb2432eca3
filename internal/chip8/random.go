package chip8

import "math/rand/v2"

// RandomSource provides uniformly distributed random bytes for the
// CXNN instruction.
type RandomSource interface {
	Byte() byte
}

// RandomFunc adapts a function to the RandomSource interface.
type RandomFunc func() byte

// Byte returns the next random byte.
func (f RandomFunc) Byte() byte {
	return f()
}

type defaultRandom struct{}

func (defaultRandom) Byte() byte {
	return byte(rand.UintN(256))
}
