// Package keymap maps host keyboard keys to CHIP-8 key indexes.
package keymap

import (
	"unicode"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Layout maps every CHIP-8 key index to a host keyboard character.
type Layout [chip8.KeyCount]rune

// QWERTY is the COSMAC VIP hexadecimal keypad placed on the left side of a
// QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D      Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var QWERTY = Layout{
	0x0: 'x',
	0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'q', 0x5: 'w', 0x6: 'e',
	0x7: 'a', 0x8: 's', 0x9: 'd',
	0xA: 'z', 0xB: 'c',
	0xC: '4', 0xD: 'r', 0xE: 'f', 0xF: 'v',
}

// KeyForRune returns the CHIP-8 key index for a host character,
// ignoring the letter case.
func (l Layout) KeyForRune(r rune) (int, bool) {
	r = unicode.ToLower(r)
	for key, mapped := range l {
		if mapped == r {
			return key, true
		}
	}
	return 0, false
}

// Runes returns the host character of every CHIP-8 key.
func (l Layout) Runes() [chip8.KeyCount]rune {
	return l
}
