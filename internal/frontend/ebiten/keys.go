package ebiten

import "github.com/hajimehoshi/ebiten/v2"

// runeKeys maps keyboard characters to ebiten keys.
var runeKeys = map[rune]ebiten.Key{
	'0': ebiten.KeyDigit0,
	'1': ebiten.KeyDigit1,
	'2': ebiten.KeyDigit2,
	'3': ebiten.KeyDigit3,
	'4': ebiten.KeyDigit4,
	'5': ebiten.KeyDigit5,
	'6': ebiten.KeyDigit6,
	'7': ebiten.KeyDigit7,
	'8': ebiten.KeyDigit8,
	'9': ebiten.KeyDigit9,
	'a': ebiten.KeyA,
	'b': ebiten.KeyB,
	'c': ebiten.KeyC,
	'd': ebiten.KeyD,
	'e': ebiten.KeyE,
	'f': ebiten.KeyF,
	'g': ebiten.KeyG,
	'h': ebiten.KeyH,
	'i': ebiten.KeyI,
	'j': ebiten.KeyJ,
	'k': ebiten.KeyK,
	'l': ebiten.KeyL,
	'm': ebiten.KeyM,
	'n': ebiten.KeyN,
	'o': ebiten.KeyO,
	'p': ebiten.KeyP,
	'q': ebiten.KeyQ,
	'r': ebiten.KeyR,
	's': ebiten.KeyS,
	't': ebiten.KeyT,
	'u': ebiten.KeyU,
	'v': ebiten.KeyV,
	'w': ebiten.KeyW,
	'x': ebiten.KeyX,
	'y': ebiten.KeyY,
	'z': ebiten.KeyZ,
}

// keyForRune returns the ebiten key for a lower case character or digit.
func keyForRune(r rune) (ebiten.Key, bool) {
	k, ok := runeKeys[r]
	return k, ok
}
