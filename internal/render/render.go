// Package render converts the framebuffer into text for terminals and logs.
package render

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// half block characters indexed by top pixel | bottom pixel<<1
var blocks = [4]rune{' ', '▀', '▄', '█'}

// Text renders the display with two pixel rows per text line, every line
// is terminated by a newline.
func Text(d *chip8.Display) string {
	var sb strings.Builder
	sb.Grow((chip8.ScreenWidth*3 + 1) * chip8.ScreenHeight / 2)

	for y := 0; y < chip8.ScreenHeight; y += 2 {
		for x := range chip8.ScreenWidth {
			idx := 0
			if d.Pixel(x, y) {
				idx |= 1
			}
			if d.Pixel(x, y+1) {
				idx |= 2
			}
			sb.WriteRune(blocks[idx])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
