package chip8

// Framebuffer dimensions in pixels.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Display is the monochrome framebuffer, stored row-major with the pixel
// at (x, y) at index x + ScreenWidth*y.
type Display struct {
	pixels [ScreenWidth * ScreenHeight]bool
}

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates outside of the screen wrap around.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[pixelIndex(x, y)]
}

// Pixels returns a copy of the framebuffer in row-major order.
func (d *Display) Pixels() []bool {
	pixels := make([]bool, len(d.pixels))
	copy(pixels, d.pixels[:])
	return pixels
}

// Lit returns the number of set pixels.
func (d *Display) Lit() int {
	count := 0
	for _, on := range d.pixels {
		if on {
			count++
		}
	}
	return count
}

func (d *Display) clear() {
	d.pixels = [ScreenWidth * ScreenHeight]bool{}
}

// flip XORs the pixel at the wrapped coordinates and returns true if the
// pixel was switched from on to off.
func (d *Display) flip(x, y int) bool {
	idx := pixelIndex(x, y)
	collision := d.pixels[idx]
	d.pixels[idx] = !collision
	return collision
}

func pixelIndex(x, y int) int {
	x = ((x % ScreenWidth) + ScreenWidth) % ScreenWidth
	y = ((y % ScreenHeight) + ScreenHeight) % ScreenHeight
	return x + ScreenWidth*y
}
