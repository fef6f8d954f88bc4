package parser

// EMUPerPixel is the number of EMUs per pixel at 96 DPI (914400 / 96).
const EMUPerPixel = 9525

// EMUToPixels converts drawing offsets in EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}
