package core

// PixelCanvas is a 2D pixel buffer in backing-store resolution.
// The game field is drawn here at the resolution the viewport engine
// computed (display size × pixel ratio × render scale); the platform layer
// then downsamples it to terminal cells. Keeping the canvas separate from
// the cell Screen keeps computation and terminal output distinct.
type PixelCanvas struct {
	width  int
	height int
	pix    []Color
}

// NewPixelCanvas creates a canvas with the given pixel dimensions.
// Dimensions below 1 are raised to 1.
func NewPixelCanvas(width, height int) *PixelCanvas {
	width = Max(width, 1)
	height = Max(height, 1)
	return &PixelCanvas{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

// Width returns the canvas width in pixels.
func (c *PixelCanvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *PixelCanvas) Height() int {
	return c.height
}

// Resize reallocates the canvas for new dimensions and clears it.
func (c *PixelCanvas) Resize(width, height int) {
	width = Max(width, 1)
	height = Max(height, 1)
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.pix = make([]Color, width*height)
}

// Clear resets every pixel to ColorNone.
func (c *PixelCanvas) Clear() {
	for i := range c.pix {
		c.pix[i] = ColorNone
	}
}

// Set colors the pixel at (x, y). Out-of-bounds writes are ignored.
func (c *PixelCanvas) Set(x, y int, col Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pix[y*c.width+x] = col
}

// Get returns the pixel at (x, y), or ColorNone when out of bounds.
func (c *PixelCanvas) Get(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ColorNone
	}
	return c.pix[y*c.width+x]
}

// FillRect colors every pixel covered by the rectangle. The rectangle is
// clipped to the canvas.
func (c *PixelCanvas) FillRect(x, y, w, h int, col Color) {
	x0 := Max(x, 0)
	y0 := Max(y, 0)
	x1 := Min(x+w, c.width)
	y1 := Min(y+h, c.height)
	for py := y0; py < y1; py++ {
		row := py * c.width
		for px := x0; px < x1; px++ {
			c.pix[row+px] = col
		}
	}
}

// HLine draws a horizontal pixel line from (x, y) with the given length.
func (c *PixelCanvas) HLine(x, y, length int, col Color) {
	c.FillRect(x, y, length, 1, col)
}

// VLine draws a vertical pixel line from (x, y) with the given length.
func (c *PixelCanvas) VLine(x, y, length int, col Color) {
	c.FillRect(x, y, 1, length, col)
}
