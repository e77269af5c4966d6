package core

import "testing"

func TestPixelCanvasSetGet(t *testing.T) {
	c := NewPixelCanvas(8, 6)

	c.Set(4, 3, ColorOrange)
	if got := c.Get(4, 3); got != ColorOrange {
		t.Errorf("Get(4, 3) = %v, expected ColorOrange", got)
	}

	// Out-of-bounds is a no-op / ColorNone
	c.Set(8, 0, ColorRed)
	c.Set(0, 6, ColorRed)
	if got := c.Get(-1, 0); got != ColorNone {
		t.Errorf("out-of-bounds Get = %v, expected ColorNone", got)
	}
}

func TestPixelCanvasFillRectClips(t *testing.T) {
	c := NewPixelCanvas(4, 4)
	c.FillRect(-2, -2, 4, 4, ColorBlue)

	if got := c.Get(0, 0); got != ColorBlue {
		t.Errorf("Get(0, 0) = %v, expected ColorBlue", got)
	}
	if got := c.Get(2, 2); got != ColorNone {
		t.Errorf("Get(2, 2) = %v, expected ColorNone", got)
	}
}

func TestPixelCanvasMinimumSize(t *testing.T) {
	c := NewPixelCanvas(0, -3)
	if c.Width() != 1 || c.Height() != 1 {
		t.Errorf("canvas size = %dx%d, expected 1x1 floor", c.Width(), c.Height())
	}
}

func TestPixelCanvasResizeClears(t *testing.T) {
	c := NewPixelCanvas(4, 4)
	c.Set(1, 1, ColorGreen)

	c.Resize(6, 6)
	if got := c.Get(1, 1); got != ColorNone {
		t.Errorf("Resize() should clear, Get(1,1) = %v", got)
	}

	// Same-size resize keeps content
	c.Set(1, 1, ColorGreen)
	c.Resize(6, 6)
	if got := c.Get(1, 1); got != ColorGreen {
		t.Errorf("same-size Resize() cleared content")
	}
}
