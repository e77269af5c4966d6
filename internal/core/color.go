package core

// Color represents a foreground color for a screen cell or canvas pixel.
// Values index a fixed palette mapped to ANSI 256-color codes by the
// platform layer.
type Color uint8

// Predefined colors for game elements.
const (
	ColorNone Color = iota // Transparent / unset pixel
	ColorDefault
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)
