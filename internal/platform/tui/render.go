package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

// colorStyles maps core.Color to lipgloss styles for cell rendering.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// paletteRGB maps core.Color to RGB values for pixel blending.
var paletteRGB = map[core.Color]colorful.Color{
	core.ColorRed:           hexColor("#cd3131"),
	core.ColorGreen:         hexColor("#0dbc79"),
	core.ColorYellow:        hexColor("#e5e510"),
	core.ColorBlue:          hexColor("#2472c8"),
	core.ColorMagenta:       hexColor("#bc3fbc"),
	core.ColorCyan:          hexColor("#11a8cd"),
	core.ColorWhite:         hexColor("#e5e5e5"),
	core.ColorBrightRed:     hexColor("#f14c4c"),
	core.ColorBrightGreen:   hexColor("#23d18b"),
	core.ColorBrightYellow:  hexColor("#f5f543"),
	core.ColorBrightBlue:    hexColor("#3b8eea"),
	core.ColorBrightMagenta: hexColor("#d670d6"),
	core.ColorBrightCyan:    hexColor("#29b8db"),
	core.ColorBrightWhite:   hexColor("#ffffff"),
	core.ColorOrange:        hexColor("#ff8700"),
	core.ColorGray:          hexColor("#8a8a8a"),
	core.ColorDarkGray:      hexColor("#444444"),
	core.ColorDefault:       hexColor("#c0c0c0"),
}

func hexColor(hex string) colorful.Color {
	c, _ := colorful.Hex(hex)
	return c
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// CanvasView downsamples a backing pixel canvas into a block of terminal
// cells. Each cell shows two vertical pixels via the upper half block:
// foreground carries the top pixel, background the bottom. The backing
// store is usually larger than the cell grid (pixel ratio and render
// scale). With antialias set, every half-cell averages the canvas region
// it covers; without it, only the region's center pixel is sampled, the
// cheap path the low tier selects.
func CanvasView(canvas *core.PixelCanvas, cols, rows int, antialias bool) string {
	if cols < 1 || rows < 1 {
		return ""
	}

	cw, ch := canvas.Width(), canvas.Height()
	// Two pixel rows per cell row.
	xStep := float64(cw) / float64(cols)
	yStep := float64(ch) / float64(rows*2)

	var sb strings.Builder
	sb.Grow(cols*rows*16 + rows)

	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		for col := 0; col < cols; col++ {
			top, topSet := sampleRegion(canvas, col, row*2, xStep, yStep, antialias)
			bottom, bottomSet := sampleRegion(canvas, col, row*2+1, xStep, yStep, antialias)

			switch {
			case !topSet && !bottomSet:
				sb.WriteRune(' ')
			default:
				style := lipgloss.NewStyle()
				if topSet {
					style = style.Foreground(lipgloss.Color(top.Hex()))
				}
				if bottomSet {
					style = style.Background(lipgloss.Color(bottom.Hex()))
				}
				sb.WriteString(style.Render("▀"))
			}
		}
	}
	return sb.String()
}

// sampleRegion resolves one half-cell to a color: the average of the
// covered canvas pixels when antialias is set, the center pixel alone
// otherwise. Returns the color and whether any sampled pixel was set.
func sampleRegion(canvas *core.PixelCanvas, halfX, halfY int, xStep, yStep float64, antialias bool) (colorful.Color, bool) {
	x0 := int(float64(halfX) * xStep)
	x1 := int(float64(halfX+1) * xStep)
	y0 := int(float64(halfY) * yStep)
	y1 := int(float64(halfY+1) * yStep)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	if !antialias {
		c := canvas.Get((x0+x1)/2, (y0+y1)/2)
		rgb, ok := paletteRGB[c]
		if c == core.ColorNone || !ok {
			return colorful.Color{}, false
		}
		return rgb, true
	}

	var sumR, sumG, sumB float64
	count := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := canvas.Get(x, y)
			if c == core.ColorNone {
				continue
			}
			rgb, ok := paletteRGB[c]
			if !ok {
				continue
			}
			sumR += rgb.R
			sumG += rgb.G
			sumB += rgb.B
			count++
		}
	}

	if count == 0 {
		return colorful.Color{}, false
	}
	n := float64(count)
	return colorful.Color{R: sumR / n, G: sumG / n, B: sumB / n}, true
}
