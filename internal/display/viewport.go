package display

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidViewport reports a caller bug: non-positive container or
// internal dimensions. It is the only error this package surfaces;
// environment limitations are always absorbed into defaults instead.
var ErrInvalidViewport = errors.New("display: invalid viewport configuration")

// Size is a width/height pair. Container sizes are in cells, internal
// sizes in game units; the engine only cares about their ratios.
type Size struct {
	Width  float64
	Height float64
}

// AspectRatio returns width/height, or 0 for a degenerate size.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// BackingSize is the physical pixel resolution of the drawing surface.
// Always integral and at least 1x1.
type BackingSize struct {
	Width  int
	Height int
}

// Scale holds the game-to-display scale factors. Uniform is the single
// factor used when aspect ratio is preserved; X and Y differ only in
// fill mode.
type Scale struct {
	Uniform float64
	X       float64
	Y       float64
}

// Offset is the centering offset of the display area inside the
// container, in cells.
type Offset struct {
	X float64
	Y float64
}

// Bounds is the display area's edges within the container, in cells.
type Bounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Config carries the recognized viewport options.
type Config struct {
	MaintainAspectRatio bool
	AllowUpscaling      bool
	AllowDownscaling    bool
	CenterCanvas        bool
	EnableDPR           bool
}

// DefaultConfig returns the standard letterboxing preset: preserve aspect
// ratio, scale freely in both directions, center, use the device pixel
// ratio.
func DefaultConfig() Config {
	return Config{
		MaintainAspectRatio: true,
		AllowUpscaling:      true,
		AllowDownscaling:    true,
		CenterCanvas:        true,
		EnableDPR:           true,
	}
}

// FillConfig returns the simple stretch-to-fit preset: the display fills
// the container exactly, aspect ratio not preserved. This replaces what
// used to be a second, near-duplicate engine implementation.
func FillConfig() Config {
	return Config{
		MaintainAspectRatio: false,
		AllowUpscaling:      true,
		AllowDownscaling:    true,
		CenterCanvas:        false,
		EnableDPR:           true,
	}
}

// Viewport is the computed mapping between the fixed internal game space
// and the display surface. It is a pure value: recomputed atomically on
// every layout-affecting event and replaced wholesale, so the renderer
// never observes a partially updated state.
type Viewport struct {
	Internal    Size
	Display     Size
	Backing     BackingSize
	Scale       Scale
	Offset      Offset
	Bounds      Bounds
	PixelRatio  float64 // Effective ratio used for the backing store
	RenderScale float64 // Quality render scale folded into Backing
}

// ScalingInfo summarizes the viewport for the renderer and pool sizing.
type ScalingInfo struct {
	WidthScale        float64
	HeightScale       float64
	PixelRatio        float64
	ReducedResolution bool // True when the backing store is below 1:1
}

// ScalingInfo derives the renderer-facing summary of this viewport.
func (v Viewport) ScalingInfo() ScalingInfo {
	return ScalingInfo{
		WidthScale:        v.Scale.X,
		HeightScale:       v.Scale.Y,
		PixelRatio:        v.PixelRatio,
		ReducedResolution: v.RenderScale < 1,
	}
}

// Transform maps between game units and screen (container cell)
// coordinates. Origin is the container's position within the terminal, for
// the case where the playfield is framed by HUD rows.
type Transform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
	OriginX float64
	OriginY float64
}

// Transform builds the coordinate transform for this viewport with the
// container's origin at (originX, originY).
func (v Viewport) Transform(originX, originY float64) Transform {
	return Transform{
		ScaleX:  v.Scale.X,
		ScaleY:  v.Scale.Y,
		OffsetX: v.Offset.X,
		OffsetY: v.Offset.Y,
		OriginX: originX,
		OriginY: originY,
	}
}

// ScreenToGame maps a screen coordinate (e.g. a mouse click) into game
// units. It is the exact inverse of GameToScreen up to float rounding.
func (t Transform) ScreenToGame(sx, sy float64) (gx, gy float64) {
	return (sx - t.OriginX - t.OffsetX) / t.ScaleX,
		(sy - t.OriginY - t.OffsetY) / t.ScaleY
}

// GameToScreen maps a game-space coordinate onto the screen.
func (t Transform) GameToScreen(gx, gy float64) (sx, sy float64) {
	return gx*t.ScaleX + t.OffsetX + t.OriginX,
		gy*t.ScaleY + t.OffsetY + t.OriginY
}

// GameToBacking maps a game-space coordinate into backing-store pixels.
// The drawing path uses this to rasterize entities onto the pixel canvas.
func (v Viewport) GameToBacking(gx, gy float64) (px, py int) {
	if v.Internal.Width <= 0 || v.Internal.Height <= 0 {
		return 0, 0
	}
	px = int(gx / v.Internal.Width * float64(v.Backing.Width))
	py = int(gy / v.Internal.Height * float64(v.Backing.Height))
	return px, py
}

// BackingLength converts a game-space length along the x axis into backing
// pixels, never returning less than 1 for a positive input.
func (v Viewport) BackingLength(units float64) int {
	if v.Internal.Width <= 0 || units <= 0 {
		return 0
	}
	n := int(math.Round(units / v.Internal.Width * float64(v.Backing.Width)))
	if n < 1 {
		n = 1
	}
	return n
}

// Engine computes viewports. It holds the pixel ratio source; everything
// else arrives per call, which keeps Compute a pure function of its
// arguments (and therefore idempotent: identical inputs produce
// bit-identical viewports).
type Engine struct {
	provider Provider
}

// NewEngine creates a viewport engine reading the pixel ratio through the
// given provider.
func NewEngine(provider Provider) *Engine {
	return &Engine{provider: provider}
}

// Compute maps the fixed internal game space onto the container.
//
// Computation only; applying the result to a drawing surface (resizing the
// pixel canvas, positioning the playfield) is the caller's explicit apply
// step. The returned error is non-nil only for non-positive input sizes.
func (e *Engine) Compute(container, internal Size, quality QualitySettings, cfg Config) (Viewport, error) {
	if container.Width <= 0 || container.Height <= 0 {
		return Viewport{}, fmt.Errorf("%w: container %gx%g",
			ErrInvalidViewport, container.Width, container.Height)
	}
	if internal.Width <= 0 || internal.Height <= 0 {
		return Viewport{}, fmt.Errorf("%w: internal %gx%g",
			ErrInvalidViewport, internal.Width, internal.Height)
	}

	scaleX := container.Width / internal.Width
	scaleY := container.Height / internal.Height

	if cfg.MaintainAspectRatio {
		uniform := math.Min(scaleX, scaleY)
		uniform = clampScale(uniform, cfg)
		scaleX, scaleY = uniform, uniform
	} else {
		scaleX = clampScale(scaleX, cfg)
		scaleY = clampScale(scaleY, cfg)
	}

	display := Size{
		Width:  internal.Width * scaleX,
		Height: internal.Height * scaleY,
	}

	ratio := 1.0
	if cfg.EnableDPR {
		ratio = e.pixelRatio()
	}
	renderScale := quality.RenderScale
	if renderScale <= 0 || renderScale > 1 {
		renderScale = 1
	}

	backing := BackingSize{
		Width:  int(math.Round(display.Width * ratio * renderScale)),
		Height: int(math.Round(display.Height * ratio * renderScale)),
	}
	if backing.Width < 1 {
		backing.Width = 1
	}
	if backing.Height < 1 {
		backing.Height = 1
	}

	var offset Offset
	if cfg.CenterCanvas {
		offset = Offset{
			X: (container.Width - display.Width) / 2,
			Y: (container.Height - display.Height) / 2,
		}
	}

	return Viewport{
		Internal: internal,
		Display:  display,
		Backing:  backing,
		Scale: Scale{
			Uniform: math.Min(scaleX, scaleY),
			X:       scaleX,
			Y:       scaleY,
		},
		Offset: offset,
		Bounds: Bounds{
			Left:   offset.X,
			Top:    offset.Y,
			Right:  offset.X + display.Width,
			Bottom: offset.Y + display.Height,
		},
		PixelRatio:  ratio,
		RenderScale: renderScale,
	}, nil
}

// pixelRatio reads the provider's pixel ratio, defaulting to 1 when the
// provider is absent or reports a degenerate value.
func (e *Engine) pixelRatio() float64 {
	if e.provider == nil {
		return 1
	}
	r := e.provider.PixelRatio()
	if r <= 0 {
		return 1
	}
	return r
}

func clampScale(s float64, cfg Config) float64 {
	if !cfg.AllowUpscaling && s > 1 {
		return 1
	}
	if !cfg.AllowDownscaling && s < 1 {
		return 1
	}
	return s
}
