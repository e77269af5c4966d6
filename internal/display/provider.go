package display

import (
	"os"
	"runtime"
	"strings"

	"github.com/muesli/termenv"
	"github.com/pbnjay/memory"
	"golang.org/x/term"
)

// Defaults substituted when a probe has no underlying signal.
const (
	defaultCores    = 4
	defaultMemoryGB = 4.0
)

// Provider abstracts every environment read the profiler and viewport
// engine need, so both are unit-testable without a real terminal.
// Implementations must never panic out of a method: a probe that fails is
// reported as its documented default, not as an error.
type Provider interface {
	// ScreenSize returns the display surface size in cells.
	ScreenSize() (width, height int)

	// PixelRatio returns the ratio of backing pixels to cells; 1 when the
	// surface cannot subdivide cells.
	PixelRatio() float64

	// LogicalCores returns the number of logical CPUs (default 4).
	LogicalCores() int

	// MemoryHintGB returns the physical memory hint in GB (default 4).
	MemoryHintGB() float64

	// RendererName returns the terminal/renderer identification string,
	// or "" when unknown.
	RendererName() string

	// InputModes reports available input modalities.
	InputModes() InputModes

	// Features reports rendering feature support.
	Features() Features

	// Battery returns a power snapshot; ok is false when unavailable.
	Battery() (bat Battery, ok bool)
}

// TermProvider is the production Provider backed by the actual terminal:
// x/term for geometry, termenv for color capabilities, pbnjay/memory for
// the memory hint, and the runtime for core count.
type TermProvider struct {
	output *termenv.Output
}

// NewTermProvider creates a provider reading from the current process
// environment and stdout.
func NewTermProvider() *TermProvider {
	return &TermProvider{output: termenv.NewOutput(os.Stdout)}
}

// ScreenSize returns the terminal size, or 80x24 when stdout is not a
// terminal.
func (p *TermProvider) ScreenSize() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return w, h
}

// PixelRatio returns 2 when the terminal can render sub-cell pixels via
// Unicode block glyphs (each cell then carries a 2x2 pixel quad), 1 on
// plain ASCII terminals.
func (p *TermProvider) PixelRatio() float64 {
	if p.Features().UTF8 {
		return 2
	}
	return 1
}

// LogicalCores returns runtime.NumCPU, or the default when the runtime
// reports nothing useful.
func (p *TermProvider) LogicalCores() int {
	n := probeInt(runtime.NumCPU)
	if n <= 0 {
		return defaultCores
	}
	return n
}

// MemoryHintGB returns total physical memory in GB, or the default when
// the platform reports zero.
func (p *TermProvider) MemoryHintGB() float64 {
	total := probeUint64(memory.TotalMemory)
	if total == 0 {
		return defaultMemoryGB
	}
	return float64(total) / (1024 * 1024 * 1024)
}

// RendererName returns the terminal program name from the environment.
func (p *TermProvider) RendererName() string {
	if name := os.Getenv("TERM_PROGRAM"); name != "" {
		return name
	}
	return os.Getenv("TERM")
}

// InputModes reports keyboard always, and mouse when the terminal type is
// known to forward mouse sequences. Touch, gamepad and hover have no
// terminal transport.
func (p *TermProvider) InputModes() InputModes {
	termName := strings.ToLower(os.Getenv("TERM"))
	mouse := termName != "" && termName != "dumb" && termName != "linux"
	return InputModes{
		Keyboard: true,
		Mouse:    mouse,
	}
}

// Features probes color depth through termenv and UTF-8 support through
// the locale.
func (p *TermProvider) Features() Features {
	profile := probeProfile(p.output.ColorProfile)
	termName := strings.ToLower(os.Getenv("TERM"))

	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}

	return Features{
		TrueColor: profile == termenv.TrueColor,
		Color256:  profile == termenv.TrueColor || profile == termenv.ANSI256,
		UTF8:      strings.Contains(strings.ToLower(lang), "utf"),
		AltScreen: termName != "" && termName != "dumb",
	}
}

// Battery is unavailable from a terminal session.
func (p *TermProvider) Battery() (Battery, bool) {
	return Battery{}, false
}

// The probe helpers convert a panicking or missing underlying API into the
// zero value, which callers then replace with the documented default. This
// keeps the profiler's never-fails contract even when a probe misbehaves.

func probeInt(fn func() int) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return fn()
}

func probeUint64(fn func() uint64) (n uint64) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return fn()
}

func probeProfile(fn func() termenv.Profile) (prof termenv.Profile) {
	defer func() {
		if recover() != nil {
			prof = termenv.Ascii
		}
	}()
	return fn()
}
