// Package display implements the device-adaptation engine for the Ascend
// platform: capability profiling, quality selection, viewport computation,
// and frame-time monitoring. Everything here is pure computation over
// signals read through the Provider interface; applying results to a real
// terminal is the platform layer's job.
package display

// Tier is a coarse performance classification driving quality trade-offs.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the tier name used in config files and diagnostics.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseTier converts a config string to a Tier. Unrecognized values map to
// TierMedium, the conservative default.
func ParseTier(s string) Tier {
	switch s {
	case "low":
		return TierLow
	case "high":
		return TierHigh
	default:
		return TierMedium
	}
}

// Orientation describes the aspect of the display surface.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// ScreenInfo holds the static display facts at profiling time.
type ScreenInfo struct {
	Width       int // Terminal width in cells
	Height      int // Terminal height in cells
	PixelRatio  float64
	Orientation Orientation
}

// PerfInfo holds performance-related facts and the benchmark outcome.
type PerfInfo struct {
	Tier           Tier
	MemoryHintGB   float64
	LogicalCores   int
	RendererName   string // Terminal/emulator name; empty when unknown
	BenchmarkScore float64
}

// InputModes records which input modalities are available.
type InputModes struct {
	Keyboard bool
	Mouse    bool
	Touch    bool
	Gamepad  bool
	Hover    bool
}

// Features records which rendering features the environment supports.
type Features struct {
	TrueColor bool
	Color256  bool
	UTF8      bool
	AltScreen bool
}

// Battery is an optional, best-effort power snapshot.
type Battery struct {
	Charging bool
	Level    float64 // 0..1
}

// DeviceCapabilities is an immutable snapshot of the running environment.
// It is created once per session and recomputed only on an explicit
// re-profile, never per frame. Consumers must treat it as read-only; a new
// profile run produces a fresh value rather than mutating an old one.
type DeviceCapabilities struct {
	Screen   ScreenInfo
	Perf     PerfInfo
	Input    InputModes
	Features Features
	Battery  *Battery // nil when the power API is unavailable
}

// conservativeCapabilities is the fallback snapshot used when profiling is
// impossible: medium tier, all feature flags off, unknown renderer.
func conservativeCapabilities() DeviceCapabilities {
	return DeviceCapabilities{
		Screen: ScreenInfo{
			Width:       80,
			Height:      24,
			PixelRatio:  1,
			Orientation: OrientationLandscape,
		},
		Perf: PerfInfo{
			Tier:         TierMedium,
			MemoryHintGB: defaultMemoryGB,
			LogicalCores: defaultCores,
		},
		Input: InputModes{Keyboard: true},
	}
}
