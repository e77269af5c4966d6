package display

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Thresholds holds the tier-classification cutoffs. The defaults were
// tuned empirically, so they are configuration rather than constants;
// callers can override them from the display config file.
type Thresholds struct {
	// A device at or below any Low* bound classifies as TierLow.
	LowScore    float64
	LowMemoryGB float64
	LowCores    int

	// A device at or below any Medium* bound classifies as TierMedium.
	MediumScore    float64
	MediumMemoryGB float64
	MediumCores    int

	// LowEndRenderers are substrings matched (case-insensitively) against
	// the renderer name; a match forces TierLow.
	LowEndRenderers []string
}

// DefaultThresholds returns the standard classification table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowScore:       10,
		LowMemoryGB:    2,
		LowCores:       2,
		MediumScore:    25,
		MediumMemoryGB: 4,
		MediumCores:    4,
		LowEndRenderers: []string{
			"dumb",
			"vt52",
			"vt100",
			"linux",
			"cons25",
			"mono",
		},
	}
}

// ProfilerConfig configures a Profiler. Zero values select defaults.
type ProfilerConfig struct {
	Thresholds Thresholds
	Benchmark  BenchmarkConfig
	Logger     *log.Logger // nil disables diagnostics logging
}

// Profiler detects device capabilities: static environment facts plus a
// short synthetic benchmark, classified into a performance tier.
type Profiler struct {
	provider   Provider
	thresholds Thresholds
	bench      BenchmarkConfig
	logger     *log.Logger

	// Re-profiling is last-writer-wins: starting a new Detect cancels the
	// benchmark of any run still in flight.
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewProfiler creates a profiler reading through the given provider.
func NewProfiler(provider Provider, cfg ProfilerConfig) *Profiler {
	if cfg.Thresholds.LowScore == 0 && cfg.Thresholds.MediumScore == 0 {
		cfg.Thresholds = DefaultThresholds()
	}
	if cfg.Benchmark.Iterations == 0 {
		cfg.Benchmark = DefaultBenchmarkConfig()
	}
	return &Profiler{
		provider:   provider,
		thresholds: cfg.Thresholds,
		bench:      cfg.Benchmark,
		logger:     cfg.Logger,
	}
}

// Detect profiles the device and returns a capabilities snapshot.
// It never fails: any probe problem is replaced with a conservative
// default (tier=medium, feature flags off). The benchmark yields
// cooperatively and is cancelled both by ctx and by a newer Detect call.
func (p *Profiler) Detect(ctx context.Context) DeviceCapabilities {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	caps := p.readStatic()
	caps.Perf.BenchmarkScore = runBenchmark(ctx, p.bench)
	caps.Perf.Tier = classifyTier(caps, p.thresholds)

	if p.logger != nil {
		p.logger.Debug("device profile complete",
			"tier", caps.Perf.Tier,
			"score", caps.Perf.BenchmarkScore,
			"cores", caps.Perf.LogicalCores,
			"memoryGB", caps.Perf.MemoryHintGB,
			"renderer", caps.Perf.RendererName,
		)
	}
	return caps
}

// readStatic gathers everything except the benchmark. A panicking provider
// yields the conservative snapshot instead of crashing the caller.
func (p *Profiler) readStatic() (caps DeviceCapabilities) {
	defer func() {
		if recover() != nil {
			caps = conservativeCapabilities()
		}
	}()

	w, h := p.provider.ScreenSize()
	if w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	orientation := OrientationLandscape
	if h > w {
		orientation = OrientationPortrait
	}

	cores := p.provider.LogicalCores()
	if cores <= 0 {
		cores = defaultCores
	}
	memGB := p.provider.MemoryHintGB()
	if memGB <= 0 {
		memGB = defaultMemoryGB
	}
	ratio := p.provider.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}

	caps = DeviceCapabilities{
		Screen: ScreenInfo{
			Width:       w,
			Height:      h,
			PixelRatio:  ratio,
			Orientation: orientation,
		},
		Perf: PerfInfo{
			Tier:         TierMedium,
			MemoryHintGB: memGB,
			LogicalCores: cores,
			RendererName: p.provider.RendererName(),
		},
		Input:    p.provider.InputModes(),
		Features: p.provider.Features(),
	}
	if bat, ok := p.provider.Battery(); ok {
		b := bat
		caps.Battery = &b
	}
	return caps
}

// classifyTier combines renderer heuristics, core count, memory hint and
// benchmark score. Ties resolve toward the lower, safer tier.
func classifyTier(caps DeviceCapabilities, th Thresholds) Tier {
	renderer := strings.ToLower(caps.Perf.RendererName)
	if renderer != "" {
		for _, pattern := range th.LowEndRenderers {
			if strings.Contains(renderer, pattern) {
				return TierLow
			}
		}
	}

	score := caps.Perf.BenchmarkScore
	mem := caps.Perf.MemoryHintGB
	cores := caps.Perf.LogicalCores

	switch {
	case score < th.LowScore || mem <= th.LowMemoryGB || cores <= th.LowCores:
		return TierLow
	case score < th.MediumScore || mem <= th.MediumMemoryGB || cores <= th.MediumCores:
		return TierMedium
	default:
		return TierHigh
	}
}
