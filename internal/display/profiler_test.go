package display

import (
	"context"
	"testing"
	"time"
)

// fakeProvider is a deterministic Provider for tests. The zero value
// reports a plain 80x24 keyboard-only environment.
type fakeProvider struct {
	width, height int
	ratio         float64
	cores         int
	memGB         float64
	renderer      string
	features      Features
	battery       *Battery
}

func (p fakeProvider) ScreenSize() (int, int) {
	if p.width == 0 {
		return 80, 24
	}
	return p.width, p.height
}

func (p fakeProvider) PixelRatio() float64 {
	if p.ratio == 0 {
		return 1
	}
	return p.ratio
}

func (p fakeProvider) LogicalCores() int     { return p.cores }
func (p fakeProvider) MemoryHintGB() float64 { return p.memGB }
func (p fakeProvider) RendererName() string  { return p.renderer }
func (p fakeProvider) InputModes() InputModes {
	return InputModes{Keyboard: true}
}
func (p fakeProvider) Features() Features { return p.features }
func (p fakeProvider) Battery() (Battery, bool) {
	if p.battery == nil {
		return Battery{}, false
	}
	return *p.battery, true
}

// panicProvider simulates a broken environment probe.
type panicProvider struct{ fakeProvider }

func (panicProvider) LogicalCores() int { panic("probe exploded") }

func fastBenchmark() BenchmarkConfig {
	return BenchmarkConfig{
		Iterations: 50,
		Budget:     50 * time.Millisecond,
		YieldEvery: 10,
	}
}

func TestClassifyTier(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		score    float64
		memGB    float64
		cores    int
		renderer string
		expected Tier
	}{
		{"weak everything", 5, 2, 2, "", TierLow},
		{"low score alone", 5, 16, 8, "", TierLow},
		{"low memory alone", 100, 2, 8, "", TierLow},
		{"low cores alone", 100, 16, 2, "", TierLow},
		{"mid score", 20, 16, 8, "", TierMedium},
		{"mid memory", 100, 4, 8, "", TierMedium},
		{"mid cores", 100, 16, 4, "", TierMedium},
		{"strong everything", 100, 16, 8, "", TierHigh},
		{"low-end renderer overrides strong box", 100, 16, 8, "linux", TierLow},
		{"renderer substring match", 100, 16, 8, "xterm-mono", TierLow},
		{"normal renderer", 100, 16, 8, "xterm-256color", TierHigh},
		{"boundary memory resolves low", 50, 2, 8, "", TierLow},
		{"boundary cores resolve medium", 50, 16, 4, "", TierMedium},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caps := DeviceCapabilities{
				Perf: PerfInfo{
					BenchmarkScore: tc.score,
					MemoryHintGB:   tc.memGB,
					LogicalCores:   tc.cores,
					RendererName:   tc.renderer,
				},
			}
			if got := classifyTier(caps, th); got != tc.expected {
				t.Errorf("classifyTier() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDetectPopulatesSnapshot(t *testing.T) {
	provider := fakeProvider{
		width:    120,
		height:   40,
		ratio:    2,
		cores:    8,
		memGB:    16,
		renderer: "xterm-256color",
		features: Features{TrueColor: true, Color256: true, UTF8: true, AltScreen: true},
	}
	p := NewProfiler(provider, ProfilerConfig{Benchmark: fastBenchmark()})

	caps := p.Detect(context.Background())

	if caps.Screen.Width != 120 || caps.Screen.Height != 40 {
		t.Errorf("Screen = %dx%d, expected 120x40", caps.Screen.Width, caps.Screen.Height)
	}
	if caps.Screen.Orientation != OrientationLandscape {
		t.Errorf("Orientation = %v, expected landscape", caps.Screen.Orientation)
	}
	if caps.Screen.PixelRatio != 2 {
		t.Errorf("PixelRatio = %g, expected 2", caps.Screen.PixelRatio)
	}
	if caps.Perf.LogicalCores != 8 || caps.Perf.MemoryHintGB != 16 {
		t.Errorf("Perf = %+v", caps.Perf)
	}
	if caps.Perf.BenchmarkScore <= 0 {
		t.Errorf("BenchmarkScore = %g, expected > 0", caps.Perf.BenchmarkScore)
	}
	if !caps.Features.TrueColor {
		t.Error("Features.TrueColor lost")
	}
	if caps.Battery != nil {
		t.Error("Battery reported without a power source")
	}
}

func TestDetectDefaultsForMissingSignals(t *testing.T) {
	// Provider reporting zero cores/memory: documented defaults apply.
	p := NewProfiler(fakeProvider{}, ProfilerConfig{Benchmark: fastBenchmark()})
	caps := p.Detect(context.Background())

	if caps.Perf.LogicalCores != defaultCores {
		t.Errorf("LogicalCores = %d, expected default %d", caps.Perf.LogicalCores, defaultCores)
	}
	if caps.Perf.MemoryHintGB != defaultMemoryGB {
		t.Errorf("MemoryHintGB = %g, expected default %g", caps.Perf.MemoryHintGB, defaultMemoryGB)
	}
}

func TestDetectNeverPanics(t *testing.T) {
	p := NewProfiler(panicProvider{}, ProfilerConfig{Benchmark: fastBenchmark()})

	caps := p.Detect(context.Background())
	if caps.Perf.Tier != TierLow && caps.Perf.Tier != TierMedium {
		t.Errorf("Tier after broken probe = %v, expected conservative result", caps.Perf.Tier)
	}
	if caps.Perf.LogicalCores != defaultCores {
		t.Errorf("LogicalCores = %d, expected conservative default", caps.Perf.LogicalCores)
	}
}

func TestDetectPortraitOrientation(t *testing.T) {
	p := NewProfiler(fakeProvider{width: 40, height: 80, cores: 8, memGB: 16},
		ProfilerConfig{Benchmark: fastBenchmark()})
	caps := p.Detect(context.Background())
	if caps.Screen.Orientation != OrientationPortrait {
		t.Errorf("Orientation = %v, expected portrait", caps.Screen.Orientation)
	}
}

func TestBenchmarkRespectsBudget(t *testing.T) {
	cfg := BenchmarkConfig{
		Iterations: 1 << 30,
		Budget:     30 * time.Millisecond,
		YieldEvery: 10,
	}

	start := time.Now()
	score := runBenchmark(context.Background(), cfg)
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("benchmark ran %v, expected to stop near the 30ms budget", elapsed)
	}
	if score <= 0 {
		t.Errorf("score = %g, expected > 0", score)
	}
}

func TestBenchmarkCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := BenchmarkConfig{
		Iterations: 1 << 30,
		Budget:     time.Hour,
		YieldEvery: 10,
	}

	done := make(chan float64, 1)
	go func() { done <- runBenchmark(ctx, cfg) }()

	select {
	case <-done:
		// Stopped at the first yield point.
	case <-time.After(2 * time.Second):
		t.Fatal("benchmark ignored cancellation")
	}
}

func TestDetectReprofileCancelsPrevious(t *testing.T) {
	provider := fakeProvider{cores: 8, memGB: 16}
	p := NewProfiler(provider, ProfilerConfig{Benchmark: BenchmarkConfig{
		Iterations: 1 << 30,
		Budget:     10 * time.Second,
		YieldEvery: 10,
	}})

	first := make(chan DeviceCapabilities, 1)
	go func() { first <- p.Detect(context.Background()) }()

	// Give the first run time to enter its benchmark, then supersede it
	// with a short-lived run.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	second := p.Detect(ctx)

	select {
	case <-first:
		// First run was cancelled by the second (last-writer-wins).
	case <-time.After(5 * time.Second):
		t.Fatal("superseded Detect() did not return after re-profile")
	}

	if second.Perf.LogicalCores != 8 {
		t.Errorf("second Detect() returned wrong snapshot: %+v", second.Perf)
	}
}
