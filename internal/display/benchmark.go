package display

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

// BenchmarkConfig bounds the synthetic workload. Zero values select
// defaults.
type BenchmarkConfig struct {
	Iterations int           // Iteration cap (default 1000)
	Budget     time.Duration // Wall-clock cap (default 1s)
	YieldEvery int           // Cooperative yield interval (default 50)
}

// DefaultBenchmarkConfig returns the standard benchmark bounds.
func DefaultBenchmarkConfig() BenchmarkConfig {
	return BenchmarkConfig{
		Iterations: 1000,
		Budget:     time.Second,
		YieldEvery: 50,
	}
}

const (
	benchBufferCount = 4
	benchBufferSize  = 1024
	benchCanvasSize  = 64
)

// runBenchmark measures raw compute plus drawing throughput: trigonometric
// writes into fixed-size buffers interleaved with primitive drawing on an
// offscreen pixel canvas. It stops at the iteration cap or the wall-clock
// budget, whichever comes first, and yields the scheduler every YieldEvery
// iterations so it never monopolizes a thread. Cancelling ctx stops the
// loop early; the score is then computed from the work done so far.
//
// The score is iterations/elapsedMs*1000, i.e. iterations per second of
// wall time.
func runBenchmark(ctx context.Context, cfg BenchmarkConfig) float64 {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultBenchmarkConfig().Iterations
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBenchmarkConfig().Budget
	}
	if cfg.YieldEvery <= 0 {
		cfg.YieldEvery = DefaultBenchmarkConfig().YieldEvery
	}

	buffers := make([][]float64, benchBufferCount)
	for i := range buffers {
		buffers[i] = make([]float64, benchBufferSize)
	}
	offscreen := core.NewPixelCanvas(benchCanvasSize, benchCanvasSize)

	start := time.Now()
	deadline := start.Add(cfg.Budget)
	iterations := 0

	for iterations < cfg.Iterations && time.Now().Before(deadline) {
		buf := buffers[iterations%benchBufferCount]
		phase := float64(iterations)
		for j := range buf {
			buf[j] = math.Sin(phase+float64(j)*0.01) * math.Cos(float64(j)*0.02)
		}

		x := iterations % benchCanvasSize
		y := (iterations * 7) % benchCanvasSize
		offscreen.FillRect(x, y, 8, 8, core.Color(iterations%16+1))
		offscreen.HLine(0, y, benchCanvasSize, core.ColorWhite)
		offscreen.VLine(x, 0, benchCanvasSize, core.ColorGray)

		iterations++

		if iterations%cfg.YieldEvery == 0 {
			select {
			case <-ctx.Done():
				return score(iterations, time.Since(start))
			default:
				runtime.Gosched()
			}
		}
	}

	return score(iterations, time.Since(start))
}

func score(iterations int, elapsed time.Duration) float64 {
	elapsedMs := float64(elapsed) / float64(time.Millisecond)
	if elapsedMs <= 0 || iterations <= 0 {
		return 0
	}
	return float64(iterations) / elapsedMs * 1000
}
