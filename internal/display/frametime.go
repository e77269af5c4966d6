package display

import "sync"

// DefaultFrameSamples is the standard rolling window: one second of frames
// at 60 FPS.
const DefaultFrameSamples = 60

// FrameStats summarizes recent frame durations in milliseconds. Avg is
// over populated samples only; Min and Max consider positive samples only.
// An empty monitor reports all zeros, never NaN or infinities.
type FrameStats struct {
	Avg         float64
	Min         float64
	Max         float64
	SampleCount int
}

// FrameMonitor is a fixed-capacity circular buffer of frame durations, fed
// once per render tick. Pure bookkeeping: recording has no error
// conditions, and the buffer degrades gracefully at startup when fewer
// than capacity samples exist. It lives for the session and resets only on
// explicit request.
type FrameMonitor struct {
	mu      sync.Mutex
	samples []float64
	index   int
	count   int
}

// NewFrameMonitor creates a monitor with the given sample capacity.
// Non-positive capacities use DefaultFrameSamples.
func NewFrameMonitor(capacity int) *FrameMonitor {
	if capacity <= 0 {
		capacity = DefaultFrameSamples
	}
	return &FrameMonitor{samples: make([]float64, capacity)}
}

// Record stores one frame duration in milliseconds, evicting the oldest
// sample once the buffer is full.
func (m *FrameMonitor) Record(durationMs float64) {
	m.mu.Lock()
	m.samples[m.index] = durationMs
	m.index = (m.index + 1) % len(m.samples)
	if m.count < len(m.samples) {
		m.count++
	}
	m.mu.Unlock()
}

// Stats computes the rolling summary over the populated window.
func (m *FrameMonitor) Stats() FrameStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 {
		return FrameStats{}
	}

	var sum, min, max float64
	for i := 0; i < m.count; i++ {
		s := m.samples[i]
		sum += s
		if s > 0 {
			if min == 0 || s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
	}

	return FrameStats{
		Avg:         sum / float64(m.count),
		Min:         min,
		Max:         max,
		SampleCount: m.count,
	}
}

// Reset clears all samples, e.g. on game restart.
func (m *FrameMonitor) Reset() {
	m.mu.Lock()
	m.index = 0
	m.count = 0
	for i := range m.samples {
		m.samples[i] = 0
	}
	m.mu.Unlock()
}
