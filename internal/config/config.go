// Package config provides YAML-based configuration loading for the Ascend
// platform: game tuning, difficulty progression, and display-adaptation
// settings.
package config

import (
	"time"

	"github.com/life423/Ascend-Avoid-sub000/internal/display"
)

// AscendConfig contains all gameplay configuration for Ascend.
type AscendConfig struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Obstacles  ObstaclesConfig  `yaml:"obstacles"`
	Race       RaceConfig       `yaml:"race"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the fixed internal coordinate space. The viewport
// engine maps this space onto whatever surface is available; the
// simulation never sees display sizes.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	WinningLineY float64 `yaml:"winning_line_y"` // Crossing above this line scores
}

// PlayerConfig defines the player block.
type PlayerConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"`        // Units moved per tick per held direction
	StartY float64 `yaml:"start_offset"` // Distance above the bottom edge at spawn
}

// ObstaclesConfig defines the horizontally sweeping obstacles.
type ObstaclesConfig struct {
	BaseCount  int     `yaml:"base_count"`  // Rows at difficulty 0
	MaxCount   int     `yaml:"max_count"`   // Hard cap on rows
	MinWidth   float64 `yaml:"min_width"`
	MaxWidth   float64 `yaml:"max_width"`
	Height     float64 `yaml:"height"`
	MinSpeed   float64 `yaml:"min_speed"` // Units per tick
	MaxSpeed   float64 `yaml:"max_speed"`
	TopMargin  float64 `yaml:"top_margin"`    // Clear band below the winning line
	BottomGap  float64 `yaml:"bottom_margin"` // Clear band above the spawn area
}

// RaceConfig defines the online race variant.
type RaceConfig struct {
	TargetCrossings int `yaml:"target_crossings"` // First to this many wins
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Crossings/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Extra speed fraction at max difficulty
	ExtraObstacles  int     `yaml:"extra_obstacles"`  // Rows added at max difficulty
}

// DisplayConfig carries the device-adaptation settings. Tier thresholds
// live here rather than in code because the cutoffs are tuned
// empirically, not derived.
type DisplayConfig struct {
	Viewport   ViewportConfig   `yaml:"viewport"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Benchmark  BenchmarkConfig  `yaml:"benchmark"`
	ForceTier  string           `yaml:"force_tier"`  // "", "low", "medium", "high"
	DebounceMs int              `yaml:"debounce_ms"` // Resize coalescing window
}

// ViewportConfig mirrors display.Config plus the internal resolution.
type ViewportConfig struct {
	InternalWidth       float64 `yaml:"internal_width"`
	InternalHeight      float64 `yaml:"internal_height"`
	MaintainAspectRatio bool    `yaml:"maintain_aspect_ratio"`
	AllowUpscaling      bool    `yaml:"allow_upscaling"`
	AllowDownscaling    bool    `yaml:"allow_downscaling"`
	CenterCanvas        bool    `yaml:"center_canvas"`
	EnableDPR           bool    `yaml:"enable_dpr"`
}

// ThresholdsConfig mirrors display.Thresholds for YAML.
type ThresholdsConfig struct {
	LowScore        float64  `yaml:"low_score"`
	LowMemoryGB     float64  `yaml:"low_memory_gb"`
	LowCores        int      `yaml:"low_cores"`
	MediumScore     float64  `yaml:"medium_score"`
	MediumMemoryGB  float64  `yaml:"medium_memory_gb"`
	MediumCores     int      `yaml:"medium_cores"`
	LowEndRenderers []string `yaml:"low_end_renderers"`
}

// BenchmarkConfig mirrors display.BenchmarkConfig for YAML.
type BenchmarkConfig struct {
	Iterations int `yaml:"iterations"`
	BudgetMs   int `yaml:"budget_ms"`
	YieldEvery int `yaml:"yield_every"`
}

// ViewportOptions converts the YAML viewport block to engine options.
func (c DisplayConfig) ViewportOptions() display.Config {
	return display.Config{
		MaintainAspectRatio: c.Viewport.MaintainAspectRatio,
		AllowUpscaling:      c.Viewport.AllowUpscaling,
		AllowDownscaling:    c.Viewport.AllowDownscaling,
		CenterCanvas:        c.Viewport.CenterCanvas,
		EnableDPR:           c.Viewport.EnableDPR,
	}
}

// InternalSize returns the configured internal game resolution.
func (c DisplayConfig) InternalSize() display.Size {
	return display.Size{
		Width:  c.Viewport.InternalWidth,
		Height: c.Viewport.InternalHeight,
	}
}

// DisplayThresholds converts the YAML thresholds to the profiler's table,
// falling back to defaults for an empty block.
func (c DisplayConfig) DisplayThresholds() display.Thresholds {
	t := c.Thresholds
	if t.LowScore == 0 && t.MediumScore == 0 {
		return display.DefaultThresholds()
	}
	return display.Thresholds{
		LowScore:        t.LowScore,
		LowMemoryGB:     t.LowMemoryGB,
		LowCores:        t.LowCores,
		MediumScore:     t.MediumScore,
		MediumMemoryGB:  t.MediumMemoryGB,
		MediumCores:     t.MediumCores,
		LowEndRenderers: t.LowEndRenderers,
	}
}

// DisplayBenchmark converts the YAML benchmark block to profiler bounds.
func (c DisplayConfig) DisplayBenchmark() display.BenchmarkConfig {
	b := c.Benchmark
	if b.Iterations == 0 && b.BudgetMs == 0 {
		return display.DefaultBenchmarkConfig()
	}
	cfg := display.DefaultBenchmarkConfig()
	if b.Iterations > 0 {
		cfg.Iterations = b.Iterations
	}
	if b.BudgetMs > 0 {
		cfg.Budget = time.Duration(b.BudgetMs) * time.Millisecond
	}
	if b.YieldEvery > 0 {
		cfg.YieldEvery = b.YieldEvery
	}
	return cfg
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *AscendConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
