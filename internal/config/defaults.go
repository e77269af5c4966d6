package config

import (
	_ "embed"
)

//go:embed defaults/ascend.yaml
var defaultAscendYAML []byte

//go:embed defaults/display.yaml
var defaultDisplayYAML []byte

// DefaultAscendConfig returns the default Ascend configuration.
func DefaultAscendConfig() AscendConfig {
	return AscendConfig{
		World: WorldConfig{
			Width:        400,
			Height:       600,
			WinningLineY: 40,
		},
		Player: PlayerConfig{
			Width:  24,
			Height: 24,
			Speed:  5,
			StartY: 30,
		},
		Obstacles: ObstaclesConfig{
			BaseCount: 4,
			MaxCount:  9,
			MinWidth:  40,
			MaxWidth:  120,
			Height:    20,
			MinSpeed:  1.5,
			MaxSpeed:  4.0,
			TopMargin: 60,
			BottomGap: 80,
		},
		Race: RaceConfig{
			TargetCrossings: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 25,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.8,
				ExtraObstacles:  4,
			},
		},
	}
}

// DefaultDisplayConfig returns the default display-adaptation configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Viewport: ViewportConfig{
			InternalWidth:       400,
			InternalHeight:      600,
			MaintainAspectRatio: true,
			AllowUpscaling:      true,
			AllowDownscaling:    true,
			CenterCanvas:        true,
			EnableDPR:           true,
		},
		Thresholds: ThresholdsConfig{
			LowScore:       10,
			LowMemoryGB:    2,
			LowCores:       2,
			MediumScore:    25,
			MediumMemoryGB: 4,
			MediumCores:    4,
			LowEndRenderers: []string{
				"dumb", "vt52", "vt100", "linux", "cons25", "mono",
			},
		},
		Benchmark: BenchmarkConfig{
			Iterations: 1000,
			BudgetMs:   1000,
			YieldEvery: 50,
		},
		DebounceMs: 100,
	}
}
