package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAscendConfig(t *testing.T) {
	cfg := DefaultAscendConfig()

	if cfg.World.Width != 400 || cfg.World.Height != 600 {
		t.Errorf("world size = %gx%g, expected 400x600", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.WinningLineY <= 0 || cfg.World.WinningLineY >= cfg.World.Height {
		t.Errorf("winning line %g outside the field", cfg.World.WinningLineY)
	}
	if cfg.Obstacles.BaseCount > cfg.Obstacles.MaxCount {
		t.Errorf("base count %d exceeds max count %d", cfg.Obstacles.BaseCount, cfg.Obstacles.MaxCount)
	}
	if cfg.Race.TargetCrossings <= 0 {
		t.Error("race target must be positive")
	}
}

func TestLoadAscendEmbeddedMatchesDefaults(t *testing.T) {
	// With no custom path and no user config in a test environment, the
	// embedded YAML should decode to the hardcoded defaults.
	cfg, err := LoadAscend("")
	if err != nil {
		t.Fatalf("LoadAscend() failed: %v", err)
	}

	def := DefaultAscendConfig()
	if cfg.World != def.World {
		t.Errorf("embedded world = %+v, expected %+v", cfg.World, def.World)
	}
	if cfg.Player != def.Player {
		t.Errorf("embedded player = %+v, expected %+v", cfg.Player, def.Player)
	}
	if cfg.Obstacles != def.Obstacles {
		t.Errorf("embedded obstacles = %+v, expected %+v", cfg.Obstacles, def.Obstacles)
	}
}

func TestLoadAscendCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := "world:\n  width: 800\n  height: 900\n  winning_line_y: 50\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := LoadAscend(path)
	if err != nil {
		t.Fatalf("LoadAscend() failed: %v", err)
	}
	if cfg.World.Width != 800 || cfg.World.Height != 900 {
		t.Errorf("custom world = %gx%g, expected 800x900", cfg.World.Width, cfg.World.Height)
	}
}

func TestLoadAscendMissingCustomPath(t *testing.T) {
	if _, err := LoadAscend(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadDisplayEmbedded(t *testing.T) {
	cfg, err := LoadDisplay("")
	if err != nil {
		t.Fatalf("LoadDisplay() failed: %v", err)
	}
	if cfg.Viewport.InternalWidth != 400 || cfg.Viewport.InternalHeight != 600 {
		t.Errorf("internal size = %gx%g, expected 400x600",
			cfg.Viewport.InternalWidth, cfg.Viewport.InternalHeight)
	}
	if !cfg.Viewport.MaintainAspectRatio {
		t.Error("default viewport should maintain aspect ratio")
	}
}

func TestDisplayThresholdsFallback(t *testing.T) {
	var empty DisplayConfig
	got := empty.DisplayThresholds()
	if got.LowScore != 10 || got.MediumScore != 25 {
		t.Errorf("empty thresholds did not fall back to defaults: %+v", got)
	}

	cfg := DisplayConfig{Thresholds: ThresholdsConfig{LowScore: 5, MediumScore: 15}}
	got = cfg.DisplayThresholds()
	if got.LowScore != 5 || got.MediumScore != 15 {
		t.Errorf("explicit thresholds were replaced: %+v", got)
	}
}

func TestDifficultyLevelProgression(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0, ExtraObstacles: 4},
	})

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.0},
		{5, 0.5},
		{10, 1.0},
		{20, 1.0}, // Clamped past MaxAt
	}

	for _, tt := range tests {
		if got := dm.Level(tt.score, 0); got != tt.want {
			t.Errorf("Level(score=%d) = %g, expected %g", tt.score, got, tt.want)
		}
	}
}

func TestDifficultyDisabledStaysAtInitial(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})

	if got := dm.Level(100, 100); got != 0.3 {
		t.Errorf("disabled Level() = %g, expected initial 0.3", got)
	}
}

func TestDifficultySpeedScaling(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     ScalingConfig{SpeedMultiplier: 0.5},
	})

	if got := dm.Speed(2.0, 0, 0); got != 2.0 {
		t.Errorf("Speed at level 0 = %g, expected 2.0", got)
	}
	if got := dm.Speed(2.0, 10, 0); got != 3.0 {
		t.Errorf("Speed at max level = %g, expected 3.0", got)
	}
}

func TestDifficultyObstacleCountCaps(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:     ScalingConfig{ExtraObstacles: 10},
	})

	if got := dm.ObstacleCount(4, 9, 10, 0); got != 9 {
		t.Errorf("ObstacleCount at max = %d, expected the cap 9", got)
	}
	if got := dm.ObstacleCount(4, 9, 0, 0); got != 4 {
		t.Errorf("ObstacleCount at level 0 = %d, expected base 4", got)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset      DifficultyPreset
		wantEnabled bool
		wantLevel   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
	}

	for _, tt := range tests {
		cfg := DefaultAscendConfig()
		ApplyPreset(&cfg, tt.preset)
		if cfg.Difficulty.Enabled != tt.wantEnabled {
			t.Errorf("preset %q: enabled = %v", tt.preset, cfg.Difficulty.Enabled)
		}
		if cfg.Difficulty.InitialLevel != tt.wantLevel {
			t.Errorf("preset %q: level = %g, expected %g", tt.preset, cfg.Difficulty.InitialLevel, tt.wantLevel)
		}
	}

	cfg := DefaultAscendConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultAscendConfig()
	before := cfg.Difficulty
	ApplyPreset(&cfg, "")
	if cfg.Difficulty != before {
		t.Error("empty preset should leave the config untouched")
	}
}
