package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/display"
	"github.com/life423/Ascend-Avoid-sub000/internal/games/ascend"
	"github.com/life423/Ascend-Avoid-sub000/internal/platform/tui"
	"github.com/life423/Ascend-Avoid-sub000/internal/registry"
	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

var (
	flagConfig        string
	flagDisplayConfig string
	flagDifficulty    string
	flagTier          string
	flagNoProfile     bool
)

// profileBudget bounds the startup benchmark so a slow terminal never
// delays the game noticeably.
const profileBudget = 2 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Ascend",
	Long: `Start playing Ascend.

Controls:
  WASD/Arrows - Move
  Mouse click - Step toward the clicked point
  P           - Pause
  R           - Restart (after game over)
  B/Esc       - Back to menu
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  ascend play
  ascend play --difficulty hard
  ascend play --tier low
  ascend play --config ./my-ascend.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDisplayConfig, "display-config", "", "Path to custom display config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagTier, "tier", "", "Force quality tier: low, medium, high")
	playCmd.Flags().BoolVar(&flagNoProfile, "no-profile", false, "Skip the startup benchmark and start at the medium tier")
}

// loadDisplayConfig loads the display settings, applying the --tier
// override when given.
func loadDisplayConfig() config.DisplayConfig {
	displayCfg, err := config.LoadDisplay(flagDisplayConfig)
	if err != nil {
		displayCfg = config.DefaultDisplayConfig()
	}
	if flagTier != "" {
		displayCfg.ForceTier = flagTier
	}
	return displayCfg
}

// detectCapabilities profiles the terminal within the startup budget and
// caches the result when storage is available.
func detectCapabilities(displayCfg config.DisplayConfig, store *storage.Store) display.DeviceCapabilities {
	profiler := display.NewProfiler(display.NewTermProvider(), display.ProfilerConfig{
		Thresholds: displayCfg.DisplayThresholds(),
		Benchmark:  displayCfg.DisplayBenchmark(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), profileBudget)
	defer cancel()
	caps := profiler.Detect(ctx)

	if store != nil {
		//nolint:errcheck // Best-effort cache, game starts regardless
		store.SaveProfile(storage.ProfileRecord{
			Tier:     caps.Perf.Tier.String(),
			Score:    caps.Perf.BenchmarkScore,
			Cores:    caps.Perf.LogicalCores,
			MemoryGB: caps.Perf.MemoryHintGB,
			Renderer: caps.Perf.RendererName,
		})
	}
	return caps
}

// staticCapabilities builds a capabilities snapshot without running the
// benchmark, for --no-profile. The runtime frame monitor still downgrades
// quality if the starting tier proves too optimistic.
func staticCapabilities(width, height int, displayCfg config.DisplayConfig) display.DeviceCapabilities {
	tier := display.TierMedium
	if displayCfg.ForceTier != "" {
		tier = display.ParseTier(displayCfg.ForceTier)
	}
	orientation := display.OrientationLandscape
	if height > width {
		orientation = display.OrientationPortrait
	}
	return display.DeviceCapabilities{
		Screen: display.ScreenInfo{
			Width:       width,
			Height:      height,
			PixelRatio:  2,
			Orientation: orientation,
		},
		Perf:     display.PerfInfo{Tier: tier, LogicalCores: runtime.NumCPU()},
		Input:    display.InputModes{Keyboard: true, Mouse: true},
		Features: display.Features{UTF8: true, AltScreen: true},
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	// Get terminal size early
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Set config path and difficulty before creation
	ascend.SetConfigPath(flagConfig)
	ascend.SetDifficultyPreset(config.DifficultyPreset(flagDifficulty))

	game, err := registry.Create("ascend")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	displayCfg := loadDisplayConfig()
	var caps display.DeviceCapabilities
	if flagNoProfile {
		caps = staticCapabilities(width, height, displayCfg)
	} else {
		caps = detectCapabilities(displayCfg, store)
	}

	runErr := tui.Run(game, store, cfg, displayCfg, caps)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
