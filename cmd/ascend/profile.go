package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/life423/Ascend-Avoid-sub000/internal/display"
	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile this terminal and print the result",
	Long: `Run the device profiler against the current terminal: screen
geometry, renderer identification, memory and core hints, a short
synthetic benchmark, and the resulting performance tier with the
quality settings the game would pick.

The result is cached in the scores database and shown again by
subsequent runs.

Examples:
  ascend profile
  ascend profile --display-config ./display.yaml`,
	Args: cobra.NoArgs,
	Run:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagDisplayConfig, "display-config", "", "Path to custom display config YAML")
}

func runProfile(cmd *cobra.Command, args []string) {
	displayCfg := loadDisplayConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Profiling works without the cache.
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	if store != nil {
		if prev, prevErr := store.LatestProfile(); prevErr == nil && prev != nil {
			fmt.Printf("Previous profile (%s): tier %s, score %.1f\n\n",
				prev.CreatedAt.Format("2006-01-02 15:04"), prev.Tier, prev.Score)
		}
	}

	fmt.Println("Profiling terminal...")
	caps := detectCapabilities(displayCfg, store)

	fmt.Println()
	fmt.Println("Screen")
	fmt.Printf("  Size:         %dx%d cells\n", caps.Screen.Width, caps.Screen.Height)
	fmt.Printf("  Pixel ratio:  %g\n", caps.Screen.PixelRatio)
	fmt.Printf("  Orientation:  %s\n", caps.Screen.Orientation)

	fmt.Println()
	fmt.Println("Performance")
	fmt.Printf("  Tier:       %s\n", caps.Perf.Tier)
	fmt.Printf("  Benchmark:  %.1f\n", caps.Perf.BenchmarkScore)
	fmt.Printf("  Cores:      %d\n", caps.Perf.LogicalCores)
	fmt.Printf("  Memory:     %.1f GB\n", caps.Perf.MemoryHintGB)
	renderer := caps.Perf.RendererName
	if renderer == "" {
		renderer = "(unknown)"
	}
	fmt.Printf("  Renderer:   %s\n", renderer)

	fmt.Println()
	fmt.Println("Features")
	fmt.Printf("  True color:  %v\n", caps.Features.TrueColor)
	fmt.Printf("  256 color:   %v\n", caps.Features.Color256)
	fmt.Printf("  UTF-8:       %v\n", caps.Features.UTF8)
	fmt.Printf("  Alt screen:  %v\n", caps.Features.AltScreen)

	fmt.Println()
	fmt.Println("Input")
	fmt.Printf("  Keyboard:  %v\n", caps.Input.Keyboard)
	fmt.Printf("  Mouse:     %v\n", caps.Input.Mouse)

	tier := caps.Perf.Tier
	if displayCfg.ForceTier != "" {
		tier = display.ParseTier(displayCfg.ForceTier)
		fmt.Println()
		fmt.Printf("Tier forced to %s by configuration.\n", tier)
	}

	q := display.SettingsFor(tier)
	fmt.Println()
	fmt.Println("Quality settings")
	fmt.Printf("  Particles:     %d\n", q.ParticleBudget)
	fmt.Printf("  Render scale:  %g\n", q.RenderScale)
	fmt.Printf("  Target FPS:    %d\n", q.TargetFPS)
	fmt.Printf("  Effects:       %v\n", q.EffectsEnabled)
	fmt.Printf("  Anti-alias:    %v\n", q.AntiAliasing)

	if caps.Battery != nil {
		fmt.Println()
		fmt.Printf("Battery: %.0f%% (charging: %v)\n",
			caps.Battery.Level*100, caps.Battery.Charging)
	}
}
