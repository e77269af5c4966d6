package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/games/ascend"
	"github.com/life423/Ascend-Avoid-sub000/internal/platform/tui"
	"github.com/life423/Ascend-Avoid-sub000/internal/registry"
	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Long: `Start the interactive menu: play, browse high scores, quit.

Online races are only available when connected to a server
('ascend serve' + ssh).`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDisplayConfig, "display-config", "", "Path to custom display config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagTier, "tier", "", "Force quality tier: low, medium, high")
}

func runMenu(cmd *cobra.Command, args []string) {
	width, height := 80, 24
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

	ascend.SetConfigPath(flagConfig)
	ascend.SetDifficultyPreset(config.DifficultyPreset(flagDifficulty))

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	displayCfg := loadDisplayConfig()

	// Profile once for the whole menu session.
	caps := detectCapabilities(displayCfg, store)

	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = result.Config
		if result.Quit {
			return
		}

		switch result.Choice {
		case tui.MenuChoicePlay:
			game, err := registry.Create("ascend")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
				os.Exit(1)
			}
			if err := tui.Run(game, store, cfg, displayCfg, caps); err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
				os.Exit(1)
			}

		case tui.MenuChoiceScores:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !goBack {
				return
			}
		}
	}
}
