// ascend is a terminal rendition of the Ascend arcade game: dodge the
// obstacle rows, cross the line at the top, repeat.
//
// Usage:
//
//	ascend play              - Play directly
//	ascend menu              - Interactive menu
//	ascend serve             - Start SSH server for remote play and races
//	ascend scores            - Show high scores
//	ascend profile           - Profile this terminal and show the result
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.ascend/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register it
	_ "github.com/life423/Ascend-Avoid-sub000/internal/games/ascend"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ascend",
	Short: "Ascend - Dodge obstacles and race to the top of your terminal",
	Long: `Ascend is a terminal arcade game. Guide your block from the bottom
of the field past sweeping obstacles to the winning line at the top.
Every crossing scores a point and sends you back to the start.

The game profiles your terminal on startup and adapts its render
quality, and scales its fixed playfield to any window size.

Available commands:
  play     - Play directly
  menu     - Interactive menu
  serve    - Start SSH server for remote play and online races
  scores   - View high scores
  profile  - Profile this terminal and print the result

Examples:
  ascend play
  ascend play --difficulty hard
  ascend serve --ssh :2222
  ascend profile`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ascend/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
}
