package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this for deterministic simulation; display geometry comes from
// the viewport engine, not from here.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in cells at startup
	ScreenH  int   // Terminal height in cells at startup
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game, returned to the
// platform after each tick.
type GameState struct {
	Score    int  // Winning-line crossings this run
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by a game after each simulation tick.
type StepResult struct {
	State GameState
}
