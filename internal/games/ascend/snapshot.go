package ascend

// Snapshot is the compact per-tick state exchanged between racers.
// Both sides run the same deterministic obstacle field from a shared
// seed, so only the player's own progress needs to cross the wire.
type Snapshot struct {
	Tick  int
	X, Y  float64 // Player position in game units
	Score int
	Done  bool // Run ended (crash in a non-forgiving game)
}

// Snapshot captures the current race-relevant state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:  g.tickCount,
		X:     g.player.X,
		Y:     g.player.Y,
		Score: g.score,
		Done:  g.gameOver,
	}
}
