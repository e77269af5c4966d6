package ascend

import (
	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/multiplayer"
)

// RaceSnapshot is the per-tick state broadcast to both racers.
type RaceSnapshot struct {
	P1, P2 Snapshot
	Target int // Crossings needed to win
}

// IsGameSnapshot marks this as snapshot data for the race loop.
func (RaceSnapshot) IsGameSnapshot() {}

// Race is the authoritative two-player simulation. Each racer climbs an
// identical obstacle field built from the shared seed; collisions are
// forgiving so a crash costs position, not the race. First to the
// target number of crossings wins.
type Race struct {
	host   *Game
	joiner *Game
	target int
	winner core.PlayerID
}

// NewRace creates a race from the given game configuration.
func NewRace(cfg config.AscendConfig) *Race {
	target := cfg.Race.TargetCrossings
	if target < 1 {
		target = 10
	}
	host := NewWithConfig(cfg)
	joiner := NewWithConfig(cfg)
	host.SetForgiving(true)
	joiner.SetForgiving(true)
	return &Race{
		host:   host,
		joiner: joiner,
		target: target,
	}
}

// Reset initializes both racers from the same seed so their obstacle
// fields stay identical.
func (r *Race) Reset(cfg core.RuntimeConfig) {
	r.host.Reset(cfg)
	r.joiner.Reset(cfg)
	r.winner = 0
}

// StepMulti advances both racers one tick.
func (r *Race) StepMulti(input core.MultiInputFrame) core.StepResult {
	r.host.Step(input.Player1())
	r.joiner.Step(input.Player2())

	if r.winner == 0 {
		s1, s2 := r.host.State().Score, r.joiner.State().Score
		switch {
		case s1 >= r.target && s2 >= r.target:
			// Dead heat within one tick: higher score takes it, host on ties.
			if s2 > s1 {
				r.winner = core.Player2
			} else {
				r.winner = core.Player1
			}
		case s1 >= r.target:
			r.winner = core.Player1
		case s2 >= r.target:
			r.winner = core.Player2
		}
	}

	return core.StepResult{State: r.host.State()}
}

// Snapshot returns the current race state for both sessions.
func (r *Race) Snapshot() multiplayer.GameSnapshot {
	return RaceSnapshot{
		P1:     r.host.Snapshot(),
		P2:     r.joiner.Snapshot(),
		Target: r.target,
	}
}

// Finished returns true once a racer reached the target.
func (r *Race) Finished() bool {
	return r.winner != 0
}

// Winner returns the winning player, or 0 while the race is running.
func (r *Race) Winner() core.PlayerID {
	return r.winner
}

// Score1 returns the host's crossings.
func (r *Race) Score1() int {
	return r.host.State().Score
}

// Score2 returns the joiner's crossings.
func (r *Race) Score2() int {
	return r.joiner.State().Score
}

// Target returns the crossings needed to win.
func (r *Race) Target() int {
	return r.target
}
