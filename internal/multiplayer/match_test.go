package multiplayer

import (
	"sync"
	"testing"
	"time"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

// stubRace is a minimal RaceGame that finishes after a fixed number of
// ticks with a predetermined winner.
type stubRace struct {
	mu       sync.Mutex
	steps    int
	finishAt int
	winner   PlayerID
	s1, s2   int
}

type stubSnapshot struct{ Tick int }

func (stubSnapshot) IsGameSnapshot() {}

func (g *stubRace) Reset(cfg core.RuntimeConfig) {}

func (g *stubRace) StepMulti(in core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps++
	if in.Player1().Has(core.ActionUp) {
		g.s1++
	}
	return core.StepResult{}
}

func (g *stubRace) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return stubSnapshot{Tick: g.steps}
}

func (g *stubRace) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finishAt > 0 && g.steps >= g.finishAt
}

func (g *stubRace) Winner() PlayerID { return g.winner }
func (g *stubRace) Score1() int      { g.mu.Lock(); defer g.mu.Unlock(); return g.s1 }
func (g *stubRace) Score2() int      { g.mu.Lock(); defer g.mu.Unlock(); return g.s2 }

func waitResult(t *testing.T, ch <-chan RaceResult) RaceResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("race did not complete in time")
		return RaceResult{}
	}
}

func TestRaceMatchCompletes(t *testing.T) {
	host := NewChannelSession("host", 8)
	joiner := NewChannelSession("joiner", 8)
	game := &stubRace{finishAt: 5, winner: Player1}

	m := NewRaceMatch("m1", "ABCDEF", game, 42, host, joiner, 200)
	results := make(chan RaceResult, 1)
	go m.Run(func(r RaceResult) { results <- r })

	result := waitResult(t, results)
	if result.Reason != RaceEndReasonCompleted {
		t.Errorf("Reason = %v, expected completed", result.Reason)
	}
	if result.Winner != Player1 {
		t.Errorf("Winner = %v, expected Player1", result.Winner)
	}
	if result.Ticks < 5 {
		t.Errorf("Ticks = %d, expected at least 5", result.Ticks)
	}

	// Both sessions saw snapshots along the way.
	select {
	case evt := <-host.Events():
		if _, ok := evt.(SnapshotEvent); !ok {
			t.Errorf("host received %T first, expected SnapshotEvent", evt)
		}
	default:
		t.Error("host received no events")
	}
}

func TestRaceMatchInputReachesGame(t *testing.T) {
	host := NewChannelSession("host", 8)
	joiner := NewChannelSession("joiner", 8)
	game := &stubRace{finishAt: 20, winner: Player2}

	m := NewRaceMatch("m2", "ABCDEF", game, 1, host, joiner, 200)
	results := make(chan RaceResult, 1)
	go m.Run(func(r RaceResult) { results <- r })

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	m.SendInput(Player1, in)

	result := waitResult(t, results)
	if result.Score1 < 1 {
		t.Errorf("Score1 = %d, host input never reached the game", result.Score1)
	}
}

func TestRaceMatchDisconnectForfeits(t *testing.T) {
	host := NewChannelSession("host", 8)
	joiner := NewChannelSession("joiner", 8)
	game := &stubRace{finishAt: 0} // Never finishes on its own

	m := NewRaceMatch("m3", "ABCDEF", game, 1, host, joiner, 200)
	results := make(chan RaceResult, 1)
	go m.Run(func(r RaceResult) { results <- r })

	// Joiner drops: host wins by forfeit.
	time.Sleep(20 * time.Millisecond)
	joiner.Close()

	result := waitResult(t, results)
	if result.Reason != RaceEndReasonDisconnect {
		t.Errorf("Reason = %v, expected disconnect", result.Reason)
	}
	if result.Winner != Player1 {
		t.Errorf("Winner = %v, expected Player1 after joiner dropped", result.Winner)
	}
}

func TestRaceMatchStop(t *testing.T) {
	host := NewChannelSession("host", 8)
	joiner := NewChannelSession("joiner", 8)
	game := &stubRace{finishAt: 0}

	m := NewRaceMatch("m4", "ABCDEF", game, 1, host, joiner, 200)
	done := make(chan struct{})
	go func() {
		m.Run(nil)
		close(done)
	}()

	m.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Stop()")
	}
}
