package ascend

import (
	"testing"

	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

func TestRaceFirstToTargetWins(t *testing.T) {
	cfg := testConfig()
	cfg.Obstacles.BaseCount = 0
	cfg.Difficulty.Enabled = false
	cfg.Race.TargetCrossings = 2

	r := NewRace(cfg)
	r.Reset(runtimeCfg(99))

	// Only the host climbs.
	up := core.NewInputFrame()
	up.Set(core.ActionUp)

	for i := 0; i < 1000 && !r.Finished(); i++ {
		in := core.NewMultiInputFrame()
		in.SetPlayer(core.Player1, up)
		r.StepMulti(in)
	}

	if !r.Finished() {
		t.Fatal("race never finished with an unobstructed climber")
	}
	if r.Winner() != core.Player1 {
		t.Errorf("Winner() = %v, expected Player1", r.Winner())
	}
	if r.Score1() != cfg.Race.TargetCrossings {
		t.Errorf("Score1() = %d, expected %d", r.Score1(), cfg.Race.TargetCrossings)
	}
	if r.Score2() != 0 {
		t.Errorf("Score2() = %d for an idle joiner, expected 0", r.Score2())
	}
}

func TestRaceCollisionIsForgiving(t *testing.T) {
	cfg := testConfig()
	cfg.Race.TargetCrossings = 5
	r := NewRace(cfg)
	r.Reset(runtimeCfg(7))

	// Park an obstacle on the host player and step.
	r.host.obstacles.obstacles = []Obstacle{{Rect: r.host.Player(), Speed: 0}}
	r.StepMulti(core.NewMultiInputFrame())

	if r.host.State().GameOver {
		t.Error("race collision ended the host's run; races must be forgiving")
	}
	if r.Finished() {
		t.Error("race finished after a collision")
	}
}

func TestRaceSharedSeedKeepsFieldsIdentical(t *testing.T) {
	cfg := testConfig()
	r := NewRace(cfg)
	r.Reset(runtimeCfg(1234))

	for i := 0; i < 50; i++ {
		r.StepMulti(core.NewMultiInputFrame())
	}

	a, b := r.host.obstacles.All(), r.joiner.obstacles.All()
	if len(a) != len(b) {
		t.Fatalf("obstacle counts diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("obstacle %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRaceSnapshotCarriesBothPlayers(t *testing.T) {
	cfg := testConfig()
	cfg.Race.TargetCrossings = 3
	r := NewRace(cfg)
	r.Reset(runtimeCfg(5))
	r.StepMulti(core.NewMultiInputFrame())

	snap, ok := r.Snapshot().(RaceSnapshot)
	if !ok {
		t.Fatalf("Snapshot() returned %T, expected RaceSnapshot", r.Snapshot())
	}
	if snap.Target != 3 {
		t.Errorf("Target = %d, expected 3", snap.Target)
	}
	if snap.P1.Tick != 1 || snap.P2.Tick != 1 {
		t.Errorf("snapshot ticks = %d/%d, expected 1/1", snap.P1.Tick, snap.P2.Tick)
	}
}
