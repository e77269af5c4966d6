package ascend

import (
	"testing"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

func testConfig() config.AscendConfig {
	return config.DefaultAscendConfig()
}

func runtimeCfg(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func TestGameDeterminism(t *testing.T) {
	// Same seed and inputs must produce identical runs.
	inputSequence := make([]core.InputFrame, 300)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		inputSequence[i].Set(core.ActionUp)
		if i%7 == 0 {
			inputSequence[i].Set(core.ActionLeft)
		}
	}

	run := func() (core.GameState, int) {
		g := NewWithConfig(testConfig())
		g.Reset(runtimeCfg(12345))
		var state core.GameState
		for _, in := range inputSequence {
			state = g.Step(in).State
			if state.GameOver {
				break
			}
		}
		return state, g.tickCount
	}

	state1, ticks1 := run()
	state2, ticks2 := run()

	if state1.Score != state2.Score {
		t.Errorf("determinism failed: scores differ, run1=%d run2=%d", state1.Score, state2.Score)
	}
	if ticks1 != ticks2 {
		t.Errorf("determinism failed: tick counts differ, run1=%d run2=%d", ticks1, ticks2)
	}
}

func TestCrossingScoresAndRespawns(t *testing.T) {
	cfg := testConfig()
	cfg.Obstacles.BaseCount = 0 // Empty field: nothing can interrupt the climb
	cfg.Difficulty.Enabled = false

	g := NewWithConfig(cfg)
	g.Reset(runtimeCfg(1))
	startY := g.Player().Y

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	for i := 0; i < 200; i++ {
		if g.State().Score > 0 {
			break
		}
		g.Step(in)
	}

	if got := g.State().Score; got != 1 {
		t.Fatalf("Score = %d after reaching the winning line, expected 1", got)
	}
	if g.State().GameOver {
		t.Error("crossing the line must not end the run")
	}
	if g.Player().Y != startY {
		t.Errorf("player Y = %g after crossing, expected respawn at %g", g.Player().Y, startY)
	}
}

func TestCollisionEndsRun(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(runtimeCfg(1))

	// Park an obstacle directly on the player.
	g.obstacles.obstacles = []Obstacle{{Rect: g.Player(), Speed: 0}}

	g.Step(core.NewInputFrame())
	if !g.State().GameOver {
		t.Fatal("overlapping an obstacle must end the run")
	}

	// Restart action brings the game back.
	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	g.Step(in)
	if g.State().GameOver {
		t.Error("restart after game over did not reset the run")
	}
}

func TestForgivingCollisionRespawns(t *testing.T) {
	cfg := testConfig()
	g := NewWithConfig(cfg)
	g.SetForgiving(true)
	g.Reset(runtimeCfg(1))
	startX, startY := g.Player().X, g.Player().Y

	// Move off the start, then collide.
	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	g.Step(in)

	hit := g.Player()
	g.obstacles.obstacles = []Obstacle{{Rect: hit, Speed: 0}}
	g.Step(core.NewInputFrame())

	if g.State().GameOver {
		t.Error("forgiving collision must not end the run")
	}
	p := g.Player()
	if p.X != startX || p.Y != startY {
		t.Errorf("player at (%g, %g) after forgiving collision, expected respawn at (%g, %g)",
			p.X, p.Y, startX, startY)
	}
}

func TestPlayerStaysInField(t *testing.T) {
	cfg := testConfig()
	cfg.Obstacles.BaseCount = 0
	cfg.Difficulty.Enabled = false
	g := NewWithConfig(cfg)
	g.Reset(runtimeCfg(1))

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	in.Set(core.ActionDown)
	for i := 0; i < 300; i++ {
		g.Step(in)
	}

	p := g.Player()
	if p.X != 0 {
		t.Errorf("player X = %g after holding left, expected 0", p.X)
	}
	if want := cfg.World.Height - p.H; p.Y != want {
		t.Errorf("player Y = %g after holding down, expected %g", p.Y, want)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(runtimeCfg(1))

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("pause action did not pause")
	}

	before := g.Player()
	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	g.Step(in)
	if g.Player() != before {
		t.Error("player moved while paused")
	}
}

func TestResetClearsState(t *testing.T) {
	g := NewWithConfig(testConfig())
	g.Reset(runtimeCfg(42))

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	for i := 0; i < 50; i++ {
		g.Step(in)
	}

	g.Reset(runtimeCfg(42))
	if g.score != 0 || g.gameOver || g.paused || g.tickCount != 0 {
		t.Errorf("Reset left state behind: score=%d over=%v paused=%v ticks=%d",
			g.score, g.gameOver, g.paused, g.tickCount)
	}
}

func TestDifficultyAddsObstacles(t *testing.T) {
	cfg := testConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0
	cfg.Difficulty.Progression = config.ProgressionConfig{Type: "score", MaxAt: 10}
	cfg.Difficulty.Scaling.ExtraObstacles = 4

	g := NewWithConfig(cfg)
	g.Reset(runtimeCfg(1))
	base := g.obstacles.Count()

	// Simulate reaching max difficulty.
	g.score = 10
	g.obstacles.Update(g.score, g.tickCount)

	if got := g.obstacles.Count(); got != base+4 {
		t.Errorf("obstacle count at max difficulty = %d, expected %d", got, base+4)
	}
}

func TestObstacleWrap(t *testing.T) {
	cfg := testConfig()
	cfg.Difficulty.Enabled = false
	f := NewObstacleField(7, cfg, config.NewDifficultyManager(cfg.Difficulty))

	f.obstacles[0].Rect.X = cfg.World.Width + 1
	f.Update(0, 0)

	if got := f.obstacles[0].Rect.X; got > 0 {
		t.Errorf("obstacle X = %g after leaving the field, expected re-entry from the left", got)
	}
	if w := f.obstacles[0].Rect.W; w < cfg.Obstacles.MinWidth || w > cfg.Obstacles.MaxWidth {
		t.Errorf("re-wrapped width %g outside [%g, %g]", w, cfg.Obstacles.MinWidth, cfg.Obstacles.MaxWidth)
	}
}

func TestObstacleFieldCollides(t *testing.T) {
	cfg := testConfig()
	f := NewObstacleField(3, cfg, nil)

	target := f.All()[0].Rect
	if !f.Collides(target) {
		t.Error("Collides() = false for a rect equal to an obstacle")
	}
	if f.Collides(core.NewRectF(-500, -500, 10, 10)) {
		t.Error("Collides() = true for a rect far outside the field")
	}
}

func TestParticleBudget(t *testing.T) {
	p := NewParticlePool(10)
	p.Burst(100, 100)
	if got := len(p.Alive()); got > 10 {
		t.Errorf("pool holds %d particles, budget is 10", got)
	}

	p.SetBudget(4)
	if got := len(p.Alive()); got > 4 {
		t.Errorf("pool holds %d particles after shrinking budget to 4", got)
	}

	p.SetEnabled(false)
	p.Reset()
	p.Burst(100, 100)
	if got := len(p.Alive()); got != 0 {
		t.Errorf("disabled pool emitted %d particles", got)
	}
}

func TestParticlesExpire(t *testing.T) {
	p := NewParticlePool(50)
	p.Burst(100, 100)
	if len(p.Alive()) == 0 {
		t.Fatal("burst emitted nothing")
	}

	for i := 0; i < 30; i++ {
		p.Update()
	}
	if got := len(p.Alive()); got != 0 {
		t.Errorf("%d particles alive after their lifetime", got)
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	cfg := testConfig()
	cfg.Obstacles.BaseCount = 0
	cfg.Difficulty.Enabled = false
	g := NewWithConfig(cfg)
	g.Reset(runtimeCfg(1))

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	g.Step(in)

	snap := g.Snapshot()
	if snap.Tick != 1 {
		t.Errorf("Snapshot.Tick = %d, expected 1", snap.Tick)
	}
	if snap.X != g.Player().X || snap.Y != g.Player().Y {
		t.Errorf("Snapshot position (%g, %g) does not match player (%g, %g)",
			snap.X, snap.Y, g.Player().X, g.Player().Y)
	}
	if snap.Done {
		t.Error("Snapshot.Done = true for a live run")
	}
}
