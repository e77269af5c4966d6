// Package ascend implements the Ascend game: guide a block from the
// bottom of the field to the winning line at the top while obstacles
// sweep across the screen. Crossing the line scores a point and returns
// the player to the start; touching an obstacle ends the run.
//
// The simulation runs in a fixed 400x600 unit space regardless of
// terminal size. The viewport engine maps that space onto whatever
// surface is available.
package ascend

import (
	"sync"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
	"github.com/life423/Ascend-Avoid-sub000/internal/registry"
)

var (
	configPathMu sync.Mutex
	configPath   string
	presetName   config.DifficultyPreset
)

// SetConfigPath sets a custom config file path used by the next New().
func SetConfigPath(path string) {
	configPathMu.Lock()
	defer configPathMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied by the next New().
func SetDifficultyPreset(preset config.DifficultyPreset) {
	configPathMu.Lock()
	defer configPathMu.Unlock()
	presetName = preset
}

// Game implements the Ascend game logic.
type Game struct {
	cfg        config.AscendConfig
	difficulty *config.DifficultyManager

	player    core.RectF // Player hitbox in game units
	obstacles *ObstacleField
	particles *ParticlePool

	score     int
	gameOver  bool
	paused    bool
	forgiving bool // Collisions reset position instead of ending the run
	tickCount int
	runtime   core.RuntimeConfig
}

// New creates a new Ascend game instance using the configured config
// path and difficulty preset.
func New() *Game {
	configPathMu.Lock()
	path, preset := configPath, presetName
	configPathMu.Unlock()

	cfg, err := config.LoadAscend(path)
	if err != nil {
		cfg = config.DefaultAscendConfig()
	}
	config.ApplyPreset(&cfg, preset)

	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with an explicit configuration.
func NewWithConfig(cfg config.AscendConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		particles:  NewParticlePool(defaultParticleCap),
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "ascend"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Ascend"
}

// Config returns the active game configuration.
func (g *Game) Config() config.AscendConfig {
	return g.cfg
}

// SetForgiving controls collision behaviour. In a race, hitting an
// obstacle sends the player back to the start instead of ending the run.
func (g *Game) SetForgiving(on bool) {
	g.forgiving = on
}

// SetEffects adjusts the particle budget and toggles effects entirely.
// Called by the platform when the quality controller changes settings.
func (g *Game) SetEffects(budget int, enabled bool) {
	g.particles.SetBudget(budget)
	g.particles.SetEnabled(enabled)
}

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.respawnPlayer()
	g.particles.Reset()

	if g.obstacles == nil {
		g.obstacles = NewObstacleField(cfg.Seed, g.cfg, g.difficulty)
	} else {
		g.obstacles.Reset(cfg.Seed)
	}
}

// respawnPlayer places the player at the bottom center of the field.
func (g *Game) respawnPlayer() {
	w := g.cfg.World
	p := g.cfg.Player
	g.player = core.NewRectF(
		(w.Width-p.Width)/2,
		w.Height-p.StartY-p.Height,
		p.Width,
		p.Height,
	)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		if in.Has(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++

	g.movePlayer(in)
	g.obstacles.Update(g.score, g.tickCount)
	g.particles.Update()

	// Crossing the winning line scores and restarts the climb.
	if g.player.Y <= g.cfg.World.WinningLineY {
		g.score++
		cx, cy := g.player.Center()
		g.particles.Burst(cx, cy)
		g.respawnPlayer()
	}

	if g.obstacles.Collides(g.player) {
		if g.forgiving {
			g.respawnPlayer()
		} else {
			g.gameOver = true
		}
	}

	return core.StepResult{State: g.State()}
}

// movePlayer applies held directional input, clamped to the field.
func (g *Game) movePlayer(in core.InputFrame) {
	w := g.cfg.World
	speed := g.cfg.Player.Speed

	if in.Has(core.ActionUp) {
		g.player.Y -= speed
	}
	if in.Has(core.ActionDown) {
		g.player.Y += speed
	}
	if in.Has(core.ActionLeft) {
		g.player.X -= speed
	}
	if in.Has(core.ActionRight) {
		g.player.X += speed
	}

	g.player.X = core.ClampF(g.player.X, 0, w.Width-g.player.W)
	g.player.Y = core.ClampF(g.player.Y, 0, w.Height-g.player.H)
}

// Render draws the field into the backing canvas. The canvas may be any
// size; game units are scaled to canvas pixels here.
func (g *Game) Render(dst *core.PixelCanvas) {
	w := g.cfg.World
	sx := float64(dst.Width()) / w.Width
	sy := float64(dst.Height()) / w.Height

	// Winning line
	lineY := int(g.cfg.World.WinningLineY * sy)
	dst.HLine(0, lineY, dst.Width(), core.ColorCyan)

	// Obstacles
	for _, o := range g.obstacles.All() {
		dst.FillRect(
			int(o.Rect.X*sx), int(o.Rect.Y*sy),
			scaleLen(o.Rect.W, sx), scaleLen(o.Rect.H, sy),
			core.ColorBrightBlue,
		)
	}

	// Player
	dst.FillRect(
		int(g.player.X*sx), int(g.player.Y*sy),
		scaleLen(g.player.W, sx), scaleLen(g.player.H, sy),
		core.ColorBrightGreen,
	)

	// Particles
	for _, p := range g.particles.Alive() {
		dst.Set(int(p.X*sx), int(p.Y*sy), core.ColorBrightYellow)
	}
}

// scaleLen converts a game-unit length to pixels, never below 1 so thin
// entities stay visible on tiny canvases.
func scaleLen(units, scale float64) int {
	px := int(units * scale)
	if px < 1 {
		px = 1
	}
	return px
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Player returns the player hitbox in game units.
func (g *Game) Player() core.RectF {
	return g.player
}

// Register the game with the registry
func init() {
	registry.Register("ascend", func() registry.Game {
		return New()
	})
}
