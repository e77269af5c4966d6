package ascend

import (
	"math/rand"

	"github.com/life423/Ascend-Avoid-sub000/internal/config"
	"github.com/life423/Ascend-Avoid-sub000/internal/core"
)

// Obstacle is a horizontally sweeping block. When it leaves the right
// edge it wraps to the left with a fresh width and speed, so the field
// density stays constant without a spawner.
type Obstacle struct {
	Rect  core.RectF
	Speed float64 // Units per tick, always rightward
}

// ObstacleField manages the rows of sweeping obstacles. The number of
// active rows and their speed grow with the difficulty level.
type ObstacleField struct {
	obstacles  []Obstacle
	rng        *rand.Rand
	cfg        config.AscendConfig
	difficulty *config.DifficultyManager
}

// NewObstacleField creates a field seeded for deterministic runs.
func NewObstacleField(seed int64, cfg config.AscendConfig, diff *config.DifficultyManager) *ObstacleField {
	f := &ObstacleField{
		cfg:        cfg,
		difficulty: diff,
	}
	f.Reset(seed)
	return f
}

// Reset rebuilds the field from the seed with the base row count.
func (f *ObstacleField) Reset(seed int64) {
	f.rng = rand.New(rand.NewSource(seed))
	f.obstacles = f.obstacles[:0]
	for i := 0; i < f.cfg.Obstacles.BaseCount; i++ {
		f.obstacles = append(f.obstacles, f.spawn(i, f.cfg.Obstacles.BaseCount))
	}
}

// spawn creates an obstacle on row i of rows, starting at a random x so
// a fresh field does not march in lockstep.
func (f *ObstacleField) spawn(i, rows int) Obstacle {
	o := f.cfg.Obstacles
	w := f.cfg.World

	width := o.MinWidth + f.rng.Float64()*(o.MaxWidth-o.MinWidth)
	speed := o.MinSpeed + f.rng.Float64()*(o.MaxSpeed-o.MinSpeed)

	// Rows are spread evenly through the playable band between the
	// winning-line margin and the spawn area.
	bandTop := w.WinningLineY + o.TopMargin
	bandBottom := w.Height - o.BottomGap - o.Height
	y := bandTop
	if rows > 1 {
		y += (bandBottom - bandTop) * float64(i) / float64(rows-1)
	}

	x := f.rng.Float64()*(w.Width+width) - width

	return Obstacle{
		Rect:  core.NewRectF(x, y, width, o.Height),
		Speed: speed,
	}
}

// Update advances every obstacle one tick, wrapping those that left the
// field and growing the row count as difficulty rises.
func (f *ObstacleField) Update(score, ticks int) {
	o := f.cfg.Obstacles
	w := f.cfg.World

	want := f.cfg.Obstacles.BaseCount
	if f.difficulty != nil {
		want = f.difficulty.ObstacleCount(o.BaseCount, o.MaxCount, score, ticks)
	}
	for len(f.obstacles) < want {
		f.obstacles = append(f.obstacles, f.spawn(len(f.obstacles), want))
	}

	mult := 1.0
	if f.difficulty != nil {
		mult = f.difficulty.Speed(1.0, score, ticks)
	}

	for i := range f.obstacles {
		f.obstacles[i].Rect.X += f.obstacles[i].Speed * mult
		if f.obstacles[i].Rect.X > w.Width {
			f.rewrap(i)
		}
	}
}

// rewrap sends obstacle i back to the left edge with fresh dimensions.
// Its row (y position) is kept.
func (f *ObstacleField) rewrap(i int) {
	o := f.cfg.Obstacles
	width := o.MinWidth + f.rng.Float64()*(o.MaxWidth-o.MinWidth)
	speed := o.MinSpeed + f.rng.Float64()*(o.MaxSpeed-o.MinSpeed)
	f.obstacles[i].Rect.X = -width
	f.obstacles[i].Rect.W = width
	f.obstacles[i].Speed = speed
}

// Collides reports whether the given hitbox overlaps any obstacle.
func (f *ObstacleField) Collides(hitbox core.RectF) bool {
	for i := range f.obstacles {
		if f.obstacles[i].Rect.Intersects(hitbox) {
			return true
		}
	}
	return false
}

// All returns the active obstacles for rendering and sync snapshots.
func (f *ObstacleField) All() []Obstacle {
	return f.obstacles
}

// Count returns the number of active obstacles.
func (f *ObstacleField) Count() int {
	return len(f.obstacles)
}
