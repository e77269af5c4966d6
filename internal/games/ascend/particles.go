package ascend

import "math"

// defaultParticleCap matches the medium quality tier's particle budget.
const defaultParticleCap = 120

// particlesPerBurst is how many particles a single crossing emits,
// subject to the pool's remaining budget.
const particlesPerBurst = 24

// Particle is a short-lived celebratory spark in game units.
type Particle struct {
	X, Y   float64
	vx, vy float64
	life   int // Remaining ticks
}

// ParticlePool holds a fixed budget of particles. The quality controller
// shrinks the budget on weaker devices and can disable effects entirely;
// the simulation is unaffected either way.
type ParticlePool struct {
	particles []Particle
	budget    int
	enabled   bool
	emitted   int // Rotates emission angles between bursts
}

// NewParticlePool creates a pool with the given budget.
func NewParticlePool(budget int) *ParticlePool {
	if budget < 0 {
		budget = 0
	}
	return &ParticlePool{
		particles: make([]Particle, 0, budget),
		budget:    budget,
		enabled:   true,
	}
}

// SetBudget changes the particle cap. Excess live particles are dropped.
func (p *ParticlePool) SetBudget(budget int) {
	if budget < 0 {
		budget = 0
	}
	p.budget = budget
	if len(p.particles) > budget {
		p.particles = p.particles[:budget]
	}
}

// SetEnabled toggles emission. Live particles finish their lifetime.
func (p *ParticlePool) SetEnabled(on bool) {
	p.enabled = on
}

// Reset drops all live particles.
func (p *ParticlePool) Reset() {
	p.particles = p.particles[:0]
}

// Burst emits a ring of particles at (x, y), bounded by the budget.
func (p *ParticlePool) Burst(x, y float64) {
	if !p.enabled {
		return
	}
	for i := 0; i < particlesPerBurst; i++ {
		if len(p.particles) >= p.budget {
			return
		}
		angle := 2 * math.Pi * float64(p.emitted%particlesPerBurst) / particlesPerBurst
		p.emitted++
		p.particles = append(p.particles, Particle{
			X: x, Y: y,
			vx:   math.Cos(angle) * 2.5,
			vy:   math.Sin(angle)*2.5 - 1,
			life: 20,
		})
	}
}

// Update advances particle physics one tick and culls dead particles.
func (p *ParticlePool) Update() {
	alive := p.particles[:0]
	for _, pt := range p.particles {
		pt.life--
		if pt.life <= 0 {
			continue
		}
		pt.X += pt.vx
		pt.Y += pt.vy
		pt.vy += 0.15 // Gravity
		alive = append(alive, pt)
	}
	p.particles = alive
}

// Alive returns the live particles for rendering.
func (p *ParticlePool) Alive() []Particle {
	return p.particles
}
