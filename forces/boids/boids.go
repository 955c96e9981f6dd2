// Package boids implements the Behavior force: Reynolds-style steering
// (separation, alignment, cohesion, chase, avoid, wander) (spec.md §4.10).
package boids

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/internal/fastmath"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Config holds Behavior's scalar knobs and per-contribution weights.
type Config struct {
	ViewRadius      float32 `yaml:"view_radius"`
	ViewAngle       float32 `yaml:"view_angle"` // radians; full cone width
	SeparationRange float32 `yaml:"separation_range"`

	SeparationWeight float32 `yaml:"separation_weight"`
	AlignmentWeight  float32 `yaml:"alignment_weight"`
	CohesionWeight   float32 `yaml:"cohesion_weight"`
	ChaseWeight      float32 `yaml:"chase_weight"`
	AvoidWeight      float32 `yaml:"avoid_weight"`
	WanderWeight     float32 `yaml:"wander_weight"`
}

// DefaultConfig is a plausible flocking preset.
func DefaultConfig() Config {
	return Config{
		ViewRadius:       80,
		ViewAngle:        float32(4 * math.Pi / 3),
		SeparationRange:  30,
		SeparationWeight: 1,
		AlignmentWeight:  1,
		CohesionWeight:   1,
		ChaseWeight:      0,
		AvoidWeight:      0,
		WanderWeight:     0.3,
	}
}

const (
	steeringSpeed    = 1000
	chaseAvoidLimit  = 50000
	avoidStrength    = 1e5
	wanderRegenProb  = 0.01
	chaseFOVDivisor  = 3
)

// Force is the Behavior (boids) force. It caches a per-id wander vector,
// cleared in Clear (spec.md §3, §5: "Force caches ... Behavior.wanderMap
// ... are owned by their force").
type Force struct {
	force.Base
	cfg Config
	rng *rand.Rand

	wander map[particle.ID]vector.Vector2
}

// New constructs the Behavior force with cfg, seeded by rng for
// deterministic wander (spec.md §5: "Tests that need determinism must
// seed the PRNG at System construction").
func New(cfg Config, rng *rand.Rand) *Force {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Force{
		Base:   force.NewBase("boids"),
		cfg:    cfg,
		rng:    rng,
		wander: make(map[particle.ID]vector.Vector2),
	}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// Clear releases the wander cache.
func (f *Force) Clear() {
	for id := range f.wander {
		delete(f.wander, id)
	}
}

// Apply accumulates separation, alignment, cohesion, chase, avoid and
// wander contributions for p (spec.md §4.10).
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if p.Pinned() {
		return
	}

	neighbors := grid.GetParticles(spatial.Point{X: p.Position.X, Y: p.Position.Y}, f.cfg.ViewRadius)
	facing := p.Velocity.Normalize()
	omnidirectional := p.Velocity == vector.Vector2{}
	cosHalfView := float32(math.Cos(float64(f.cfg.ViewAngle) / 2))
	cosNarrowView := float32(math.Cos(float64(f.cfg.ViewAngle) / (2 * chaseFOVDivisor)))

	var total vector.Vector2

	var sepSum vector.Vector2
	var sepCount int
	// alignVelX/Y and cohPosX/Y accumulate per-neighbor samples for
	// gonum/floats.Sum below, rather than a running scalar sum, so the
	// mean neighbor velocity/position is a genuine reduction over a
	// slice instead of hand-rolled accumulation.
	var alignVelX, alignVelY []float64
	var cohPosX, cohPosY []float64
	var chase, avoid vector.Vector2

	for _, q := range neighbors {
		if q.ID == p.ID || !q.Alive() {
			continue
		}

		toQ := q.Position.Sub(p.Position)
		d := toQ.Magnitude()
		if d == 0 {
			continue
		}

		if !omnidirectional {
			dir := toQ.Scale(1 / d)
			if facing.Dot(dir) < cosHalfView {
				continue
			}
		}

		if d < f.cfg.SeparationRange {
			away := p.Position.Sub(q.Position).Scale(1 / d)
			sepSum = sepSum.Add(away)
			sepCount++
		}

		alignVelX = append(alignVelX, float64(q.Velocity.X))
		alignVelY = append(alignVelY, float64(q.Velocity.Y))

		cohPosX = append(cohPosX, float64(q.Position.X))
		cohPosY = append(cohPosY, float64(q.Position.Y))

		if q.Mass < p.Mass {
			narrowDir := toQ.Scale(1 / d)
			if omnidirectional || facing.Dot(narrowDir) >= cosNarrowView {
				seek := f.seek(p, q.Position).Scale((p.Mass - q.Mass) / p.Mass * p.Mass)
				chase = chase.Add(seek)
			}
		}

		if q.Mass > p.Mass && d < f.cfg.ViewRadius/2 {
			repulsion := away0(p.Position, q.Position, d).Scale(avoidStrength * (q.Mass - p.Mass) / q.Mass / maxF(d, 1))
			avoid = avoid.Add(repulsion)
		}
	}

	if sepCount > 0 {
		separation := sepSum.Normalize().Scale(steeringSpeed).Sub(p.Velocity)
		total = total.Add(separation.Scale(f.cfg.SeparationWeight))
	}

	if n := len(alignVelX); n > 0 {
		meanVel := vector.Vector2{
			X: float32(floats.Sum(alignVelX) / float64(n)),
			Y: float32(floats.Sum(alignVelY) / float64(n)),
		}
		alignment := meanVel.Normalize().Scale(steeringSpeed).Sub(p.Velocity)
		total = total.Add(alignment.Scale(f.cfg.AlignmentWeight))
	}

	if n := len(cohPosX); n > 0 {
		meanPos := vector.Vector2{
			X: float32(floats.Sum(cohPosX) / float64(n)),
			Y: float32(floats.Sum(cohPosY) / float64(n)),
		}
		cohesion := f.seek(p, meanPos)
		total = total.Add(cohesion.Scale(f.cfg.CohesionWeight))
	}

	total = total.Add(clampedContribution(chase, f.cfg.ChaseWeight))
	total = total.Add(clampedContribution(avoid, f.cfg.AvoidWeight))
	total = total.Add(f.wanderContribution(p).Scale(f.cfg.WanderWeight))

	p.ApplyForce(total)
}

// seek returns the steering force toward target: direction scaled to
// steeringSpeed, minus current velocity (spec.md §4.10 "seek").
func (f *Force) seek(p *particle.Particle, target vector.Vector2) vector.Vector2 {
	desired := target.Sub(p.Position).Normalize().Scale(steeringSpeed)
	return desired.Sub(p.Velocity)
}

// wanderContribution regenerates p's cached wander vector with
// probability 0.01 per call, otherwise returns the cached value unchanged
// (spec.md §4.10).
func (f *Force) wanderContribution(p *particle.Particle) vector.Vector2 {
	if f.rng.Float64() < wanderRegenProb {
		w := vector.RandomUnit(f.rng).Scale(steeringSpeed * p.Mass)
		f.wander[p.ID] = w
		return w
	}
	if w, ok := f.wander[p.ID]; ok {
		return w
	}
	return vector.Vector2{}
}

// clampedContribution scales chase/avoid by weight, then bounds the
// result's magnitude to chaseAvoidLimit*weight (spec.md §4.10: "chase and
// avoid are multiplied by the user weight, then magnitude-limited
// (50000·weight)") — two distinct operations, not one.
func clampedContribution(v vector.Vector2, weight float32) vector.Vector2 {
	if v == (vector.Vector2{}) || weight <= 0 {
		return vector.Vector2{}
	}
	x, y := fastmath.ClampMagnitude(v.X*weight, v.Y*weight, chaseAvoidLimit*weight)
	return vector.Vector2{X: x, Y: y}
}

func away0(from, to vector.Vector2, d float32) vector.Vector2 {
	if d == 0 {
		return vector.Vector2{}
	}
	return from.Sub(to).Scale(1 / d)
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
