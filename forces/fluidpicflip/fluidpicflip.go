// Package fluidpicflip implements the Fluid (PIC/FLIP) alternate force:
// grid-blended velocity transfer with a simplified local pressure step
// (spec.md §4.9). It is meant as an alternative to fluidsph, not layered
// on top of it — spec.md §6's default preset picks one.
package fluidpicflip

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/internal/fastmath"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Config holds Fluid (PIC/FLIP)'s scalar knobs.
type Config struct {
	// LocalRadius is the neighborhood radius used for both the
	// velocity-blend weighting and the local pressure gradient.
	LocalRadius float32 `yaml:"local_radius"`

	// FlipRatio blends PIC (0) and FLIP (1); 0.95 is typical per spec.md
	// §4.9.
	FlipRatio float32 `yaml:"flip_ratio"`

	// RestDensity and PressureConstant drive the local pressure term.
	RestDensity      float32 `yaml:"rest_density"`
	PressureConstant float32 `yaml:"pressure_constant"`

	// MaxAccel bounds the local pressure gradient's contribution to
	// velocity per second (spec.md §4.9 default 20000).
	MaxAccel float32 `yaml:"max_accel"`
}

// DefaultConfig matches spec.md §4.9's documented defaults.
func DefaultConfig() Config {
	return Config{
		LocalRadius:      30,
		FlipRatio:        0.95,
		RestDensity:      4,
		PressureConstant: 0.5,
		MaxAccel:         20000,
	}
}

// Force is the Fluid (PIC/FLIP) force. It caches each particle's
// pre-blend velocity, keyed by id, so the FLIP term (current - previous)
// can be computed in Apply.
type Force struct {
	force.Base
	cfg Config
	dt  float32 // cached in Before; Apply's hook signature carries no dt

	prevVel map[particle.ID]vector.Vector2
}

// New constructs the Fluid (PIC/FLIP) force with cfg.
func New(cfg Config) *Force {
	return &Force{
		Base:    force.NewBase("fluid-picflip"),
		cfg:     cfg,
		prevVel: make(map[particle.ID]vector.Vector2),
	}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// Clear releases the previous-velocity cache (spec.md §3).
func (f *Force) Clear() {
	for id := range f.prevVel {
		delete(f.prevVel, id)
	}
}

// Before snapshots every particle's velocity ahead of Apply's blend, since
// the FLIP term needs "current minus pre-step" velocity (spec.md §4.9:
// "prevVelX, prevVelY, written in a state phase before apply").
func (f *Force) Before(particles []*particle.Particle, dt float32) {
	f.dt = dt
	for _, p := range particles {
		f.prevVel[p.ID] = p.Velocity
	}
}

// Apply blends a weighted-neighborhood PIC/FLIP velocity and applies a
// clamped local pressure gradient (spec.md §4.9).
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if p.Pinned() {
		return
	}

	R := f.cfg.LocalRadius
	neighbors := grid.GetParticles(spatial.Point{X: p.Position.X, Y: p.Position.Y}, R)

	// weights and the neighbor velocity components are collected as
	// plain slices so the weighted average is a genuine gonum/floats
	// reduction (Dot for the weighted sum, Sum for the weight total)
	// rather than a hand-accumulated running scalar.
	var weights, velX, velY []float64
	for _, q := range neighbors {
		d := p.Position.Distance(q.Position)
		if d >= R {
			continue
		}
		weight := 1 - d/R
		weights = append(weights, float64(weight))
		velX = append(velX, float64(q.Velocity.X))
		velY = append(velY, float64(q.Velocity.Y))
	}

	totalWeight := float32(floats.Sum(weights))
	density := totalWeight

	if totalWeight > 0 {
		avg := vector.Vector2{
			X: float32(floats.Dot(weights, velX)) / totalWeight,
			Y: float32(floats.Dot(weights, velY)) / totalWeight,
		}
		prev := f.prevVel[p.ID]

		pic := avg
		flip := p.Velocity.Add(avg.Sub(prev))
		p.Velocity = vector.Lerp(pic, flip, f.cfg.FlipRatio)
	}

	f.applyLocalPressure(p, neighbors, R, density)
}

// applyLocalPressure accumulates a clamped pressure gradient over
// neighbors and integrates it directly into velocity (spec.md §4.9: "a
// simplified local pressure step").
func (f *Force) applyLocalPressure(p *particle.Particle, neighbors []*particle.Particle, R, density float32) {
	limit := 10 * absF(f.cfg.PressureConstant)
	pressure := fastmath.Clamp((density-f.cfg.RestDensity)*f.cfg.PressureConstant, -limit, limit)

	var gradient vector.Vector2
	for _, q := range neighbors {
		if q.ID == p.ID {
			continue
		}
		d := p.Position.Distance(q.Position)
		if d >= R || d < 1e-3 {
			continue
		}
		direction := p.Position.Sub(q.Position).Scale(1 / d)
		weight := 1 - d/R
		gradient = gradient.Add(direction.Scale(weight * pressure))
	}

	gx, gy := fastmath.ClampMagnitude(gradient.X, gradient.Y, f.cfg.MaxAccel)
	p.Velocity.X += gx * f.dt
	p.Velocity.Y += gy * f.dt
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
