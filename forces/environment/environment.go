// Package environment implements the Environment force: gravity, global
// inertia/friction, and post-integration damping (spec.md §4.5... actually
// §4.6 in the numbered component list — "Environment": gravity, global
// inertia, friction, damping).
package environment

import (
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Config holds Environment's scalar knobs (simconfig round-trips this).
type Config struct {
	GravityStrength float32        `yaml:"gravity_strength"`
	GravityDir      vector.Vector2 `yaml:"gravity_dir"`
	Friction        float32        `yaml:"friction"` // velocity *= (1 - Friction*dt) each step
	Inertia         float32        `yaml:"inertia"`  // additional multiplicative velocity scaling
	Damping         float32        `yaml:"damping"`  // applied once, globally, in After
}

// DefaultConfig matches a gentle downward-gravity preset.
func DefaultConfig() Config {
	return Config{
		GravityStrength: 0,
		GravityDir:      vector.Vector2{X: 0, Y: 1},
		Friction:        0,
		Inertia:         1,
		Damping:         0,
	}
}

// Force accumulates gravity as a force and attenuates velocity by
// friction/inertia during Apply, then applies Damping globally After
// integration so joint-constraint impulses feel it too (spec.md §4.6).
//
// Apply's hook signature carries no dt (spec.md §3), so Before caches the
// step's dt for Apply's friction/inertia scaling to read.
type Force struct {
	enabled bool
	cfg     Config
	dt      float32
}

// New constructs the Environment force with cfg.
func New(cfg Config) *Force {
	return &Force{enabled: true, cfg: cfg}
}

func (f *Force) Name() string      { return "environment" }
func (f *Force) Enabled() bool     { return f.enabled }
func (f *Force) SetEnabled(v bool) { f.enabled = v }

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// Before caches dt for Apply to use (Apply's signature carries no dt).
func (f *Force) Before(particles []*particle.Particle, dt float32) {
	f.dt = dt
}

// Apply accumulates gravity and attenuates velocity by friction/inertia.
// Pinned particles are skipped (spec.md §4.2: pinned particles ignore
// apply on most forces, and have their velocity force-zeroed by the
// System regardless).
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if p.Pinned() {
		return
	}

	gravity := f.cfg.GravityDir.Normalize().Scale(f.cfg.GravityStrength)
	p.ApplyForce(gravity)

	if f.cfg.Friction != 0 {
		p.Velocity = p.Velocity.Scale(1 - f.cfg.Friction*f.dt)
	}
	if f.cfg.Inertia != 1 {
		p.Velocity = p.Velocity.Scale(f.cfg.Inertia)
	}
}

// After applies global damping once integration has produced a final
// velocity for the step, so that joint-constraint velocity changes are
// also damped (spec.md §4.6).
func (f *Force) After(particles []*particle.Particle, dt float32, grid *spatial.Grid) {
	if f.cfg.Damping == 0 {
		return
	}
	scale := 1 - f.cfg.Damping
	for _, p := range particles {
		if p.Pinned() {
			continue
		}
		p.Velocity = p.Velocity.Scale(scale)
	}
}
