// Package boundary implements the Boundary force: world-box response
// (bounce/warp/kill/none) plus an always-on inward repel band (spec.md
// §4.6).
package boundary

import (
	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/internal/fastmath"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Mode selects the wall-response behavior.
type Mode int

const (
	Bounce Mode = iota
	Warp
	Kill
	None
)

// Config holds Boundary's scalar knobs (simconfig round-trips this).
type Config struct {
	Mode Mode `yaml:"mode"`

	// Restitution is the coefficient of restitution applied to the
	// normal velocity component on a bounce (spec.md §4.6 default 0.6).
	Restitution float32 `yaml:"restitution"`

	// TangentialFriction scales the velocity component along the wall,
	// (1 - TangentialFriction) is the retained fraction.
	TangentialFriction float32 `yaml:"tangential_friction"`

	// RepelDistance and RepelStrength define the always-on inward repel
	// band near every wall, independent of Mode.
	RepelDistance float32 `yaml:"repel_distance"`
	RepelStrength float32 `yaml:"repel_strength"`
}

// DefaultConfig matches spec.md §4.6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Mode:               Bounce,
		Restitution:        0.6,
		TangentialFriction: 0,
		RepelDistance:      0,
		RepelStrength:      0,
	}
}

// Force is the Boundary force.
type Force struct {
	force.Base
	cfg Config
}

// New constructs the Boundary force with cfg.
func New(cfg Config) *Force {
	return &Force{Base: force.NewBase("boundary"), cfg: cfg}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// Apply resolves wall interaction and the repel band for p (spec.md §4.6).
// Static particles never move, so only the repel force (which routes
// through ApplyForce, not a direct mutation) would affect them; they are
// skipped entirely since a force on an immovable particle is a no-op that
// would otherwise waste an accumulator add.
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if p.Static() {
		return
	}

	width, height := grid.GetSize()
	radius := p.Size

	f.applyRepel(p, width, height, radius)

	if p.Pinned() {
		return
	}

	switch f.cfg.Mode {
	case Bounce:
		f.bounce(p, width, height, radius)
	case Warp:
		f.warp(p, width, height)
	case Kill:
		f.kill(p, width, height, radius)
	case None:
		// no response
	}
}

// bounce clamps an out-of-bounds position to the inner rectangle and
// reflects the wall-normal velocity component with f.cfg.Restitution,
// attenuating the tangential component by TangentialFriction.
func (f *Force) bounce(p *particle.Particle, width, height, radius float32) {
	minX, maxX := radius, width-radius
	minY, maxY := radius, height-radius

	if p.Position.X < minX {
		p.Position.X = minX
		p.Velocity.X = -p.Velocity.X * f.cfg.Restitution
		p.Velocity.Y *= 1 - f.cfg.TangentialFriction
	} else if p.Position.X > maxX {
		p.Position.X = maxX
		p.Velocity.X = -p.Velocity.X * f.cfg.Restitution
		p.Velocity.Y *= 1 - f.cfg.TangentialFriction
	}

	if p.Position.Y < minY {
		p.Position.Y = minY
		p.Velocity.Y = -p.Velocity.Y * f.cfg.Restitution
		p.Velocity.X *= 1 - f.cfg.TangentialFriction
	} else if p.Position.Y > maxY {
		p.Position.Y = maxY
		p.Velocity.Y = -p.Velocity.Y * f.cfg.Restitution
		p.Velocity.X *= 1 - f.cfg.TangentialFriction
	}
}

// warp wraps position modulo (width, height); velocity is untouched
// (spec.md §4.6).
func (f *Force) warp(p *particle.Particle, width, height float32) {
	p.Position.X = fastmath.Mod(p.Position.X, width)
	p.Position.Y = fastmath.Mod(p.Position.Y, height)
}

// kill zeroes mass once the particle has fully left the world rectangle;
// sim.System removes it at step end (spec.md §4.6, §4.2).
func (f *Force) kill(p *particle.Particle, width, height, radius float32) {
	if p.Position.X < -radius || p.Position.X > width+radius ||
		p.Position.Y < -radius || p.Position.Y > height+radius {
		p.Mass = 0
	}
}

// applyRepel adds an inward force whenever p is within RepelDistance of any
// wall, regardless of Mode (spec.md §4.6: "Repel band (all modes)").
func (f *Force) applyRepel(p *particle.Particle, width, height, radius float32) {
	if f.cfg.RepelDistance <= 0 || f.cfg.RepelStrength == 0 {
		return
	}

	var repel vector.Vector2

	if d := p.Position.X - radius; d < f.cfg.RepelDistance {
		repel.X += f.cfg.RepelStrength * (1 - d/f.cfg.RepelDistance)
	}
	if d := (width - radius) - p.Position.X; d < f.cfg.RepelDistance {
		repel.X -= f.cfg.RepelStrength * (1 - d/f.cfg.RepelDistance)
	}
	if d := p.Position.Y - radius; d < f.cfg.RepelDistance {
		repel.Y += f.cfg.RepelStrength * (1 - d/f.cfg.RepelDistance)
	}
	if d := (height - radius) - p.Position.Y; d < f.cfg.RepelDistance {
		repel.Y -= f.cfg.RepelStrength * (1 - d/f.cfg.RepelDistance)
	}

	if repel != (vector.Vector2{}) {
		p.ApplyForce(repel)
	}
}
