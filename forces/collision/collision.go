// Package collision implements the Collisions force: pairwise
// particle-particle impulse resolution with an optional mass-"eat" rule
// (spec.md §4.7).
package collision

import (
	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Config holds Collisions' scalar knobs (simconfig round-trips this).
type Config struct {
	// Restitution is the coefficient of restitution e (spec.md §4.7
	// default 0.95).
	Restitution float32 `yaml:"restitution"`

	// MaxNeighborRadius widens the neighbor query beyond p.Size so a large
	// neighbor whose own radius would otherwise reach past the query
	// bound is still found (spec.md §4.7: "radius = p.size +
	// r_max_expected").
	MaxNeighborRadius float32 `yaml:"max_neighbor_radius"`

	// EatEnabled turns on the mass-transfer rule.
	EatEnabled bool `yaml:"eat_enabled"`

	// EatMassRatio is the configurable threshold spec.md §9's open
	// question leaves unspecified in the source: p eats q when
	// p.Mass > q.Mass*EatMassRatio. A ratio of 1 means "strictly more
	// massive"; callers that want the original's looser behavior can set
	// it below 1.
	EatMassRatio float32 `yaml:"eat_mass_ratio"`
}

// DefaultConfig matches spec.md §4.7's documented restitution default.
func DefaultConfig() Config {
	return Config{
		Restitution:       0.95,
		MaxNeighborRadius: 10,
		EatEnabled:        false,
		EatMassRatio:      1,
	}
}

// Force is the Collisions force.
type Force struct {
	force.Base
	cfg Config
}

// New constructs the Collisions force with cfg.
func New(cfg Config) *Force {
	return &Force{Base: force.NewBase("collision"), cfg: cfg}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// Apply resolves every collision between p and its higher-id neighbors
// (spec.md §4.7: "neighbor q with id > p.id, to avoid double-processing").
// Because sim.System's step iterates particles in the outer loop and
// forces in the inner loop, this runs once per unordered pair per step
// regardless of particle iteration order, since the id comparison — not
// iteration order — decides who processes the pair.
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if !p.Alive() {
		return
	}

	queryRadius := p.Size + f.cfg.MaxNeighborRadius
	neighbors := grid.GetParticles(spatial.Point{X: p.Position.X, Y: p.Position.Y}, queryRadius)

	for _, q := range neighbors {
		if q.ID <= p.ID || !q.Alive() {
			continue
		}
		f.resolve(p, q)
	}
}

func (f *Force) resolve(p, q *particle.Particle) {
	separation := p.Position.Sub(q.Position)
	d := separation.Magnitude()
	overlap := (p.Size + q.Size) - d

	if overlap < 0 {
		return
	}

	var normal vector.Vector2
	if d < 1e-3 {
		// Coincident particles: degenerate geometry, pick an arbitrary
		// axis rather than dividing by zero (spec.md §7).
		normal = vector.Vector2{X: 1, Y: 0}
	} else {
		normal = separation.Scale(1 / d)
	}

	invMassP := p.InvMass()
	invMassQ := q.InvMass()
	invMassSum := invMassP + invMassQ

	if invMassSum > 0 {
		correction := normal.Scale(overlap / invMassSum)
		p.Position = p.Position.Add(correction.Scale(invMassP))
		q.Position = q.Position.Sub(correction.Scale(invMassQ))
	}

	relVel := p.Velocity.Sub(q.Velocity)
	velAlongNormal := relVel.Dot(normal)

	if velAlongNormal < 0 && invMassSum > 0 {
		j := -(1 + f.cfg.Restitution) * velAlongNormal / invMassSum
		impulse := normal.Scale(j)
		p.Velocity = p.Velocity.Add(impulse.Scale(invMassP))
		q.Velocity = q.Velocity.Sub(impulse.Scale(invMassQ))
	}

	if f.cfg.EatEnabled {
		f.eat(p, q)
	}
}

// eat transfers q's mass into p and zeroes q's, deferring deletion to step
// end, when p is more massive than q by the configured ratio (spec.md §4.7,
// §9 open question).
func (f *Force) eat(p, q *particle.Particle) {
	if p.Mass > q.Mass*f.cfg.EatMassRatio {
		p.Mass += q.Mass
		q.Mass = 0
	}
}
