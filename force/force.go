// Package force defines the force-plugin contract every physical model in
// this engine obeys (spec.md §3, §4.5). A Force is a capability set, not a
// base class: it implements only the phase hooks it needs, expressed as
// narrow optional interfaces that sim.System type-asserts per phase. This
// is the idiomatic Go rendering of the design note "Force as a capability
// set, not inheritance."
package force

import (
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
)

// Force is the minimum every force must satisfy: a name (for Config
// round-tripping and diagnostics) and an enabled flag.
type Force interface {
	Name() string
	Enabled() bool
	SetEnabled(bool)
}

// BeforeHook runs once per step, before any particle is integrated. It may
// read the grid but must not rely on positions that later phases predict
// (spec.md §4.13 ordering contract).
type BeforeHook interface {
	Before(particles []*particle.Particle, dt float32)
}

// ApplyHook runs once per particle, in force order, before integration.
// This is the only phase allowed to call particle.ApplyForce.
type ApplyHook interface {
	Apply(p *particle.Particle, grid *spatial.Grid)
}

// ConstraintsHook runs once per step, after integration, and may mutate
// particle positions directly (positional correction, impulse response).
type ConstraintsHook interface {
	Constraints(particles []*particle.Particle, grid *spatial.Grid)
}

// AfterHook runs once per step, after constraints, once every particle's
// position is final for the step.
type AfterHook interface {
	After(particles []*particle.Particle, dt float32, grid *spatial.Grid)
}

// Clearer releases any per-force cache a force keeps keyed by particle id
// (spec.md §3: "they must not retain references across clear()").
type Clearer interface {
	Clear()
}

// Base implements the Force.Name/Enabled/SetEnabled trio so concrete force
// types can embed it instead of repeating the boilerplate.
type Base struct {
	name    string
	enabled bool
}

// NewBase returns a Base with the given name, enabled by default.
func NewBase(name string) Base {
	return Base{name: name, enabled: true}
}

func (b *Base) Name() string       { return b.name }
func (b *Base) Enabled() bool      { return b.enabled }
func (b *Base) SetEnabled(v bool)  { b.enabled = v }
