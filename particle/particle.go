// Package particle defines the per-particle entity, its lifecycle flags,
// and its integrator. Particles are plain mutable values owned exclusively
// by sim.System; every other package only ever sees them through the
// references handed out during a force's hook calls (spec.md §3 Ownership).
package particle

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlecore/vector"
)

// ID is a process-unique, monotonically increasing particle identifier.
// Ids are never reused within a run (spec.md §3), which is also why this
// package does not build on an archetype/ECS entity type: those recycle
// ids across generations by design (see DESIGN.md).
type ID uint64

// Flags packs the three lifecycle bits a particle can carry.
type Flags uint8

const (
	// Pinned forces velocity to zero every step; most forces skip apply.
	Pinned Flags = 1 << iota
	// Grabbed means position is externally driven; velocity is zeroed
	// after integration so external control feels rigid.
	Grabbed
	// Static means immovable but still a collision target.
	Static
)

// Has reports whether f contains other.
func (f Flags) Has(other Flags) bool { return f&other != 0 }

// Set returns f with other added.
func (f Flags) Set(other Flags) Flags { return f | other }

// Clear returns f with other removed.
func (f Flags) Clear(other Flags) Flags { return f &^ other }

// Particle is a mutable point-mass entity.
type Particle struct {
	ID       ID
	Position vector.Vector2
	Velocity vector.Vector2

	// accel is the per-step force accumulator. Only New and Reset (which
	// initialise it), ApplyForce and Update write it; forces read it through
	// Accel and add to it only through ApplyForce (spec.md §4.13:
	// "apply is the only phase allowed to call applyForce").
	accel vector.Vector2

	Mass  float32 // > 0 while alive; <= 0 marks the particle for removal
	Size  float32 // radius in world units
	Color rl.Color

	Flags Flags
}

// Options configures a new or reset particle. Zero-valued fields take the
// documented defaults (spec.md §6): Mass=1, Size=5, Color=opaque white.
type Options struct {
	Position vector.Vector2
	Velocity vector.Vector2
	Accel    vector.Vector2
	Mass     float32
	Size     float32
	Color    rl.Color
	Flags    Flags
}

// New constructs a particle with the given id, applying Options defaults.
// Mass must be > 0 at construction (spec.md §7 "Invalid construction");
// a non-positive Mass is replaced by the default of 1 rather than failing,
// since Particle construction has no error return in this design — the
// only hard-failing construction path in the core is sim.New (world size).
func New(id ID, opts Options) *Particle {
	mass := opts.Mass
	if mass <= 0 {
		mass = 1
	}
	size := opts.Size
	if size <= 0 {
		size = 5
	}
	color := opts.Color
	if color == (rl.Color{}) {
		color = rl.White
	}

	return &Particle{
		ID:       id,
		Position: opts.Position,
		Velocity: opts.Velocity,
		accel:    opts.Accel,
		Mass:     mass,
		Size:     size,
		Color:    color,
		Flags:    opts.Flags,
	}
}

// ApplyForce accumulates f / mass into the acceleration accumulator. This
// is the only mutator a Force's apply hook is allowed to call.
func (p *Particle) ApplyForce(f vector.Vector2) {
	p.accel = p.accel.Add(f.Div(p.Mass))
}

// Accel returns the current accumulated acceleration (read-only access for
// forces that need to inspect, but not mutate, the accumulator — e.g. a
// force composing on top of gravity already applied this step).
func (p *Particle) Accel() vector.Vector2 {
	return p.accel
}

// Update advances velocity then position by semi-implicit (symplectic)
// Euler integration and clears the accumulator (spec.md §4.2). Callers
// (sim.System) are responsible for skipping Update on pinned particles and
// for zeroing velocity on grabbed particles afterward.
func (p *Particle) Update(dt float32) {
	p.Velocity = p.Velocity.Add(p.accel.Scale(dt))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.accel = vector.Vector2{}
}

// Reset overwrites every field from opts, as if the particle were freshly
// constructed, without changing its id.
func (p *Particle) Reset(opts Options) {
	mass := opts.Mass
	if mass <= 0 {
		mass = 1
	}
	size := opts.Size
	if size <= 0 {
		size = 5
	}
	color := opts.Color
	if color == (rl.Color{}) {
		color = rl.White
	}

	p.Position = opts.Position
	p.Velocity = opts.Velocity
	p.accel = opts.Accel
	p.Mass = mass
	p.Size = size
	p.Color = color
	p.Flags = opts.Flags
}

// Alive reports whether the particle has positive mass. A non-alive
// particle is removed by sim.System at the end of the current step but
// remains visible to every phase of that step (spec.md §4.2 edge case).
func (p *Particle) Alive() bool {
	return p.Mass > 0
}

// Pinned, Grabbed and Static are convenience accessors over Flags.
func (p *Particle) Pinned() bool  { return p.Flags.Has(Pinned) }
func (p *Particle) Grabbed() bool { return p.Flags.Has(Grabbed) }
func (p *Particle) Static() bool  { return p.Flags.Has(Static) }

// SetPinned and SetGrabbed implement the input/tool collaborator surface
// from spec.md §6 ("setPinned(id,bool)", "setGrabbed(id,bool)").
func (p *Particle) SetPinned(v bool) {
	if v {
		p.Flags = p.Flags.Set(Pinned)
	} else {
		p.Flags = p.Flags.Clear(Pinned)
	}
}

func (p *Particle) SetGrabbed(v bool) {
	if v {
		p.Flags = p.Flags.Set(Grabbed)
	} else {
		p.Flags = p.Flags.Clear(Grabbed)
	}
}

// InvMass returns 1/mass, or 0 for static/pinned particles which behave as
// infinite mass in collision resolution (spec.md §4.7: "static/pinned have
// effective infinite mass"). Joint pin/spring resolution (spec.md §4.13)
// checks p.Static() directly, so only Static endpoints are immovable
// there; the joint-particle impulse uses InvMass, so it also gives pinned
// endpoints no velocity change.
func (p *Particle) InvMass() float32 {
	if p.Static() || p.Pinned() {
		return 0
	}
	return 1 / p.Mass
}
