// Package sim implements the System: the owner of particles, the spatial
// grid, and the ordered force list, and the driver of step(dt) (spec.md
// §4.13). Nothing outside this package ever mutates a Particle directly —
// every other package only sees particles through the references handed
// out during a force's hook calls.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/simlog"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// RenderCallback is invoked once per step, after everything else, with the
// final particle set (spec.md §4.13 `setRenderCallback`). It is the only
// host hook the core calls synchronously from inside step.
type RenderCallback func(particles []*particle.Particle)

// System owns particles, the spatial grid, and the ordered force list. It
// is the single mutator of particle state; every force sees particles only
// through the references System hands it during a hook call.
type System struct {
	width, height float32

	particles []*particle.Particle
	byID      map[particle.ID]*particle.Particle
	grid      *spatial.Grid
	forces    []force.Force

	nextID particle.ID
	rng    *rand.Rand

	playing bool
	debug   bool

	onRender RenderCallback
}

// New constructs a System over a width x height world. cellSize <= 0 falls
// back to spatial.DefaultCellSize. Width and height must be positive
// (spec.md §6 "System construction options... width (required), height
// (required)"; §7 "invalid construction... fails fast at construction").
func New(width, height, cellSize float32, rng *rand.Rand) (*System, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sim: world size must be positive, got %vx%v", width, height)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &System{
		width:   width,
		height:  height,
		byID:    make(map[particle.ID]*particle.Particle),
		grid:    spatial.New(width, height, cellSize),
		nextID:  1,
		rng:     rng,
		playing: true,
	}, nil
}

// NextID implements spawner.IDSource: a process-unique, monotonically
// increasing id, never reused within this System's lifetime (spec.md §3).
func (s *System) NextID() particle.ID {
	id := s.nextID
	s.nextID++
	return id
}

// Rng returns the System's deterministic random source: the *rand.Rand
// passed to New, or a fixed-seed default. The System does not hand it to
// forces or spawners itself; a caller that wants one shared source passes
// it to DefaultForces (boids wander) and spawner.Random as well (spec.md
// §5).
func (s *System) Rng() *rand.Rand { return s.rng }

// AddParticle adds a single particle, constructed elsewhere (typically by
// the spawner package using s as its IDSource).
func (s *System) AddParticle(p *particle.Particle) {
	s.particles = append(s.particles, p)
	s.byID[p.ID] = p
}

// AddParticles adds a batch, as returned by any spawner.* function.
func (s *System) AddParticles(ps []*particle.Particle) {
	for _, p := range ps {
		s.AddParticle(p)
	}
}

// RemoveParticle removes the particle with the given id, if present.
// Removing a missing id is a no-op (spec.md §7 "invalid reference...
// never throws").
func (s *System) RemoveParticle(id particle.ID) {
	p, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	for i, q := range s.particles {
		if q == p {
			s.particles = append(s.particles[:i], s.particles[i+1:]...)
			break
		}
	}
}

// GetParticle returns the particle with the given id, or nil if absent
// (spec.md §7 "fetching a missing id: returns a null/absent result").
func (s *System) GetParticle(id particle.ID) *particle.Particle {
	return s.byID[id]
}

// Particles returns the live particle slice. Callers must not retain it
// across a Step call: RemoveParticle and the end-of-step mass<=0 sweep
// both compact it in place, overwriting its backing array.
func (s *System) Particles() []*particle.Particle {
	return s.particles
}

// AddForce appends f to the end of the ordered force list. Order is part
// of the contract (spec.md §4.13, §5): forces run in the order they were
// added, every phase, every step.
func (s *System) AddForce(f force.Force) {
	s.forces = append(s.forces, f)
}

// RemoveForce removes the first force with the given name, if present.
func (s *System) RemoveForce(name string) {
	for i, f := range s.forces {
		if f.Name() == name {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
	}
}

// Forces returns the ordered force list.
func (s *System) Forces() []force.Force {
	return s.forces
}

// ClearForces removes every force and, for those that cache per-id state,
// clears that cache first (spec.md §4.13 `clearForces`).
func (s *System) ClearForces() {
	for _, f := range s.forces {
		if c, ok := f.(force.Clearer); ok {
			c.Clear()
		}
	}
	s.forces = nil
}

// Play resumes the external driver calling Step (spec.md §5 "play").
func (s *System) Play() { s.playing = true }

// Pause stops the external driver from calling Step; an already-entered
// Step still runs to completion (spec.md §5 "pause").
func (s *System) Pause() { s.playing = false }

// Toggle flips Play/Pause state.
func (s *System) Toggle() { s.playing = !s.playing }

// Playing reports whether the System is currently playing.
func (s *System) Playing() bool { return s.playing }

// Reset clears every particle and every force's per-id cache, safe to call
// from outside the driver at any time (spec.md §5 "reset clears particles
// and per-force caches").
func (s *System) Reset() {
	s.particles = nil
	s.byID = make(map[particle.ID]*particle.Particle)
	s.grid.Clear()
	for _, f := range s.forces {
		if c, ok := f.(force.Clearer); ok {
			c.Clear()
		}
	}
}

// Clear removes every particle and force (spec.md §4.13 `clear`).
func (s *System) Clear() {
	s.Reset()
	s.forces = nil
}

// SetSize resizes the world and rebuilds an empty grid (spec.md §4.13
// `setSize`); existing particle positions are left untouched until the
// next Step's grid rebuild.
func (s *System) SetSize(width, height float32) {
	s.width, s.height = width, height
	s.grid.SetSize(width, height)
}

// GetSize returns the world width and height.
func (s *System) GetSize() (width, height float32) {
	return s.width, s.height
}

// Grid returns the spatial grid (read-only access for tools that want to
// visualize or query it between steps; Step is the only writer).
func (s *System) Grid() *spatial.Grid { return s.grid }

// SetRenderCallback installs the host render hook invoked once per step,
// after everything else (spec.md §4.13 `setRenderCallback`).
func (s *System) SetRenderCallback(cb RenderCallback) {
	s.onRender = cb
}

// SetDebug enables per-step grid rebuild stats logged through
// simlog.Logf. Off by default, since per-step logging at thousands of
// ticks/sec would otherwise flood whatever simlog.SetLogWriter points at.
// Recovered force-hook panics are logged by runHook whether or not debug
// is on.
func (s *System) SetDebug(debug bool) {
	s.debug = debug
}

// runHook calls fn and recovers any panic, logging it through simlog and
// letting the step continue (spec.md §7 "System.step never fails as a
// whole" — a misbehaving force must degrade to a local skip, not take the
// rest of the step down with it).
func (s *System) runHook(phase, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			simlog.Logf("sim: recovered panic in %s force %q: %v", phase, name, r)
		}
	}()
	fn()
}

// Step runs the core algorithm, in this exact order (spec.md §4.13):
//  1. grid.clear(); for each particle, grid.insert(p).
//  2. For each force in order: force.before?(particles, dt).
//  3. For each particle: for each force in order, force.apply(p, grid);
//     then integrate (update(dt) unless pinned; zero velocity if pinned
//     or grabbed).
//  4. For each force in order: force.constraints?(particles, grid).
//  5. For each force in order: force.after?(particles, dt, grid).
//  6. Remove all particles with mass <= 0.
//
// Step never fails as a whole (spec.md §7): there is no error return.
func (s *System) Step(dt float32) {
	s.grid.Rebuild(s.particles)
	if s.debug {
		cols, rows, cellSize := s.grid.GetGridDimensions()
		simlog.Logf("sim: grid rebuilt: %d particles, %dx%d cells @ %.0f", len(s.particles), cols, rows, cellSize)
	}

	for _, f := range s.forces {
		if !f.Enabled() {
			continue
		}
		if h, ok := f.(force.BeforeHook); ok {
			s.runHook("before", f.Name(), func() { h.Before(s.particles, dt) })
		}
	}

	for _, p := range s.particles {
		for _, f := range s.forces {
			if !f.Enabled() {
				continue
			}
			if h, ok := f.(force.ApplyHook); ok {
				s.runHook("apply", f.Name(), func() { h.Apply(p, s.grid) })
			}
		}

		switch {
		case p.Pinned():
			p.Velocity = vector.Vector2{}
		default:
			p.Update(dt)
			if p.Grabbed() {
				p.Velocity = vector.Vector2{}
			}
		}
	}

	for _, f := range s.forces {
		if !f.Enabled() {
			continue
		}
		if h, ok := f.(force.ConstraintsHook); ok {
			s.runHook("constraints", f.Name(), func() { h.Constraints(s.particles, s.grid) })
		}
	}

	for _, f := range s.forces {
		if !f.Enabled() {
			continue
		}
		if h, ok := f.(force.AfterHook); ok {
			s.runHook("after", f.Name(), func() { h.After(s.particles, dt, s.grid) })
		}
	}

	s.sweepDead()

	if s.onRender != nil {
		s.onRender(s.particles)
	}
}

// sweepDead removes every particle with mass <= 0 (spec.md §4.13 step 6).
func (s *System) sweepDead() {
	alive := s.particles[:0]
	for _, p := range s.particles {
		if p.Alive() {
			alive = append(alive, p)
			continue
		}
		delete(s.byID, p.ID)
	}
	s.particles = alive
}
