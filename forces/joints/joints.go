// Package joints implements the Joints force: distance constraints
// (pin/spring) between particle pairs, plus joint-vs-particle collision
// (spec.md §4.12).
package joints

import (
	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// Type selects a Joint's constraint kind.
type Type int

const (
	Pin Type = iota
	Spring
)

// ID is a joint's unique identifier, distinct from particle.ID.
type ID uint64

// Joint is a distance constraint between two particles (spec.md §3).
type Joint struct {
	ID         ID
	A, B       particle.ID
	Type       Type
	RestLength float32
	Stiffness  float32 // k in [0,1]
	Damping    float32 // d in [0,1]
	MaxForce   float32 // F_max, Spring only
}

// Config holds the joint-particle collision knobs that apply uniformly
// across every joint (spec.md §4.12).
type Config struct {
	// CollisionRestitution is e=0.95 for every joint-particle collision
	// response branch (spec.md §4.12).
	CollisionRestitution float32 `yaml:"collision_restitution"`

	// TunnelingSpeedThreshold is the relative speed above which the
	// trajectory-aware substep check activates (spec.md §4.12).
	TunnelingSpeedThreshold float32 `yaml:"tunneling_speed_threshold"`

	// MinDistance is the ε≈10⁻³ below which a joint's correction and
	// constraint are both skipped (spec.md §4.12 "Failure semantics").
	MinDistance float32 `yaml:"min_distance"`
}

// DefaultConfig matches spec.md §4.12's documented constants.
func DefaultConfig() Config {
	return Config{
		CollisionRestitution:    0.95,
		TunnelingSpeedThreshold: 500,
		MinDistance:             1e-3,
	}
}

const maxTunnelingSubsteps = 5

// Force is the Joints force. It owns the joint set and a
// grabbed-previous-position cache used to estimate velocity for grabbed
// endpoints (spec.md §4.12).
type Force struct {
	force.Base
	cfg Config
	dt  float32 // cached in Before; Constraints' hook signature carries no dt

	order []*Joint
	byID  map[ID]*Joint
	byPID map[particle.ID]*particle.Particle

	grabbedPrev map[particle.ID]vector.Vector2

	nextID ID
}

// New constructs the Joints force with cfg.
func New(cfg Config) *Force {
	return &Force{
		Base:        force.NewBase("joints"),
		cfg:         cfg,
		byID:        make(map[ID]*Joint),
		byPID:       make(map[particle.ID]*particle.Particle),
		grabbedPrev: make(map[particle.ID]vector.Vector2),
	}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// AddJoint creates and registers a new Joint, returning its id.
func (f *Force) AddJoint(a, b particle.ID, jt Type, restLength, stiffness, damping, maxForce float32) ID {
	f.nextID++
	j := &Joint{
		ID:         f.nextID,
		A:          a,
		B:          b,
		Type:       jt,
		RestLength: restLength,
		Stiffness:  stiffness,
		Damping:    damping,
		MaxForce:   maxForce,
	}
	f.order = append(f.order, j)
	f.byID[j.ID] = j
	return j.ID
}

// RemoveJoint deletes a joint by id, if present.
func (f *Force) RemoveJoint(id ID) {
	if _, ok := f.byID[id]; !ok {
		return
	}
	delete(f.byID, id)
	for i, j := range f.order {
		if j.ID == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Joints returns the live joint set in insertion order. Callers must not
// mutate the returned slice's Joint values' identity fields.
func (f *Force) Joints() []*Joint {
	return f.order
}

// Clear removes every joint and the grabbed-previous-position cache
// (spec.md §3).
func (f *Force) Clear() {
	f.order = nil
	f.byID = make(map[ID]*Joint)
	f.byPID = make(map[particle.ID]*particle.Particle)
	f.grabbedPrev = make(map[particle.ID]vector.Vector2)
}

// Before drops joints whose validate() is false and prunes stale
// grabbed-previous-position entries (spec.md §4.12).
func (f *Force) Before(particles []*particle.Particle, dt float32) {
	f.dt = dt

	f.byPID = make(map[particle.ID]*particle.Particle, len(particles))
	for _, p := range particles {
		f.byPID[p.ID] = p
	}

	live := f.order[:0]
	for _, j := range f.order {
		a, okA := f.byPID[j.A]
		b, okB := f.byPID[j.B]
		if !okA || !okB || !a.Alive() || !b.Alive() {
			delete(f.byID, j.ID)
			continue
		}
		live = append(live, j)
	}
	f.order = live

	for id := range f.grabbedPrev {
		p, ok := f.byPID[id]
		if !ok || !p.Grabbed() {
			delete(f.grabbedPrev, id)
		}
	}
}

// Apply is a no-op: joint work happens entirely in Constraints (spec.md
// §4.12: "apply is a no-op for particles").
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {}

// Constraints resolves every joint's pin/spring correction, then performs
// joint-versus-particle collision (spec.md §4.12). Grabbed endpoints have
// their velocity force-zeroed post-integration (spec.md §4.2), so relVel
// terms use grabbedPrev to estimate a real velocity for them instead of
// reading the zeroed field; the cache is refreshed to this step's
// positions only after that estimate has been used.
func (f *Force) Constraints(particles []*particle.Particle, grid *spatial.Grid) {
	for _, j := range f.order {
		a, b := f.byPID[j.A], f.byPID[j.B]
		if a == nil || b == nil {
			continue
		}
		switch j.Type {
		case Spring:
			f.resolveSpring(j, a, b)
		case Pin:
			f.resolvePin(j, a, b)
		}
	}

	for _, j := range f.order {
		a, b := f.byPID[j.A], f.byPID[j.B]
		if a == nil || b == nil {
			continue
		}
		f.resolveJointCollision(j, a, b, grid)
	}

	for id, p := range f.byPID {
		if p.Grabbed() {
			f.grabbedPrev[id] = p.Position
		}
	}
}

// velocityOf returns p.Velocity, or an estimate from the
// grabbed-previous-position cache if p is grabbed (its real velocity is
// force-zeroed post-integration).
func (f *Force) velocityOf(p *particle.Particle) vector.Vector2 {
	if !p.Grabbed() {
		return p.Velocity
	}
	prev, ok := f.grabbedPrev[p.ID]
	if !ok || f.dt <= 0 {
		return vector.Vector2{}
	}
	return p.Position.Sub(prev).Scale(1 / f.dt)
}

func (f *Force) resolveSpring(j *Joint, a, b *particle.Particle) {
	if a.Static() && b.Static() {
		return
	}
	d := a.Position.Distance(b.Position)
	if d < f.cfg.MinDistance {
		return
	}
	dir := b.Position.Sub(a.Position).Scale(1 / d)

	relVel := f.velocityOf(b).Sub(f.velocityOf(a)).Dot(dir)
	mag := -j.Stiffness*(d-j.RestLength) - j.Damping*relVel
	mag = clampAbs(mag, j.MaxForce)

	forceOnB := dir.Scale(mag)
	forceOnA := dir.Scale(-mag)

	if !a.Static() {
		a.Velocity = a.Velocity.Add(forceOnA.Scale(f.dt / a.Mass))
	}
	if !b.Static() {
		b.Velocity = b.Velocity.Add(forceOnB.Scale(f.dt / b.Mass))
	}
}

func (f *Force) resolvePin(j *Joint, a, b *particle.Particle) {
	d := a.Position.Distance(b.Position)
	if d < f.cfg.MinDistance {
		return
	}
	dir := b.Position.Sub(a.Position).Scale(1 / d)

	switch {
	case a.Static() && b.Static():
		return
	case a.Static():
		b.Position = a.Position.Add(dir.Scale(j.RestLength))
	case b.Static():
		a.Position = b.Position.Sub(dir.Scale(j.RestLength))
	default:
		correction := dir.Scale((d - j.RestLength) / 2)
		a.Position = a.Position.Add(correction)
		b.Position = b.Position.Sub(correction)
	}

	damp := 1 - j.Damping
	if !a.Static() {
		a.Velocity = a.Velocity.Scale(damp)
	}
	if !b.Static() {
		b.Velocity = b.Velocity.Scale(damp)
	}
}

// resolveJointCollision queries the grid around j's bounding circle and
// resolves overlap against every non-participant particle found, using
// trajectory-aware substeps when the candidate closes fast (spec.md
// §4.12).
func (f *Force) resolveJointCollision(j *Joint, a, b *particle.Particle, grid *spatial.Grid) {
	d := a.Position.Distance(b.Position)
	if d < f.cfg.MinDistance {
		return
	}

	mid := a.Position.Add(b.Position).Scale(0.5)
	maxSize := a.Size
	if b.Size > maxSize {
		maxSize = b.Size
	}
	queryRadius := d/2 + 2*maxSize

	candidates := grid.GetParticles(spatial.Point{X: mid.X, Y: mid.Y}, queryRadius)
	for _, c := range candidates {
		if c.ID == a.ID || c.ID == b.ID || !c.Alive() {
			continue
		}
		f.resolveCandidate(j, a, b, c)
	}
}

func (f *Force) resolveCandidate(j *Joint, a, b, c *particle.Particle) {
	pos, cp, t := f.sweptPosition(a, b, c)
	dist := pos.Distance(cp)
	overlap := c.Size - dist
	if overlap <= 0 {
		return
	}

	var normal vector.Vector2
	if dist < f.cfg.MinDistance {
		normal = vector.Vector2{X: 0, Y: 1}
	} else {
		normal = pos.Sub(cp).Scale(1 / dist)
	}

	wA, wB := 1-t, t
	e := f.cfg.CollisionRestitution

	switch {
	case a.Static() && b.Static():
		c.Position = c.Position.Add(normal.Scale(overlap))
		if vn := c.Velocity.Dot(normal); vn < 0 {
			c.Velocity = c.Velocity.Sub(normal.Scale((1 + e) * vn))
		}

	case c.Grabbed():
		push := normal.Scale(-overlap / 2)
		if !a.Static() {
			a.Position = a.Position.Add(push.Scale(wA))
			a.Velocity = a.Velocity.Add(push.Scale(wA / maxF(f.dt, 1e-3)))
		}
		if !b.Static() {
			b.Position = b.Position.Add(push.Scale(wB))
			b.Velocity = b.Velocity.Add(push.Scale(wB / maxF(f.dt, 1e-3)))
		}

	default:
		segVel := f.velocityOf(a).Scale(wA).Add(f.velocityOf(b).Scale(wB))
		relVel := c.Velocity.Sub(segVel)
		velAlongNormal := relVel.Dot(normal)

		invMassC := c.InvMass()
		var invMassJoint float32
		if !a.Static() {
			invMassJoint += wA * wA * a.InvMass()
		}
		if !b.Static() {
			invMassJoint += wB * wB * b.InvMass()
		}
		invSum := invMassC + invMassJoint

		if velAlongNormal < 0 && invSum > 0 {
			jImpulse := -(1 + e) * velAlongNormal / invSum
			impulse := normal.Scale(jImpulse)

			c.Velocity = c.Velocity.Add(impulse.Scale(invMassC))
			if !a.Static() {
				a.Velocity = a.Velocity.Sub(impulse.Scale(wA * a.InvMass()))
			}
			if !b.Static() {
				b.Velocity = b.Velocity.Sub(impulse.Scale(wB * b.InvMass()))
			}
		}
		c.Position = c.Position.Add(normal.Scale(overlap))
	}
}

// sweptPosition returns the position to test c's segment overlap at,
// walking back up to maxTunnelingSubsteps along c's recent displacement
// when its speed exceeds TunnelingSpeedThreshold, and the earliest
// substep position found already-overlapping the segment (spec.md §4.12:
// "Trajectory-aware detection checks both current and predicted
// positions ... in up to 5 substeps"). Returns the test position and its
// closest-point parametric t along A-B.
func (f *Force) sweptPosition(a, b, c *particle.Particle) (pos, closest vector.Vector2, t float32) {
	cp, t := closestPointOnSegment(a.Position, b.Position, c.Position)
	if c.Velocity.Magnitude() < f.cfg.TunnelingSpeedThreshold || f.dt <= 0 {
		return c.Position, cp, t
	}

	prev := c.Position.Sub(c.Velocity.Scale(f.dt))
	for step := 1; step <= maxTunnelingSubsteps; step++ {
		frac := float32(step) / float32(maxTunnelingSubsteps)
		sample := vector.Lerp(prev, c.Position, frac)
		sampleCP, sampleT := closestPointOnSegment(a.Position, b.Position, sample)
		if sample.Distance(sampleCP) <= c.Size {
			return sample, sampleCP, sampleT
		}
	}
	return c.Position, cp, t
}

// closestPointOnSegment returns the closest point to p on segment ab, and
// the parametric t in [0,1] along a->b at which it lies.
func closestPointOnSegment(a, b, p vector.Vector2) (vector.Vector2, float32) {
	ab := b.Sub(a)
	lenSq := ab.MagnitudeSq()
	if lenSq < 1e-9 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t)), t
}

func clampAbs(v, limit float32) float32 {
	if limit <= 0 {
		return v
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
