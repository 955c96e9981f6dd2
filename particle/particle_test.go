package particle

import (
	"testing"

	"github.com/pthm-cable/particlecore/vector"
)

func TestUpdateNoForces(t *testing.T) {
	// spec.md §8 invariant 3: update(dt) with no forces yields
	// x' = x + v*dt, v' = v, accel is zero after.
	p := New(1, Options{
		Position: vector.Vector2{X: 1, Y: 2},
		Velocity: vector.Vector2{X: 3, Y: -1},
	})

	p.Update(0.1)

	if got, want := p.Position, (vector.Vector2{X: 1.3, Y: 1.9}); got != want {
		t.Errorf("Position = %+v, want %+v", got, want)
	}
	if got, want := p.Velocity, (vector.Vector2{X: 3, Y: -1}); got != want {
		t.Errorf("Velocity = %+v, want %+v", got, want)
	}
	if got := p.Accel(); got != (vector.Vector2{}) {
		t.Errorf("Accel() after Update = %+v, want zero", got)
	}
}

func TestForceComposition(t *testing.T) {
	// spec.md §8 invariant 4: applying f then -f across one step leaves
	// velocity unchanged up to epsilon.
	p := New(1, Options{Mass: 2, Velocity: vector.Vector2{X: 5, Y: 5}})

	p.ApplyForce(vector.Vector2{X: 10, Y: -4})
	p.ApplyForce(vector.Vector2{X: -10, Y: 4})
	p.Update(0.1)

	if got, want := p.Velocity, (vector.Vector2{X: 5, Y: 5}); got != want {
		t.Errorf("Velocity after canceling forces = %+v, want %+v", got, want)
	}
}

func TestApplyForceDividesByMass(t *testing.T) {
	p := New(1, Options{Mass: 2})
	p.ApplyForce(vector.Vector2{X: 4, Y: 0})
	if got := p.Accel(); got.X != 2 {
		t.Errorf("Accel().X = %v, want 2 (force/mass)", got.X)
	}
}

func TestFreeFallScenario(t *testing.T) {
	// spec.md §8 S1 — Free fall.
	p := New(1, Options{Position: vector.Vector2{X: 50, Y: 10}, Mass: 1})
	gravity := vector.Vector2{X: 0, Y: 100}

	p.ApplyForce(gravity)
	p.Update(0.1)
	p.ApplyForce(gravity)
	p.Update(0.1)

	if got, want := p.Velocity.Y, float32(20); got != want {
		t.Errorf("Velocity.Y after two steps = %v, want %v", got, want)
	}
	if got, want := p.Position.Y, float32(13); !closeF(got, want, 1e-4) {
		t.Errorf("Position.Y after two steps = %v, want %v", got, want)
	}
}

func TestResetOverwritesAllFields(t *testing.T) {
	p := New(7, Options{Position: vector.Vector2{X: 1, Y: 1}, Mass: 3})
	p.ApplyForce(vector.Vector2{X: 1, Y: 1})

	p.Reset(Options{Position: vector.Vector2{X: 9, Y: 9}, Velocity: vector.Vector2{X: 2, Y: 2}, Mass: 5, Size: 8, Flags: Pinned})

	if p.ID != 7 {
		t.Errorf("Reset changed ID: got %v, want 7", p.ID)
	}
	if p.Position != (vector.Vector2{X: 9, Y: 9}) {
		t.Errorf("Reset did not overwrite Position: %+v", p.Position)
	}
	if p.Mass != 5 || p.Size != 8 {
		t.Errorf("Reset did not overwrite Mass/Size: mass=%v size=%v", p.Mass, p.Size)
	}
	if !p.Pinned() {
		t.Errorf("Reset did not overwrite Flags")
	}
	if p.Accel() != (vector.Vector2{}) {
		t.Errorf("Reset did not clear accumulator: %+v", p.Accel())
	}
}

func TestDefaultsAppliedWhenZero(t *testing.T) {
	p := New(1, Options{})
	if p.Mass != 1 {
		t.Errorf("default Mass = %v, want 1", p.Mass)
	}
	if p.Size != 5 {
		t.Errorf("default Size = %v, want 5", p.Size)
	}
}

func TestAliveReflectsMass(t *testing.T) {
	p := New(1, Options{Mass: 1})
	if !p.Alive() {
		t.Error("particle with positive mass should be alive")
	}
	p.Mass = 0
	if p.Alive() {
		t.Error("particle with zero mass should not be alive")
	}
}

func TestInvMassForStaticAndPinned(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
	}{
		{"static", Static},
		{"pinned", Pinned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := New(1, Options{Mass: 4, Flags: tc.flags})
			if got := p.InvMass(); got != 0 {
				t.Errorf("InvMass() = %v, want 0", got)
			}
		})
	}

	p := New(1, Options{Mass: 4})
	if got, want := p.InvMass(), float32(0.25); got != want {
		t.Errorf("InvMass() = %v, want %v", got, want)
	}
}

func TestSetPinnedAndGrabbed(t *testing.T) {
	p := New(1, Options{})
	p.SetPinned(true)
	if !p.Pinned() {
		t.Error("SetPinned(true) did not set flag")
	}
	p.SetPinned(false)
	if p.Pinned() {
		t.Error("SetPinned(false) did not clear flag")
	}

	p.SetGrabbed(true)
	if !p.Grabbed() {
		t.Error("SetGrabbed(true) did not set flag")
	}
}

func closeF(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
