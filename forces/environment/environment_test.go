package environment

import (
	"testing"

	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/vector"
)

func TestGravityAccumulatesForce(t *testing.T) {
	f := New(Config{GravityStrength: 100, GravityDir: vector.Vector2{X: 0, Y: 1}})
	p := particle.New(1, particle.Options{Mass: 1})

	f.Before([]*particle.Particle{p}, 0.1)
	f.Apply(p, nil)
	p.Update(0.1)

	if got, want := p.Velocity.Y, float32(10); got != want {
		t.Errorf("Velocity.Y after one gravity step = %v, want %v", got, want)
	}
}

func TestPinnedParticleSkipsApply(t *testing.T) {
	f := New(Config{GravityStrength: 100, GravityDir: vector.Vector2{X: 0, Y: 1}})
	p := particle.New(1, particle.Options{Mass: 1, Flags: particle.Pinned})

	f.Before([]*particle.Particle{p}, 0.1)
	f.Apply(p, nil)

	if p.Accel() != (vector.Vector2{}) {
		t.Errorf("pinned particle accumulated force: %+v", p.Accel())
	}
}

func TestFrictionAttenuatesVelocity(t *testing.T) {
	f := New(Config{Friction: 1}) // friction*dt = 1 -> full stop
	p := particle.New(1, particle.Options{Velocity: vector.Vector2{X: 10, Y: 0}, Mass: 1})

	f.Before([]*particle.Particle{p}, 1)
	f.Apply(p, nil)

	if p.Velocity != (vector.Vector2{}) {
		t.Errorf("Velocity after full friction = %+v, want zero", p.Velocity)
	}
}

func TestDampingAppliesAfterIntegration(t *testing.T) {
	f := New(Config{Damping: 0.5})
	p := particle.New(1, particle.Options{Velocity: vector.Vector2{X: 10, Y: 0}, Mass: 1})

	f.After([]*particle.Particle{p}, 0.1, nil)

	if got, want := p.Velocity.X, float32(5); got != want {
		t.Errorf("Velocity.X after 0.5 damping = %v, want %v", got, want)
	}
}
