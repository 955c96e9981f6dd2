package collision

import (
	"testing"

	"github.com/pthm-cable/particlecore/internal/fastmath"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

func newGridWith(ps ...*particle.Particle) *spatial.Grid {
	g := spatial.New(100, 100, 10)
	g.Rebuild(ps)
	return g
}

// TestTwoBodyCollisionSwapsVelocities is spec.md scenario S3.
func TestTwoBodyCollisionSwapsVelocities(t *testing.T) {
	cfg := Config{Restitution: 1, MaxNeighborRadius: 0}
	f := New(cfg)

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 4, Y: 5}, Velocity: vector.Vector2{X: 10, Y: 0}, Mass: 1, Size: 1})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 6, Y: 5}, Velocity: vector.Vector2{X: -10, Y: 0}, Mass: 1, Size: 1})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	if got, want := p.Velocity.X, float32(-10); !fastmath.Close(got, want, 1e-3) {
		t.Errorf("p.Velocity.X = %v, want %v", got, want)
	}
	if got, want := q.Velocity.X, float32(10); !fastmath.Close(got, want, 1e-3) {
		t.Errorf("q.Velocity.X = %v, want %v", got, want)
	}
}

func TestOverlapSeparatesPositions(t *testing.T) {
	f := New(DefaultConfig())

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 4.5, Y: 5}, Mass: 1, Size: 1})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 5.5, Y: 5}, Mass: 1, Size: 1})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	d := p.Position.Distance(q.Position)
	if d < 1.99 {
		t.Errorf("post-correction distance = %v, want >= 2", d)
	}
}

func TestHigherIdNeighborSkippedWhenAlreadyProcessed(t *testing.T) {
	f := New(DefaultConfig())

	p := particle.New(5, particle.Options{Position: vector.Vector2{X: 5, Y: 5}, Velocity: vector.Vector2{X: 1, Y: 0}, Mass: 1, Size: 1})
	q := particle.New(3, particle.Options{Position: vector.Vector2{X: 5.5, Y: 5}, Velocity: vector.Vector2{X: -1, Y: 0}, Mass: 1, Size: 1})
	grid := newGridWith(p, q)

	// p has the larger id, so Apply(p, ...) must not process the pair
	// (q.ID <= p.ID): only Apply(q, ...) would.
	f.Apply(p, grid)

	if p.Velocity.X != 1 || q.Velocity.X != -1 {
		t.Errorf("higher-id particle mutated the pair: p=%v q=%v", p.Velocity, q.Velocity)
	}
}

func TestStaticParticleDoesNotMove(t *testing.T) {
	f := New(DefaultConfig())

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 5, Y: 5}, Mass: 1, Size: 1, Flags: particle.Static})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 5.5, Y: 5}, Mass: 1, Size: 1})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	if p.Position != (vector.Vector2{X: 5, Y: 5}) {
		t.Errorf("static particle moved: %+v", p.Position)
	}
}

func TestEatTransfersMassAndZeroesLoser(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EatEnabled = true
	cfg.EatMassRatio = 1
	f := New(cfg)

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 5, Y: 5}, Mass: 5, Size: 2})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 6, Y: 5}, Mass: 1, Size: 2})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	if got, want := p.Mass, float32(6); got != want {
		t.Errorf("p.Mass after eat = %v, want %v", got, want)
	}
	if q.Alive() {
		t.Errorf("eaten particle should have mass <= 0")
	}
}

func TestEatDisabledLeavesMassUnchanged(t *testing.T) {
	f := New(DefaultConfig()) // EatEnabled defaults to false

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 5, Y: 5}, Mass: 5, Size: 2})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 6, Y: 5}, Mass: 1, Size: 2})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	if p.Mass != 5 || q.Mass != 1 {
		t.Errorf("mass changed despite EatEnabled=false: p=%v q=%v", p.Mass, q.Mass)
	}
}

func TestNoOverlapIsNoOp(t *testing.T) {
	f := New(DefaultConfig())

	p := particle.New(1, particle.Options{Position: vector.Vector2{X: 0, Y: 0}, Velocity: vector.Vector2{X: 1, Y: 0}, Mass: 1, Size: 1})
	q := particle.New(2, particle.Options{Position: vector.Vector2{X: 50, Y: 50}, Velocity: vector.Vector2{X: -1, Y: 0}, Mass: 1, Size: 1})
	grid := newGridWith(p, q)

	f.Apply(p, grid)

	if p.Velocity.X != 1 || q.Velocity.X != -1 {
		t.Errorf("non-overlapping pair was mutated")
	}
}
