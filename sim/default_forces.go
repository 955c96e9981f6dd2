package sim

import (
	"math/rand"

	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/forces/boids"
	"github.com/pthm-cable/particlecore/forces/boundary"
	"github.com/pthm-cable/particlecore/forces/collision"
	"github.com/pthm-cable/particlecore/forces/environment"
	"github.com/pthm-cable/particlecore/forces/fluidpicflip"
	"github.com/pthm-cable/particlecore/forces/fluidsph"
	"github.com/pthm-cable/particlecore/forces/joints"
	"github.com/pthm-cable/particlecore/forces/sensors"
)

// FluidMode selects which (if either) fluid model DefaultForces wires in,
// since spec.md §6 allows at most one of SPH or PIC/FLIP, never both.
type FluidMode int

const (
	FluidNone FluidMode = iota
	FluidSPH
	FluidPICFLIP
)

// DefaultForces constructs the seven-force reference preset in the
// documented order (spec.md §6 "Force ordering convention"):
//
//	1. Environment  2. Behavior (Boids)  3. Fluid (SPH or PIC/FLIP)
//	4. Sensors      5. Collisions        6. Boundary  7. Joints
//
// field is the external trail-intensity collaborator Sensors reads; pass
// nil if the host has none yet (Sensors.Apply treats a nil field as a
// no-op, per spec.md §4.11). rng seeds the Boids force's wander term; pass
// nil to default to a fixed seed (spec.md §5).
func DefaultForces(mode FluidMode, field sensors.FieldReader, rng *rand.Rand) []force.Force {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	out := []force.Force{
		environment.New(environment.DefaultConfig()),
		boids.New(boids.DefaultConfig(), rng),
	}

	switch mode {
	case FluidSPH:
		out = append(out, fluidsph.New(fluidsph.DefaultConfig()))
	case FluidPICFLIP:
		out = append(out, fluidpicflip.New(fluidpicflip.DefaultConfig()))
	}

	out = append(out,
		sensors.New(sensors.DefaultConfig(), field),
		collision.New(collision.DefaultConfig()),
		boundary.New(boundary.DefaultConfig()),
		joints.New(joints.DefaultConfig()),
	)
	return out
}
