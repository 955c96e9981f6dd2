package sim

import (
	"testing"

	"github.com/pthm-cable/particlecore/forces/fluidpicflip"
	"github.com/pthm-cable/particlecore/forces/fluidsph"
)

// TestDefaultForcesOrdering checks spec.md §6's force ordering convention:
// Environment, Behavior, Fluid, Sensors, Collisions, Boundary, Joints.
func TestDefaultForcesOrdering(t *testing.T) {
	forces := DefaultForces(FluidSPH, nil, nil)

	want := []string{"environment", "boids", "fluid-sph", "sensors", "collision", "boundary", "joints"}
	if len(forces) != len(want) {
		t.Fatalf("DefaultForces returned %d forces, want %d", len(forces), len(want))
	}
	for i, name := range want {
		if got := forces[i].Name(); got != name {
			t.Errorf("forces[%d].Name() = %q, want %q", i, got, name)
		}
	}
}

func TestDefaultForcesFluidNoneOmitsFluidForce(t *testing.T) {
	forces := DefaultForces(FluidNone, nil, nil)
	for _, f := range forces {
		switch f.(type) {
		case *fluidsph.Force, *fluidpicflip.Force:
			t.Errorf("FluidNone should not include a fluid force, found %s", f.Name())
		}
	}
}

func TestDefaultForcesPicFlipUsesPicFlipName(t *testing.T) {
	forces := DefaultForces(FluidPICFLIP, nil, nil)
	found := false
	for _, f := range forces {
		if f.Name() == "fluid-picflip" {
			found = true
		}
	}
	if !found {
		t.Errorf("FluidPICFLIP should include the fluid-picflip force")
	}
}
