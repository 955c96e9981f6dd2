package sim

import (
	"github.com/pthm-cable/particlecore/forces/boids"
	"github.com/pthm-cable/particlecore/forces/boundary"
	"github.com/pthm-cable/particlecore/forces/collision"
	"github.com/pthm-cable/particlecore/forces/environment"
	"github.com/pthm-cable/particlecore/forces/fluidpicflip"
	"github.com/pthm-cable/particlecore/forces/fluidsph"
	"github.com/pthm-cable/particlecore/forces/joints"
	"github.com/pthm-cable/particlecore/forces/sensors"
	"github.com/pthm-cable/particlecore/simconfig"
)

// Export serializes the system shape and every known force's current
// config into a simconfig.Config (spec.md §4.13 `export()`; §6 "each
// force type serializes its own scalar fields"). A force type Export
// doesn't recognize is skipped — its section of the returned Config keeps
// whatever zero value simconfig.Config starts with.
func (s *System) Export() simconfig.Config {
	var cfg simconfig.Config
	cfg.System = simconfig.SystemConfig{Width: s.width, Height: s.height}
	if cols, rows, cellSize := s.grid.GetGridDimensions(); cols > 0 && rows > 0 {
		cfg.System.CellSize = cellSize
	}

	for _, f := range s.forces {
		switch force := f.(type) {
		case *environment.Force:
			cfg.Environment = force.Config()
		case *boids.Force:
			cfg.Boids = force.Config()
		case *fluidsph.Force:
			cfg.FluidSPH = force.Config()
		case *fluidpicflip.Force:
			cfg.FluidPICFLIP = force.Config()
		case *sensors.Force:
			cfg.Sensors = force.Config()
		case *collision.Force:
			cfg.Collision = force.Config()
		case *boundary.Force:
			cfg.Boundary = force.Config()
		case *joints.Force:
			cfg.Joints = force.Config()
		}
	}
	return cfg
}

// Import applies cfg's sections onto every force already present in s,
// matching by concrete type (spec.md §4.13 `import(config)`; §6 "missing
// fields are replaced with documented defaults" — since cfg itself came
// from simconfig.Load, which already overlays embedded defaults, Import
// never needs to special-case a zero field). Forces not present in s are
// left uncreated: Import configures the existing preset, it does not
// construct one (use DefaultForces for that).
func (s *System) Import(cfg simconfig.Config) {
	s.SetSize(cfg.System.Width, cfg.System.Height)

	for _, f := range s.forces {
		switch force := f.(type) {
		case *environment.Force:
			force.SetConfig(cfg.Environment)
		case *boids.Force:
			force.SetConfig(cfg.Boids)
		case *fluidsph.Force:
			force.SetConfig(cfg.FluidSPH)
		case *fluidpicflip.Force:
			force.SetConfig(cfg.FluidPICFLIP)
		case *sensors.Force:
			force.SetConfig(cfg.Sensors)
		case *collision.Force:
			force.SetConfig(cfg.Collision)
		case *boundary.Force:
			force.SetConfig(cfg.Boundary)
		case *joints.Force:
			force.SetConfig(cfg.Joints)
		}
	}
}
