package sim

import (
	"testing"

	"github.com/pthm-cable/particlecore/forces/boundary"
	"github.com/pthm-cable/particlecore/internal/fastmath"
)

// TestExportImportRoundTrip is spec.md §8 invariant 11: for the default
// force set, S.import(S.export()) must leave every force field equal to
// its pre-export value within floating-point tolerance.
func TestExportImportRoundTrip(t *testing.T) {
	s, err := New(800, 600, 100, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, f := range DefaultForces(FluidSPH, nil, nil) {
		s.AddForce(f)
	}

	// Perturb one force's config away from its default so the round-trip
	// actually exercises a non-default value, not just defaults echoing
	// defaults.
	for _, f := range s.Forces() {
		if b, ok := f.(*boundary.Force); ok {
			cfg := b.Config()
			cfg.Restitution = 0.42
			b.SetConfig(cfg)
		}
	}

	before := s.Export()
	s.Import(before)
	after := s.Export()

	if !fastmath.Close(before.Boundary.Restitution, after.Boundary.Restitution, 1e-6) {
		t.Errorf("Boundary.Restitution round-trip: before=%v after=%v", before.Boundary.Restitution, after.Boundary.Restitution)
	}
	if before.Environment != after.Environment {
		t.Errorf("Environment config changed across round-trip: before=%+v after=%+v", before.Environment, after.Environment)
	}
	if before.Collision != after.Collision {
		t.Errorf("Collision config changed across round-trip: before=%+v after=%+v", before.Collision, after.Collision)
	}
	if before.System != after.System {
		t.Errorf("System shape changed across round-trip: before=%+v after=%+v", before.System, after.System)
	}
}
