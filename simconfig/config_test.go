package simconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsParsesWithoutError(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if cfg.System.Width != 800 || cfg.System.Height != 600 {
		t.Errorf("System = %+v, want the embedded 800x600 default", cfg.System)
	}
	if cfg.Boundary.Restitution != 0.6 {
		t.Errorf("Boundary.Restitution = %v, want 0.6", cfg.Boundary.Restitution)
	}
}

func TestLoadEmptyPathEqualsDefaults(t *testing.T) {
	def, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if *def != *loaded {
		t.Errorf("Load(\"\") = %+v, want it to equal Defaults() = %+v", loaded, def)
	}
}

func TestLoadOverlayOverridesOnlyNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	overlay := []byte("boundary:\n  restitution: 0.25\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatalf("writing overlay: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Boundary.Restitution != 0.25 {
		t.Errorf("Boundary.Restitution = %v, want overlay value 0.25", cfg.Boundary.Restitution)
	}
	if cfg.Environment.Friction != 0 {
		t.Errorf("Environment.Friction = %v, want untouched default 0", cfg.Environment.Friction)
	}
	if cfg.System.Width != 800 {
		t.Errorf("System.Width = %v, want untouched default 800", cfg.System.Width)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	cfg.Boundary.Restitution = 0.33
	cfg.Boids.WanderWeight = 0.9

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.yaml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round-tripped config = %+v, want %+v", got, cfg)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Errorf("Load with a missing file should return an error")
	}
}
