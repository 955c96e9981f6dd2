// Package simconfig provides YAML configuration loading for a
// sim.System's force preset, mirroring the teacher's config package:
// embedded defaults overlaid by an optional user file (spec.md §6 "Config
// object", §8 invariant 11 "round-trip fixed point").
package simconfig

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/particlecore/forces/boids"
	"github.com/pthm-cable/particlecore/forces/boundary"
	"github.com/pthm-cable/particlecore/forces/collision"
	"github.com/pthm-cable/particlecore/forces/environment"
	"github.com/pthm-cable/particlecore/forces/fluidpicflip"
	"github.com/pthm-cable/particlecore/forces/fluidsph"
	"github.com/pthm-cable/particlecore/forces/joints"
	"github.com/pthm-cable/particlecore/forces/sensors"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SystemConfig holds the world-shape parameters sim.New takes (spec.md §6
// "System construction options").
type SystemConfig struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	CellSize float32 `yaml:"cell_size"`
}

// Config is the full preset: one section per known force type plus the
// system shape, recognized fields only; unknown fields are ignored on
// load and missing fields fall back to the embedded defaults (spec.md §6
// "Preset export/import").
type Config struct {
	System       SystemConfig        `yaml:"system"`
	Environment  environment.Config  `yaml:"environment"`
	Boids        boids.Config        `yaml:"boids"`
	FluidSPH     fluidsph.Config     `yaml:"fluid_sph"`
	FluidPICFLIP fluidpicflip.Config `yaml:"fluid_picflip"`
	Sensors      sensors.Config      `yaml:"sensors"`
	Collision    collision.Config    `yaml:"collision"`
	Boundary     boundary.Config     `yaml:"boundary"`
	Joints       joints.Config       `yaml:"joints"`
}

// global holds the loaded configuration, mirroring config.Cfg()'s
// package-level singleton shape.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("simconfig: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("simconfig: Cfg() called before Init()")
	}
	return global
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("simconfig: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("simconfig: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("simconfig: parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Save writes cfg to path as YAML, the counterpart to Load (spec.md §8
// invariant 11's round-trip, driven from sim.System.Export/Import).
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("simconfig: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("simconfig: writing config file: %w", err)
	}
	return nil
}
