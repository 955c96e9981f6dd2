// Package main is a headless driver that steps a sim.System for a fixed
// number of ticks and records per-step/per-window telemetry, mirroring the
// teacher's cmd/optimize/main.go's flag-based, framework-free CLI style
// (stdlib flag, log.Fatal on bad input, fmt.Printf progress).
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pthm-cable/particlecore/sim"
	"github.com/pthm-cable/particlecore/simconfig"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/spawner"
	"github.com/pthm-cable/particlecore/telemetry"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (empty = embedded defaults)")
	steps := flag.Int("steps", 1000, "Number of ticks to run")
	dt := flag.Float64("dt", 1.0/60.0, "Seconds per tick")
	count := flag.Int("particles", 500, "Number of particles to seed")
	fluid := flag.String("fluid", "sph", "Fluid model: none, sph, picflip")
	windowSize := flag.Int("window", 60, "Ticks per telemetry window")
	seed := flag.Int64("seed", 1, "RNG seed")
	output := flag.String("output", "", "Telemetry output directory (empty = disabled)")
	flag.Parse()

	cfg, err := simconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("particlebench: loading config: %v", err)
	}

	mode, err := parseFluidMode(*fluid)
	if err != nil {
		log.Fatalf("particlebench: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))

	width, height := cfg.System.Width, cfg.System.Height
	if width <= 0 || height <= 0 {
		width, height = 1600, 900
	}
	cellSize := cfg.System.CellSize
	if cellSize <= 0 {
		cellSize = spatial.DefaultCellSize
	}

	sys, err := sim.New(width, height, cellSize, rng)
	if err != nil {
		log.Fatalf("particlebench: %v", err)
	}

	field := newNoiseField(*seed, 0.01)
	forces := sim.DefaultForces(mode, field, rng)
	for _, f := range forces {
		sys.AddForce(f)
	}
	sys.Import(*cfg)

	bounds := spawner.Bounds{MinX: 0, MinY: 0, MaxX: width, MaxY: height}
	particles := spawner.Random(sys, rng, bounds, *count, spawner.Options{Mass: 1, Size: 4})
	sys.AddParticles(particles)

	recorder, err := telemetry.NewRecorder(*output)
	if err != nil {
		log.Fatalf("particlebench: %v", err)
	}
	defer recorder.Close()

	fmt.Printf("particlebench: %d particles, %d steps, dt=%.4f, fluid=%s\n", *count, *steps, *dt, *fluid)
	start := time.Now()

	var window []telemetry.StepStats
	simTime := 0.0
	for i := 0; i < *steps; i++ {
		sys.Step(float32(*dt))
		simTime += *dt

		step := telemetry.StepStats{
			Step:          int32(i + 1),
			SimTimeSec:    simTime,
			ParticleCount: len(sys.Particles()),
			MeanDensity:   meanLocalDensity(sys, cellSize),
		}
		if err := recorder.WriteStep(step); err != nil {
			log.Fatalf("particlebench: writing step telemetry: %v", err)
		}
		window = append(window, step)

		if len(window) >= *windowSize {
			w := telemetry.Aggregate(window)
			if err := recorder.WriteWindow(w); err != nil {
				log.Fatalf("particlebench: writing window telemetry: %v", err)
			}
			fmt.Printf("tick %d: particles=%.0f density=%.2f\n", w.WindowEndStep, w.ParticleCountMean, w.MeanDensityMean)
			window = nil
		}
	}
	if len(window) > 0 {
		if err := recorder.WriteWindow(telemetry.Aggregate(window)); err != nil {
			log.Fatalf("particlebench: writing final window telemetry: %v", err)
		}
	}

	fmt.Printf("particlebench: completed %d steps in %s\n", *steps, time.Since(start).Round(time.Millisecond))
}

func parseFluidMode(s string) (sim.FluidMode, error) {
	switch s {
	case "none":
		return sim.FluidNone, nil
	case "sph":
		return sim.FluidSPH, nil
	case "picflip":
		return sim.FluidPICFLIP, nil
	default:
		return sim.FluidNone, fmt.Errorf("unknown -fluid %q (want none, sph, picflip)", s)
	}
}

// meanLocalDensity samples a handful of particles and averages their
// neighbor counts within one grid cell radius, a cheap proxy for mean
// density that doesn't require reaching into a fluid force's private
// cache.
func meanLocalDensity(sys *sim.System, radius float32) float64 {
	particles := sys.Particles()
	if len(particles) == 0 {
		return 0
	}
	grid := sys.Grid()
	sample := particles
	const maxSamples = 50
	if len(sample) > maxSamples {
		sample = sample[:maxSamples]
	}

	var total int
	for _, p := range sample {
		pt := spatial.Point{X: p.Position.X, Y: p.Position.Y}
		total += len(grid.GetParticles(pt, radius))
	}
	return float64(total) / float64(len(sample))
}
