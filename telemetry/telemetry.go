// Package telemetry records per-step and per-window simulation statistics
// to CSV, grounded in the teacher's telemetry/output.go and telemetry/
// stats.go: gocsv.Marshal on first write, MarshalWithoutHeaders
// thereafter, and a WindowStats aggregate recomputed once per window.
// This is ambient observability the spec's Non-goals never exclude (they
// exclude host UI and preset-serialization surfaces, not internal
// metrics).
package telemetry

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// StepStats is a single step's raw counters, sampled by the caller
// (typically cmd/particlebench) right after sim.System.Step returns.
type StepStats struct {
	Step          int32   `csv:"step"`
	SimTimeSec    float64 `csv:"sim_time"`
	ParticleCount int     `csv:"particles"`
	MeanDensity   float64 `csv:"mean_density"`
	ActiveJoints  int     `csv:"active_joints"`
	Collisions    int     `csv:"collisions"`
}

// WindowStats aggregates a run of StepStats over a fixed-size window,
// mirroring telemetry.WindowStats's shape (mean + spread, not merely a
// running sum).
type WindowStats struct {
	WindowStartStep int32   `csv:"-"`
	WindowEndStep   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	ParticleCountMean float64 `csv:"particle_count_mean"`
	ParticleCountStd  float64 `csv:"particle_count_std"`

	MeanDensityMean float64 `csv:"mean_density_mean"`
	MeanDensityStd  float64 `csv:"mean_density_std"`

	TotalCollisions int `csv:"total_collisions"`
	ActiveJoints    int `csv:"active_joints"` // sampled at window end
}

// Aggregate reduces a window's raw StepStats into a WindowStats, using
// gonum/stat for the mean and sample (n-1) standard deviation rather than a
// hand-rolled accumulator (mirrors telemetry.ComputeEnergyStats's shape,
// swapping percentiles for gonum's weighted moment functions since this
// package has no need for percentile cuts).
func Aggregate(steps []StepStats) WindowStats {
	if len(steps) == 0 {
		return WindowStats{}
	}

	counts := make([]float64, len(steps))
	densities := make([]float64, len(steps))
	var totalCollisions int
	for i, s := range steps {
		counts[i] = float64(s.ParticleCount)
		densities[i] = s.MeanDensity
		totalCollisions += s.Collisions
	}

	countMean, countVar := stat.MeanVariance(counts, nil)
	densityMean, densityVar := stat.MeanVariance(densities, nil)

	last := steps[len(steps)-1]
	return WindowStats{
		WindowStartStep:   steps[0].Step,
		WindowEndStep:     last.Step,
		SimTimeSec:        last.SimTimeSec,
		ParticleCountMean: countMean,
		ParticleCountStd:  math.Sqrt(countVar),
		MeanDensityMean:   densityMean,
		MeanDensityStd:    math.Sqrt(densityVar),
		TotalCollisions:   totalCollisions,
		ActiveJoints:      last.ActiveJoints,
	}
}

// Recorder writes StepStats and WindowStats to per-run CSV files, mirroring
// telemetry.OutputManager: a header on the first write, headerless rows
// after (gocsv.Marshal / gocsv.MarshalWithoutHeaders). A nil *Recorder is a
// valid no-op receiver, exactly like OutputManager, so a caller can thread
// a possibly-disabled recorder through without branching at every call
// site.
type Recorder struct {
	dir string

	stepFile   *os.File
	windowFile *os.File

	stepHeaderWritten   bool
	windowHeaderWritten bool
}

// NewRecorder creates dir and opens steps.csv/windows.csv inside it.
// Returns nil, nil if dir is empty (telemetry disabled).
func NewRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}

	r := &Recorder{dir: dir}

	stepFile, err := os.Create(dir + "/steps.csv")
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating steps.csv: %w", err)
	}
	r.stepFile = stepFile

	windowFile, err := os.Create(dir + "/windows.csv")
	if err != nil {
		r.stepFile.Close()
		return nil, fmt.Errorf("telemetry: creating windows.csv: %w", err)
	}
	r.windowFile = windowFile

	return r, nil
}

// WriteStep appends a single step record to steps.csv.
func (r *Recorder) WriteStep(s StepStats) error {
	if r == nil {
		return nil
	}
	records := []StepStats{s}
	if !r.stepHeaderWritten {
		if err := gocsv.Marshal(records, r.stepFile); err != nil {
			return fmt.Errorf("telemetry: writing step: %w", err)
		}
		r.stepHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.stepFile); err != nil {
		return fmt.Errorf("telemetry: writing step: %w", err)
	}
	return nil
}

// WriteWindow appends a single window aggregate to windows.csv.
func (r *Recorder) WriteWindow(w WindowStats) error {
	if r == nil {
		return nil
	}
	records := []WindowStats{w}
	if !r.windowHeaderWritten {
		if err := gocsv.Marshal(records, r.windowFile); err != nil {
			return fmt.Errorf("telemetry: writing window: %w", err)
		}
		r.windowHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.windowFile); err != nil {
		return fmt.Errorf("telemetry: writing window: %w", err)
	}
	return nil
}

// Dir returns the recorder's output directory, or "" for a nil receiver.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Close flushes and closes both CSV files.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	if r.stepFile != nil {
		if err := r.stepFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.windowFile != nil {
		if err := r.windowFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
