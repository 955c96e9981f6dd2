// Package sensors implements the Sensors force: forward trail-sensing and
// steering from an external scalar field (spec.md §4.11).
package sensors

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlecore/force"
	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/spatial"
	"github.com/pthm-cable/particlecore/vector"
)

// FieldReader is the external collaborator this force consumes: a scalar
// trail-intensity field sampled at a world point and radius (spec.md §6).
// A read failure is the collaborator's concern to mask as zero; this
// package never wraps or retries it (spec.md §7: "surfaced as a zero
// intensity; core never propagates exceptions from collaborators").
type FieldReader interface {
	ReadIntensity(pos vector.Vector2, radius float32) float32
}

// ColorFieldReader is an optional capability a FieldReader may implement to
// support ColorMode filtering. A field that doesn't implement it (or whose
// ReadColor reports no color) is treated as ColorAny under ColorSame and
// ColorDifferent; ColorNone still zeroes every sample. The spec's one
// required collaborator method is ReadIntensity alone (spec.md §6), so
// color-aware filtering degrades gracefully rather than being required.
type ColorFieldReader interface {
	ReadColor(pos vector.Vector2, radius float32) (rl.Color, bool)
}

// ColorMode filters which particles' trails a sensor is steered by,
// relative to the sensing particle's own color.
type ColorMode int

const (
	ColorAny ColorMode = iota
	ColorSame
	ColorDifferent
	ColorNone
)

// Behavior selects whether a particle follows or flees the strongest
// sensed signal.
type Behavior int

const (
	Follow Behavior = iota
	Flee
)

// Config holds Sensors' scalar knobs.
type Config struct {
	SensorAngle    float32 `yaml:"sensor_angle"` // radians, offset of the two side sensors from heading
	SensorDistance float32 `yaml:"sensor_distance"`
	SensorRadius   float32 `yaml:"sensor_radius"`
	SensorStrength float32 `yaml:"sensor_strength"`

	Threshold float32   `yaml:"threshold"` // minimum intensity that triggers steering
	Behavior  Behavior  `yaml:"behavior"`
	ColorMode ColorMode `yaml:"color_mode"`

	// ColorSimilarityThreshold bounds the summed per-channel R/G/B
	// difference two rl.Colors may have to count as "same" under ColorMode.
	ColorSimilarityThreshold float32 `yaml:"color_similarity_threshold"`

	// FleeAngle biases a fleeing particle's escape direction into a cone
	// around its current heading rather than a pure opposite-of-signal
	// direction.
	FleeAngle float32 `yaml:"flee_angle"`
}

// DefaultConfig is a plausible trail-following preset.
func DefaultConfig() Config {
	return Config{
		SensorAngle:              float32(math.Pi / 6),
		SensorDistance:           20,
		SensorRadius:             6,
		SensorStrength:           500,
		Threshold:                0.1,
		Behavior:                 Follow,
		ColorMode:                ColorAny,
		ColorSimilarityThreshold: 30,
		FleeAngle:                float32(math.Pi / 4),
	}
}

// Force is the Sensors force.
type Force struct {
	force.Base
	cfg   Config
	field FieldReader
}

// New constructs the Sensors force reading from field.
func New(cfg Config, field FieldReader) *Force {
	return &Force{Base: force.NewBase("sensors"), cfg: cfg, field: field}
}

// Config returns a copy of the current configuration.
func (f *Force) Config() Config { return f.cfg }

// SetConfig replaces the current configuration.
func (f *Force) SetConfig(cfg Config) { f.cfg = cfg }

// SetField replaces the field collaborator (e.g. switching render/trail
// backends between runs).
func (f *Force) SetField(field FieldReader) { f.field = field }

// Apply samples three forward sensors and steers p toward (Follow) or away
// from (Flee) the strongest reading above Threshold (spec.md §4.11).
func (f *Force) Apply(p *particle.Particle, grid *spatial.Grid) {
	if p.Pinned() || f.field == nil {
		return
	}

	heading := p.Velocity.Normalize()
	if heading == (vector.Vector2{}) {
		heading = vector.Vector2{X: 1, Y: 0}
	}

	centerDir := heading
	leftDir := rotate(heading, -f.cfg.SensorAngle)
	rightDir := rotate(heading, f.cfg.SensorAngle)

	centerVal := f.sample(p, centerDir)
	leftVal := f.sample(p, leftDir)
	rightVal := f.sample(p, rightDir)

	best, bestDir := centerVal, centerDir
	if leftVal > best {
		best, bestDir = leftVal, leftDir
	}
	if rightVal > best {
		best, bestDir = rightVal, rightDir
	}

	if best < f.cfg.Threshold {
		return
	}

	var steerDir vector.Vector2
	switch f.cfg.Behavior {
	case Follow:
		steerDir = bestDir
	case Flee:
		steerDir = rotate(bestDir.Scale(-1), f.cfg.FleeAngle)
	}

	p.ApplyForce(steerDir.Scale(f.cfg.SensorStrength))
}

// sample reads the field at the sensor tip in direction dir, after
// filtering by ColorMode (spec.md §4.11: "Behavior modifiers: any | same |
// different | none against each particle's own color").
func (f *Force) sample(p *particle.Particle, dir vector.Vector2) float32 {
	if f.cfg.ColorMode == ColorNone {
		return 0
	}

	tip := p.Position.Add(dir.Scale(f.cfg.SensorDistance))
	intensity := f.field.ReadIntensity(tip, f.cfg.SensorRadius)

	if f.cfg.ColorMode == ColorAny {
		return intensity
	}

	reader, ok := f.field.(ColorFieldReader)
	if !ok {
		return intensity
	}
	color, found := reader.ReadColor(tip, f.cfg.SensorRadius)
	if !found {
		return intensity
	}

	similar := colorsSimilar(p.Color, color, f.cfg.ColorSimilarityThreshold)
	if f.cfg.ColorMode == ColorSame && !similar {
		return 0
	}
	if f.cfg.ColorMode == ColorDifferent && similar {
		return 0
	}
	return intensity
}

// colorsSimilar reports whether the summed per-channel (R, G, B) absolute
// difference between a and b is at most the configured threshold.
func colorsSimilar(a, b rl.Color, threshold float32) bool {
	diff := 0
	for _, d := range [3]int{int(a.R) - int(b.R), int(a.G) - int(b.G), int(a.B) - int(b.B)} {
		if d < 0 {
			d = -d
		}
		diff += d
	}
	return float32(diff) <= threshold
}

func rotate(v vector.Vector2, angle float32) vector.Vector2 {
	s, c := float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
	return vector.Vector2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}
