package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/particlecore/vector"
)

// noiseField is a demo Sensors collaborator (spec.md §4.11's
// FieldReader) backed by 2D OpenSimplex noise, the same library the
// teacher uses for its animated resource field (systems/resource_field.go).
// ReadIntensity maps noise from [-1,1] to [0,1]; ReadColor derives a hue
// from the same sample so ColorSame/ColorDifferent filtering has
// something non-trivial to discriminate on.
type noiseField struct {
	noise opensimplex.Noise
	scale float64
}

func newNoiseField(seed int64, scale float64) *noiseField {
	return &noiseField{noise: opensimplex.New(seed), scale: scale}
}

func (f *noiseField) ReadIntensity(pos vector.Vector2, radius float32) float32 {
	v := f.noise.Eval2(float64(pos.X)*f.scale, float64(pos.Y)*f.scale)
	return float32((v + 1) * 0.5)
}

func (f *noiseField) ReadColor(pos vector.Vector2, radius float32) (rl.Color, bool) {
	hueSample := f.noise.Eval2(float64(pos.X)*f.scale*0.5+1000, float64(pos.Y)*f.scale*0.5+1000)
	if (hueSample+1)*0.5 > 0.5 {
		return rl.Color{R: 255, G: 0, B: 0, A: 255}, true
	}
	return rl.Color{R: 0, G: 0, B: 255, A: 255}, true
}
