// Package fastmath collects the small scalar helpers shared across force
// implementations (clamping, tolerance comparison, modulus), mirroring the
// teacher's systems/math.go rather than duplicating these one-liners in
// every force package.
package fastmath

import "math"

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// ClampMagnitude scales v down so its length does not exceed max; v is
// returned unchanged if already within bounds.
func ClampMagnitude(x, y, max float32) (cx, cy float32) {
	magSq := x*x + y*y
	if magSq <= max*max || magSq == 0 {
		return x, y
	}
	mag := float32(math.Sqrt(float64(magSq)))
	scale := max / mag
	return x * scale, y * scale
}

// Close reports whether a and b differ by at most eps, the tolerance
// comparison the force and sim tests use in place of exact float
// equality (mirrors the teacher's manual math.Abs(...) > 0.01
// checks rather than pulling in testify/assert.InDelta).
func Close(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

// Mod returns the non-negative floating-point modulus of v with respect to
// m (used by the Boundary force's warp mode).
func Mod(v, m float32) float32 {
	r := float32(math.Mod(float64(v), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
