// Package spawner is a pure producer of particle batches for the
// geometric shapes spec.md §4.4 describes. It never touches a System or a
// Grid; it only allocates particle.Particle values positioned according to
// the requested shape, leaving velocity/color assignment to the secondary
// helpers below (or to the caller).
package spawner

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlecore/particle"
	"github.com/pthm-cable/particlecore/vector"
)

// Options configures the shared, shape-independent particle fields.
type Options struct {
	Mass  float32
	Size  float32
	Color rl.Color
	Flags particle.Flags
}

func (o Options) toParticleOptions(pos vector.Vector2) particle.Options {
	return particle.Options{
		Position: pos,
		Mass:     o.Mass,
		Size:     o.Size,
		Color:    o.Color,
		Flags:    o.Flags,
	}
}

// IDSource hands out the next monotonic particle id. sim.System implements
// this; spawner only depends on the method, not the System type, so it
// stays a leaf package with no dependency on sim.
type IDSource interface {
	NextID() particle.ID
}

// Grid produces a regular rows x cols lattice of particles, spaced
// `spacing` apart and centered at `center`.
func Grid(ids IDSource, rows, cols int, spacing float32, center vector.Vector2, opts Options) []*particle.Particle {
	if rows <= 0 || cols <= 0 {
		return nil
	}

	out := make([]*particle.Particle, 0, rows*cols)
	originX := center.X - float32(cols-1)*spacing/2
	originY := center.Y - float32(rows-1)*spacing/2

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pos := vector.Vector2{
				X: originX + float32(c)*spacing,
				Y: originY + float32(r)*spacing,
			}
			out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
		}
	}
	return out
}

// Bounds is the rectangle Random scatters particles across.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float32
}

// Random scatters count particles uniformly at random within bounds.
// Determinism depends on rng (spec.md §5); pass a seeded *rand.Rand for
// reproducible tests.
func Random(ids IDSource, rng *rand.Rand, bounds Bounds, count int, opts Options) []*particle.Particle {
	if count <= 0 {
		return nil
	}
	out := make([]*particle.Particle, 0, count)
	w := bounds.MaxX - bounds.MinX
	h := bounds.MaxY - bounds.MinY
	for i := 0; i < count; i++ {
		pos := vector.Vector2{
			X: bounds.MinX + rng.Float32()*w,
			Y: bounds.MinY + rng.Float32()*h,
		}
		out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
	}
	return out
}

// Circle fills a disk of the given radius around center with count
// particles, using a ring-packing heuristic (spec.md §4.4): estimated
// rings ~= ceil(sqrt(count/pi)), ring radius = radius*(ring+1)/rings, and a
// minimum per-particle arc spacing of particleSize*1.5.
func Circle(ids IDSource, center vector.Vector2, radius float32, count int, opts Options) []*particle.Particle {
	if count <= 0 {
		return nil
	}

	rings := int(math.Ceil(math.Sqrt(float64(count) / math.Pi)))
	if rings < 1 {
		rings = 1
	}

	minArc := opts.Size
	if minArc <= 0 {
		minArc = 5
	}
	minArc *= 1.5

	out := make([]*particle.Particle, 0, count)
	remaining := count

	for ring := 0; ring < rings && remaining > 0; ring++ {
		ringRadius := radius * float32(ring+1) / float32(rings)

		// Particles left for remaining rings, proportioned by circumference.
		ringsLeft := rings - ring
		perRing := remaining / ringsLeft
		if perRing < 1 {
			perRing = 1
		}

		circumference := 2 * math.Pi * float64(ringRadius)
		maxByArc := int(circumference / float64(minArc))
		if maxByArc < 1 {
			maxByArc = 1
		}
		if perRing > maxByArc {
			perRing = maxByArc
		}
		if perRing > remaining {
			perRing = remaining
		}

		for i := 0; i < perRing; i++ {
			angle := 2 * math.Pi * float64(i) / float64(perRing)
			pos := vector.Vector2{
				X: center.X + ringRadius*float32(math.Cos(angle)),
				Y: center.Y + ringRadius*float32(math.Sin(angle)),
			}
			out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
		}
		remaining -= perRing
	}

	// Any leftover (from rounding) lands on the outermost ring.
	for remaining > 0 {
		angle := rand.Float64() * 2 * math.Pi
		pos := vector.Vector2{
			X: center.X + radius*float32(math.Cos(angle)),
			Y: center.Y + radius*float32(math.Sin(angle)),
		}
		out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
		remaining--
	}

	return out
}

// Donut fills a ring between innerR and outerR around center with count
// particles, reusing Circle's ring-packing heuristic per annulus ring.
func Donut(ids IDSource, center vector.Vector2, innerR, outerR float32, count int, opts Options) []*particle.Particle {
	if count <= 0 || outerR <= innerR {
		return nil
	}

	rings := int(math.Ceil(math.Sqrt(float64(count) / math.Pi)))
	if rings < 1 {
		rings = 1
	}

	minArc := opts.Size
	if minArc <= 0 {
		minArc = 5
	}
	minArc *= 1.5

	out := make([]*particle.Particle, 0, count)
	remaining := count

	for ring := 0; ring < rings && remaining > 0; ring++ {
		t := float32(ring+1) / float32(rings)
		ringRadius := innerR + (outerR-innerR)*t

		ringsLeft := rings - ring
		perRing := remaining / ringsLeft
		if perRing < 1 {
			perRing = 1
		}

		circumference := 2 * math.Pi * float64(ringRadius)
		maxByArc := int(circumference / float64(minArc))
		if maxByArc < 1 {
			maxByArc = 1
		}
		if perRing > maxByArc {
			perRing = maxByArc
		}
		if perRing > remaining {
			perRing = remaining
		}

		for i := 0; i < perRing; i++ {
			angle := 2 * math.Pi * float64(i) / float64(perRing)
			pos := vector.Vector2{
				X: center.X + ringRadius*float32(math.Cos(angle)),
				Y: center.Y + ringRadius*float32(math.Sin(angle)),
			}
			out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
		}
		remaining -= perRing
	}

	return out
}

// Square distributes count particles along the perimeter of a rounded
// square (4 straight edges + 4 quarter-arc corners of the given
// cornerRadius), proportional to arc-length (spec.md §4.4).
func Square(ids IDSource, center vector.Vector2, size, cornerRadius float32, count int, opts Options) []*particle.Particle {
	if count <= 0 || size <= 0 {
		return nil
	}
	if cornerRadius < 0 {
		cornerRadius = 0
	}
	if cornerRadius > size/2 {
		cornerRadius = size / 2
	}

	half := size / 2
	straightLen := size - 2*cornerRadius
	if straightLen < 0 {
		straightLen = 0
	}
	arcLen := float32(math.Pi / 2 * float64(cornerRadius))

	totalLen := 4*straightLen + 4*arcLen
	if totalLen <= 0 {
		totalLen = 1
	}

	// Corner centers, one per quadrant, and the straight-edge segments
	// between them, walked in order starting at the top edge's left end.
	corners := [4][2]float32{
		{center.X - half + cornerRadius, center.Y - half + cornerRadius}, // top-left
		{center.X + half - cornerRadius, center.Y - half + cornerRadius}, // top-right
		{center.X + half - cornerRadius, center.Y + half - cornerRadius}, // bottom-right
		{center.X - half + cornerRadius, center.Y + half - cornerRadius}, // bottom-left
	}
	startAngles := [4]float32{float32(math.Pi), float32(-math.Pi / 2), 0, float32(math.Pi / 2)}

	segments := make([]segment, 0, 8)
	for i := 0; i < 4; i++ {
		if cornerRadius > 0 {
			segments = append(segments, segment{
				isArc:      true,
				startAngle: startAngles[i],
				cx:         corners[i][0],
				cy:         corners[i][1],
				length:     arcLen,
			})
		}
		if straightLen > 0 {
			next := corners[(i+1)%4]
			segments = append(segments, straightSegmentBetween(corners[i], next, straightLen))
		}
	}

	out := make([]*particle.Particle, 0, count)
	placed := 0
	for si, seg := range segments {
		n := int(float32(count) * seg.length / totalLen)
		if si == len(segments)-1 {
			n = count - placed // last segment absorbs rounding remainder
		}
		if n < 0 {
			n = 0
		}
		for i := 0; i < n; i++ {
			t := float32(i) / float32(maxInt(n, 1))
			var pos vector.Vector2
			if seg.isArc {
				angle := seg.startAngle + t*float32(math.Pi/2)
				pos = vector.Vector2{
					X: seg.cx + cornerRadius*float32(math.Cos(angle)),
					Y: seg.cy + cornerRadius*float32(math.Sin(angle)),
				}
			} else {
				// Straight segments run between corner centers; offset them
				// outward by cornerRadius onto the perimeter.
				pos = vector.Vector2{
					X: seg.cx + seg.dy*cornerRadius + seg.dx*t*seg.length,
					Y: seg.cy - seg.dx*cornerRadius + seg.dy*t*seg.length,
				}
			}
			out = append(out, particle.New(ids.NextID(), opts.toParticleOptions(pos)))
		}
		placed += n
	}

	return out
}

// segment is one piece of a rounded rectangle's perimeter: either a
// quarter-arc corner or a straight edge.
type segment struct {
	isArc      bool
	startAngle float32 // for arcs
	cx, cy     float32 // arc center, or straight segment start point
	dx, dy     float32 // unit direction, for straight segments
	length     float32
}

func straightSegmentBetween(from, to [2]float32, length float32) segment {
	dx := to[0] - from[0]
	dy := to[1] - from[1]
	mag := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if mag == 0 {
		mag = 1
	}
	return segment{isArc: false, cx: from[0], cy: from[1], dx: dx / mag, dy: dy / mag, length: length}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Direction selects how CalculateVelocity aims the initial velocity.
type Direction int

const (
	DirectionRandom Direction = iota
	DirectionIn
	DirectionOut
	DirectionClockwise
	DirectionCounterClockwise
	DirectionCustom
)

// CalculateVelocity returns an initial velocity for a particle at pos,
// relative to center, per spec.md §4.4's `calculateVelocity`.
func CalculateVelocity(dir Direction, pos, center vector.Vector2, speed, angle float32) vector.Vector2 {
	toCenter := center.Sub(pos)
	switch dir {
	case DirectionIn:
		return toCenter.Normalize().Scale(speed)
	case DirectionOut:
		return toCenter.Normalize().Scale(-speed)
	case DirectionClockwise, DirectionCounterClockwise:
		radial := pos.Sub(center)
		tangent := vector.Vector2{X: -radial.Y, Y: radial.X}.Normalize()
		if dir == DirectionClockwise {
			tangent = tangent.Scale(-1)
		}
		return tangent.Scale(speed)
	case DirectionCustom:
		return vector.Vector2{X: float32(math.Cos(float64(angle))), Y: float32(math.Sin(float64(angle)))}.Scale(speed)
	default: // DirectionRandom
		a := rand.Float64() * 2 * math.Pi
		return vector.Vector2{X: float32(math.Cos(a)), Y: float32(math.Sin(a))}.Scale(speed)
	}
}

// CalculateSquareVelocity returns a velocity of the given speed
// perpendicular to the line from center to pos, i.e. tangent to the circle
// through pos around center. It takes no square size or corner radius, so
// it is parallel to a straight edge only at that edge's midpoint and does
// not follow the rounded rectangle's perimeter elsewhere.
func CalculateSquareVelocity(pos, center vector.Vector2, speed float32) vector.Vector2 {
	radial := pos.Sub(center)
	tangent := vector.Vector2{X: -radial.Y, Y: radial.X}.Normalize()
	return tangent.Scale(speed)
}

// Palette names a small set of host-renderer-friendly colors, mirroring
// the teacher's use of named rl.Color constants for organism rendering.
type Palette int

const (
	PaletteDefault Palette = iota
	PaletteWarm
	PaletteCool
	PaletteFire
	PaletteOcean
)

var paletteColors = map[Palette][]rl.Color{
	PaletteDefault: {rl.White, rl.LightGray, rl.Gray},
	PaletteWarm:    {rl.Red, rl.Orange, rl.Gold, rl.Yellow},
	PaletteCool:    {rl.SkyBlue, rl.Blue, rl.DarkBlue},
	PaletteFire:    {rl.Red, rl.Orange, rl.Maroon},
	PaletteOcean:   {rl.SkyBlue, rl.Blue, rl.Green, rl.Lime},
}

// GetParticleColor resolves a named palette to a concrete rl.Color,
// picking uniformly at random among the palette's entries.
func GetParticleColor(p Palette) rl.Color {
	colors, ok := paletteColors[p]
	if !ok || len(colors) == 0 {
		return rl.White
	}
	return colors[rand.Intn(len(colors))]
}
