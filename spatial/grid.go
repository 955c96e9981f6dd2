// Package spatial implements the uniform hash grid used for neighbor
// queries (spec.md §4.3). It is a generalization of the teacher's
// SpatialGrid: clamped (not toroidal) border handling, and queries return
// every particle in the union of cells overlapping the query disk's
// bounding square rather than a toroidal-wrapped delta.
package spatial

import (
	"github.com/pthm-cable/particlecore/particle"
)

// DefaultCellSize is a sane default for size-5 particles (spec.md §4.3).
const DefaultCellSize float32 = 100

// Grid is a uniform hash of cellSize over a world rectangle of width W,
// height H. Cell (c,r) maps from a position (x,y) as c=floor(x/cellSize),
// r=floor(y/cellSize), clamped to the grid.
type Grid struct {
	cellSize      float32
	width, height float32
	cols, rows    int
	cells         [][]*particle.Particle
}

// New creates a grid covering a width x height world with the given cell
// size. cellSize <= 0 falls back to DefaultCellSize.
func New(width, height, cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	g := &Grid{cellSize: cellSize}
	g.setSizeUnlocked(width, height)
	return g
}

// setSizeUnlocked (re)allocates the cell table for the given world size.
func (g *Grid) setSizeUnlocked(width, height float32) {
	g.width = width
	g.height = height
	g.cols = int(width/g.cellSize) + 1
	g.rows = int(height/g.cellSize) + 1
	if g.cols < 1 {
		g.cols = 1
	}
	if g.rows < 1 {
		g.rows = 1
	}
	g.cells = make([][]*particle.Particle, g.cols*g.rows)
}

// SetSize resizes the world and rebuilds an empty grid (spec.md §4.3).
// Existing particle positions are not clamped by the resize (spec.md §3).
func (g *Grid) SetSize(width, height float32) {
	g.setSizeUnlocked(width, height)
}

// GetSize returns the world width and height.
func (g *Grid) GetSize() (width, height float32) {
	return g.width, g.height
}

// GetGridDimensions returns the column count, row count and cell size.
func (g *Grid) GetGridDimensions() (cols, rows int, cellSize float32) {
	return g.cols, g.rows, g.cellSize
}

// GetCellParticleCount returns how many particles occupy cell (col,row).
// Out-of-range cells return 0.
func (g *Grid) GetCellParticleCount(col, row int) int {
	idx, ok := g.cellIndex(col, row)
	if !ok {
		return 0
	}
	return len(g.cells[idx])
}

// Clear empties every cell, keeping the underlying slice capacity so the
// next rebuild does not reallocate (mirrors the teacher's `cells[i][:0]`
// pattern in spatial.go).
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds p to the cell its current position maps to.
func (g *Grid) Insert(p *particle.Particle) {
	idx := g.indexForPosition(p.Position.X, p.Position.Y)
	g.cells[idx] = append(g.cells[idx], p)
}

// Rebuild clears the grid and inserts every particle in ps, in order.
// This is clear()+insert-all (spec.md §4.3) and is the only rebuild path
// sim.System uses at the start of each step.
func (g *Grid) Rebuild(ps []*particle.Particle) {
	g.Clear()
	for _, p := range ps {
		g.Insert(p)
	}
}

// GetParticles returns every particle stored in any cell whose
// axis-aligned square overlaps the disk of the given radius centered at
// center. This is a superset of the exact answer (spec.md §4.3 invariant);
// callers filter exact distance and self-exclusion themselves.
func (g *Grid) GetParticles(center Point, radius float32) []*particle.Particle {
	if radius < 0 {
		radius = 0
	}

	minCol := g.colForX(center.X - radius)
	maxCol := g.colForX(center.X + radius)
	minRow := g.rowForY(center.Y - radius)
	maxRow := g.rowForY(center.Y + radius)

	var out []*particle.Particle
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			out = append(out, g.cells[idx]...)
		}
	}
	return out
}

// Point is a plain 2D coordinate, kept distinct from vector.Vector2 so this
// package has no dependency on the force/integration math beyond what it
// needs for indexing.
type Point struct {
	X, Y float32
}

func (g *Grid) colForX(x float32) int {
	col := int(x / g.cellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	return col
}

func (g *Grid) rowForY(y float32) int {
	row := int(y / g.cellSize)
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return row
}

func (g *Grid) indexForPosition(x, y float32) int {
	return g.rowForY(y)*g.cols + g.colForX(x)
}

func (g *Grid) cellIndex(col, row int) (int, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, false
	}
	return row*g.cols + col, true
}
