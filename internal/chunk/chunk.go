// Package chunk stores the dense per-chunk cell arrays and the shared map
// chunks are checked out of while a tick runs.
package chunk

import (
	"fmt"

	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
)

// Chunk holds the cells of one chunk row-major: ring offset J, then wedge
// offset K.
type Chunk struct {
	ID geometry.ChunkID
	// J0 and K0 locate local cell (0,0) in its layer.
	J0, K0     int
	Rows, Cols int
	cells      []element.Cell
}

// New allocates a vacuum-filled chunk covering coords.
func New(coords geometry.ChunkCoords) *Chunk {
	c := &Chunk{
		ID:   coords.ID,
		J0:   coords.StartRingInLayer,
		K0:   coords.StartWedge,
		Rows: coords.Rings,
		Cols: coords.Wedges(),
	}
	c.cells = make([]element.Cell, c.Rows*c.Cols)
	return c
}

// Index returns the slice index of local cell jk.
func (c *Chunk) Index(jk geometry.JK) int { return jk.J*c.Cols + jk.K }

// Get returns local cell jk. It panics when jk is outside the chunk.
func (c *Chunk) Get(jk geometry.JK) element.Cell {
	c.check(jk)
	return c.cells[c.Index(jk)]
}

// Set overwrites local cell jk. It panics when jk is outside the chunk.
func (c *Chunk) Set(jk geometry.JK, cell element.Cell) {
	c.check(jk)
	c.cells[c.Index(jk)] = cell
}

// Cells exposes the backing slice so callers can read/write values directly.
func (c *Chunk) Cells() []element.Cell { return c.cells }

// Fill sets every cell to a fresh cell of kind k.
func (c *Chunk) Fill(k element.Kind) {
	cell := element.New(k)
	for i := range c.cells {
		c.cells[i] = cell
	}
}

// Global converts local cell jk to its global index.
func (c *Chunk) Global(jk geometry.JK) geometry.IJK {
	return geometry.IJK{I: c.ID.Layer, J: c.J0 + jk.J, K: c.K0 + jk.K}
}

// Local converts a global index inside the chunk to a local one.
func (c *Chunk) Local(p geometry.IJK) (geometry.JK, bool) {
	jk := geometry.JK{J: p.J - c.J0, K: p.K - c.K0}
	if p.I != c.ID.Layer || jk.J < 0 || jk.J >= c.Rows || jk.K < 0 || jk.K >= c.Cols {
		return geometry.JK{}, false
	}
	return jk, true
}

// Counts tallies cells per kind.
func (c *Chunk) Counts() [element.NumKinds]int {
	var out [element.NumKinds]int
	for _, cell := range c.cells {
		if cell.Kind.Valid() {
			out[cell.Kind]++
		}
	}
	return out
}

func (c *Chunk) check(jk geometry.JK) {
	if jk.J < 0 || jk.J >= c.Rows || jk.K < 0 || jk.K >= c.Cols {
		panic(fmt.Sprintf("chunk %v: local cell %+v outside %dx%d", c.ID, jk, c.Rows, c.Cols))
	}
}
