package core

// ByteGrid stores a 2D raster of byte-sized values in row-major order, e.g.
// the element kinds seen through a camera.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions, at least 1x1.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies on the grid.
func (g *ByteGrid) In(x, y int) bool { return x >= 0 && x < g.W && y >= 0 && y < g.H }

// At returns the value at (x, y), or 0 off the grid.
func (g *ByteGrid) At(x, y int) uint8 {
	if !g.In(x, y) {
		return 0
	}
	return g.data[g.Index(x, y)]
}

// Set writes v at (x, y); writes off the grid are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if g.In(x, y) {
		g.data[g.Index(x, y)] = v
	}
}

// Resize reallocates the grid when the dimensions change and clears it.
func (g *ByteGrid) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w*h != len(g.data) {
		g.data = make([]uint8, w*h)
	}
	g.W, g.H = w, h
	g.Clear()
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() { clear(g.data) }
