package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig marks an inconsistent grid configuration.
	ErrConfig = errors.New("invalid grid configuration")
	// ErrOutside is returned with a clamped cell when a position lies beyond
	// the outermost layer.
	ErrOutside = errors.New("position outside grid")
)

// Layer is one radial band of the grid with uniform ring and wedge
// resolution. Every chunk of a layer has RowHeight x ColWidth cells.
type Layer struct {
	Index       int
	StartRing   int
	Rings       int
	Wedges      int
	StartRadius float64
	EndRadius   float64

	ChunkRows int
	ChunkCols int
	RowHeight int
	ColWidth  int
}

// Geometry is the immutable layer and chunk partition table of a body.
type Geometry struct {
	cfg    Config
	layers []Layer
	chunks []ChunkID
}

// Build lays out every layer and its chunk partition.
func Build(cfg Config) (*Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Geometry{cfg: cfg, layers: make([]Layer, cfg.NumLayers)}
	startRing := 0
	for i := range g.layers {
		l := Layer{Index: i, StartRing: startRing}
		if i == 0 {
			l.Rings = 1
			l.Wedges = cfg.FirstNumRadialLines
			l.ChunkCols = cfg.FirstNumRadialChunks
			if l.Wedges > l.ChunkCols*cfg.MaxRadialLinesPerChunk {
				return nil, fmt.Errorf("%w: layer 0 chunks hold %d radial lines, cap is %d",
					ErrConfig, l.Wedges/l.ChunkCols, cfg.MaxRadialLinesPerChunk)
			}
		} else {
			prev := g.layers[i-1]
			l.Wedges = prev.Wedges * 2
			l.Rings = prev.Rings * 2
			if i == 1 {
				l.Rings = cfg.SecondNumConcentricCircles
			}
			l.ChunkCols = prev.ChunkCols
			if l.Wedges > l.ChunkCols*cfg.MaxRadialLinesPerChunk {
				l.ChunkCols *= 2
			}
		}
		l.ChunkRows = 1
		for l.Rings > l.ChunkRows*cfg.MaxConcentricCirclesPerChunk {
			l.ChunkRows *= 2
		}
		if l.Rings%l.ChunkRows != 0 {
			return nil, fmt.Errorf("%w: layer %d has %d rings which do not split into %d chunk rows",
				ErrConfig, i, l.Rings, l.ChunkRows)
		}
		l.RowHeight = l.Rings / l.ChunkRows
		l.ColWidth = l.Wedges / l.ChunkCols
		if cells := l.RowHeight * l.ColWidth; cells > cfg.MaxCells {
			return nil, fmt.Errorf("%w: layer %d chunks hold %d cells, max_cells is %d",
				ErrConfig, i, cells, cfg.MaxCells)
		}
		l.StartRadius = float64(startRing) * cfg.CellRadius
		l.EndRadius = float64(startRing+l.Rings) * cfg.CellRadius
		startRing += l.Rings
		g.layers[i] = l

		for row := 0; row < l.ChunkRows; row++ {
			for col := 0; col < l.ChunkCols; col++ {
				g.chunks = append(g.chunks, ChunkID{Layer: i, Row: row, Col: col})
			}
		}
	}
	return g, nil
}

// Config returns the configuration the geometry was built from.
func (g *Geometry) Config() Config { return g.cfg }

// CellRadius is the world-space thickness of one ring.
func (g *Geometry) CellRadius() float64 { return g.cfg.CellRadius }

// NumLayers returns the layer count.
func (g *Geometry) NumLayers() int { return len(g.layers) }

// Layer returns layer i.
func (g *Geometry) Layer(i int) Layer { return g.layers[i] }

// Radius is the outer radius of the outermost layer.
func (g *Geometry) Radius() float64 { return g.layers[len(g.layers)-1].EndRadius }

// Chunks lists every chunk ordered by layer, row and column. The slice is
// shared and must not be modified.
func (g *Geometry) Chunks() []ChunkID { return g.chunks }

// TotalCells counts the cells of every layer.
func (g *Geometry) TotalCells() int {
	total := 0
	for _, l := range g.layers {
		total += l.Rings * l.Wedges
	}
	return total
}

// HasChunk reports whether id names a chunk of this geometry.
func (g *Geometry) HasChunk(id ChunkID) bool {
	if id.Layer < 0 || id.Layer >= len(g.layers) {
		return false
	}
	l := g.layers[id.Layer]
	return id.Row >= 0 && id.Row < l.ChunkRows && id.Col >= 0 && id.Col < l.ChunkCols
}

// ValidCell reports whether c lies inside a layer.
func (g *Geometry) ValidCell(c IJK) bool {
	if c.I < 0 || c.I >= len(g.layers) {
		return false
	}
	l := g.layers[c.I]
	return c.J >= 0 && c.J < l.Rings && c.K >= 0 && c.K < l.Wedges
}

// WedgeAt maps an angle in radians to a wedge of the given layer. Any angle
// is accepted; it is wrapped into [0, 2π) first.
func (g *Geometry) WedgeAt(layer int, theta float64) int {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	wedges := g.layers[layer].Wedges
	k := int(theta / (2 * math.Pi / float64(wedges)))
	if k >= wedges {
		k = wedges - 1
	}
	return k
}

// WorldToCell maps a position relative to the body centre to a cell. Beyond
// the outermost layer it returns the cell clamped to the last ring, in the
// wedge of the position's angle, together with ErrOutside.
func (g *Geometry) WorldToCell(x, y float64) (IJK, error) {
	r := math.Hypot(x, y)
	theta := math.Atan2(y, x)

	layer := -1
	for i, l := range g.layers {
		if r < l.EndRadius {
			layer = i
			break
		}
	}
	if layer < 0 {
		last := len(g.layers) - 1
		return IJK{I: last, J: g.layers[last].Rings - 1, K: g.WedgeAt(last, theta)}, ErrOutside
	}

	l := g.layers[layer]
	j := int(math.Floor((r - l.StartRadius) / g.cfg.CellRadius))
	if j < 0 {
		j = 0
	}
	if j >= l.Rings {
		j = l.Rings - 1
	}
	return IJK{I: layer, J: j, K: g.WedgeAt(layer, theta)}, nil
}

// CellToChunk returns the chunk owning c and the cell's index inside it.
// It panics when c lies outside every layer; validate with WorldToCell or
// ValidCell first.
func (g *Geometry) CellToChunk(c IJK) (ChunkID, JK) {
	if !g.ValidCell(c) {
		panic(fmt.Sprintf("geometry: cell %v outside grid", c))
	}
	l := g.layers[c.I]
	return ChunkID{Layer: c.I, Row: c.J / l.RowHeight, Col: c.K / l.ColWidth},
		JK{J: c.J % l.RowHeight, K: c.K % l.ColWidth}
}

// ChunkCellToIJK is the inverse of CellToChunk.
func (g *Geometry) ChunkCellToIJK(id ChunkID, local JK) IJK {
	l := g.layers[id.Layer]
	return IJK{I: id.Layer, J: id.Row*l.RowHeight + local.J, K: id.Col*l.ColWidth + local.K}
}

// Below returns the cell one ring closer to the centre. Crossing into the
// previous layer maps wedge k onto the coarser wedge covering it. There is
// nothing below the core ring.
func (g *Geometry) Below(c IJK) (IJK, bool) {
	if c.J > 0 {
		return IJK{I: c.I, J: c.J - 1, K: c.K}, true
	}
	if c.I == 0 {
		return IJK{}, false
	}
	prev := g.layers[c.I-1]
	return IJK{I: c.I - 1, J: prev.Rings - 1, K: c.K * prev.Wedges / g.layers[c.I].Wedges}, true
}

// Left returns the neighbouring cell at wedge k-1, wrapping around the body.
func (g *Geometry) Left(c IJK) IJK {
	return IJK{I: c.I, J: c.J, K: Modulo(c.K-1, g.layers[c.I].Wedges)}
}

// Right returns the neighbouring cell at wedge k+1, wrapping around the body.
func (g *Geometry) Right(c IJK) IJK {
	return IJK{I: c.I, J: c.J, K: Modulo(c.K+1, g.layers[c.I].Wedges)}
}

// Chunk returns the coordinates of chunk id. It panics on unknown chunks.
func (g *Geometry) Chunk(id ChunkID) ChunkCoords {
	if !g.HasChunk(id) {
		panic(fmt.Sprintf("geometry: unknown %v", id))
	}
	l := g.layers[id.Layer]
	return ChunkCoords{
		ID:               id,
		CellRadius:       g.cfg.CellRadius,
		LayerWedges:      l.Wedges,
		LayerStartRing:   l.StartRing,
		StartRingInLayer: id.Row * l.RowHeight,
		Rings:            l.RowHeight,
		StartWedge:       id.Col * l.ColWidth,
		EndWedge:         (id.Col + 1) * l.ColWidth,
	}
}
