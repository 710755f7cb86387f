package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexMode selects which rings get vertices.
type VertexMode int

const (
	// VertexLines emits only the inner and outer ring of a chunk. Each quad
	// then spans the chunk radially, which is all a texture needs.
	VertexLines VertexMode = iota
	// VertexGrid emits every LOD-th ring so individual cells are visible.
	VertexGrid
)

// VertexSettings controls vertex generation. LOD is the number of cells
// skipped between vertices and must be a power of two.
type VertexSettings struct {
	LOD  int
	Mode VertexMode
}

// Validate rejects level-of-detail values that are not powers of two.
func (s VertexSettings) Validate() error {
	if !IsPow2(s.LOD) {
		return fmt.Errorf("%w: lod must be a power of two, got %d", ErrConfig, s.LOD)
	}
	return nil
}

// ChunkCoords locates one chunk of a layer in ring and wedge space and
// produces its vertex data.
type ChunkCoords struct {
	ID          ChunkID
	CellRadius  float64
	LayerWedges int

	// LayerStartRing is the absolute ring index where the layer begins.
	LayerStartRing   int
	StartRingInLayer int
	Rings            int
	StartWedge       int
	EndWedge         int
}

// Wedges is the number of wedge columns in the chunk.
func (c ChunkCoords) Wedges() int { return c.EndWedge - c.StartWedge }

// Cells is the number of cells in the chunk.
func (c ChunkCoords) Cells() int { return c.Rings * c.Wedges() }

// StartRadius is the radius of the chunk's inner edge.
func (c ChunkCoords) StartRadius() float64 {
	return float64(c.LayerStartRing+c.StartRingInLayer) * c.CellRadius
}

// EndRadius is the radius of the chunk's outer edge.
func (c ChunkCoords) EndRadius() float64 {
	return c.StartRadius() + float64(c.Rings)*c.CellRadius
}

// StartTheta is the angle of the chunk's first radial line.
func (c ChunkCoords) StartTheta() float64 {
	return float64(c.StartWedge) * c.wedgeAngle()
}

// EndTheta is the angle of the chunk's last radial line.
func (c ChunkCoords) EndTheta() float64 {
	return float64(c.EndWedge) * c.wedgeAngle()
}

// Contains reports whether the global cell lies in the chunk.
func (c ChunkCoords) Contains(v IJK) bool {
	return v.I == c.ID.Layer &&
		v.J >= c.StartRingInLayer && v.J < c.StartRingInLayer+c.Rings &&
		v.K >= c.StartWedge && v.K < c.EndWedge
}

func (c ChunkCoords) wedgeAngle() float64 {
	return 2 * math.Pi / float64(c.LayerWedges)
}

// point returns the world position where ring j (layer relative) meets
// radial line k. On the inner edge of an outer layer the odd lines sit on the
// chord between their even neighbours, which are exactly the lines of the
// coarser layer below, so both sides of the seam share one straight edge.
func (c ChunkCoords) point(j, k int) mgl32.Vec2 {
	r := float64(c.LayerStartRing+j) * c.CellRadius
	at := func(k int) (float64, float64) {
		theta := float64(k) * c.wedgeAngle()
		return r * math.Cos(theta), r * math.Sin(theta)
	}
	if j == 0 && c.ID.Layer > 0 && k%2 == 1 {
		x0, y0 := at(k - 1)
		x1, y1 := at(k + 1)
		return mgl32.Vec2{float32((x0 + x1) / 2), float32((y0 + y1) / 2)}
	}
	x, y := at(k)
	return mgl32.Vec2{float32(x), float32(y)}
}

func (c ChunkCoords) ringRange(s VertexSettings) []int {
	start := c.StartRingInLayer
	if s.Mode == VertexLines {
		return []int{start, start + c.Rings}
	}
	return GridIter(start, start+c.Rings+1, s.LOD)
}

func (c ChunkCoords) wedgeRange(s VertexSettings) []int {
	return GridIter(c.StartWedge, c.EndWedge+1, s.LOD)
}

// checkSettings rejects a LOD that does not sample the chunk evenly.
func (c ChunkCoords) checkSettings(s VertexSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !ValidStep(c.Wedges()+1, s.LOD) {
		return fmt.Errorf("%w: lod %d does not divide the %d wedges of %v", ErrConfig, s.LOD, c.Wedges(), c.ID)
	}
	if s.Mode == VertexGrid && !ValidStep(c.Rings+1, s.LOD) {
		return fmt.Errorf("%w: lod %d does not divide the %d rings of %v", ErrConfig, s.LOD, c.Rings, c.ID)
	}
	return nil
}

// Positions returns vertex positions ring-major, wedge ascending.
func (c ChunkCoords) Positions(s VertexSettings) ([]mgl32.Vec2, error) {
	if err := c.checkSettings(s); err != nil {
		return nil, err
	}
	rings := c.ringRange(s)
	wedges := c.wedgeRange(s)
	out := make([]mgl32.Vec2, 0, len(rings)*len(wedges))
	for _, j := range rings {
		for _, k := range wedges {
			out = append(out, c.point(j, k))
		}
	}
	return out, nil
}

// UVs returns texture coordinates matching Positions: u runs along the
// wedges, v along the rings.
func (c ChunkCoords) UVs(s VertexSettings) ([]mgl32.Vec2, error) {
	if err := c.checkSettings(s); err != nil {
		return nil, err
	}
	rings := c.ringRange(s)
	wedges := c.wedgeRange(s)
	out := make([]mgl32.Vec2, 0, len(rings)*len(wedges))
	for _, j := range rings {
		v := float32(j-c.StartRingInLayer) / float32(c.Rings)
		for _, k := range wedges {
			u := float32(k-c.StartWedge) / float32(c.Wedges())
			out = append(out, mgl32.Vec2{u, v})
		}
	}
	return out, nil
}

// Indices returns two triangles per grid quad over the Positions layout.
func (c ChunkCoords) Indices(s VertexSettings) ([]uint32, error) {
	if err := c.checkSettings(s); err != nil {
		return nil, err
	}
	jCount := len(c.ringRange(s))
	kCount := len(c.wedgeRange(s))
	out := make([]uint32, 0, (jCount-1)*(kCount-1)*6)
	for j := 0; j < jCount-1; j++ {
		for k := 0; k < kCount-1; k++ {
			v0 := uint32(j*kCount + k)
			v1 := v0 + 1
			v2 := v0 + uint32(kCount) + 1
			v3 := v0 + uint32(kCount)
			out = append(out, v0, v3, v1, v1, v3, v2)
		}
	}
	return out, nil
}

// Outline walks the inner edge forwards and the outer edge backwards, giving
// a closed loop around the chunk.
func (c ChunkCoords) Outline() []mgl32.Vec2 {
	inner := c.StartRingInLayer
	outer := inner + c.Rings
	out := make([]mgl32.Vec2, 0, 2*(c.Wedges()+1))
	for k := c.StartWedge; k <= c.EndWedge; k++ {
		out = append(out, c.point(inner, k))
	}
	for k := c.EndWedge; k >= c.StartWedge; k-- {
		out = append(out, c.point(outer, k))
	}
	return out
}

// BoundingBox returns the min and max corners of the outline.
func (c ChunkCoords) BoundingBox() (mgl32.Vec2, mgl32.Vec2) {
	pts := c.Outline()
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = mgl32.Vec2{min(lo[0], p[0]), min(lo[1], p[1])}
		hi = mgl32.Vec2{max(hi[0], p[0]), max(hi[1], p[1])}
	}
	return lo, hi
}
