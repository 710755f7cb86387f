// Package mesh turns chunk coordinates into renderable vertex/index buffers
// and merges per-chunk meshes into one.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"polar-sand/internal/geometry"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalid marks a mesh whose indices do not fit its vertices or primitive.
var ErrInvalid = errors.New("invalid mesh")

// DefaultEpsilon welds vertices closer than a ten-thousandth of a world unit.
const DefaultEpsilon = 1e-4

var (
	White     = mgl32.Vec4{1, 1, 1, 1}
	WireColor = mgl32.Vec4{0.35, 0.9, 0.45, 1}
	EdgeColor = mgl32.Vec4{1, 0.85, 0.2, 1}
)

// Vertex is one mesh vertex in world space.
type Vertex struct {
	Position mgl32.Vec2
	UV       mgl32.Vec2
	Color    mgl32.Vec4
}

// Primitive says how indices are grouped.
type Primitive int

const (
	// Triangles groups indices in threes.
	Triangles Primitive = iota
	// Lines groups indices in pairs, one segment each.
	Lines
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

func (p Primitive) stride() int {
	if p == Lines {
		return 2
	}
	return 3
}

// Mesh is an indexed vertex buffer.
type Mesh struct {
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive
}

// DrawMode selects what ForChunk builds.
type DrawMode int

const (
	// Textured is a quad strip spanning all rings, textured with the cells.
	Textured DrawMode = iota
	// TriangleWireframe shows every triangle of the per-cell grid as lines.
	TriangleWireframe
	// Outline is the chunk boundary.
	Outline
)

var drawModeNames = []string{"textured", "wireframe", "outline"}

func (m DrawMode) String() string {
	if m < 0 || int(m) >= len(drawModeNames) {
		return fmt.Sprintf("drawmode(%d)", int(m))
	}
	return drawModeNames[m]
}

// Next cycles through the draw modes.
func (m DrawMode) Next() DrawMode { return (m + 1) % DrawMode(len(drawModeNames)) }

// ParseDrawMode accepts the names printed by String.
func ParseDrawMode(s string) (DrawMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range drawModeNames {
		if s == name {
			return DrawMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown draw mode %q", s)
}

// ForChunk builds the mesh of one chunk. LOD errors from the geometry are
// returned as is.
func ForChunk(c geometry.ChunkCoords, mode DrawMode, lod int) (Mesh, error) {
	switch mode {
	case Textured:
		return textured(c, lod)
	case TriangleWireframe:
		return wireframe(c, lod)
	case Outline:
		return outline(c), nil
	}
	return Mesh{}, fmt.Errorf("unknown draw mode %d", int(mode))
}

func textured(c geometry.ChunkCoords, lod int) (Mesh, error) {
	s := geometry.VertexSettings{LOD: lod, Mode: geometry.VertexLines}
	pos, err := c.Positions(s)
	if err != nil {
		return Mesh{}, err
	}
	uvs, err := c.UVs(s)
	if err != nil {
		return Mesh{}, err
	}
	idx, err := c.Indices(s)
	if err != nil {
		return Mesh{}, err
	}
	m := Mesh{Vertices: make([]Vertex, len(pos)), Indices: idx, Primitive: Triangles}
	for i := range pos {
		m.Vertices[i] = Vertex{Position: pos[i], UV: uvs[i], Color: White}
	}
	return m, nil
}

func wireframe(c geometry.ChunkCoords, lod int) (Mesh, error) {
	s := geometry.VertexSettings{LOD: lod, Mode: geometry.VertexGrid}
	pos, err := c.Positions(s)
	if err != nil {
		return Mesh{}, err
	}
	tri, err := c.Indices(s)
	if err != nil {
		return Mesh{}, err
	}
	m := Mesh{Vertices: make([]Vertex, len(pos)), Indices: make([]uint32, 0, len(tri)*2), Primitive: Lines}
	for i, p := range pos {
		m.Vertices[i] = Vertex{Position: p, Color: WireColor}
	}
	for i := 0; i+2 < len(tri); i += 3 {
		a, b, cc := tri[i], tri[i+1], tri[i+2]
		m.Indices = append(m.Indices, a, b, b, cc, cc, a)
	}
	return m, nil
}

func outline(c geometry.ChunkCoords) Mesh {
	pts := c.Outline()
	m := Mesh{Vertices: make([]Vertex, len(pts)), Indices: make([]uint32, 0, 2*len(pts)), Primitive: Lines}
	for i, p := range pts {
		m.Vertices[i] = Vertex{Position: p, Color: EdgeColor}
		next := (i + 1) % len(pts)
		m.Indices = append(m.Indices, uint32(i), uint32(next))
	}
	return m
}

// Combine concatenates meshes, re-basing each one's indices. Vertices are not
// merged. Mixing primitives panics.
func Combine(meshes ...Mesh) Mesh {
	if len(meshes) == 0 {
		return Mesh{}
	}
	nv, ni := 0, 0
	for _, m := range meshes {
		if m.Primitive != meshes[0].Primitive {
			panic(fmt.Sprintf("mesh: cannot combine %s with %s", meshes[0].Primitive, m.Primitive))
		}
		nv += len(m.Vertices)
		ni += len(m.Indices)
	}
	out := Mesh{
		Vertices:  make([]Vertex, 0, nv),
		Indices:   make([]uint32, 0, ni),
		Primitive: meshes[0].Primitive,
	}
	for _, m := range meshes {
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, i := range m.Indices {
			out.Indices = append(out.Indices, base+i)
		}
	}
	return out
}

// Stitch closes seams between neighbouring chunk meshes. Seam vertices
// already coincide, so it returns m unchanged; Deduplicate merges them.
func Stitch(m Mesh) Mesh { return m }

type bucket struct{ x, y int64 }

// Deduplicate welds vertices whose positions lie within eps of each other.
// The first vertex of a cluster wins, including its UV and colour, and
// indices are remapped onto it. For Lines meshes a segment that repeats an
// earlier one in either direction, or collapses to a point, is dropped.
// eps <= 0 uses DefaultEpsilon.
func Deduplicate(m Mesh, eps float32) Mesh {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	key := func(p mgl32.Vec2) bucket {
		return bucket{int64(math.Floor(float64(p[0] / eps))), int64(math.Floor(float64(p[1] / eps)))}
	}
	grid := make(map[bucket][]uint32)
	out := Mesh{Vertices: make([]Vertex, 0, len(m.Vertices)), Primitive: m.Primitive}
	remap := make([]uint32, len(m.Vertices))

	for i, v := range m.Vertices {
		b := key(v.Position)
		found := false
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, j := range grid[bucket{b.x + dx, b.y + dy}] {
					if out.Vertices[j].Position.Sub(v.Position).Len() <= eps {
						remap[i] = j
						found = true
						break search
					}
				}
			}
		}
		if found {
			continue
		}
		j := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, v)
		grid[b] = append(grid[b], j)
		remap[i] = j
	}

	if m.Primitive == Lines {
		out.Indices = weldSegments(m.Indices, remap)
		return out
	}
	out.Indices = make([]uint32, len(m.Indices))
	for i, idx := range m.Indices {
		out.Indices[i] = remap[idx]
	}
	return out
}

func weldSegments(indices, remap []uint32) []uint32 {
	type segment struct{ a, b uint32 }
	seen := make(map[segment]bool, len(indices)/2)
	out := make([]uint32, 0, len(indices))
	for i := 0; i+1 < len(indices); i += 2 {
		a, b := remap[indices[i]], remap[indices[i+1]]
		if a == b {
			continue
		}
		key := segment{min(a, b), max(a, b)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a, b)
	}
	return out
}

// Validate checks that every index addresses a vertex and that the index
// count fits the primitive.
func (m Mesh) Validate() error {
	if len(m.Indices)%m.Primitive.stride() != 0 {
		return fmt.Errorf("%w: %d indices do not form whole %s", ErrInvalid, len(m.Indices), m.Primitive)
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at %d exceeds %d vertices", ErrInvalid, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Bounds returns the min and max corners of the vertex positions. ok is false
// for an empty mesh.
func (m Mesh) Bounds() (lo, hi mgl32.Vec2, ok bool) {
	if len(m.Vertices) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		p := v.Position
		lo = mgl32.Vec2{min(lo[0], p[0]), min(lo[1], p[1])}
		hi = mgl32.Vec2{max(hi[0], p[0]), max(hi[1], p[1])}
	}
	return lo, hi, true
}

// Primitives is the number of triangles or segments.
func (m Mesh) Primitives() int { return len(m.Indices) / m.Primitive.stride() }
