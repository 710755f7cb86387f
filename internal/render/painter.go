//go:build ebiten

package render

import (
	"image/color"

	"polar-sand/internal/chunk"
	"polar-sand/internal/geometry"
	"polar-sand/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Project maps a world position to screen pixels.
type Project func(mgl32.Vec2) (x, y float32)

type chunkImage struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// MeshPainter keeps one texture per chunk and draws chunk meshes with it.
type MeshPainter struct {
	images  map[geometry.ChunkID]*chunkImage
	palette []color.RGBA
	verts   []ebiten.Vertex
	idx     []uint16
}

// NewMeshPainter allocates an empty painter; textures are created on first
// upload.
func NewMeshPainter() *MeshPainter {
	return &MeshPainter{images: make(map[geometry.ChunkID]*chunkImage)}
}

// SetFlat switches between per-cell colours (heat glow) and flat kind colours.
func (p *MeshPainter) SetFlat(flat bool) {
	if flat {
		p.palette = Palette()
		return
	}
	p.palette = nil
}

// Upload refreshes the texture of c.
func (p *MeshPainter) Upload(c *chunk.Chunk) {
	ci, ok := p.images[c.ID]
	if !ok || ci.w != c.Cols || ci.h != c.Rows {
		ci = &chunkImage{w: c.Cols, h: c.Rows, buf: make([]byte, 4*c.Cols*c.Rows)}
		ci.img = ebiten.NewImage(c.Cols, c.Rows)
		p.images[c.ID] = ci
	}
	if p.palette == nil {
		fillCellsRGBA(ci.buf, c.Cells())
	} else {
		fillPaletteRGBA(ci.buf, c.Cells(), p.palette)
	}
	ci.img.WritePixels(ci.buf)
}

// DrawTextured draws a triangle mesh of chunk id with its uploaded texture.
// Meshes without a texture or with indices beyond uint16 are skipped.
func (p *MeshPainter) DrawTextured(dst *ebiten.Image, id geometry.ChunkID, m mesh.Mesh, project Project) {
	ci, ok := p.images[id]
	if !ok || m.Primitive != mesh.Triangles || len(m.Vertices) > 1<<16 {
		return
	}
	p.verts = p.verts[:0]
	for _, v := range m.Vertices {
		x, y := project(v.Position)
		p.verts = append(p.verts, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: v.UV[0] * float32(ci.w), SrcY: v.UV[1] * float32(ci.h),
			ColorR: v.Color[0], ColorG: v.Color[1], ColorB: v.Color[2], ColorA: v.Color[3],
		})
	}
	p.idx = p.idx[:0]
	for _, i := range m.Indices {
		p.idx = append(p.idx, uint16(i))
	}
	dst.DrawTriangles(p.verts, p.idx, ci.img, &ebiten.DrawTrianglesOptions{})
}

// DrawLines strokes every segment of a line mesh in its vertex colour.
func (p *MeshPainter) DrawLines(dst *ebiten.Image, m mesh.Mesh, project Project, width float32) {
	if m.Primitive != mesh.Lines {
		return
	}
	for i := 0; i+1 < len(m.Indices); i += 2 {
		a, b := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]]
		x0, y0 := project(a.Position)
		x1, y1 := project(b.Position)
		c := a.Color
		vector.StrokeLine(dst, x0, y0, x1, y1, width, color.RGBA{
			R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: uint8(c[3] * 255),
		}, true)
	}
}

// Forget drops every texture, e.g. after the geometry changes.
func (p *MeshPainter) Forget() {
	for id, ci := range p.images {
		ci.img.Dispose()
		delete(p.images, id)
	}
}
