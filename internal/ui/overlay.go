//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"log"

	"polar-sand/internal/mesh"
	"polar-sand/internal/render"
	"polar-sand/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws optional debugging visuals on top of the world view.
type Overlay struct {
	w       *world.World
	painter *render.MeshPainter

	showChunks bool
	showWire   bool
	showInfo   bool

	// Line meshes depend only on the geometry and are built once.
	chunks *mesh.Mesh
	wire   *mesh.Mesh

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(w *world.World, painter *render.MeshPainter) *Overlay {
	o := &Overlay{w: w, painter: painter, showInfo: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the layers: 1 chunk borders, 2 cell wireframe, 3 text.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showChunks = !o.showChunks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWire = !o.showWire
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showInfo = !o.showInfo
	}
}

// Draw renders the enabled layers onto a view of viewW x viewH pixels.
func (o *Overlay) Draw(screen *ebiten.Image, project render.Project, viewW, viewH int) {
	if o.showWire {
		if m := o.lineMesh(&o.wire, mesh.TriangleWireframe); m != nil {
			o.painter.DrawLines(screen, *m, project, 1)
		}
	}
	if o.showChunks {
		if m := o.lineMesh(&o.chunks, mesh.Outline); m != nil {
			o.painter.DrawLines(screen, *m, project, 1.5)
		}
	}
	if o.showInfo {
		o.drawInfo(screen, viewW, viewH)
	}
}

func (o *Overlay) lineMesh(cache **mesh.Mesh, mode mesh.DrawMode) *mesh.Mesh {
	if *cache != nil {
		return *cache
	}
	m, err := o.w.Directory().CombinedMesh(mode, 1)
	if err != nil {
		log.Printf("overlay %s mesh: %v", mode, err)
		m = mesh.Mesh{Primitive: mesh.Lines}
	}
	*cache = &m
	return *cache
}

func (o *Overlay) drawInfo(screen *ebiten.Image, viewW, viewH int) {
	s := o.w.Stats()
	lines := []string{
		fmt.Sprintf("tick %d  mass %.0f  mean heat %.0fK", s.Tick, s.Mass, s.MeanHeat),
		fmt.Sprintf("brush %s r=%.1f", o.w.BrushKind(), o.w.Config().BrushRadius),
	}
	mx, my := ebiten.CursorPosition()
	if mx >= 0 && mx < viewW && my >= 0 && my < viewH {
		x, y := o.w.Camera.ToWorld(float64(mx), float64(my), viewW, viewH)
		if p, err := o.w.WorldToCell(x, y); err == nil {
			c := o.w.Cell(p)
			id, _ := o.w.Geometry().CellToChunk(p)
			lines = append(lines, fmt.Sprintf("%s %s %s %.0fK", p, id, c.Kind, c.Heat))
		}
	}

	face := basicfont.Face7x13
	const pad, step = 6, 15
	o.drawBox(screen, 0, 0, float64(viewW), float64(pad+step*len(lines)), color.RGBA{A: 140})
	for i, l := range lines {
		text.Draw(screen, l, face, pad, pad+headerBaseline/2+4+i*step, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
}

func (o *Overlay) drawBox(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	if o.pixel == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
