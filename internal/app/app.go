//go:build ebiten

package app

import (
	"image/color"
	"log"
	"math"
	"time"

	"polar-sand/internal/core"
	"polar-sand/internal/geometry"
	"polar-sand/internal/mesh"
	"polar-sand/internal/render"
	"polar-sand/internal/ui"
	"polar-sand/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxCatchUp bounds the steps run in one frame after a stall.
const maxCatchUp = 4

// Game adapts a world to the ebiten.Game interface.
type Game struct {
	world   *world.World
	painter *render.MeshPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	step    *core.FixedStep

	mode  mesh.DrawMode
	lod   int
	ids   []geometry.ChunkID
	cells []mesh.Mesh
	lines *mesh.Mesh

	viewW, viewH int
	flat         bool
	paused       bool
	tickOnce     bool

	panning    bool
	panX, panY int
}

// New constructs a Game for the provided world.
func New(w *world.World, cfg *Config) (*Game, error) {
	mode, err := mesh.ParseDrawMode(cfg.DrawMode)
	if err != nil {
		return nil, err
	}
	g := &Game{
		world:   w,
		painter: render.NewMeshPainter(),
		step:    core.NewFixedStep(cfg.TPS),
		mode:    mode,
		lod:     cfg.LOD,
		ids:     w.Geometry().Chunks(),
		viewW:   cfg.Width,
		viewH:   cfg.Height,
	}
	g.hud = ui.NewHUD(w, cfg.HUDWidth)
	g.overlay = ui.NewOverlay(w, g.painter)
	if g.cells, err = w.Directory().Meshes(mesh.Textured, cfg.LOD); err != nil {
		return nil, err
	}
	w.Camera.Fit(w.Geometry().Radius(), g.viewW, g.viewH)
	return g, nil
}

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.world.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.world.Config().Seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.mode = g.mode.Next()
		g.lines = nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.flat = !g.flat
		g.painter.SetFlat(g.flat)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.world.Camera.Fit(g.world.Geometry().Radius(), g.viewW, g.viewH)
	}

	onPanel := g.hud.Update(g.viewW)
	g.overlay.Update()
	g.handleCamera()
	if !onPanel {
		g.handleBrush()
	}

	n := g.step.Due(maxCatchUp)
	if g.paused {
		n = 0
	}
	if g.tickOnce {
		n = max(n, 1)
		g.tickOnce = false
	}
	for i := 0; i < n; i++ {
		g.world.Step()
	}
	return nil
}

func (g *Game) handleCamera() {
	cam := &g.world.Camera
	if _, dy := ebiten.Wheel(); dy != 0 {
		cam.Zoom *= math.Pow(1.1, dy)
	}
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.panning = false
		return
	}
	if g.panning {
		cam.X -= float64(mx-g.panX) / cam.Zoom
		cam.Y += float64(my-g.panY) / cam.Zoom
	}
	g.panning = true
	g.panX, g.panY = mx, my
}

func (g *Game) handleBrush() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < 0 || mx >= g.viewW || my < 0 || my >= g.viewH {
		return
	}
	x, y := g.world.Camera.ToWorld(float64(mx), float64(my), g.viewW, g.viewH)
	// Strokes that leave the body simply paint nothing.
	_, _ = g.world.PaintBrush(x, y)
}

func (g *Game) project(v mgl32.Vec2) (float32, float32) {
	x, y := g.world.Camera.ToScreen(float64(v[0]), float64(v[1]), g.viewW, g.viewH)
	return float32(x), float32(y)
}

// Draw renders the current world state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	dir := g.world.Directory()
	for i, id := range g.ids {
		g.painter.Upload(dir.Chunk(id))
		g.painter.DrawTextured(screen, id, g.cells[i], g.project)
	}
	if g.mode != mesh.Textured {
		if g.lines == nil {
			m, err := dir.CombinedMesh(g.mode, g.lod)
			if err != nil {
				log.Printf("draw mode %s: %v", g.mode, err)
				m = mesh.Mesh{Primitive: mesh.Lines}
			}
			g.lines = &m
		}
		g.painter.DrawLines(screen, *g.lines, g.project, 1)
	}
	g.overlay.Draw(screen, g.project, g.viewW, g.viewH)
	g.hud.Draw(screen, g.viewW)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewW + g.hud.Width(), g.viewH
}
