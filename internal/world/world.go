// Package world wraps a directory with the state an interactive front end
// needs: scene setup, a camera, brush painting and statistics.
package world

import (
	"fmt"
	"log"
	"math"

	"polar-sand/internal/chunk"
	"polar-sand/internal/core"
	"polar-sand/internal/directory"
	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	pcore "polar-sand/pkg/core"

	"gonum.org/v1/gonum/floats"
)

// Camera maps world space to screen space. Zoom is pixels per world unit and
// world y points up.
type Camera struct {
	X, Y float64
	Zoom float64
}

// ToScreen converts a world position to pixels on a w x h screen.
func (c Camera) ToScreen(x, y float64, w, h int) (float64, float64) {
	return (x-c.X)*c.Zoom + float64(w)/2, float64(h)/2 - (y-c.Y)*c.Zoom
}

// ToWorld is the inverse of ToScreen.
func (c Camera) ToWorld(sx, sy float64, w, h int) (float64, float64) {
	return (sx-float64(w)/2)/c.Zoom + c.X, (float64(h)/2-sy)/c.Zoom + c.Y
}

// Fit centres the camera on the body and zooms so radius fits the screen.
func (c *Camera) Fit(radius float64, w, h int) {
	c.X, c.Y = 0, 0
	c.Zoom = float64(min(w, h)) / (2 * radius * 1.05)
}

// World is one simulated body.
type World struct {
	cfg    Config
	geom   *geometry.Geometry
	dir    *directory.Directory
	Camera Camera

	brushKind element.Kind
}

// New builds the geometry and directory for cfg and loads its scene.
func New(cfg Config, logger *log.Logger) (*World, error) {
	if _, ok := scenes[cfg.Scene]; !ok {
		return nil, fmt.Errorf("unknown scene %q", cfg.Scene)
	}
	g, err := geometry.Build(cfg.Geometry)
	if err != nil {
		return nil, err
	}
	if cfg.TicksPerFrame <= 0 {
		cfg.TicksPerFrame = 1
	}
	if cfg.BrushRadius <= 0 {
		cfg.BrushRadius = g.CellRadius()
	}
	w := &World{
		cfg:       cfg,
		geom:      g,
		dir:       directory.New(g, directory.Options{Workers: cfg.Workers, Seed: cfg.Seed, Logger: logger}),
		Camera:    Camera{Zoom: 1},
		brushKind: element.Sand,
	}
	w.Reset(cfg.Seed)
	return w, nil
}

// Name is the scene name.
func (w *World) Name() string { return w.cfg.Scene }

// Config returns the configuration, including HUD changes.
func (w *World) Config() Config { return w.cfg }

// Geometry returns the grid layout.
func (w *World) Geometry() *geometry.Geometry { return w.geom }

// Directory exposes the underlying chunk directory.
func (w *World) Directory() *directory.Directory { return w.dir }

// Reset clears the grid and reloads the scene with seed.
func (w *World) Reset(seed int64) {
	w.cfg.Seed = seed
	w.dir.Clear()
	scenes[w.cfg.Scene](w, pcore.NewRNG(seed))
}

// Tick advances one tick and returns how many cells moved.
func (w *World) Tick() int { return w.dir.Tick() }

// Step advances TicksPerFrame ticks.
func (w *World) Step() int {
	moved := 0
	for i := 0; i < w.cfg.TicksPerFrame; i++ {
		moved += w.dir.Tick()
	}
	return moved
}

// WorldToCell maps a world position to a cell; see geometry.WorldToCell.
func (w *World) WorldToCell(x, y float64) (geometry.IJK, error) {
	return w.geom.WorldToCell(x, y)
}

// Cell returns the cell at p.
func (w *World) Cell(p geometry.IJK) element.Cell { return w.dir.Get(p) }

// BrushKind is the element painted by PaintBrush.
func (w *World) BrushKind() element.Kind { return w.brushKind }

// SetBrushKind changes the brush element.
func (w *World) SetBrushKind(k element.Kind) {
	if k.Valid() {
		w.brushKind = k
	}
}

// PaintBrush paints the current brush at a world position.
func (w *World) PaintBrush(x, y float64) (int, error) {
	return w.Paint(x, y, w.cfg.BrushRadius, w.brushKind)
}

// Paint sets every cell whose centre lies within radius of (x, y) to kind
// and returns how many were set. When no centre is that close the cell under
// the point is painted; a point beyond the body paints nothing and returns
// geometry.ErrOutside.
func (w *World) Paint(x, y, radius float64, kind element.Kind) (int, error) {
	g := w.geom
	cr := g.CellRadius()
	d := math.Hypot(x, y)
	theta := math.Atan2(y, x)
	painted := 0
	for i := 0; i < g.NumLayers(); i++ {
		l := g.Layer(i)
		if l.EndRadius <= d-radius || l.StartRadius >= d+radius {
			continue
		}
		j0 := max(0, int(math.Floor((d-radius-l.StartRadius)/cr)))
		j1 := min(l.Rings-1, int(math.Floor((d+radius-l.StartRadius)/cr)))
		wedge := 2 * math.Pi / float64(l.Wedges)
		k0, k1 := 0, l.Wedges-1
		if d > radius {
			alpha := math.Asin(radius / d)
			k0 = int(math.Floor((theta-alpha)/wedge)) - 1
			k1 = int(math.Ceil((theta+alpha)/wedge)) + 1
			if k1-k0 >= l.Wedges {
				k0, k1 = 0, l.Wedges-1
			}
		}
		for j := j0; j <= j1; j++ {
			rc := l.StartRadius + (float64(j)+0.5)*cr
			for kk := k0; kk <= k1; kk++ {
				k := geometry.Modulo(kk, l.Wedges)
				tc := (float64(k) + 0.5) * wedge
				if math.Hypot(rc*math.Cos(tc)-x, rc*math.Sin(tc)-y) <= radius {
					w.dir.Set(geometry.IJK{I: i, J: j, K: k}, kind)
					painted++
				}
			}
		}
	}
	if painted > 0 {
		return painted, nil
	}
	p, err := g.WorldToCell(x, y)
	if err != nil {
		return 0, err
	}
	w.dir.Set(p, kind)
	return 1, nil
}

// Stats summarises the grid.
type Stats struct {
	Tick   uint64
	Counts [element.NumKinds]int
	// Mass sums the density of every cell.
	Mass float64
	// Dominant is the most common kind other than vacuum, or Vacuum when
	// the grid is empty.
	Dominant element.Kind
	// MeanHeat averages the heat of non-vacuum cells.
	MeanHeat float64
}

// Stats computes the current Stats.
func (w *World) Stats() Stats {
	s := Stats{Tick: w.dir.TickCount(), Counts: w.dir.Counts()}

	mass := make([]float64, element.NumKinds)
	counts := make([]float64, element.NumKinds)
	for _, k := range element.Kinds() {
		counts[k] = float64(s.Counts[k])
		mass[k] = counts[k] * k.Density()
	}
	s.Mass = floats.Sum(mass)
	if matter := counts[element.Vacuum+1:]; floats.Sum(matter) > 0 {
		s.Dominant = element.Kind(floats.MaxIdx(matter) + 1)
	}

	var heat []float64
	w.dir.Visit(func(c *chunk.Chunk) {
		for _, cell := range c.Cells() {
			if cell.Kind != element.Vacuum {
				heat = append(heat, float64(cell.Heat))
			}
		}
	})
	if len(heat) > 0 {
		s.MeanHeat = floats.Sum(heat) / float64(len(heat))
	}
	return s
}

// Rasterize samples the element kind at the centre of every cell of dst as
// seen through the camera. Cells off the body are left at zero (vacuum).
func (w *World) Rasterize(dst *core.ByteGrid) {
	dst.Clear()
	radius := w.geom.Radius()
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			wx, wy := w.Camera.ToWorld(float64(x)+0.5, float64(y)+0.5, dst.W, dst.H)
			if math.Hypot(wx, wy) >= radius {
				continue
			}
			p, err := w.geom.WorldToCell(wx, wy)
			if err != nil {
				continue
			}
			dst.Set(x, y, uint8(w.dir.Get(p).Kind))
		}
	}
}

// Close stops the directory's workers.
func (w *World) Close() { w.dir.Close() }
