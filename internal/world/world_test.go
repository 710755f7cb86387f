package world

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"polar-sand/internal/core"
	"polar-sand/internal/element"
	"polar-sand/internal/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(scene string) Config {
	c := DefaultConfig()
	c.Geometry = geometry.Config{
		CellRadius:                   1,
		NumLayers:                    6,
		FirstNumRadialLines:          6,
		SecondNumConcentricCircles:   3,
		FirstNumRadialChunks:         3,
		MaxRadialLinesPerChunk:       16,
		MaxConcentricCirclesPerChunk: 8,
		MaxCells:                     1024,
	}
	c.Workers = 2
	c.Scene = scene
	return c
}

func newWorld(t *testing.T, scene string) *World {
	t.Helper()
	w, err := New(testConfig(scene), nil)
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(testConfig("nope"), nil)
	assert.Error(t, err)

	c := testConfig("empty")
	c.Geometry.FirstNumRadialChunks = 4
	_, err = New(c, nil)
	assert.ErrorIs(t, err, geometry.ErrConfig)
}

func TestScenes(t *testing.T) {
	assert.Equal(t, []string{"empty", "planet", "rain"}, Scenes())

	empty := newWorld(t, "empty")
	assert.Equal(t, empty.Geometry().TotalCells(), empty.Stats().Counts[element.Vacuum])

	planet := newWorld(t, "planet")
	s := planet.Stats()
	assert.Positive(t, s.Counts[element.Stone])
	assert.Positive(t, s.Counts[element.Sand])
	assert.Positive(t, s.Counts[element.Water])
	assert.Equal(t, element.Stone, planet.Cell(geometry.IJK{I: 0, J: 0, K: 0}).Kind)
	assert.Equal(t, element.Sand, planet.Cell(geometry.IJK{I: 2, J: 0, K: 0}).Kind)
	assert.Equal(t, element.Vacuum, planet.Cell(geometry.IJK{I: 5, J: 47, K: 0}).Kind)

	rain := newWorld(t, "rain")
	assert.Greater(t, rain.Stats().Counts[element.Water], s.Counts[element.Water])
}

func TestResetIsReproducible(t *testing.T) {
	w := newWorld(t, "rain")
	before := w.Stats()
	w.Step()
	w.Reset(w.Config().Seed)
	after := w.Stats()
	assert.Equal(t, before.Counts, after.Counts)
	assert.Zero(t, after.Tick)
}

func TestPaint(t *testing.T) {
	w := newWorld(t, "empty")

	n, err := w.Paint(30, 0, 2, element.Water)
	require.NoError(t, err)
	assert.Greater(t, n, 4)
	assert.Equal(t, n, w.Stats().Counts[element.Water])
	p, err := w.WorldToCell(30, 0)
	require.NoError(t, err)
	assert.Equal(t, element.Water, w.Cell(p).Kind)

	// A radius too small to reach any centre still paints the cell under it.
	n, err = w.Paint(-30.2, 0.1, 0.01, element.Stone)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = w.Paint(500, 0, 0.01, element.Sand)
	assert.ErrorIs(t, err, geometry.ErrOutside)
}

func TestPaintWrapsAroundAngleZero(t *testing.T) {
	w := newWorld(t, "empty")
	n, err := w.Paint(80, -0.1, 3, element.Sand)
	require.NoError(t, err)
	l := w.Geometry().Layer(5)
	first, last := 0, 0
	for j := 0; j < l.Rings; j++ {
		if w.Cell(geometry.IJK{I: 5, J: j, K: 0}).Kind == element.Sand {
			first++
		}
		if w.Cell(geometry.IJK{I: 5, J: j, K: l.Wedges - 1}).Kind == element.Sand {
			last++
		}
	}
	assert.Positive(t, first)
	assert.Positive(t, last)
	assert.Equal(t, n, w.Stats().Counts[element.Sand])
}

func TestPaintedSandFalls(t *testing.T) {
	w := newWorld(t, "planet")
	w.SetBrushKind(element.Sand)
	_, err := w.PaintBrush(0, 90)
	require.NoError(t, err)
	before := w.Stats()
	w.cfg.TicksPerFrame = 4
	assert.Positive(t, w.Step())
	after := w.Stats()
	assert.Equal(t, uint64(4), after.Tick)
	assert.Equal(t, before.Counts[element.Sand], after.Counts[element.Sand])
	assert.InDelta(t, before.Mass, after.Mass, 1e-9)
}

func TestStats(t *testing.T) {
	w := newWorld(t, "empty")
	s := w.Stats()
	assert.Equal(t, element.Vacuum, s.Dominant)
	assert.Zero(t, s.Mass)

	w.Paint(20, 0, 1.5, element.Water)
	w.Paint(-20, 0, 0.5, element.Lava)
	s = w.Stats()
	assert.Equal(t, element.Water, s.Dominant)
	water, lava := s.Counts[element.Water], s.Counts[element.Lava]
	assert.InDelta(t, float64(water)*1+float64(lava)*3.1, s.Mass, 1e-9)
	want := (float64(water)*element.RoomTemperature + float64(lava)*1500) / float64(water+lava)
	assert.InDelta(t, want, s.MeanHeat, 1e-3)
}

func TestCamera(t *testing.T) {
	c := Camera{X: 5, Y: -2, Zoom: 4}
	sx, sy := c.ToScreen(6, -1, 200, 100)
	assert.Equal(t, 104.0, sx)
	assert.Equal(t, 46.0, sy)
	x, y := c.ToWorld(sx, sy, 200, 100)
	assert.InDelta(t, 6, x, 1e-12)
	assert.InDelta(t, -1, y, 1e-12)

	c.Fit(100, 300, 210)
	assert.Zero(t, c.X)
	assert.InDelta(t, 1, c.Zoom, 1e-12)
}

func TestRasterize(t *testing.T) {
	w := newWorld(t, "planet")
	grid := core.NewByteGrid(41, 21)
	w.Camera.Fit(w.Geometry().Radius(), grid.W, grid.H)
	w.Rasterize(grid)

	assert.Equal(t, uint8(element.Stone), grid.At(20, 10), "centre is the core")
	assert.Equal(t, uint8(element.Vacuum), grid.At(0, 0), "corner is off the body")
}

func TestHUDParameters(t *testing.T) {
	w := newWorld(t, "empty")
	snap := w.Parameters()
	p, ok := snap.Lookup("brush_kind")
	require.True(t, ok)
	assert.Equal(t, "sand", p.Value)

	controls := w.ParameterControls()
	require.NotEmpty(t, controls)
	assert.Equal(t, core.ParamTypeChoice, controls[0].Type)
	assert.Len(t, controls[0].Options, element.NumKinds)

	assert.True(t, w.SetIntParameter("brush_kind", int(element.Lava)))
	assert.Equal(t, element.Lava, w.BrushKind())
	assert.False(t, w.SetIntParameter("brush_kind", element.NumKinds))
	assert.False(t, w.SetIntParameter("ticks_per_frame", 0))
	assert.True(t, w.SetIntParameter("ticks_per_frame", 3))
	assert.Equal(t, 3, w.Config().TicksPerFrame)
	assert.True(t, w.SetFloatParameter("brush_radius", 1.5))
	assert.False(t, w.SetFloatParameter("seed", 1))

	p, _ = w.Parameters().Lookup("brush_radius")
	assert.Equal(t, "1.5", p.Value)
}

func TestConfigSources(t *testing.T) {
	c := FromMap(map[string]string{
		"seed":            "9",
		"scene":           "rain",
		"workers":         "-2",
		"ticks_per_frame": "3",
		"num_layers":      "5",
	})
	assert.Equal(t, int64(9), c.Seed)
	assert.Equal(t, "rain", c.Scene)
	assert.Zero(t, c.Workers)
	assert.Equal(t, 3, c.TicksPerFrame)
	assert.Equal(t, 5, c.Geometry.NumLayers)

	path := filepath.Join(t.TempDir(), "body.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
[geometry]
num-layers = 4
first-num-radial-lines = 6

[world]
scene = empty
seed = 7
ticks-per-frame = 2
brush-radius = 1.25
`), 0o644))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Geometry.NumLayers)
	assert.Equal(t, 6, c.Geometry.FirstNumRadialLines)
	assert.Equal(t, "empty", c.Scene)
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, 2, c.TicksPerFrame)
	assert.Equal(t, 1.25, c.BrushRadius)

	_, err = ParseString("[world]\nunknown = 1\n")
	assert.Error(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c = DefaultConfig()
	c.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-scene", "rain", "-layers", "3", "-brush", "2"}))
	assert.Equal(t, "rain", c.Scene)
	assert.Equal(t, 3, c.Geometry.NumLayers)
	assert.Equal(t, 2.0, c.BrushRadius)
}
