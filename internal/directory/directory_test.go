package directory

import (
	"bytes"
	"testing"

	"polar-sand/internal/convolution"
	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	"polar-sand/internal/mesh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() geometry.Config {
	return geometry.Config{
		CellRadius:                   1,
		NumLayers:                    6,
		FirstNumRadialLines:          6,
		SecondNumConcentricCircles:   3,
		FirstNumRadialChunks:         3,
		MaxRadialLinesPerChunk:       16,
		MaxConcentricCirclesPerChunk: 8,
		MaxCells:                     1024,
	}
}

func newDirectory(t *testing.T, seed int64) *Directory {
	t.Helper()
	g, err := geometry.Build(testConfig())
	require.NoError(t, err)
	d := New(g, Options{Workers: 4, Seed: seed})
	t.Cleanup(d.Close)
	return d
}

func TestPassesAreDisjointCover(t *testing.T) {
	d := newDirectory(t, 1)
	g := d.Geometry()

	centres := make(map[geometry.ChunkID]int)
	for i, pass := range d.Passes() {
		held := make(map[geometry.ChunkID]geometry.ChunkID)
		for _, c := range pass {
			centres[c]++
			for _, n := range convolution.Neighbors(g, c).IDs() {
				prev, dup := held[n]
				assert.False(t, dup, "pass %d: %v held by %v and %v", i, n, prev, c)
				held[n] = c
			}
		}
	}
	assert.Len(t, centres, len(g.Chunks()))
	for id, n := range centres {
		assert.Equal(t, 1, n, "%v centred %d times", id, n)
	}
}

func TestTickLeavesEveryChunkResident(t *testing.T) {
	d := newDirectory(t, 1)
	d.Set(geometry.IJK{I: 5, J: 40, K: 100}, element.Sand)
	for i := 0; i < 3; i++ {
		d.Tick()
	}
	assert.Equal(t, uint64(3), d.TickCount())
	assert.Zero(t, d.store.CheckedOut())
	assert.Equal(t, len(d.Geometry().Chunks()), d.store.Resident())
}

func TestSandFallsAcrossChunkBoundary(t *testing.T) {
	d := newDirectory(t, 1)
	// Ring 6 of layer 5 is the first ring of chunk row 1.
	start := geometry.IJK{I: 5, J: 6, K: 20}
	d.Set(start, element.Sand)

	assert.Equal(t, 1, d.Tick())
	assert.Equal(t, element.Vacuum, d.Get(start).Kind)
	got := d.Get(geometry.IJK{I: 5, J: 5, K: 20})
	assert.Equal(t, element.Sand, got.Kind)
	assert.Equal(t, uint64(1), got.LastProcessed)
}

func TestSandFallsIntoLowerLayer(t *testing.T) {
	d := newDirectory(t, 1)
	d.Set(geometry.IJK{I: 4, J: 0, K: 10}, element.Sand)
	d.Tick()
	assert.Equal(t, element.Sand, d.Get(geometry.IJK{I: 3, J: 11, K: 5}).Kind)
}

func TestSandSettlesOnCore(t *testing.T) {
	d := newDirectory(t, 1)
	g := d.Geometry()
	for k := 0; k < g.Layer(0).Wedges; k++ {
		d.Set(geometry.IJK{I: 0, J: 0, K: k}, element.Stone)
	}
	d.Set(geometry.IJK{I: 2, J: 5, K: 0}, element.Sand)
	for i := 0; i < 20; i++ {
		d.Tick()
	}
	counts := d.Counts()
	assert.Equal(t, 1, counts[element.Sand])
	assert.Equal(t, 6, counts[element.Stone])
	// Sand rests somewhere on the innermost ring of layer 1.
	found := false
	for k := 0; k < g.Layer(1).Wedges; k++ {
		if d.Get(geometry.IJK{I: 1, J: 0, K: k}).Kind == element.Sand {
			found = true
		}
	}
	assert.True(t, found)
}

func fill(d *Directory) {
	g := d.Geometry()
	kinds := []element.Kind{element.Sand, element.Water, element.Lava, element.LeftFlier}
	n := 0
	for i := 3; i < g.NumLayers(); i++ {
		l := g.Layer(i)
		for j := l.Rings / 2; j < l.Rings; j++ {
			for k := 0; k < l.Wedges; k += 3 {
				d.Set(geometry.IJK{I: i, J: j, K: k}, kinds[n%len(kinds)])
				n++
			}
		}
	}
}

func TestTicksAreDeterministic(t *testing.T) {
	a, b := newDirectory(t, 7), newDirectory(t, 7)
	fill(a)
	fill(b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Tick(), b.Tick(), "tick %d", i+1)
	}
	for _, id := range a.Geometry().Chunks() {
		assert.Equal(t, a.Chunk(id).Cells(), b.Chunk(id).Cells(), "%v", id)
	}
}

func TestTicksConserveCells(t *testing.T) {
	d := newDirectory(t, 3)
	fill(d)
	before := d.Counts()
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	after := d.Counts()
	assert.Equal(t, before[element.Sand], after[element.Sand])
	assert.Equal(t, before[element.Water], after[element.Water])
	assert.Equal(t, before[element.LeftFlier], after[element.LeftFlier])
	total := func(c [element.NumKinds]int) int {
		s := 0
		for _, n := range c {
			s += n
		}
		return s
	}
	assert.Equal(t, d.Geometry().TotalCells(), total(after))
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := newDirectory(t, 11)
	fill(d)
	hot := geometry.IJK{I: 5, J: 47, K: 0}
	d.Set(hot, element.Stone)
	d.SetHeat(hot, 1234.5)
	d.Tick()
	require.Equal(t, float32(1234.5), d.Get(hot).Heat)

	var buf bytes.Buffer
	require.NoError(t, d.Snapshot(&buf))
	saved := buf.Bytes()

	other := newDirectory(t, 11)
	require.NoError(t, other.Restore(bytes.NewReader(saved)))
	assert.Equal(t, d.TickCount(), other.TickCount())
	assert.Equal(t, d.Counts(), other.Counts())
	assert.Equal(t, float32(1234.5), other.Get(hot).Heat)
	for _, id := range d.Geometry().Chunks() {
		assert.Equal(t, d.Chunk(id).Cells(), other.Chunk(id).Cells(), "%v", id)
	}

	assert.Equal(t, d.Tick(), other.Tick())
}

func TestRestoreRejectsOtherConfig(t *testing.T) {
	d := newDirectory(t, 1)
	var buf bytes.Buffer
	require.NoError(t, d.Snapshot(&buf))

	cfg := testConfig()
	cfg.NumLayers = 5
	g, err := geometry.Build(cfg)
	require.NoError(t, err)
	other := New(g, Options{Workers: 1})
	defer other.Close()
	other.Set(geometry.IJK{I: 4, J: 0, K: 0}, element.Stone)

	err = other.Restore(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrSnapshot)
	assert.Equal(t, element.Stone, other.Get(geometry.IJK{I: 4, J: 0, K: 0}).Kind)
}

func TestTextureDimensions(t *testing.T) {
	d := newDirectory(t, 1)
	for _, id := range []geometry.ChunkID{{Layer: 0}, {Layer: 3, Row: 1, Col: 2}, {Layer: 5, Row: 7, Col: 11}} {
		l := d.Geometry().Layer(id.Layer)
		img := d.Texture(id)
		assert.Equal(t, l.ColWidth, img.Bounds().Dx(), "%v", id)
		assert.Equal(t, l.RowHeight, img.Bounds().Dy(), "%v", id)
	}
}

func TestMeshes(t *testing.T) {
	d := newDirectory(t, 1)
	ms, err := d.Meshes(mesh.Outline, 1)
	require.NoError(t, err)
	require.Len(t, ms, len(d.Geometry().Chunks()))
	for _, m := range ms {
		assert.NoError(t, m.Validate())
	}

	combined, err := d.CombinedMesh(mesh.Textured, 1)
	require.NoError(t, err)
	assert.NoError(t, combined.Validate())
	raw := 0
	tex, err := d.Meshes(mesh.Textured, 1)
	require.NoError(t, err)
	for _, m := range tex {
		raw += len(m.Vertices)
	}
	assert.Less(t, len(combined.Vertices), raw)

	_, err = d.Meshes(mesh.Textured, 3)
	assert.ErrorIs(t, err, geometry.ErrConfig)
}

func TestClear(t *testing.T) {
	d := newDirectory(t, 1)
	fill(d)
	d.Tick()
	d.Clear()
	assert.Zero(t, d.TickCount())
	assert.Equal(t, d.Geometry().TotalCells(), d.Counts()[element.Vacuum])
}
