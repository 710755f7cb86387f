package chunk

import (
	"testing"

	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	"polar-sand/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry(t *testing.T) *geometry.Geometry {
	t.Helper()
	g, err := geometry.Build(geometry.Config{
		CellRadius:                   1,
		NumLayers:                    4,
		FirstNumRadialLines:          6,
		SecondNumConcentricCircles:   3,
		FirstNumRadialChunks:         3,
		MaxRadialLinesPerChunk:       16,
		MaxConcentricCirclesPerChunk: 8,
		MaxCells:                     1024,
	})
	require.NoError(t, err)
	return g
}

// selfView confines a chunk to its own cells.
type selfView struct {
	g *geometry.Geometry
	c *Chunk
}

func (v selfView) Get(p geometry.IJK) (element.Cell, bool) {
	jk, ok := v.c.Local(p)
	if !ok {
		return element.Cell{}, false
	}
	return v.c.Get(jk), true
}

func (v selfView) Set(p geometry.IJK, cell element.Cell) bool {
	jk, ok := v.c.Local(p)
	if !ok {
		return false
	}
	v.c.Set(jk, cell)
	return true
}

func (v selfView) Below(p geometry.IJK) (geometry.IJK, bool) { return v.g.Below(p) }
func (v selfView) Left(p geometry.IJK) geometry.IJK          { return v.g.Left(p) }
func (v selfView) Right(p geometry.IJK) geometry.IJK         { return v.g.Right(p) }

func TestGetSetAndBounds(t *testing.T) {
	g := testGeometry(t)
	c := New(g.Chunk(geometry.ChunkID{Layer: 2, Row: 0, Col: 1}))
	assert.Equal(t, 6, c.Rows)
	assert.Equal(t, 8, c.Cols)
	assert.Equal(t, element.Vacuum, c.Get(geometry.JK{J: 5, K: 7}).Kind)

	c.Set(geometry.JK{J: 2, K: 3}, element.New(element.Sand))
	assert.Equal(t, element.Sand, c.Get(geometry.JK{J: 2, K: 3}).Kind)
	assert.Equal(t, 1, c.Counts()[element.Sand])

	assert.Equal(t, geometry.IJK{I: 2, J: 2, K: 11}, c.Global(geometry.JK{J: 2, K: 3}))
	jk, ok := c.Local(geometry.IJK{I: 2, J: 2, K: 11})
	require.True(t, ok)
	assert.Equal(t, geometry.JK{J: 2, K: 3}, jk)
	_, ok = c.Local(geometry.IJK{I: 2, J: 2, K: 16})
	assert.False(t, ok)

	assert.Panics(t, func() { c.Get(geometry.JK{J: 6}) })
	assert.Panics(t, func() { c.Set(geometry.JK{K: -1}, element.Cell{}) })
}

func TestStoreCheckout(t *testing.T) {
	g := testGeometry(t)
	s := NewStore(g)
	require.Equal(t, len(g.Chunks()), s.Resident())

	id := geometry.ChunkID{Layer: 1, Row: 0, Col: 2}
	c := s.Take(id)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, 1, s.CheckedOut())

	_, ok := s.TryTake(id)
	assert.False(t, ok)
	assert.Panics(t, func() { s.Take(id) })
	assert.Panics(t, func() { s.Peek(id) })

	s.Put(c)
	assert.Equal(t, 0, s.CheckedOut())
	assert.Panics(t, func() { s.Put(c) })
	assert.Same(t, c, s.Peek(id))

	assert.Panics(t, func() { s.Take(geometry.ChunkID{Layer: 9}) })
}

func TestLocalStepSandSettles(t *testing.T) {
	g := testGeometry(t)
	c := New(g.Chunk(geometry.ChunkID{Layer: 2, Row: 0, Col: 0}))
	c.Set(geometry.JK{J: 5, K: 4}, element.New(element.Sand))
	v := selfView{g: g, c: c}
	rng := core.NewRNG(1)

	for tick := uint64(1); tick <= 5; tick++ {
		assert.Equal(t, 1, c.LocalStep(v, tick, rng), "tick %d", tick)
	}
	assert.Equal(t, element.Sand, c.Get(geometry.JK{J: 0, K: 4}).Kind)
	// The floor of this chunk borders layer 1, which the view cannot reach.
	assert.Equal(t, 0, c.LocalStep(v, 6, rng))
}

func TestLocalStepMovesOncePerTick(t *testing.T) {
	g := testGeometry(t)
	c := New(g.Chunk(geometry.ChunkID{Layer: 2, Row: 0, Col: 0}))
	// Falling inward visits rings already scanned; a flier moving right would
	// be revisited without the tick stamp.
	c.Set(geometry.JK{J: 3, K: 0}, element.New(element.RightFlier))
	v := selfView{g: g, c: c}

	c.LocalStep(v, 1, core.NewRNG(1))
	assert.Equal(t, element.RightFlier, c.Get(geometry.JK{J: 3, K: 1}).Kind)
	assert.Equal(t, element.Vacuum, c.Get(geometry.JK{J: 3, K: 2}).Kind)
}

func TestLocalStepIsDeterministic(t *testing.T) {
	g := testGeometry(t)
	run := func() []element.Cell {
		c := New(g.Chunk(geometry.ChunkID{Layer: 3, Row: 0, Col: 1}))
		seed := core.NewRNG(99)
		for i := range c.Cells() {
			if seed.IntN(3) == 0 {
				c.Cells()[i] = element.New(element.Kind(1 + seed.IntN(3)))
			}
		}
		v := selfView{g: g, c: c}
		rng := core.NewRNG(5)
		for tick := uint64(1); tick <= 10; tick++ {
			c.LocalStep(v, tick, rng)
		}
		return append([]element.Cell(nil), c.Cells()...)
	}
	assert.Equal(t, run(), run())
}
