package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCoordsBounds(t *testing.T) {
	g := testGeometry(t)
	c := g.Chunk(ChunkID{Layer: 3, Row: 1, Col: 2})
	assert.Equal(t, 16, c.Wedges())
	assert.Equal(t, 6, c.Rings)
	assert.Equal(t, 96, c.Cells())
	assert.Equal(t, 16.0, c.StartRadius())
	assert.Equal(t, 22.0, c.EndRadius())
	assert.InDelta(t, 4*math.Pi/3, c.StartTheta(), 1e-12)
	assert.InDelta(t, 2*math.Pi, c.EndTheta(), 1e-12)
	assert.True(t, c.Contains(IJK{3, 6, 32}))
	assert.False(t, c.Contains(IJK{3, 5, 32}))
	assert.False(t, c.Contains(IJK{3, 6, 31}))

	assert.Panics(t, func() { g.Chunk(ChunkID{Layer: 3, Row: 2}) })
}

func TestLinesModeVertices(t *testing.T) {
	g := testGeometry(t)
	c := g.Chunk(ChunkID{Layer: 2, Row: 0, Col: 1})
	s := VertexSettings{LOD: 1, Mode: VertexLines}

	pos, err := c.Positions(s)
	require.NoError(t, err)
	uvs, err := c.UVs(s)
	require.NoError(t, err)
	idx, err := c.Indices(s)
	require.NoError(t, err)

	require.Len(t, pos, 2*9)
	require.Len(t, uvs, len(pos))
	require.Len(t, idx, 8*6)
	for _, i := range idx {
		require.Less(t, int(i), len(pos))
	}
	assert.Equal(t, mgl32.Vec2{0, 0}, uvs[0])
	assert.Equal(t, mgl32.Vec2{1, 1}, uvs[len(uvs)-1])

	// Outer ring vertices sit on the circle of radius 10.
	for _, p := range pos[9:] {
		assert.InDelta(t, 10.0, float64(p.Len()), 1e-4)
	}
}

func TestGridModeLOD(t *testing.T) {
	g := testGeometry(t)
	c := g.Chunk(ChunkID{Layer: 2, Row: 0, Col: 0})

	pos, err := c.Positions(VertexSettings{LOD: 2, Mode: VertexGrid})
	require.NoError(t, err)
	// rings 0,2,4,6 and wedges 0,2,4,6,8
	assert.Len(t, pos, 4*5)

	_, err = c.Positions(VertexSettings{LOD: 3, Mode: VertexGrid})
	assert.ErrorIs(t, err, ErrConfig)

	// 4 does not sample 6 rings evenly.
	_, err = c.Indices(VertexSettings{LOD: 4, Mode: VertexGrid})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestInnerEdgeMatchesLayerBelow(t *testing.T) {
	g := testGeometry(t)
	s := VertexSettings{LOD: 1, Mode: VertexLines}
	lower, err := g.Chunk(ChunkID{Layer: 1, Row: 0, Col: 0}).Positions(s)
	require.NoError(t, err)
	upper, err := g.Chunk(ChunkID{Layer: 2, Row: 0, Col: 0}).Positions(s)
	require.NoError(t, err)

	lowerOuter := lower[5:] // wedges 0..4 of layer 1
	upperInner := upper[:9] // wedges 0..8 of layer 2
	for k := 0; k <= 8; k += 2 {
		assert.Equal(t, lowerOuter[k/2], upperInner[k], "wedge %d", k)
	}
	for k := 1; k < 8; k += 2 {
		mid := upperInner[k-1].Add(upperInner[k+1]).Mul(0.5)
		assert.InDelta(t, mid[0], upperInner[k][0], 1e-5)
		assert.InDelta(t, mid[1], upperInner[k][1], 1e-5)
	}
}

func TestOutlineAndBoundingBox(t *testing.T) {
	g := testGeometry(t)
	c := g.Chunk(ChunkID{Layer: 1, Row: 0, Col: 0})
	outline := c.Outline()
	require.Len(t, outline, 2*5)
	assert.InDelta(t, 1.0, float64(outline[0].Len()), 1e-6)
	assert.InDelta(t, 4.0, float64(outline[len(outline)-1].Len()), 1e-6)

	lo, hi := c.BoundingBox()
	assert.InDelta(t, -2.0, float64(lo[0]), 1e-5)
	assert.InDelta(t, 0.0, float64(lo[1]), 1e-5)
	assert.InDelta(t, 4.0, float64(hi[0]), 1e-5)
	assert.InDelta(t, 4.0, float64(hi[1]), 1e-5)
}
