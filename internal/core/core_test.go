package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestFixedStepDue(t *testing.T) {
	fs := NewFixedStep(10)
	clock, advance := fakeClock(time.Unix(100, 0))
	fs.now = clock

	assert.Equal(t, 1, fs.Due(5), "first call yields one tick")
	assert.Equal(t, 0, fs.Due(5))

	advance(250 * time.Millisecond)
	assert.Equal(t, 2, fs.Due(5))
	advance(50 * time.Millisecond)
	assert.Equal(t, 1, fs.Due(5), "leftover carries over")

	advance(2 * time.Second)
	assert.Equal(t, 3, fs.Due(3))
	assert.Equal(t, 0, fs.Due(3), "backlog beyond the cap is dropped")
}

func TestFixedStepTPS(t *testing.T) {
	fs := NewFixedStep(0)
	assert.Equal(t, 60, fs.TPS())
	fs.SetTPS(20)
	assert.Equal(t, 20, fs.TPS())

	fs = NewFixedStep(30)
	clock, advance := fakeClock(time.Unix(0, 0))
	fs.now = clock
	assert.True(t, fs.ShouldStep())
	advance(10 * time.Millisecond)
	assert.False(t, fs.ShouldStep())
	advance(30 * time.Millisecond)
	assert.True(t, fs.ShouldStep())
}

func TestByteGrid(t *testing.T) {
	g := NewByteGrid(0, 3)
	assert.Equal(t, 1, g.W)
	g.Resize(4, 2)
	require.Len(t, g.Cells(), 8)

	g.Set(3, 1, 7)
	g.Set(4, 1, 9)
	assert.Equal(t, uint8(7), g.At(3, 1))
	assert.Equal(t, uint8(0), g.At(-1, 0))
	assert.Equal(t, 7, g.Index(3, 1))

	g.Resize(4, 2)
	assert.Equal(t, uint8(0), g.At(3, 1))
}

func TestSnapshotLookup(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "Brush", Params: []Parameter{IntParam("brush_radius", "Brush radius", 3)}},
		{Name: "World", Params: []Parameter{
			Int64Param("seed", "Seed", 42),
			FloatParam("cell_radius", "Cell radius", 0.5),
			ChoiceParam("brush_kind", "Brush", "sand"),
		}},
	}}
	p, ok := s.Lookup("cell_radius")
	require.True(t, ok)
	assert.Equal(t, "0.5", p.Value)
	p, ok = s.Lookup("brush_kind")
	require.True(t, ok)
	assert.Equal(t, ParamTypeChoice, p.Type)
	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}
