// Package convolution groups a chunk with its neighbours so the chunk can be
// stepped with exclusive access to every cell its rules may touch.
package convolution

import (
	"strings"

	"polar-sand/internal/geometry"
)

// Slot names a neighbour position around the centre chunk.
type Slot int

const (
	Center Slot = iota
	Left
	Right
	BottomLeft
	Bottom
	BottomRight
	TopLeft
	Top
	Top2
	TopRight

	NumSlots
)

var slotNames = [NumSlots]string{
	"center", "left", "right",
	"bottom-left", "bottom", "bottom-right",
	"top-left", "top", "top2", "top-right",
}

func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return "slot(?)"
	}
	return slotNames[s]
}

// Topology is the set of chunks a convolution around one centre holds.
type Topology struct {
	ids     [NumSlots]geometry.ChunkID
	present [NumSlots]bool
}

// Get returns the chunk in slot s, if any.
func (t Topology) Get(s Slot) (geometry.ChunkID, bool) {
	return t.ids[s], t.present[s]
}

// Center is the chunk being stepped.
func (t Topology) Center() geometry.ChunkID { return t.ids[Center] }

// IDs lists the present chunks in slot order.
func (t Topology) IDs() []geometry.ChunkID {
	out := make([]geometry.ChunkID, 0, NumSlots)
	for s := Slot(0); s < NumSlots; s++ {
		if t.present[s] {
			out = append(out, t.ids[s])
		}
	}
	return out
}

// Len is the number of present slots.
func (t Topology) Len() int {
	n := 0
	for _, p := range t.present {
		if p {
			n++
		}
	}
	return n
}

// Contains reports whether id occupies any slot.
func (t Topology) Contains(id geometry.ChunkID) bool {
	_, ok := t.slotOf(id)
	return ok
}

func (t Topology) slotOf(id geometry.ChunkID) (Slot, bool) {
	for s := Slot(0); s < NumSlots; s++ {
		if t.present[s] && t.ids[s] == id {
			return s, true
		}
	}
	return 0, false
}

// add fills slot s unless an earlier slot already holds id.
func (t *Topology) add(s Slot, id geometry.ChunkID) {
	if t.Contains(id) {
		return
	}
	t.ids[s] = id
	t.present[s] = true
}

func (t Topology) String() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	for s := Slot(0); s < NumSlots; s++ {
		if !t.present[s] {
			continue
		}
		if !first {
			b.WriteString(" ")
		}
		first = false
		b.WriteString(s.String())
		b.WriteString(":")
		b.WriteString(t.ids[s].String())
	}
	b.WriteString("}")
	return b.String()
}

// Neighbors returns the topology around id. Columns wrap around the body;
// rows step into the neighbouring layer at layer edges, where the column
// count may halve (inward) or double (outward).
func Neighbors(g *geometry.Geometry, id geometry.ChunkID) Topology {
	if !g.HasChunk(id) {
		panic("convolution: neighbours of unknown " + id.String())
	}
	l := g.Layer(id.Layer)
	at := func(layer, row, col int) geometry.ChunkID {
		return geometry.ChunkID{Layer: layer, Row: row, Col: geometry.Modulo(col, g.Layer(layer).ChunkCols)}
	}

	var t Topology
	t.add(Center, id)
	t.add(Left, at(id.Layer, id.Row, id.Col-1))
	t.add(Right, at(id.Layer, id.Row, id.Col+1))

	switch {
	case id.Row > 0:
		t.add(BottomLeft, at(id.Layer, id.Row-1, id.Col-1))
		t.add(Bottom, at(id.Layer, id.Row-1, id.Col))
		t.add(BottomRight, at(id.Layer, id.Row-1, id.Col+1))
	case id.Layer > 0:
		prev := g.Layer(id.Layer - 1)
		row := prev.ChunkRows - 1
		if prev.ChunkCols == l.ChunkCols {
			t.add(BottomLeft, at(prev.Index, row, id.Col-1))
			t.add(Bottom, at(prev.Index, row, id.Col))
			t.add(BottomRight, at(prev.Index, row, id.Col+1))
			break
		}
		b := id.Col / 2
		if id.Col%2 == 0 {
			t.add(BottomLeft, at(prev.Index, row, b-1))
		}
		t.add(Bottom, at(prev.Index, row, b))
		if id.Col%2 == 1 {
			t.add(BottomRight, at(prev.Index, row, b+1))
		}
	}

	switch {
	case id.Row < l.ChunkRows-1:
		t.add(TopLeft, at(id.Layer, id.Row+1, id.Col-1))
		t.add(Top, at(id.Layer, id.Row+1, id.Col))
		t.add(TopRight, at(id.Layer, id.Row+1, id.Col+1))
	case id.Layer < g.NumLayers()-1:
		next := g.Layer(id.Layer + 1)
		if next.ChunkCols == l.ChunkCols {
			t.add(TopLeft, at(next.Index, 0, id.Col-1))
			t.add(Top, at(next.Index, 0, id.Col))
			t.add(TopRight, at(next.Index, 0, id.Col+1))
			break
		}
		c := 2 * id.Col
		t.add(TopLeft, at(next.Index, 0, c-1))
		t.add(Top, at(next.Index, 0, c))
		t.add(Top2, at(next.Index, 0, c+1))
		t.add(TopRight, at(next.Index, 0, c+2))
	}
	return t
}
