package convolution

import (
	"fmt"

	"polar-sand/internal/chunk"
	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	"polar-sand/pkg/core"
)

// State tracks a convolution through one tick.
type State int

const (
	Idle State = iota
	CheckedOut
	Processing
	CheckedIn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CheckedOut:
		return "checked-out"
	case Processing:
		return "processing"
	case CheckedIn:
		return "checked-in"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Convolution owns a centre chunk and its neighbours for the duration of one
// step. It implements chunk.View over the cells of every held chunk.
type Convolution struct {
	g      *geometry.Geometry
	topo   Topology
	chunks [NumSlots]*chunk.Chunk
	state  State
	moved  int
}

// Checkout takes every chunk of topo out of the store. If any is already
// checked out the chunks taken so far are put back and Checkout panics: two
// overlapping convolutions in one pass mean the tick partition is broken.
func Checkout(store *chunk.Store, g *geometry.Geometry, topo Topology) *Convolution {
	cv := &Convolution{g: g, topo: topo}
	for s := Slot(0); s < NumSlots; s++ {
		id, ok := topo.Get(s)
		if !ok {
			continue
		}
		c, ok := store.TryTake(id)
		if !ok {
			for _, held := range cv.chunks {
				if held != nil {
					store.Put(held)
				}
			}
			panic(fmt.Sprintf("convolution %v: %s chunk %v already checked out", topo.Center(), s, id))
		}
		cv.chunks[s] = c
	}
	cv.state = CheckedOut
	return cv
}

// State returns where the convolution is in its life cycle.
func (cv *Convolution) State() State { return cv.state }

// Topology returns the slots the convolution was checked out with.
func (cv *Convolution) Topology() Topology { return cv.topo }

// Process steps the centre chunk. It returns the number of cells moved.
func (cv *Convolution) Process(tick uint64, rng *core.RNG) int {
	cv.expect(CheckedOut, "process")
	cv.state = Processing
	cv.moved = cv.chunks[Center].LocalStep(cv, tick, rng)
	return cv.moved
}

// Moved is the result of the last Process.
func (cv *Convolution) Moved() int { return cv.moved }

// Checkin returns every held chunk to the store exactly once and reports how
// many were returned.
func (cv *Convolution) Checkin(store *chunk.Store) int {
	if cv.state != CheckedOut && cv.state != Processing {
		panic(fmt.Sprintf("convolution %v: checkin while %s", cv.topo.Center(), cv.state))
	}
	n := 0
	for i, c := range cv.chunks {
		if c == nil {
			continue
		}
		store.Put(c)
		cv.chunks[i] = nil
		n++
	}
	cv.state = CheckedIn
	return n
}

// Chunks returns the held chunks in slot order.
func (cv *Convolution) Chunks() []*chunk.Chunk {
	out := make([]*chunk.Chunk, 0, NumSlots)
	for _, c := range cv.chunks {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (cv *Convolution) expect(s State, op string) {
	if cv.state != s {
		panic(fmt.Sprintf("convolution %v: %s while %s", cv.topo.Center(), op, cv.state))
	}
}

func (cv *Convolution) lookup(p geometry.IJK) (*chunk.Chunk, geometry.JK, bool) {
	if !cv.g.ValidCell(p) {
		return nil, geometry.JK{}, false
	}
	id, jk := cv.g.CellToChunk(p)
	s, ok := cv.topo.slotOf(id)
	if !ok || cv.chunks[s] == nil {
		return nil, geometry.JK{}, false
	}
	return cv.chunks[s], jk, true
}

// Get implements element.Neighborhood. Cells of chunks outside the
// convolution are unreachable.
func (cv *Convolution) Get(p geometry.IJK) (element.Cell, bool) {
	c, jk, ok := cv.lookup(p)
	if !ok {
		return element.Cell{}, false
	}
	return c.Get(jk), true
}

// Set implements chunk.View.
func (cv *Convolution) Set(p geometry.IJK, cell element.Cell) bool {
	c, jk, ok := cv.lookup(p)
	if !ok {
		return false
	}
	c.Set(jk, cell)
	return true
}

func (cv *Convolution) Below(p geometry.IJK) (geometry.IJK, bool) { return cv.g.Below(p) }
func (cv *Convolution) Left(p geometry.IJK) geometry.IJK          { return cv.g.Left(p) }
func (cv *Convolution) Right(p geometry.IJK) geometry.IJK         { return cv.g.Right(p) }
