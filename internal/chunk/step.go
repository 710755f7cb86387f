package chunk

import (
	"fmt"

	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	"polar-sand/pkg/core"
)

// View gives a stepping chunk read/write access to the cells around it,
// including its own. Cells that are not reachable report false.
type View interface {
	element.Neighborhood
	Set(geometry.IJK, element.Cell) bool
}

// LocalStep runs one tick over the chunk: rings ascending, wedges ascending
// within a ring. Cells already stamped with tick are skipped, so a cell that
// moved in from a neighbour or earlier in the scan is not processed again.
// It returns the number of cells that moved.
func (c *Chunk) LocalStep(v View, tick uint64, rng *core.RNG) int {
	moved := 0
	for j := 0; j < c.Rows; j++ {
		for k := 0; k < c.Cols; k++ {
			idx := j*c.Cols + k
			cell := c.cells[idx]
			if cell.Kind == element.Vacuum || cell.LastProcessed == tick {
				continue
			}
			pos := geometry.IJK{I: c.ID.Layer, J: c.J0 + j, K: c.K0 + k}
			out := element.Step(v, pos, &cell, rng.Bool())
			cell.LastProcessed = tick
			switch out.Action {
			case element.Keep:
				c.cells[idx] = cell
			case element.Become:
				cell.Kind = out.Into
				c.cells[idx] = cell
			case element.Move:
				displaced, ok := v.Get(out.Target)
				if !ok || !v.Set(out.Target, cell) {
					panic(fmt.Sprintf("chunk %v: move from %v to unreachable %v", c.ID, pos, out.Target))
				}
				c.cells[idx] = displaced
				moved++
			}
		}
	}
	return moved
}
