package geometry

import "fmt"

// IJK addresses a cell globally: layer I, ring J within the layer and wedge K.
type IJK struct {
	I int
	J int
	K int
}

func (v IJK) String() string { return fmt.Sprintf("(%d,%d,%d)", v.I, v.J, v.K) }

// JK addresses a cell inside a chunk: row J (ring offset) and column K (wedge
// offset).
type JK struct {
	J int
	K int
}

// ChunkID identifies a chunk by layer, chunk row (radial) and chunk column
// (angular).
type ChunkID struct {
	Layer int
	Row   int
	Col   int
}

func (id ChunkID) String() string { return fmt.Sprintf("chunk(%d,%d,%d)", id.Layer, id.Row, id.Col) }
