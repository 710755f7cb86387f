package chunk

import (
	"fmt"
	"sync"

	"polar-sand/internal/geometry"
)

// Store is the shared chunk map. A checked-out chunk leaves a marker behind
// until it is put back; taking it again is a partitioning bug and panics.
type Store struct {
	mu     sync.Mutex
	chunks map[geometry.ChunkID]*Chunk
	out    map[geometry.ChunkID]bool
}

// NewStore allocates a vacuum chunk for every chunk of g.
func NewStore(g *geometry.Geometry) *Store {
	s := &Store{
		chunks: make(map[geometry.ChunkID]*Chunk, len(g.Chunks())),
		out:    make(map[geometry.ChunkID]bool),
	}
	for _, id := range g.Chunks() {
		s.chunks[id] = New(g.Chunk(id))
	}
	return s
}

// TryTake moves chunk id out of the store. It reports false when the chunk is
// already checked out and panics when id is unknown.
func (s *Store) TryTake(id geometry.ChunkID) (*Chunk, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out[id] {
		return nil, false
	}
	c, ok := s.chunks[id]
	if !ok {
		panic(fmt.Sprintf("chunk store: unknown %v", id))
	}
	delete(s.chunks, id)
	s.out[id] = true
	return c, true
}

// Take is TryTake that panics on a double checkout.
func (s *Store) Take(id geometry.ChunkID) *Chunk {
	c, ok := s.TryTake(id)
	if !ok {
		panic(fmt.Sprintf("chunk store: %v is already checked out", id))
	}
	return c
}

// Put returns a checked-out chunk. Returning a chunk that is not checked out
// panics.
func (s *Store) Put(c *Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.out[c.ID] {
		panic(fmt.Sprintf("chunk store: %v returned but not checked out", c.ID))
	}
	delete(s.out, c.ID)
	s.chunks[c.ID] = c
}

// Peek returns a resident chunk without checking it out. The caller must not
// race a tick that may hold it; Peek panics when the chunk is checked out.
func (s *Store) Peek(id geometry.ChunkID) *Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out[id] {
		panic(fmt.Sprintf("chunk store: %v is checked out", id))
	}
	c, ok := s.chunks[id]
	if !ok {
		panic(fmt.Sprintf("chunk store: unknown %v", id))
	}
	return c
}

// Replace swaps in a chunk for a resident one with the same ID and shape.
func (s *Store) Replace(c *Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.chunks[c.ID]
	if !ok || s.out[c.ID] {
		panic(fmt.Sprintf("chunk store: cannot replace %v", c.ID))
	}
	if prev.Rows != c.Rows || prev.Cols != c.Cols {
		panic(fmt.Sprintf("chunk store: %v shape %dx%d does not match %dx%d", c.ID, c.Rows, c.Cols, prev.Rows, prev.Cols))
	}
	s.chunks[c.ID] = c
}

// CheckedOut returns the number of chunks currently out.
func (s *Store) CheckedOut() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.out)
}

// Resident returns the number of chunks currently in the store.
func (s *Store) Resident() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}
