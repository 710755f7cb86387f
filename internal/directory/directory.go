// Package directory owns every chunk of a body and drives ticks over them.
package directory

import (
	"image"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"polar-sand/internal/chunk"
	"polar-sand/internal/convolution"
	"polar-sand/internal/element"
	"polar-sand/internal/geometry"
	"polar-sand/internal/mesh"
	"polar-sand/internal/render"
	"polar-sand/internal/scheduler"
	"polar-sand/pkg/core"

	"golang.org/x/sync/errgroup"
)

// Options configures a Directory.
type Options struct {
	// Workers is the pool size; <= 0 uses one per CPU.
	Workers int
	Seed    int64
	// Logger receives setup and snapshot diagnostics; nil discards them.
	Logger *log.Logger
}

// Directory is the orchestrator. Its methods must be called from one
// goroutine; Tick blocks until every chunk has been stepped, so queries made
// after it returns see a consistent grid.
type Directory struct {
	geom    *geometry.Geometry
	store   *chunk.Store
	pool    *scheduler.Pool
	passes  [][]convolution.Topology
	ordinal map[geometry.ChunkID]uint64
	seed    int64
	tick    uint64
	log     *log.Logger
}

// New allocates a vacuum-filled grid for g and plans its tick passes.
func New(g *geometry.Geometry, opts Options) *Directory {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := &Directory{
		geom:    g,
		store:   chunk.NewStore(g),
		pool:    scheduler.New(opts.Workers),
		ordinal: make(map[geometry.ChunkID]uint64, len(g.Chunks())),
		seed:    opts.Seed,
		log:     logger,
	}
	for i, id := range g.Chunks() {
		d.ordinal[id] = uint64(i)
	}
	d.passes = planPasses(g)
	d.log.Printf("directory: %d chunks, %d cells, %d passes, %d workers",
		len(g.Chunks()), g.TotalCells(), len(d.passes), d.pool.Workers())
	return d
}

// planPasses colours chunks greedily in chunk order so that no two
// convolutions of one pass share a chunk.
func planPasses(g *geometry.Geometry) [][]convolution.Topology {
	var (
		passes [][]convolution.Topology
		used   []map[geometry.ChunkID]bool
	)
	for _, id := range g.Chunks() {
		topo := convolution.Neighbors(g, id)
		ids := topo.IDs()
		p := 0
		for ; p < len(passes); p++ {
			free := true
			for _, n := range ids {
				if used[p][n] {
					free = false
					break
				}
			}
			if free {
				break
			}
		}
		if p == len(passes) {
			passes = append(passes, nil)
			used = append(used, make(map[geometry.ChunkID]bool))
		}
		passes[p] = append(passes[p], topo)
		for _, n := range ids {
			used[p][n] = true
		}
	}
	return passes
}

// Geometry returns the layout the directory was built for.
func (d *Directory) Geometry() *geometry.Geometry { return d.geom }

// Passes lists the centre chunks of each pass in execution order.
func (d *Directory) Passes() [][]geometry.ChunkID {
	out := make([][]geometry.ChunkID, len(d.passes))
	for i, pass := range d.passes {
		for _, topo := range pass {
			out[i] = append(out[i], topo.Center())
		}
	}
	return out
}

// TickCount is the number of completed ticks.
func (d *Directory) TickCount() uint64 { return d.tick }

// Seed returns the seed tick randomness derives from.
func (d *Directory) Seed() int64 { return d.seed }

// Tick steps every chunk once and returns the number of cells that moved.
// Each pass checks its convolutions out on the calling goroutine, so an
// overlap panics here rather than in a worker, then waits for the pool to
// process and return all of them before the next pass starts.
func (d *Directory) Tick() int {
	d.tick++
	tick := d.tick
	var moved atomic.Int64
	for _, pass := range d.passes {
		convs := make([]*convolution.Convolution, len(pass))
		for i, topo := range pass {
			convs[i] = convolution.Checkout(d.store, d.geom, topo)
		}
		var wg sync.WaitGroup
		wg.Add(len(convs))
		for _, cv := range convs {
			cv := cv
			rng := core.DeriveRNG(d.seed, tick, d.ordinal[cv.Topology().Center()])
			d.pool.Submit(func() {
				defer wg.Done()
				moved.Add(int64(cv.Process(tick, rng)))
				cv.Checkin(d.store)
			})
		}
		wg.Wait()
	}
	return int(moved.Load())
}

// Get returns the cell at p. It panics when p is outside the grid.
func (d *Directory) Get(p geometry.IJK) element.Cell {
	id, jk := d.geom.CellToChunk(p)
	return d.store.Peek(id).Get(jk)
}

// Set replaces the cell at p with a fresh cell of kind k.
func (d *Directory) Set(p geometry.IJK, k element.Kind) {
	id, jk := d.geom.CellToChunk(p)
	d.store.Peek(id).Set(jk, element.New(k))
}

// SetHeat overwrites the heat of the cell at p.
func (d *Directory) SetHeat(p geometry.IJK, heat float32) {
	id, jk := d.geom.CellToChunk(p)
	c := d.store.Peek(id)
	cell := c.Get(jk)
	cell.Heat = heat
	c.Set(jk, cell)
}

// Chunk returns a resident chunk for reading, e.g. to upload its texture.
func (d *Directory) Chunk(id geometry.ChunkID) *chunk.Chunk { return d.store.Peek(id) }

// Visit calls fn for every chunk in chunk order.
func (d *Directory) Visit(fn func(*chunk.Chunk)) {
	for _, id := range d.geom.Chunks() {
		fn(d.store.Peek(id))
	}
}

// Counts tallies every cell by kind.
func (d *Directory) Counts() [element.NumKinds]int {
	var out [element.NumKinds]int
	d.Visit(func(c *chunk.Chunk) {
		for k, n := range c.Counts() {
			out[k] += n
		}
	})
	return out
}

// Clear resets every cell to vacuum and the tick counter to zero.
func (d *Directory) Clear() {
	d.Visit(func(c *chunk.Chunk) { c.Fill(element.Vacuum) })
	d.tick = 0
}

// Texture renders chunk id one pixel per cell.
func (d *Directory) Texture(id geometry.ChunkID) *image.RGBA {
	return render.ChunkTexture(d.store.Peek(id))
}

// Meshes builds the mesh of every chunk, in chunk order, in parallel.
func (d *Directory) Meshes(mode mesh.DrawMode, lod int) ([]mesh.Mesh, error) {
	ids := d.geom.Chunks()
	out := make([]mesh.Mesh, len(ids))
	var eg errgroup.Group
	eg.SetLimit(d.pool.Workers())
	for i, id := range ids {
		i, coords := i, d.geom.Chunk(id)
		eg.Go(func() error {
			m, err := mesh.ForChunk(coords, mode, lod)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CombinedMesh merges every chunk mesh and welds the seams.
func (d *Directory) CombinedMesh(mode mesh.DrawMode, lod int) (mesh.Mesh, error) {
	ms, err := d.Meshes(mode, lod)
	if err != nil {
		return mesh.Mesh{}, err
	}
	return mesh.Deduplicate(mesh.Stitch(mesh.Combine(ms...)), mesh.DefaultEpsilon), nil
}

// Close stops the worker pool. The directory must not tick afterwards.
func (d *Directory) Close() { d.pool.Close() }
