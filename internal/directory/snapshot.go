package directory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"polar-sand/internal/chunk"
	"polar-sand/internal/geometry"

	"github.com/klauspost/compress/zstd"
)

// ErrSnapshot marks a stream that is not a snapshot of this grid.
var ErrSnapshot = errors.New("invalid snapshot")

const snapshotVersion = 1

var snapshotMagic = [4]byte{'P', 'S', 'N', 'D'}

type snapshotHeader struct {
	Magic   [4]byte
	Version uint16

	CellRadius                   float64
	NumLayers                    int32
	FirstNumRadialLines          int32
	SecondNumConcentricCircles   int32
	FirstNumRadialChunks         int32
	MaxRadialLinesPerChunk       int32
	MaxConcentricCirclesPerChunk int32
	MaxCells                     int32

	Tick   uint64
	Chunks uint32
}

func headerFor(cfg geometry.Config, tick uint64, chunks int) snapshotHeader {
	return snapshotHeader{
		Magic:                        snapshotMagic,
		Version:                      snapshotVersion,
		CellRadius:                   cfg.CellRadius,
		NumLayers:                    int32(cfg.NumLayers),
		FirstNumRadialLines:          int32(cfg.FirstNumRadialLines),
		SecondNumConcentricCircles:   int32(cfg.SecondNumConcentricCircles),
		FirstNumRadialChunks:         int32(cfg.FirstNumRadialChunks),
		MaxRadialLinesPerChunk:       int32(cfg.MaxRadialLinesPerChunk),
		MaxConcentricCirclesPerChunk: int32(cfg.MaxConcentricCirclesPerChunk),
		MaxCells:                     int32(cfg.MaxCells),
		Tick:                         tick,
		Chunks:                       uint32(chunks),
	}
}

// Snapshot writes the tick counter and every cell, zstd compressed, in chunk
// order.
func (d *Directory) Snapshot(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	ids := d.geom.Chunks()
	if err := binary.Write(enc, binary.LittleEndian, headerFor(d.geom.Config(), d.tick, len(ids))); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot header: %w", err)
	}
	for _, id := range ids {
		if err := binary.Write(enc, binary.LittleEndian, d.store.Peek(id).Cells()); err != nil {
			enc.Close()
			return fmt.Errorf("snapshot %v: %w", id, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	d.log.Printf("directory: snapshot at tick %d", d.tick)
	return nil
}

// Restore replaces every cell and the tick counter with a snapshot taken from
// a grid with the same configuration. Nothing changes when it fails.
func (d *Directory) Restore(r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	defer dec.Close()

	var h snapshotHeader
	if err := binary.Read(dec, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("restore header: %w", err)
	}
	ids := d.geom.Chunks()
	switch want := headerFor(d.geom.Config(), h.Tick, len(ids)); {
	case h.Magic != snapshotMagic:
		return fmt.Errorf("%w: bad magic %q", ErrSnapshot, h.Magic[:])
	case h.Version != snapshotVersion:
		return fmt.Errorf("%w: version %d, want %d", ErrSnapshot, h.Version, snapshotVersion)
	case h != want:
		return fmt.Errorf("%w: taken from a grid with a different configuration", ErrSnapshot)
	}

	chunks := make([]*chunk.Chunk, len(ids))
	for i, id := range ids {
		c := chunk.New(d.geom.Chunk(id))
		if err := binary.Read(dec, binary.LittleEndian, c.Cells()); err != nil {
			return fmt.Errorf("restore %v: %w", id, err)
		}
		for _, cell := range c.Cells() {
			if !cell.Kind.Valid() {
				return fmt.Errorf("%w: %v holds unknown kind %d", ErrSnapshot, id, cell.Kind)
			}
		}
		chunks[i] = c
	}
	for _, c := range chunks {
		d.store.Replace(c)
	}
	d.tick = h.Tick
	d.log.Printf("directory: restored tick %d", d.tick)
	return nil
}
