package render

import (
	"image"
	"image/color"

	"polar-sand/internal/chunk"
	"polar-sand/internal/element"
)

// fillCellsRGBA converts cells into RGBA pixels in buf using each cell's
// colour. buf must hold 4 bytes per cell.
func fillCellsRGBA(buf []byte, cells []element.Cell) {
	for i, c := range cells {
		col := c.RGBA()
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillPaletteRGBA converts cells into RGBA pixels by kind alone. Kinds beyond
// the palette use its last entry; an empty palette clears the buffer to
// transparent black.
func fillPaletteRGBA(buf []byte, cells []element.Cell, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c.Kind)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Palette returns the flat colour of every element kind, indexed by kind.
func Palette() []color.RGBA {
	out := make([]color.RGBA, element.NumKinds)
	for _, k := range element.Kinds() {
		out[k] = element.New(k).RGBA()
	}
	return out
}

// ChunkTexture renders a chunk as an image one pixel per cell: x runs along
// the wedges and y along the rings, inner ring first, which matches the UVs
// of the chunk's textured mesh.
func ChunkTexture(c *chunk.Chunk) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Cols, c.Rows))
	FillTexture(img, c, nil)
	return img
}

// FillTexture repaints img from c. With a nil palette cells use their own
// colour, heat glow included; otherwise they are drawn flat by kind.
func FillTexture(img *image.RGBA, c *chunk.Chunk, palette []color.RGBA) {
	if palette == nil {
		fillCellsRGBA(img.Pix, c.Cells())
		return
	}
	fillPaletteRGBA(img.Pix, c.Cells(), palette)
}
