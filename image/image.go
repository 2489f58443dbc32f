/*
Package image splits a source image into basic tiles.

Pixels are read as palette indices, so paletted images are used as-is.
Any other image is first quantized to a single 16 color palette line.
Tiles are taken left to right, top to bottom; any partial tiles along the
right and bottom edges are ignored.
*/
package image

import (
	"image/color"

	"github.com/bodgit/mdgfx/tile"
)

const colorsPerPalette = 16

// Image is a source image split into basic tiles.
type Image struct {
	Tiles   *tile.Set
	Palette color.Palette
	// Width and Height are measured in tiles
	Width  int
	Height int
}

// Rows returns the tiles from row start, n rows in total.
func (m *Image) Rows(start, n int) *tile.Set {
	return m.Tiles.Slice(start*m.Width, n*m.Width)
}
