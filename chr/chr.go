/*
Package chr implements the Mega Drive VDP tile and palette formats.

A tile is 8 by 8 pixels at 4 bits per pixel, so 32 bytes, with two pixels
per byte and the leftmost pixel in the upper nibble. A palette line is 16
colors, each stored as a big-endian 16-bit value packed as 0000BBB0GGG0RRR0,
so 32 bytes.
*/
package chr

import "github.com/bodgit/mdgfx/tile"

const (
	// TileBytes is the size of an encoded tile
	TileBytes = tile.Size >> 1

	// ColorsPerPalette is the number of colors in a palette line
	ColorsPerPalette = 16

	// PaletteBytes is the size of an encoded palette line
	PaletteBytes = ColorsPerPalette * 2
)
