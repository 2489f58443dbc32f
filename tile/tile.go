/*
Package tile implements the basic 8 by 8 tile used throughout mdgfx.

A basic tile holds one byte per pixel, so a tile is 64 bytes stored row by
row. Each byte is a palette index; packing down to the 4 bits per pixel the
VDP expects is left to the chr package. Tiles are kept in a Set, a single
contiguous arena addressed by tile index.
*/
package tile

import (
	"errors"
	"fmt"
)

const (
	// Width is the width of a tile in pixels
	Width = 8
	// Height is the height of a tile in pixels
	Height = Width
	// Size is the number of bytes in a basic tile
	Size = Width * Height
)

// ErrSize is returned when pixel data is not a whole number of tiles.
var ErrSize = errors.New("tile: data is not a multiple of the tile size")

// Set is an ordered collection of basic tiles backed by one byte slice.
type Set struct {
	pix []byte
}

// NewSet wraps pix, which must hold a whole number of tiles. The slice is
// not copied.
func NewSet(pix []byte) (*Set, error) {
	if len(pix)%Size != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrSize, len(pix))
	}
	return &Set{pix: pix}, nil
}

// Len returns the number of tiles in the set.
func (s *Set) Len() int {
	return len(s.pix) / Size
}

// At returns the pixels of tile i. The returned slice aliases the set.
func (s *Set) At(i int) []byte {
	return s.pix[i*Size : (i+1)*Size : (i+1)*Size]
}

// Slice returns the n tiles starting at tile start, sharing storage with s.
func (s *Set) Slice(start, n int) *Set {
	return &Set{pix: s.pix[start*Size : (start+n)*Size : (start+n)*Size]}
}

// Bytes returns the raw pixel data of the whole set.
func (s *Set) Bytes() []byte {
	return s.pix
}
