/*
Package tilemap implements the Mega Drive tilemap formats produced by mdgfx.

A tilemap is a sequence of 16-bit words stored big-endian. Three encoders
are provided: Simple references tiles sequentially, Optimized references
the compacted tiles found by the optimize package with one nametable entry
per tile, and Chirari run-length encodes the same references. Modifier
rewrites the attributes of an existing map.
*/
package tilemap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTileIndex is returned when a tile index can't be addressed
	ErrTileIndex = errors.New("tilemap: tile index out of range (max 0x7ff)")
	// ErrPaletteLine is returned for a palette line other than 0-3
	ErrPaletteLine = errors.New("tilemap: invalid palette line")
	// ErrOddLength is returned when decoding a map with a stray byte
	ErrOddLength = errors.New("tilemap: odd number of bytes")
	// ErrWidth is returned when a map isn't a whole number of rows
	ErrWidth = errors.New("tilemap: length is not a multiple of the width")
)

// MaxTileIndex is the highest tile index a map entry can hold.
const MaxTileIndex = 0x7ff

// PaletteLine selects one of the four 16 color palettes in CRAM.
type PaletteLine uint8

// Valid reports whether p is one of the four palette lines.
func (p PaletteLine) Valid() bool {
	return p <= 3
}

// Options are the attributes applied to every entry of a generated map.
type Options struct {
	Palette  PaletteLine
	Priority bool
	// TileBase is added to every tile index, usually the VRAM tile the
	// tiles will be loaded at
	TileBase int
}

// Validate checks the palette line and tile base are usable.
func (o Options) Validate() error {
	if !o.Palette.Valid() {
		return fmt.Errorf("%w: %d", ErrPaletteLine, o.Palette)
	}
	if o.TileBase < 0 || o.TileBase > MaxTileIndex {
		return fmt.Errorf("%w: tile base %#x", ErrTileIndex, o.TileBase)
	}
	return nil
}

// Map is a tilemap. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type Map []uint16

// WithWidth returns a copy of m prefixed with the width of the map in
// tiles.
func (m Map) WithWidth(width uint16) Map {
	return append(Map{width}, m...)
}

// MarshalBinary encodes the map as big-endian words.
func (m Map) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, len(m)*2)
	for _, e := range m {
		b = binary.BigEndian.AppendUint16(b, e)
	}
	return b, nil
}

// UnmarshalBinary decodes big-endian words into the map.
func (m *Map) UnmarshalBinary(b []byte) error {
	if len(b)%2 != 0 {
		return ErrOddLength
	}
	*m = make(Map, len(b)/2)
	for i := range *m {
		(*m)[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return nil
}
