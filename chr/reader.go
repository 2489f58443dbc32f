package chr

import (
	"errors"
	"image/color"
	"io"

	"github.com/bodgit/mdgfx/tile"
)

// ErrShortTile is returned when the input ends part way through a tile.
var ErrShortTile = errors.New("chr: not enough tile data")

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// Decode reads VDP tiles from r until EOF and returns them as basic tiles.
func Decode(r io.Reader) (*tile.Set, error) {
	var (
		tmp [TileBytes]byte
		pix []byte
	)
	for {
		n, err := io.ReadFull(r, tmp[:])
		switch {
		case err == io.EOF:
			return tile.NewSet(pix)
		case err == io.ErrUnexpectedEOF:
			return nil, ErrShortTile
		case err != nil:
			return nil, err
		}
		for _, b := range tmp[:n] {
			pix = append(pix, upperNibble(b)>>4, lowerNibble(b))
		}
	}
}

// DecodePalette reads one palette line from r.
func DecodePalette(r io.Reader) (color.Palette, error) {
	var tmp [PaletteBytes]byte
	if err := readFull(r, tmp[:]); err != nil {
		return nil, err
	}

	p := make(color.Palette, ColorsPerPalette)
	for i := range p {
		// Color is packed as 0000BBB0GGG0RRR0
		p[i] = color.RGBA{
			lowerNibble(tmp[i<<1+1]) << 4,
			upperNibble(tmp[i<<1+1]),
			lowerNibble(tmp[i<<1]) << 4,
			0xff,
		}
	}
	return p, nil
}
