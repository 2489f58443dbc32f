package chr

import (
	"errors"
	"image/color"
	"io"

	"github.com/bodgit/mdgfx/tile"
)

var errTileSize = errors.New("chr: tile is not 64 bytes")

type encoder struct {
	w   io.Writer
	tmp [TileBytes]byte
}

func (e *encoder) encode(t []byte) error {
	if len(t) != tile.Size {
		return errTileSize
	}

	// This is masking off any bits leaving a 0-15 value
	for i := range e.tmp {
		e.tmp[i] = t[i<<1]&0x0f<<4 | t[i<<1+1]&0x0f
	}

	_, err := e.w.Write(e.tmp[:])
	return err
}

// Encode writes each basic tile to w in VDP tile format.
func Encode(w io.Writer, tiles [][]byte) error {
	e := encoder{w: w}
	for _, t := range tiles {
		if err := e.encode(t); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSet writes every tile in s to w in VDP tile format.
func EncodeSet(w io.Writer, s *tile.Set) error {
	e := encoder{w: w}
	for i := 0; i < s.Len(); i++ {
		if err := e.encode(s.At(i)); err != nil {
			return err
		}
	}
	return nil
}

// EncodePalette writes the first palette line of p to w. Missing colors
// are written as black.
func EncodePalette(w io.Writer, p color.Palette) error {
	var tmp [PaletteBytes]byte
	for i := 0; i < ColorsPerPalette && i < len(p); i++ {
		r, g, b, _ := p[i].RGBA()

		tmp[i<<1] = byte(b >> 12 & 0x0e)
		tmp[i<<1+1] = byte(g>>8&0xe0 | r>>12&0x0e)
	}

	_, err := w.Write(tmp[:])
	return err
}
