package image

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/mdgfx/tile"
	"github.com/ericpauley/go-quantize/quantize"
)

// ErrNoTiles is returned when an image is smaller than a single tile.
var ErrNoTiles = errors.New("image: image is smaller than one tile")

func paletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}
	if pm == nil {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorsPerPalette), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}

// Decode splits m into basic tiles.
func Decode(m image.Image) (*Image, error) {
	pm := paletted(m)

	tx, ty := pm.Rect.Dx()/tile.Width, pm.Rect.Dy()/tile.Height
	if tx == 0 || ty == 0 {
		return nil, ErrNoTiles
	}

	pix := make([]byte, 0, tx*ty*tile.Size)
	for row := 0; row < ty; row++ {
		for col := 0; col < tx; col++ {
			for y := 0; y < tile.Height; y++ {
				dx := col * tile.Width
				dy := row*tile.Height + y
				i := pm.PixOffset(dx, dy)
				pix = append(pix, pm.Pix[i:i+tile.Width]...)
			}
		}
	}

	tiles, err := tile.NewSet(pix)
	if err != nil {
		return nil, err
	}

	return &Image{
		Tiles:   tiles,
		Palette: pm.Palette,
		Width:   tx,
		Height:  ty,
	}, nil
}

// Read decodes an image file from r, in any format registered with the
// standard library image package, and splits it into basic tiles.
func Read(r io.Reader) (*Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return Decode(m)
}
