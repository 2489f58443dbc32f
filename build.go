package mdgfx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bodgit/mdgfx/chr"
	"github.com/bodgit/mdgfx/image"
	"github.com/bodgit/mdgfx/optimize"
	"github.com/bodgit/mdgfx/tile"
	"github.com/bodgit/mdgfx/tilemap"
)

// Artifact is one output file, named by the suffix appended to the output
// prefix, such as ".chr" or ".003.map".
type Artifact struct {
	Suffix string
	Data   []byte
}

// Result is everything produced from one image.
type Result struct {
	Artifacts []Artifact
	// Tiles is the number of tiles in the image and Unique the number
	// of tiles written out
	Tiles  int
	Unique int
}

func (r *Result) add(suffix string, data []byte) {
	r.Artifacts = append(r.Artifacts, Artifact{Suffix: suffix, Data: data})
}

func bankSuffix(bank int, ext string) string {
	return fmt.Sprintf(".%03d%s", bank, ext)
}

func encodeTiles(tiles [][]byte) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := chr.Encode(b, tiles); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func encodeSet(s *tile.Set) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := chr.EncodeSet(b, s); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// optimizedMap builds the flat or chirari map for a range of analyzed tiles.
func (c *Converter) optimizedMap(records []optimize.Record, width int, cfg Config) ([]byte, error) {
	var (
		m   tilemap.Map
		err error
	)
	if cfg.ChirariRLE {
		m, err = tilemap.Chirari(records, uint16(width), cfg.TileBase)
		if err != nil {
			return nil, err
		}
		for _, i := range m.AmbiguousChirari() {
			c.logger.Printf("Warning: chirari entry %d reads as the map terminator\n", i)
		}
	} else {
		m, err = tilemap.Optimized(records, cfg.options())
		if err != nil {
			return nil, err
		}
		if cfg.WidthHeader {
			m = m.WithWidth(uint16(width))
		}
	}
	return m.MarshalBinary()
}

func (c *Converter) simpleMap(start, length, width int, cfg Config) ([]byte, error) {
	m, err := tilemap.Simple(start, length, cfg.options())
	if err != nil {
		return nil, err
	}
	if cfg.WidthHeader {
		m = m.WithWidth(uint16(width))
	}
	return m.MarshalBinary()
}

// Build produces every artifact cfg asks for from img without touching the
// filesystem, so an error leaves nothing half written.
func (c *Converter) Build(img *image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Result{Tiles: img.Tiles.Len()}

	if cfg.Optimize {
		if err := c.buildOptimized(r, img, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := c.buildUnoptimized(r, img, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.MakePalette {
		b := new(bytes.Buffer)
		if err := chr.EncodePalette(b, img.Palette); err != nil {
			return nil, err
		}
		r.add(".pal", b.Bytes())
	}

	return r, nil
}

func (c *Converter) buildUnoptimized(r *Result, img *image.Image, cfg Config) error {
	banked := cfg.banked()

	if !banked || !cfg.ChrByBank {
		b, err := encodeSet(img.Tiles)
		if err != nil {
			return err
		}
		r.add(".chr", b)
		r.Unique = img.Tiles.Len()
	}

	if !banked {
		if cfg.MakeTilemap {
			b, err := c.simpleMap(0, img.Tiles.Len(), img.Width, cfg)
			if err != nil {
				return err
			}
			r.add(".map", b)
		}
		return nil
	}

	bankSize := img.Width * cfg.RowsPerBank
	for bank := 0; bank < img.Height/cfg.RowsPerBank; bank++ {
		// A bank's map indexes its own tiles when they're written
		// separately, otherwise it indexes into the whole image
		start := bankSize * bank
		if cfg.ChrByBank {
			b, err := encodeSet(img.Rows(bank*cfg.RowsPerBank, cfg.RowsPerBank))
			if err != nil {
				return err
			}
			r.add(bankSuffix(bank, ".chr"), b)
			r.Unique += bankSize
			start = 0
		}

		if cfg.MakeTilemap {
			b, err := c.simpleMap(start, bankSize, img.Width, cfg)
			if err != nil {
				return fmt.Errorf("bank %d: %w", bank, err)
			}
			r.add(bankSuffix(bank, ".map"), b)
		}
	}

	return nil
}

func (c *Converter) buildOptimized(r *Result, img *image.Image, cfg Config) error {
	banked := cfg.banked()

	if banked && cfg.ChrByBank {
		return c.buildOptimizedBanks(r, img, cfg)
	}

	a, err := optimize.Analyze(img.Tiles)
	if err != nil {
		return err
	}

	unique, err := a.Unique()
	if err != nil {
		return err
	}
	b, err := encodeTiles(unique)
	if err != nil {
		return err
	}
	r.add(".chr", b)
	r.Unique = len(unique)

	c.logger.Printf("%d tiles, %d unique, %d duplicates\n", img.Tiles.Len(), len(unique), a.Duplicates())

	if !cfg.MakeTilemap {
		return nil
	}

	if !banked {
		b, err := c.optimizedMap(a.Records, img.Width, cfg)
		if err != nil {
			return err
		}
		r.add(".map", b)
		return nil
	}

	// The tiles are shared so each bank's map is cut from the whole
	// image's analysis
	bankSize := img.Width * cfg.RowsPerBank
	for bank := 0; bank < img.Height/cfg.RowsPerBank; bank++ {
		b, err := c.optimizedMap(a.Records[bank*bankSize:(bank+1)*bankSize], img.Width, cfg)
		if err != nil {
			return fmt.Errorf("bank %d: %w", bank, err)
		}
		r.add(bankSuffix(bank, ".map"), b)
	}

	return nil
}

func (c *Converter) buildOptimizedBanks(r *Result, img *image.Image, cfg Config) error {
	analyses, err := c.analyzeBanks(context.Background(), img, cfg.RowsPerBank)
	if err != nil {
		return err
	}

	for bank, a := range analyses {
		unique, err := a.Unique()
		if err != nil {
			return fmt.Errorf("bank %d: %w", bank, err)
		}
		b, err := encodeTiles(unique)
		if err != nil {
			return err
		}
		r.add(bankSuffix(bank, ".chr"), b)
		r.Unique += len(unique)

		c.logger.Printf("Bank %d: %d tiles, %d unique\n", bank, len(a.Records), len(unique))

		if cfg.MakeTilemap {
			b, err := c.optimizedMap(a.Records, img.Width, cfg)
			if err != nil {
				return fmt.Errorf("bank %d: %w", bank, err)
			}
			r.add(bankSuffix(bank, ".map"), b)
		}
	}

	return nil
}
