package mdgfx

import (
	"errors"
	"fmt"

	"github.com/bodgit/mdgfx/tilemap"
)

var errChirariNeedsOptimize = errors.New("chirari tilemaps require tile optimization")

// Config controls what is produced from an image.
type Config struct {
	// OutPrefix is the path prefix of every output file; if empty the
	// source path without its extension is used
	OutPrefix string

	// RowsPerBank splits the image into banks of this many tile rows when
	// non-zero, each converted separately
	RowsPerBank int

	// TileBase, Palette and Priority are applied to every tilemap entry
	TileBase int
	Palette  tilemap.PaletteLine
	Priority bool

	MakePalette bool
	Optimize    bool
	ChrByBank   bool
	MakeTilemap bool
	WidthHeader bool
	ChirariRLE  bool
}

// Validate checks the configuration before any work is done.
func (c Config) Validate() error {
	if err := c.options().Validate(); err != nil {
		return err
	}
	if c.RowsPerBank < 0 {
		return fmt.Errorf("invalid rows per bank: %d", c.RowsPerBank)
	}
	if c.ChirariRLE && c.MakeTilemap && !c.Optimize {
		return errChirariNeedsOptimize
	}
	return nil
}

func (c Config) options() tilemap.Options {
	return tilemap.Options{
		Palette:  c.Palette,
		Priority: c.Priority,
		TileBase: c.TileBase,
	}
}

func (c Config) banked() bool {
	return c.RowsPerBank > 0 && (c.MakeTilemap || c.ChrByBank)
}

// key identifies the configuration for caching; the output location
// doesn't change the output so it's left out.
func (c Config) key() string {
	c.OutPrefix = ""
	return fmt.Sprintf("%+v", c)
}
