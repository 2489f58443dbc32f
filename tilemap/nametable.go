package tilemap

import (
	"fmt"

	"github.com/bodgit/mdgfx/optimize"
	"github.com/bodgit/mdgfx/tile"
)

// Nametable entry layout: PCCVHTTT TTTTTTTT
const (
	priorityBit = 15
	paletteBit  = 13
	vflipBit    = 12
	hflipBit    = 11

	priorityMask = 1 << priorityBit
	paletteMask  = 3 << paletteBit
	vflipMask    = 1 << vflipBit
	hflipMask    = 1 << hflipBit
	indexMask    = MaxTileIndex
)

// Entry is a decoded nametable entry.
type Entry struct {
	Index    uint16
	Palette  PaletteLine
	Priority bool
	HFlip    bool
	VFlip    bool
}

// Encode packs the entry into a 16-bit word.
func (e Entry) Encode() (uint16, error) {
	if e.Index > MaxTileIndex {
		return 0, fmt.Errorf("%w: %#x", ErrTileIndex, e.Index)
	}
	if !e.Palette.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrPaletteLine, e.Palette)
	}

	v := e.Index | uint16(e.Palette)<<paletteBit
	if e.Priority {
		v |= priorityMask
	}
	if e.VFlip {
		v |= vflipMask
	}
	if e.HFlip {
		v |= hflipMask
	}
	return v, nil
}

// ParseEntry unpacks a 16-bit nametable word.
func ParseEntry(v uint16) Entry {
	return Entry{
		Index:    v & indexMask,
		Palette:  PaletteLine(v & paletteMask >> paletteBit),
		Priority: v&priorityMask != 0,
		HFlip:    v&hflipMask != 0,
		VFlip:    v&vflipMask != 0,
	}
}

// Simple returns a map referencing length tiles in order, starting at tile
// start plus the tile base.
func Simple(start, length int, opts Options) (Map, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	begin := start + opts.TileBase
	if last := begin + length - 1; begin < 0 || (length > 0 && last > MaxTileIndex) {
		return nil, fmt.Errorf("%w: tiles %#x to %#x", ErrTileIndex, begin, last)
	}

	m := make(Map, 0, length)
	for i := begin; i < begin+length; i++ {
		v, err := Entry{Index: uint16(i), Palette: opts.Palette, Priority: opts.Priority}.Encode()
		if err != nil {
			return nil, err
		}
		m = append(m, v)
	}
	return m, nil
}

// Optimized returns a map with one nametable entry per record referencing
// its compacted tile. Blank tiles are written as 0x0000. Nothing is
// returned if any index is out of range.
func Optimized(records []optimize.Record, opts Options) (Map, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m := make(Map, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.Class == tile.Blank {
			m = append(m, 0)
			continue
		}

		index := r.Compact + opts.TileBase
		if index > MaxTileIndex {
			return nil, fmt.Errorf("%w: tile %d maps to %#x", ErrTileIndex, r.Index, index)
		}

		v, err := Entry{
			Index:    uint16(index),
			Palette:  opts.Palette,
			Priority: opts.Priority,
			HFlip:    r.HFlip(),
			VFlip:    r.VFlip(),
		}.Encode()
		if err != nil {
			return nil, err
		}
		m = append(m, v)
	}
	return m, nil
}
