/*
Package optimize finds duplicate tiles within a range of basic tiles and
assigns the remaining unique tiles a compact, gap-free ordering.

Two tiles are duplicates if one can be turned into the other by mirroring it
horizontally, vertically, or both. Every duplicate points at the earliest
tile it matches, its master, and a master is never itself a duplicate.
Blank tiles take no part: they are never stored and map encoders treat them
as "no tile".
*/
package optimize

import (
	"errors"
	"fmt"

	"github.com/bodgit/mdgfx/tile"
)

var (
	// ErrUnclassified means a record reached a later pass without a class
	ErrUnclassified = errors.New("optimize: unclassified tile")
	// ErrIndexGap means no tile was found for a compacted index
	ErrIndexGap = errors.New("optimize: gap in compacted tile indices")
)

// Duplicate describes how a tile is reproduced from its master.
type Duplicate struct {
	// Master is the Index of the record this tile duplicates
	Master int
	// HFlip and VFlip are the mirrors applied to the master
	HFlip bool
	VFlip bool
}

// Record holds the optimization state of one tile.
type Record struct {
	// Index is the position of the tile within the analyzed range
	Index int
	Class tile.Class
	// Compact is the position of the tile, or its master, within the
	// unique tiles. It is meaningless for Blank tiles.
	Compact int
	// Duplicate is nil unless the tile is a duplicate
	Duplicate *Duplicate

	color        uint8
	fingerprints *tile.Fingerprints
}

// FlatColor returns the color index of a Flat tile.
func (r *Record) FlatColor() (uint8, bool) {
	return r.color, r.Class == tile.Flat
}

// Fingerprints returns the orientation checksums of a Normal tile.
func (r *Record) Fingerprints() (tile.Fingerprints, bool) {
	if r.fingerprints == nil {
		return tile.Fingerprints{}, false
	}
	return *r.fingerprints, true
}

// IsMaster reports whether r is a unique, stored tile.
func (r *Record) IsMaster() bool {
	return r.Class != tile.Blank && r.Duplicate == nil
}

// HFlip reports whether the tile is its master mirrored horizontally.
func (r *Record) HFlip() bool {
	return r.Duplicate != nil && r.Duplicate.HFlip
}

// VFlip reports whether the tile is its master mirrored vertically.
func (r *Record) VFlip() bool {
	return r.Duplicate != nil && r.Duplicate.VFlip
}

// Analysis is the result of optimizing a range of tiles.
type Analysis struct {
	Records []Record

	tiles *tile.Set
}

// Analyze classifies every tile in tiles, resolves duplicates and assigns
// compacted indices. The tiles are read but never modified.
func Analyze(tiles *tile.Set) (*Analysis, error) {
	a := &Analysis{
		Records: classify(tiles),
		tiles:   tiles,
	}

	if err := a.resolve(); err != nil {
		return nil, err
	}

	if err := a.compact(); err != nil {
		return nil, err
	}

	return a, nil
}

func classify(tiles *tile.Set) []Record {
	records := make([]Record, tiles.Len())
	for i := range records {
		t := tiles.At(i)
		r := &records[i]
		r.Index = i
		r.Class, r.color = tile.Classify(t)
		if r.Class == tile.Normal {
			f := tile.Fingerprint(t)
			r.fingerprints = &f
		}
	}
	return records
}

// Masters returns the number of unique tiles.
func (a *Analysis) Masters() int {
	n := 0
	for i := range a.Records {
		if a.Records[i].IsMaster() {
			n++
		}
	}
	return n
}

// Duplicates returns the number of tiles that reference a master.
func (a *Analysis) Duplicates() int {
	n := 0
	for i := range a.Records {
		if a.Records[i].Duplicate != nil {
			n++
		}
	}
	return n
}

// Unique returns the pixels of each unique tile, ordered by compacted index.
// The slices alias the analyzed tiles.
func (a *Analysis) Unique() ([][]byte, error) {
	n := -1
	for i := range a.Records {
		if r := &a.Records[i]; r.Class != tile.Blank && r.Compact > n {
			n = r.Compact
		}
	}

	unique := make([][]byte, n+1)
	for i := range a.Records {
		r := &a.Records[i]
		if r.Class == tile.Blank || unique[r.Compact] != nil {
			continue
		}
		unique[r.Compact] = a.tiles.At(r.Index)
	}

	for i, u := range unique {
		if u == nil {
			return nil, fmt.Errorf("%w: index %d", ErrIndexGap, i)
		}
	}

	return unique, nil
}
