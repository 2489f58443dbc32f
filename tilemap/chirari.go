package tilemap

import (
	"errors"
	"fmt"

	"github.com/bodgit/mdgfx/optimize"
	"github.com/bodgit/mdgfx/tile"
)

// The chirari format run-length encodes a map. The first word is the map
// width in tiles and the map ends with Sentinel. Each entry in between is
// either
//
//	001LLLLL LLLLLLLL	a run of L blank tiles
//	RRRVHTTT TTTTTTTT	a run of R copies of tile T, R omitted (0) for 1
//
// A blank run of 1 still carries the 001 marker so it can't be mistaken for
// tile 0. A tile run never has R = 1, so the marker is unambiguous, however
// a run of 7 of tile 0x7ff flipped both ways is indistinguishable from
// Sentinel. Such entries are written as-is; see Map.AmbiguousChirari.
const (
	// Sentinel terminates a chirari map
	Sentinel uint16 = 0xffff

	// MaxTileRun is the longest run of a tile one entry can hold
	MaxTileRun = 7
	// MaxBlankRun is the longest run of blank tiles one entry can hold
	MaxBlankRun = 0x1fff

	blankRunFlag = 1 << 13
	runShift     = 13
)

var (
	// ErrZeroRun is returned when encoding a run with no tiles
	ErrZeroRun = errors.New("tilemap: run length must be positive")
	// ErrRunLength is returned when a run is too long for its field
	ErrRunLength = errors.New("tilemap: run length too long")
	// ErrMissingSentinel is returned decoding a chirari map with no end
	ErrMissingSentinel = errors.New("tilemap: missing chirari map terminator")
	// ErrTrailingData is returned when words follow the first terminator
	ErrTrailingData = errors.New("tilemap: data after chirari map terminator")
)

// ChirariEntry encodes a run of length copies of the tile described by r.
func ChirariEntry(r *optimize.Record, tileBase, length int) (uint16, error) {
	if length < 1 {
		return 0, ErrZeroRun
	}

	if r.Class == tile.Blank {
		if length > MaxBlankRun {
			return 0, fmt.Errorf("%w: %d blank tiles", ErrRunLength, length)
		}
		return blankRunFlag | uint16(length), nil
	}

	if length > MaxTileRun {
		return 0, fmt.Errorf("%w: %d tiles", ErrRunLength, length)
	}

	index := tileBase + r.Compact
	if index < 0 || index > MaxTileIndex {
		return 0, fmt.Errorf("%w: tile %d maps to %#x", ErrTileIndex, r.Index, index)
	}

	v := uint16(index)
	if length > 1 {
		v |= uint16(length) << runShift
	}
	if r.HFlip() {
		v |= hflipMask
	}
	if r.VFlip() {
		v |= vflipMask
	}
	return v, nil
}

func mergeable(a, b *optimize.Record) bool {
	if a.Class == tile.Blank || b.Class == tile.Blank {
		return a.Class == b.Class
	}
	return a.Compact == b.Compact && a.HFlip() == b.HFlip() && a.VFlip() == b.VFlip()
}

// Chirari returns the run-length encoded map of records. Runs of the same
// tile are split every MaxTileRun tiles and runs of blank tiles every
// MaxBlankRun tiles.
func Chirari(records []optimize.Record, width uint16, tileBase int) (Map, error) {
	m := Map{width}

	for i := 0; i < len(records); {
		start := &records[i]

		limit := MaxTileRun
		if start.Class == tile.Blank {
			limit = MaxBlankRun
		}

		n := 1
		for i+n < len(records) && n < limit && mergeable(start, &records[i+n]) {
			n++
		}

		v, err := ChirariEntry(start, tileBase, n)
		if err != nil {
			return nil, err
		}
		m = append(m, v)

		i += n
	}

	return append(m, Sentinel), nil
}

// AmbiguousChirari returns the positions of any entries in the chirari map
// m, other than the final one, that equal Sentinel. A consumer reading the
// map would stop early at the first of them.
func (m Map) AmbiguousChirari() []int {
	var positions []int
	for i := 1; i < len(m)-1; i++ {
		if m[i] == Sentinel {
			positions = append(positions, i)
		}
	}
	return positions
}

// Run is a decoded chirari entry.
type Run struct {
	Blank  bool
	Index  uint16
	HFlip  bool
	VFlip  bool
	Length int
}

// DecodeChirari decodes a chirari map the way a consumer would, stopping at
// the first Sentinel.
func DecodeChirari(m Map) (uint16, []Run, error) {
	if len(m) < 2 {
		return 0, nil, ErrMissingSentinel
	}

	width := m[0]

	var runs []Run
	for i, v := range m[1:] {
		if v == Sentinel {
			if i+2 != len(m) {
				return width, runs, fmt.Errorf("%w: %d words", ErrTrailingData, len(m)-i-2)
			}
			return width, runs, nil
		}

		if v>>runShift == 1 {
			if v&MaxBlankRun == 0 {
				return width, runs, fmt.Errorf("%w: entry %d", ErrZeroRun, i+1)
			}
			runs = append(runs, Run{Blank: true, Length: int(v & MaxBlankRun)})
			continue
		}

		length := int(v >> runShift)
		if length == 0 {
			length = 1
		}
		runs = append(runs, Run{
			Index:  v & indexMask,
			HFlip:  v&hflipMask != 0,
			VFlip:  v&vflipMask != 0,
			Length: length,
		})
	}

	return width, runs, ErrMissingSentinel
}
