package optimize

import (
	"fmt"

	"github.com/bodgit/mdgfx/tile"
)

// resolve marks duplicates. Work tiles are visited from the last to the
// first and each is compared against the tiles before it, first to last, so
// a duplicate always points at the earliest tile it matches. As the earlier
// tiles haven't been visited yet that tile can't be a duplicate itself,
// keeping every chain to a single hop.
func (a *Analysis) resolve() error {
	var scratch [tile.Size]byte

	for w := len(a.Records) - 1; w >= 0; w-- {
		work := &a.Records[w]

		switch work.Class {
		case tile.Unclassified:
			return fmt.Errorf("%w: tile %d", ErrUnclassified, work.Index)
		case tile.Blank:
			continue
		}

		for c := 0; c < w; c++ {
			compare := &a.Records[c]

			if compare.Class == tile.Blank || compare.Duplicate != nil {
				continue
			}

			if work.Class == tile.Flat {
				if compare.Class == tile.Flat && compare.color == work.color {
					work.Duplicate = &Duplicate{Master: compare.Index}
					break
				}
				continue
			}

			if d := a.match(work, compare, scratch[:]); d != nil {
				work.Duplicate = d
				break
			}
		}
	}

	return nil
}

// match tests each orientation of the work tile against the compare tile.
// A matching checksum is only a candidate; the pixels decide.
func (a *Analysis) match(work, compare *Record, scratch []byte) *Duplicate {
	if compare.fingerprints == nil {
		return nil
	}
	want := compare.fingerprints[tile.Identity]
	target := a.tiles.At(compare.Index)

	for _, o := range tile.Orientations {
		if work.fingerprints[o] != want {
			continue
		}
		tile.Orient(scratch, a.tiles.At(work.Index), o)
		if tile.Equal(scratch, target) {
			return &Duplicate{
				Master: compare.Index,
				HFlip:  o.HFlip(),
				VFlip:  o.VFlip(),
			}
		}
	}

	return nil
}
