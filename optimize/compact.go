package optimize

import (
	"fmt"

	"github.com/bodgit/mdgfx/tile"
)

// compact numbers the masters, flat tiles first then normal tiles, each in
// scan order, and copies the number of each master to its duplicates.
func (a *Analysis) compact() error {
	next := 0

	for _, class := range []tile.Class{tile.Flat, tile.Normal} {
		for i := range a.Records {
			r := &a.Records[i]
			if r.Class == tile.Unclassified {
				return fmt.Errorf("%w: tile %d", ErrUnclassified, r.Index)
			}
			if r.Class == class && r.Duplicate == nil {
				r.Compact = next
				next++
			}
		}
	}

	for i := range a.Records {
		if r := &a.Records[i]; r.Duplicate != nil {
			r.Compact = a.Records[r.Duplicate.Master].Compact
		}
	}

	return nil
}
