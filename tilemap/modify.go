package tilemap

import "fmt"

// Modifier rewrites the attributes of every entry in a nametable map. A nil
// field leaves that attribute untouched.
type Modifier struct {
	HFlip    *bool
	VFlip    *bool
	Priority *bool
	Palette  *PaletteLine
	// IndexDelta is added to each tile index, wrapping within 11 bits
	IndexDelta int
	// PreserveZero leaves the index of entries referencing tile 0 alone,
	// as they usually mean "no tile"
	PreserveZero bool
}

func setBit(v uint16, mask uint16, set bool) uint16 {
	if set {
		return v | mask
	}
	return v &^ mask
}

// Apply modifies m in place.
func (mod *Modifier) Apply(m Map) error {
	if mod.Palette != nil && !mod.Palette.Valid() {
		return fmt.Errorf("%w: %d", ErrPaletteLine, *mod.Palette)
	}

	for i, v := range m {
		if mod.HFlip != nil {
			v = setBit(v, hflipMask, *mod.HFlip)
		}
		if mod.VFlip != nil {
			v = setBit(v, vflipMask, *mod.VFlip)
		}
		if mod.Priority != nil {
			v = setBit(v, priorityMask, *mod.Priority)
		}
		if mod.Palette != nil {
			v = v&^paletteMask | uint16(*mod.Palette)<<paletteBit
		}
		if mod.IndexDelta != 0 && !(mod.PreserveZero && v&indexMask == 0) {
			index := (int(v&indexMask) + mod.IndexDelta) & indexMask
			v = v&^indexMask | uint16(index)
		}
		m[i] = v
	}

	return nil
}

func checkWidth(m Map, width int) error {
	if width < 1 || len(m)%width != 0 {
		return fmt.Errorf("%w: %d entries, width %d", ErrWidth, len(m), width)
	}
	return nil
}

// MirrorH mirrors the map m, width tiles wide, horizontally in place: every
// row is reversed and every entry has its horizontal flip toggled.
func MirrorH(m Map, width int) error {
	if err := checkWidth(m, width); err != nil {
		return err
	}

	for row := 0; row < len(m); row += width {
		r := m[row : row+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
	}
	for i := range m {
		m[i] ^= hflipMask
	}

	return nil
}

// MirrorV mirrors the map m, width tiles wide, vertically in place: the row
// order is reversed and every entry has its vertical flip toggled.
func MirrorV(m Map, width int) error {
	if err := checkWidth(m, width); err != nil {
		return err
	}

	rows := len(m) / width
	for i, j := 0, rows-1; i < j; i, j = i+1, j-1 {
		a, b := m[i*width:(i+1)*width], m[j*width:(j+1)*width]
		for k := range a {
			a[k], b[k] = b[k], a[k]
		}
	}
	for i := range m {
		m[i] ^= vflipMask
	}

	return nil
}
