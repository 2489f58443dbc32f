package tile

// Orientation is a combination of horizontal and vertical mirroring.
type Orientation int

const (
	Identity Orientation = iota
	HFlipped
	VFlipped
	HVFlipped
)

// Orientations lists every Orientation in the order duplicates are matched.
var Orientations = [...]Orientation{Identity, HFlipped, VFlipped, HVFlipped}

// HFlip reports whether o mirrors the tile horizontally.
func (o Orientation) HFlip() bool {
	return o == HFlipped || o == HVFlipped
}

// VFlip reports whether o mirrors the tile vertically.
func (o Orientation) VFlip() bool {
	return o == VFlipped || o == HVFlipped
}

func (o Orientation) String() string {
	switch o {
	case HFlipped:
		return "h"
	case VFlipped:
		return "v"
	case HVFlipped:
		return "hv"
	default:
		return "none"
	}
}

// HFlip mirrors t in place by reversing the pixels of every row.
func HFlip(t []byte) {
	for y := 0; y < Height; y++ {
		row := t[y*Width : y*Width+Width]
		for i, j := 0, Width-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}

// VFlip mirrors t in place by reversing the order of the rows.
func VFlip(t []byte) {
	var tmp [Width]byte
	for i, j := 0, Height-1; i < j; i, j = i+1, j-1 {
		a, b := t[i*Width:i*Width+Width], t[j*Width:j*Width+Width]
		copy(tmp[:], a)
		copy(a, b)
		copy(b, tmp[:])
	}
}

// Orient copies src into dst and applies o to dst. src is never modified.
func Orient(dst, src []byte, o Orientation) {
	copy(dst, src)
	if o.HFlip() {
		HFlip(dst)
	}
	if o.VFlip() {
		VFlip(dst)
	}
}
