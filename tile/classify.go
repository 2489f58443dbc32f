package tile

import (
	"bytes"
	"hash/crc32"
)

// Class describes the content of a tile.
type Class int

const (
	// Unclassified is the zero value and is never the result of Classify
	Unclassified Class = iota
	// Blank tiles are every pixel using color index 0
	Blank
	// Flat tiles are every pixel using the same non-zero color index
	Flat
	// Normal tiles are anything else
	Normal
)

func (c Class) String() string {
	switch c {
	case Blank:
		return "blank"
	case Flat:
		return "flat"
	case Normal:
		return "normal"
	default:
		return "unclassified"
	}
}

// Classify reports the class of tile t and, for Flat tiles, its color index.
func Classify(t []byte) (Class, uint8) {
	c := t[0]
	for _, p := range t[1:] {
		if p != c {
			return Normal, 0
		}
	}
	// A blank tile is a flat tile of color 0, but it's kept apart as it
	// means "no tile" in a map rather than a tile that needs storing
	if c == 0 {
		return Blank, 0
	}
	return Flat, c
}

// Fingerprints holds the checksum of a tile in each Orientation, indexed by
// Orientation.
type Fingerprints [4]uint32

// Fingerprint computes the CRC-32 of t in each of the four orientations.
func Fingerprint(t []byte) Fingerprints {
	var (
		f       Fingerprints
		scratch [Size]byte
	)
	for _, o := range Orientations {
		Orient(scratch[:], t, o)
		f[o] = crc32.ChecksumIEEE(scratch[:])
	}
	return f
}

// Equal reports whether two tiles hold identical pixels.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}
