package tilemap_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bodgit/mdgfx/optimize"
	"github.com/bodgit/mdgfx/tile"
	"github.com/bodgit/mdgfx/tilemap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(v byte) []byte {
	return bytes.Repeat([]byte{v}, tile.Size)
}

func pattern(seed byte) []byte {
	t := make([]byte, tile.Size)
	for i := range t {
		t[i] = byte(i%tile.Width+i/tile.Width*3) ^ seed
	}
	return t
}

func oriented(src []byte, o tile.Orientation) []byte {
	dst := make([]byte, tile.Size)
	tile.Orient(dst, src, o)
	return dst
}

func analyze(t *testing.T, tiles ...[]byte) *optimize.Analysis {
	t.Helper()
	s, err := tile.NewSet(bytes.Join(tiles, nil))
	require.NoError(t, err)
	a, err := optimize.Analyze(s)
	require.NoError(t, err)
	return a
}

func TestEntry(t *testing.T) {
	e := tilemap.Entry{Index: 0x123, Palette: 2, Priority: true, HFlip: true}
	v, err := e.Encode()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8000|2<<13|0x0800|0x123), v)
	assert.Equal(t, e, tilemap.ParseEntry(v))

	_, err = tilemap.Entry{Index: 0x800}.Encode()
	assert.True(t, errors.Is(err, tilemap.ErrTileIndex))

	_, err = tilemap.Entry{Palette: 4}.Encode()
	assert.True(t, errors.Is(err, tilemap.ErrPaletteLine))
}

func TestSimple(t *testing.T) {
	m, err := tilemap.Simple(2, 3, tilemap.Options{Palette: 1, TileBase: 0x10})
	require.NoError(t, err)
	want := tilemap.Map{0x2012, 0x2013, 0x2014}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Simple() mismatch (-want +got):\n%s", diff)
	}

	// The last addressable tile is fine, one more is not
	_, err = tilemap.Simple(0x7fe, 2, tilemap.Options{})
	assert.NoError(t, err)
	_, err = tilemap.Simple(0x7fe, 3, tilemap.Options{})
	assert.True(t, errors.Is(err, tilemap.ErrTileIndex))
}

func TestOptimizedRoundTrip(t *testing.T) {
	src := pattern(0)
	a := analyze(t,
		flat(0),
		pattern(0x40),
		src,
		oriented(src, tile.HFlipped),
		oriented(src, tile.VFlipped),
		oriented(src, tile.HVFlipped),
		flat(7),
	)

	opts := tilemap.Options{Palette: 3, Priority: true, TileBase: 0x100}
	m, err := tilemap.Optimized(a.Records, opts)
	require.NoError(t, err)
	require.Len(t, m, len(a.Records))

	// Blank tiles carry no flags at all
	assert.Equal(t, uint16(0), m[0])

	for i, r := range a.Records[1:] {
		e := tilemap.ParseEntry(m[i+1])
		assert.Equal(t, uint16(r.Compact+opts.TileBase), e.Index, "entry %d", i+1)
		assert.Equal(t, opts.Palette, e.Palette)
		assert.Equal(t, opts.Priority, e.Priority)
		assert.Equal(t, r.HFlip(), e.HFlip, "entry %d", i+1)
		assert.Equal(t, r.VFlip(), e.VFlip, "entry %d", i+1)
	}
}

func TestOptimizedHFlip(t *testing.T) {
	src := pattern(0)
	a := analyze(t, src, oriented(src, tile.HFlipped))

	m, err := tilemap.Optimized(a.Records, tilemap.Options{})
	require.NoError(t, err)
	e := tilemap.ParseEntry(m[1])
	assert.True(t, e.HFlip)
	assert.False(t, e.VFlip)
	assert.Equal(t, uint16(a.Records[0].Compact), e.Index)
}

func TestOptimizedRange(t *testing.T) {
	a := analyze(t, pattern(0), pattern(0x40))

	m, err := tilemap.Optimized(a.Records, tilemap.Options{TileBase: 0x7ff})
	assert.True(t, errors.Is(err, tilemap.ErrTileIndex))
	assert.Nil(t, m)

	_, err = tilemap.Optimized(a.Records, tilemap.Options{TileBase: 0x7fe})
	assert.NoError(t, err)
}

func TestMarshal(t *testing.T) {
	m := tilemap.Map{0x1234, 0xabcd}
	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0xab, 0xcd}, b)

	var n tilemap.Map
	require.NoError(t, n.UnmarshalBinary(b))
	assert.Equal(t, m, n)

	assert.True(t, errors.Is(n.UnmarshalBinary([]byte{1, 2, 3}), tilemap.ErrOddLength))

	assert.Equal(t, tilemap.Map{40, 0x1234, 0xabcd}, m.WithWidth(40))
	assert.Equal(t, tilemap.Map{0x1234, 0xabcd}, m)
}
