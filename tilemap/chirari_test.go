package tilemap_test

import (
	"errors"
	"testing"

	"github.com/bodgit/mdgfx/optimize"
	"github.com/bodgit/mdgfx/tile"
	"github.com/bodgit/mdgfx/tilemap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int, r optimize.Record) []optimize.Record {
	out := make([]optimize.Record, n)
	for i := range out {
		out[i] = r
		out[i].Index = i
	}
	return out
}

func TestChirariEntry(t *testing.T) {
	normal := &optimize.Record{Class: tile.Normal, Compact: 5}
	blank := &optimize.Record{Class: tile.Blank}

	for _, tc := range []struct {
		name   string
		record *optimize.Record
		base   int
		length int
		want   uint16
		err    error
	}{
		{"single", normal, 0, 1, 0x0005, nil},
		{"run", normal, 0, 3, 0x6005, nil},
		{"max run", normal, 0x10, 7, 0xe015, nil},
		{"flipped", &optimize.Record{Class: tile.Normal, Compact: 1, Duplicate: &optimize.Duplicate{HFlip: true, VFlip: true}}, 0, 2, 0x5801, nil},
		{"single blank", blank, 0, 1, 0x2001, nil},
		{"long blank", blank, 0, 0x1fff, 0x3fff, nil},
		{"zero run", normal, 0, 0, 0, tilemap.ErrZeroRun},
		{"zero blank run", blank, 0, 0, 0, tilemap.ErrZeroRun},
		{"too long", normal, 0, 8, 0, tilemap.ErrRunLength},
		{"blank too long", blank, 0, 0x2000, 0, tilemap.ErrRunLength},
		{"out of range", normal, 0x7fb, 1, 0, tilemap.ErrTileIndex},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tilemap.ChirariEntry(tc.record, tc.base, tc.length)
			if tc.err != nil {
				assert.True(t, errors.Is(err, tc.err), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestChirariSplitsLongRuns(t *testing.T) {
	m, err := tilemap.Chirari(records(9, optimize.Record{Class: tile.Normal, Compact: 5}), 9, 0)
	require.NoError(t, err)

	want := tilemap.Map{9, 7<<13 | 5, 2<<13 | 5, tilemap.Sentinel}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Chirari() mismatch (-want +got):\n%s", diff)
	}
}

func TestChirariRunBoundaries(t *testing.T) {
	normal := optimize.Record{Class: tile.Normal, Compact: 5}
	for n, want := range map[int]tilemap.Map{
		1:  {1, 5, tilemap.Sentinel},
		7:  {7, 7<<13 | 5, tilemap.Sentinel},
		8:  {8, 7<<13 | 5, 5, tilemap.Sentinel},
		14: {14, 7<<13 | 5, 7<<13 | 5, tilemap.Sentinel},
		15: {15, 7<<13 | 5, 7<<13 | 5, 5, tilemap.Sentinel},
	} {
		m, err := tilemap.Chirari(records(n, normal), uint16(n), 0)
		require.NoError(t, err)
		if diff := cmp.Diff(want, m); diff != "" {
			t.Errorf("Chirari(%d tiles) mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestChirariBlankRuns(t *testing.T) {
	blank := optimize.Record{Class: tile.Blank}

	m, err := tilemap.Chirari(records(0x1fff+3, blank), 64, 0)
	require.NoError(t, err)
	want := tilemap.Map{64, 0x3fff, 0x2003, tilemap.Sentinel}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Chirari() mismatch (-want +got):\n%s", diff)
	}
}

func TestChirariMixed(t *testing.T) {
	src := pattern(0)
	a := analyze(t,
		flat(0), flat(0),
		src, src,
		oriented(src, tile.HFlipped),
		flat(0),
		flat(3), flat(3), flat(3),
	)

	m, err := tilemap.Chirari(a.Records, 9, 0x20)
	require.NoError(t, err)

	// flat(3) is compacted first, src second
	want := tilemap.Map{
		9,
		0x2002,
		2<<13 | 0x21,
		0x0800 | 0x21,
		0x2001,
		3<<13 | 0x20,
		tilemap.Sentinel,
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Chirari() mismatch (-want +got):\n%s", diff)
	}

	width, runs, err := tilemap.DecodeChirari(m)
	require.NoError(t, err)
	assert.Equal(t, uint16(9), width)

	var expanded []optimize.Record
	for _, r := range runs {
		for i := 0; i < r.Length; i++ {
			expanded = append(expanded, optimize.Record{})
			if r.Blank {
				continue
			}
			assert.Equal(t, uint16(a.Records[len(expanded)-1].Compact+0x20), r.Index)
			assert.Equal(t, a.Records[len(expanded)-1].HFlip(), r.HFlip)
			assert.Equal(t, a.Records[len(expanded)-1].VFlip(), r.VFlip)
		}
	}
	assert.Len(t, expanded, len(a.Records))
}

func TestChirariEmpty(t *testing.T) {
	m, err := tilemap.Chirari(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tilemap.Map{0, tilemap.Sentinel}, m)
}

func TestChirariAmbiguous(t *testing.T) {
	r := optimize.Record{Class: tile.Normal, Compact: 0x7ff, Duplicate: &optimize.Duplicate{HFlip: true, VFlip: true}}
	m, err := tilemap.Chirari(append(records(7, r), optimize.Record{Class: tile.Blank}), 8, 0)
	require.NoError(t, err)

	// The encoding is kept as is, but flagged
	assert.Equal(t, tilemap.Map{8, tilemap.Sentinel, 0x2001, tilemap.Sentinel}, m)
	assert.Equal(t, []int{1}, m.AmbiguousChirari())

	_, runs, err := tilemap.DecodeChirari(m)
	assert.True(t, errors.Is(err, tilemap.ErrTrailingData))
	assert.Empty(t, runs)
}

func TestDecodeChirariErrors(t *testing.T) {
	_, _, err := tilemap.DecodeChirari(tilemap.Map{4})
	assert.True(t, errors.Is(err, tilemap.ErrMissingSentinel))

	_, _, err = tilemap.DecodeChirari(tilemap.Map{4, 0x0001})
	assert.True(t, errors.Is(err, tilemap.ErrMissingSentinel))

	_, _, err = tilemap.DecodeChirari(tilemap.Map{4, 0x2000, tilemap.Sentinel})
	assert.True(t, errors.Is(err, tilemap.ErrZeroRun))
}
