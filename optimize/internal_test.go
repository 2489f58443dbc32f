package optimize

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bodgit/mdgfx/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnclassified(t *testing.T) {
	tiles, err := tile.NewSet(make([]byte, 2*tile.Size))
	require.NoError(t, err)

	a := &Analysis{Records: make([]Record, 2), tiles: tiles}
	assert.True(t, errors.Is(a.resolve(), ErrUnclassified))
	assert.True(t, errors.Is(a.compact(), ErrUnclassified))
}

func TestIndexGap(t *testing.T) {
	tiles, err := tile.NewSet(bytes.Repeat([]byte{1}, 2*tile.Size))
	require.NoError(t, err)

	a := &Analysis{
		Records: []Record{
			{Index: 0, Class: tile.Flat, color: 1, Compact: 0},
			{Index: 1, Class: tile.Flat, color: 1, Compact: 2},
		},
		tiles: tiles,
	}
	_, err = a.Unique()
	assert.True(t, errors.Is(err, ErrIndexGap))
}
