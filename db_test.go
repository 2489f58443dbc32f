package mdgfx_test

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/mdgfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssetDB(t *testing.T) *mdgfx.AssetDB {
	t.Helper()
	db, err := mdgfx.NewAssetDB(filepath.Join(t.TempDir(), "mdgfx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAssetDBStoreFind(t *testing.T) {
	db := newAssetDB(t)

	r, err := db.Find("ABCD", "config")
	require.NoError(t, err)
	assert.Nil(t, r)

	want := &mdgfx.Result{
		Artifacts: []mdgfx.Artifact{
			{Suffix: ".chr", Data: bytes.Repeat([]byte{0x12, 0x34}, 64)},
			{Suffix: ".map", Data: []byte{0x00, 0x02, 0xff, 0xff}},
		},
		Tiles:  4,
		Unique: 2,
	}
	require.NoError(t, db.Store("a.png", "ABCD", "config", want))

	r, err = db.Find("ABCD", "config")
	require.NoError(t, err)
	assert.Equal(t, want, r)

	r, err = db.Find("ABCD", "other")
	require.NoError(t, err)
	assert.Nil(t, r)

	// Storing again replaces the previous result
	want.Artifacts = want.Artifacts[:1]
	require.NoError(t, db.Store("b.png", "ABCD", "config", want))

	r, err = db.Find("ABCD", "config")
	require.NoError(t, err)
	assert.Equal(t, want, r)

	conversions, err := db.List()
	require.NoError(t, err)
	require.Len(t, conversions, 1)
	assert.Equal(t, "b.png", conversions[0].Source)
	assert.Equal(t, []string{".chr"}, conversions[0].Suffixes)
}

func TestConvertCached(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "title.png")
	writePNG(t, source, mirrored())

	db := newAssetDB(t)
	buf := new(bytes.Buffer)
	c := mdgfx.New(log.New(buf, "", 0), mdgfx.WithAssetDB(db))

	cfg := mdgfx.Config{MakeTilemap: true, Optimize: true, ChirariRLE: true}
	require.NoError(t, c.Convert(source, cfg))

	chr, err := ioutil.ReadFile(filepath.Join(dir, "title.chr"))
	require.NoError(t, err)
	tilemap, err := ioutil.ReadFile(filepath.Join(dir, "title.map"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "title.chr")))
	require.NoError(t, os.Remove(filepath.Join(dir, "title.map")))
	assert.NotContains(t, buf.String(), "Using cached")

	require.NoError(t, c.Convert(source, cfg))
	assert.Contains(t, buf.String(), "Using cached")

	b, err := ioutil.ReadFile(filepath.Join(dir, "title.chr"))
	require.NoError(t, err)
	assert.Equal(t, chr, b)
	b, err = ioutil.ReadFile(filepath.Join(dir, "title.map"))
	require.NoError(t, err)
	assert.Equal(t, tilemap, b)

	// A different configuration is converted afresh
	buf.Reset()
	require.NoError(t, c.Convert(source, mdgfx.Config{MakeTilemap: true}))
	assert.NotContains(t, buf.String(), "Using cached")

	conversions, err := db.List()
	require.NoError(t, err)
	require.Len(t, conversions, 2)
	for _, cv := range conversions {
		assert.Equal(t, source, cv.Source)
		assert.Equal(t, 2, cv.Tiles)
		assert.Len(t, cv.SHA1, 40)
		assert.Equal(t, strings.ToUpper(cv.SHA1), cv.SHA1)
	}
}
