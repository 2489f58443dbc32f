package mdgfx

import (
	"database/sql"
	"fmt"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// Conversion is a cached conversion of one image.
type Conversion struct {
	ID     int64
	Source string
	SHA1   string
	Config string
	Tiles  int
	Unique int
	// Suffixes lists the stored artifacts in the order they were built
	Suffixes []string
}

// AssetDB caches conversion results in a SQLite database keyed by the
// SHA-1 of the source image and the configuration used. Artifact data is
// stored zstd compressed.
type AssetDB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Batch workers share the database and SQLite only has one writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, source TEXT NOT NULL, sha1 TEXT NOT NULL, config TEXT NOT NULL, tiles INTEGER NOT NULL, unique_tiles INTEGER NOT NULL, UNIQUE(sha1, config))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS artifact (id INTEGER PRIMARY KEY NOT NULL, conversion_id INTEGER NOT NULL, suffix TEXT NOT NULL, data BLOB NOT NULL, FOREIGN KEY(conversion_id) REFERENCES conversion(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &AssetDB{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

func (db *AssetDB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

// Find returns the cached result for the image with the given SHA-1
// converted with config, or nil if there isn't one.
func (db *AssetDB) Find(sha, config string) (*Result, error) {
	var (
		id int64
		r  Result
	)
	switch err := db.db.QueryRow("SELECT id, tiles, unique_tiles FROM conversion WHERE sha1 = ? AND config = ?", sha, config).Scan(&id, &r.Tiles, &r.Unique); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	rows, err := db.db.Query("SELECT suffix, data FROM artifact WHERE conversion_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			suffix string
			data   []byte
		)
		if err := rows.Scan(&suffix, &data); err != nil {
			return nil, err
		}
		b, err := db.dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("artifact %s: %w", suffix, err)
		}
		r.add(suffix, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &r, nil
}

// Store records the result of converting source, replacing any previous
// result for the same image and configuration.
func (db *AssetDB) Store(source, sha, config string, r *Result) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM conversion WHERE sha1 = ? AND config = ?", sha, config); err != nil {
		return err
	}

	result, err := tx.Exec("INSERT INTO conversion (source, sha1, config, tiles, unique_tiles) VALUES (?, ?, ?, ?, ?)", source, sha, config, r.Tiles, r.Unique)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, a := range r.Artifacts {
		if _, err = tx.Exec("INSERT INTO artifact (conversion_id, suffix, data) VALUES (?, ?, ?)", id, a.Suffix, db.enc.EncodeAll(a.Data, nil)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns every cached conversion ordered by source.
func (db *AssetDB) List() ([]Conversion, error) {
	rows, err := db.db.Query("SELECT id, source, sha1, config, tiles, unique_tiles FROM conversion ORDER BY source, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.ID, &c.Source, &c.SHA1, &c.Config, &c.Tiles, &c.Unique); err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range conversions {
		if conversions[i].Suffixes, err = db.suffixes(conversions[i].ID); err != nil {
			return nil, err
		}
	}

	return conversions, nil
}

func (db *AssetDB) suffixes(id int64) ([]string, error) {
	rows, err := db.db.Query("SELECT suffix FROM artifact WHERE conversion_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suffixes []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		suffixes = append(suffixes, s)
	}
	return suffixes, rows.Err()
}
