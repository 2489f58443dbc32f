/*
Package mdgfx is a library for converting indexed color images into Sega
Mega Drive tiles, palettes and tilemaps.
*/
package mdgfx

import (
	"io/ioutil"
	"log"
)

const defaultWorkers = 10

type Converter struct {
	logger   *log.Logger
	db       *AssetDB
	workers  int
	progress func(string)
}

// Option configures a Converter.
type Option func(*Converter)

// WithAssetDB caches conversions in db, reusing the stored artifacts when
// the same image is converted again with the same configuration.
func WithAssetDB(db *AssetDB) Option {
	return func(c *Converter) { c.db = db }
}

// WithWorkers sets the number of images or banks processed concurrently.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress calls f after each image converted by Batch.
func WithProgress(f func(file string)) Option {
	return func(c *Converter) { c.progress = f }
}

func New(logger *log.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	c := &Converter{
		logger:  logger,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
