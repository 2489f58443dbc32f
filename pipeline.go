package mdgfx

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	_ "image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/mdgfx/image"
	"github.com/bodgit/mdgfx/optimize"
)

var (
	errCancelled  = errors.New("walk cancelled")
	errNotRegular = errors.New("output exists and is not a regular file")
)

func (c *Converter) findBanks(ctx context.Context, banks int) (<-chan int, <-chan error, error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for bank := 0; bank < banks; bank++ {
			select {
			case out <- bank:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc, nil
}

func (c *Converter) bankWorker(ctx context.Context, in <-chan int, img *image.Image, rows int, analyses []*optimize.Analysis) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for bank := range in {
			select {
			case <-ctx.Done():
				return
			default:
			}

			a, err := optimize.Analyze(img.Rows(bank*rows, rows))
			if err != nil {
				errc <- fmt.Errorf("bank %d: %w", bank, err)
				return
			}
			// Each bank is only ever handled by one worker
			analyses[bank] = a
		}
	}()
	return errc, nil
}

// analyzeBanks analyzes each bank of rows tile rows independently,
// returning the analyses in bank order. Any trailing rows that don't fill
// a bank are ignored.
func (c *Converter) analyzeBanks(ctx context.Context, img *image.Image, rows int) ([]*optimize.Analysis, error) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	analyses := make([]*optimize.Analysis, img.Height/rows)

	var errcList []<-chan error

	banks, errc, err := c.findBanks(ctx, len(analyses))
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < c.workers && i < len(analyses); i++ {
		errc, err := c.bankWorker(ctx, banks, img, rows, analyses)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(cancelFunc, errcList...); err != nil {
		return nil, err
	}

	return analyses, nil
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(file), ".png") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string, cfg Config) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			// Don't start on another image once something has failed
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := c.Convert(file, cfg); err != nil {
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}
			if c.progress != nil {
				c.progress(file)
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage. The pipeline is
// cancelled at that point and every stage is waited for before returning.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch converts every PNG image under path with cfg, writing each
// image's output next to it. The output prefix in cfg is ignored.
func (c *Converter) Batch(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.OutPrefix = ""

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < c.workers; i++ {
		errc, err := c.imageWorker(ctx, files, cfg)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}

// Convert converts the image at path with cfg and writes the artifacts.
// With an asset database a previous conversion of the same image and
// configuration is reused.
func (c *Converter) Convert(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	prefix := cfg.OutPrefix
	if prefix == "" {
		prefix = strings.TrimSuffix(path, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var r *Result
	if c.db != nil {
		if r, err = c.db.Find(sha, cfg.key()); err != nil {
			return err
		}
		if r != nil {
			c.logger.Printf("Using cached conversion of \"%s\", with SHA1 \"%s\"\n", path, sha)
		}
	}

	if r == nil {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		img, err := image.Read(f)
		if err != nil {
			return err
		}

		c.logger.Printf("Converting \"%s\"\n", path)
		if r, err = c.Build(img, cfg); err != nil {
			return err
		}
		if c.db != nil {
			if err := c.db.Store(path, sha, cfg.key(), r); err != nil {
				return err
			}
		}
	}

	return c.write(prefix, r)
}

// write writes every artifact to a temporary file alongside its target and
// only renames them into place once they have all been written, so a
// failure leaves any existing output untouched.
func (c *Converter) write(prefix string, r *Result) error {
	for _, a := range r.Artifacts {
		file := prefix + a.Suffix
		if info, err := os.Stat(file); err == nil && !info.Mode().IsRegular() {
			return fmt.Errorf("%s: %w", file, errNotRegular)
		}
	}

	temps := make([]string, 0, len(r.Artifacts))
	defer func() {
		// Anything already renamed is no longer there
		for _, t := range temps {
			os.Remove(t)
		}
	}()

	for _, a := range r.Artifacts {
		f, err := ioutil.TempFile(filepath.Dir(prefix), filepath.Base(prefix)+a.Suffix+".*.tmp")
		if err != nil {
			return err
		}
		temps = append(temps, f.Name())

		if _, err := f.Write(a.Data); err != nil {
			f.Close()
			return err
		}
		if err := f.Chmod(0644); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	for i, a := range r.Artifacts {
		file := prefix + a.Suffix
		if err := os.Rename(temps[i], file); err != nil {
			return err
		}
		c.logger.Printf("Wrote \"%s\" (%d bytes)\n", file, len(a.Data))
	}

	return nil
}
