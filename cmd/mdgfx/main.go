package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/bodgit/mdgfx"
	"github.com/bodgit/mdgfx/tilemap"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// globalFlags are shared by every command. The asset cache is only used
// when --db or MDGFX_DB names a database.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MDGFX_DB"},
			Usage:   "path to asset cache database, caching is disabled if unset",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}
}

func conversionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "rows-per-bank",
			Aliases: []string{"r"},
			Usage:   "split the image into banks of this many tile rows",
		},
		&cli.IntFlag{
			Name:    "tile-base",
			Aliases: []string{"i"},
			Usage:   "add this to every tile index in tilemaps",
		},
		&cli.IntFlag{
			Name:    "palette-line",
			Aliases: []string{"l"},
			Usage:   "palette line (0-3) used in tilemaps",
		},
		&cli.BoolFlag{
			Name:    "make-palette",
			Aliases: []string{"p"},
			Usage:   "write the palette",
		},
		&cli.BoolFlag{
			Name:    "tile-priority",
			Aliases: []string{"P"},
			Usage:   "set the priority bit in tilemaps",
		},
		&cli.BoolFlag{
			Name:    "optimize",
			Aliases: []string{"z"},
			Usage:   "remove duplicate tiles, including flipped ones",
		},
		&cli.BoolFlag{
			Name:    "chr-by-bank",
			Aliases: []string{"b"},
			Usage:   "write the tiles of each bank separately",
		},
		&cli.BoolFlag{
			Name:    "make-tilemap",
			Aliases: []string{"t"},
			Usage:   "write a tilemap",
		},
		&cli.BoolFlag{
			Name:    "width-header",
			Aliases: []string{"w"},
			Usage:   "prefix tilemaps with their width in tiles",
		},
		&cli.BoolFlag{
			Name:    "chirari-rle",
			Aliases: []string{"e"},
			Usage:   "run-length encode tilemaps in chirari format (requires --optimize)",
		},
	}
}

func configFromFlags(c *cli.Context) mdgfx.Config {
	return mdgfx.Config{
		OutPrefix:   c.String("output"),
		RowsPerBank: c.Int("rows-per-bank"),
		TileBase:    c.Int("tile-base"),
		Palette:     tilemap.PaletteLine(c.Int("palette-line")),
		Priority:    c.Bool("tile-priority"),
		MakePalette: c.Bool("make-palette"),
		Optimize:    c.Bool("optimize"),
		ChrByBank:   c.Bool("chr-by-bank"),
		MakeTilemap: c.Bool("make-tilemap"),
		WidthHeader: c.Bool("width-header"),
		ChirariRLE:  c.Bool("chirari-rle"),
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openDB(c *cli.Context) (*mdgfx.AssetDB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return mdgfx.NewAssetDB(c.String("db"))
}

// optionalBool returns nil unless exactly one of --name or --no-name was
// given.
func optionalBool(c *cli.Context, name string) (*bool, error) {
	on, off := c.Bool(name), c.Bool("no-"+name)
	switch {
	case on && off:
		return nil, fmt.Errorf("--%s and --no-%s are mutually exclusive", name, name)
	case on || off:
		return &on, nil
	}
	return nil, nil
}

func mapmod(c *cli.Context) error {
	in := c.Args().First()

	out := c.String("output")
	switch {
	case c.Bool("in-place"):
		out = in
	case out == "":
		return fmt.Errorf("no output specified, use --output or --in-place")
	}

	b, err := ioutil.ReadFile(in)
	if err != nil {
		return err
	}

	var m tilemap.Map
	if err := m.UnmarshalBinary(b); err != nil {
		return err
	}

	mod := tilemap.Modifier{
		IndexDelta:   c.Int("chridx-delta"),
		PreserveZero: c.Bool("preserve-index-zero"),
	}
	if mod.HFlip, err = optionalBool(c, "hflip"); err != nil {
		return err
	}
	if mod.VFlip, err = optionalBool(c, "vflip"); err != nil {
		return err
	}
	if mod.Priority, err = optionalBool(c, "priority"); err != nil {
		return err
	}
	if c.IsSet("pal-line") {
		p := tilemap.PaletteLine(c.Int("pal-line"))
		mod.Palette = &p
	}

	if err := mod.Apply(m); err != nil {
		return err
	}

	width := c.Int("width")
	if c.Bool("map-hflip") {
		if err := tilemap.MirrorH(m, width); err != nil {
			return err
		}
	}
	if c.Bool("map-vflip") {
		if err := tilemap.MirrorV(m, width); err != nil {
			return err
		}
	}

	if b, err = m.MarshalBinary(); err != nil {
		return err
	}

	return ioutil.WriteFile(out, b, 0666)
}

func main() {
	app := cli.NewApp()

	app.Name = "mdgfx"
	app.Usage = "Sega Mega Drive graphics conversion utility"
	app.Version = "1.0.0"

	app.Flags = globalFlags()

	app.Commands = []*cli.Command{
		{
			Name:        "tochr",
			Usage:       "Convert an indexed color image to tiles, tilemaps and a palette",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output path prefix, defaults to the image path without its extension",
				},
			}, conversionFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				opts := []mdgfx.Option{}
				if db != nil {
					defer db.Close()
					opts = append(opts, mdgfx.WithAssetDB(db))
				}

				m := mdgfx.New(newLogger(c), opts...)
				if err := m.Convert(c.Args().First(), configFromFlags(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every PNG image in a directory tree",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of images converted at once",
				},
			}, conversionFlags()...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
				opts := []mdgfx.Option{
					mdgfx.WithWorkers(c.Int("workers")),
					mdgfx.WithProgress(func(string) { bar.Add(1) }),
				}
				if db != nil {
					defer db.Close()
					opts = append(opts, mdgfx.WithAssetDB(db))
				}

				m := mdgfx.New(newLogger(c), opts...)
				err = m.Batch(c.Args().First(), configFromFlags(c))
				bar.Finish()
				fmt.Fprintln(os.Stderr)

				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "mapmod",
			Usage:       "Modify the entries of an existing tilemap",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "hflip", Usage: "set the horizontal flip bit"},
				&cli.BoolFlag{Name: "no-hflip", Usage: "clear the horizontal flip bit"},
				&cli.BoolFlag{Name: "vflip", Usage: "set the vertical flip bit"},
				&cli.BoolFlag{Name: "no-vflip", Usage: "clear the vertical flip bit"},
				&cli.BoolFlag{Name: "priority", Usage: "set the priority bit"},
				&cli.BoolFlag{Name: "no-priority", Usage: "clear the priority bit"},
				&cli.IntFlag{Name: "pal-line", Usage: "set the palette line (0-3)"},
				&cli.IntFlag{Name: "chridx-delta", Usage: "add this to every tile index"},
				&cli.BoolFlag{Name: "preserve-index-zero", Usage: "don't apply --chridx-delta to entries referencing tile 0"},
				&cli.IntFlag{Name: "width", Usage: "width of the map in tiles, needed by --map-hflip and --map-vflip"},
				&cli.BoolFlag{Name: "map-hflip", Usage: "mirror the whole map horizontally"},
				&cli.BoolFlag{Name: "map-vflip", Usage: "mirror the whole map vertically"},
				&cli.BoolFlag{Name: "in-place", Usage: "overwrite the source tilemap"},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "path to write the modified tilemap to",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := mapmod(c); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the conversions in the asset cache",
			Description: "",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db == nil {
					return cli.NewExitError("no asset cache database", 1)
				}
				defer db.Close()

				conversions, err := db.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, cv := range conversions {
					fmt.Printf("%s\t%s\t%d tiles\t%d unique\t%s\n", cv.Source, cv.SHA1, cv.Tiles, cv.Unique, strings.Join(cv.Suffixes, " "))
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
