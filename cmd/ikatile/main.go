package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bodgit/ikatile"
	"github.com/bodgit/ikatile/sheet"
	"github.com/urfave/cli/v2"
)

const defaultDB = "ikatile.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newTool(c *cli.Context) (*ikatile.Tool, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return ikatile.New(c.String("db"), logger)
}

// run opens the tool and hands it to fn after checking at least n arguments
// were passed
func run(n int, fn func(*cli.Context, *ikatile.Tool) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		t, err := newTool(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer t.Close()

		if err := fn(c, t); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func printEntries(w io.Writer, entries []ikatile.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tVERSION\tSIZE\tTILES\tSTRANDS\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%d\t%d\t%s\n", e.Path, e.Version, e.TileWidth, e.TileHeight, e.Tiles, e.Strands, e.Description)
	}
	return tw.Flush()
}

func main() {
	app := cli.NewApp()

	app.Name = "ikatile"
	app.Usage = "Tile bank management utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IKATILE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show the header of a tile bank",
			ArgsUsage: "FILE",
			Action: run(1, func(c *cli.Context, t *ikatile.Tool) error {
				cfg, err := t.Info(c.Args().First())
				if err != nil {
					return err
				}

				fmt.Printf("Version:     %d\n", cfg.Version)
				fmt.Printf("Tile size:   %dx%d\n", cfg.TileWidth, cfg.TileHeight)
				fmt.Printf("Tiles:       %d\n", cfg.Tiles)
				fmt.Printf("Depth:       %d bytes per pixel\n", cfg.BPP)
				fmt.Printf("Compressed:  %t\n", cfg.Compressed)
				if cfg.Description != "" {
					fmt.Printf("Description: %s\n", cfg.Description)
				}

				return nil
			}),
		},
		{
			Name:        "convert",
			Usage:       "Rewrite a tile bank in the current format",
			Description: "Any older version is read and written back as version 6.",
			ArgsUsage:   "IN OUT",
			Action: run(2, func(c *cli.Context, t *ikatile.Tool) error {
				return t.Convert(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:      "export",
			Usage:     "Export a tile bank as a PNG sheet",
			ArgsUsage: "IN OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "columns",
					Value: 16,
					Usage: "tiles per row",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "zoom factor",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce to a palette of this many colors, 0 keeps full color",
				},
			},
			Action: run(2, func(c *cli.Context, t *ikatile.Tool) error {
				return t.Export(c.Args().Get(0), c.Args().Get(1), &sheet.Options{
					Columns: c.Int("columns"),
					Scale:   c.Int("scale"),
					Colors:  c.Int("colors"),
				})
			}),
		},
		{
			Name:        "import",
			Usage:       "Build a tile bank from a sheet image",
			Description: "The image is cut into tiles left to right, top to bottom. Empty cells at the end are dropped.",
			ArgsUsage:   "IN OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 16,
					Usage: "tile width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 16,
					Usage: "tile height",
				},
				&cli.StringFlag{
					Name:  "description",
					Usage: "bank description",
				},
			},
			Action: run(2, func(c *cli.Context, t *ikatile.Tool) error {
				return t.Import(c.Args().Get(0), c.Args().Get(1), c.Int("width"), c.Int("height"), c.String("description"))
			}),
		},
		{
			Name:      "quantize",
			Usage:     "Reduce the colors of a tile bank",
			ArgsUsage: "IN OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 256,
					Usage: "maximum number of colors",
				},
			},
			Action: run(2, func(c *cli.Context, t *ikatile.Tool) error {
				return t.Quantize(c.Args().Get(0), c.Args().Get(1), c.Int("colors"))
			}),
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and catalog tile banks",
			ArgsUsage: "DIRECTORY",
			Action: run(1, func(c *cli.Context, t *ikatile.Tool) error {
				return t.Scan(c.Args().First())
			}),
		},
		{
			Name:  "find",
			Usage: "List catalogued tile banks",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Usage: "only banks with this tile width",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "only banks with this tile height",
				},
			},
			Action: run(0, func(c *cli.Context, t *ikatile.Tool) error {
				entries, err := t.Find(c.Int("width"), c.Int("height"))
				if err != nil {
					return err
				}
				return printEntries(os.Stdout, entries)
			}),
		},
		{
			Name:      "duplicates",
			Usage:     "List catalogued copies of a tile bank",
			ArgsUsage: "FILE",
			Action: run(1, func(c *cli.Context, t *ikatile.Tool) error {
				entries, err := t.Duplicates(c.Args().First())
				if err != nil {
					return err
				}
				return printEntries(os.Stdout, entries)
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
