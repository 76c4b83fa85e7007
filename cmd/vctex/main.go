package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/bodgit/vctex"
	"github.com/bodgit/vctex/catalog"
	"github.com/bodgit/vctex/decoder"
	"github.com/bodgit/vctex/t64"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openCatalog(c *cli.Context) (*catalog.DB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return catalog.Open(c.String("db"))
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	direction, err := vctex.ParseDirection(c.String("mode"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	if direction == vctex.TEX0ToT64 {
		return cli.Exit(vctex.ErrUnsupportedDirection, 1)
	}

	db, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if db != nil {
		defer db.Close()
	}

	cfg := vctex.Config{
		OutputDir:  c.String("output"),
		Catalog:    db,
		Thumbnails: c.Bool("thumbnails"),
		Workers:    c.Int("workers"),
	}
	if c.Bool("png") {
		cfg.Decoder = &decoder.Wimgt{
			Path:    c.String("wimgt"),
			Timeout: c.Duration("timeout"),
		}
	}

	conv, err := vctex.New(cfg, newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}

	summary, err := conv.Run(context.Background(), c.Args().First(), direction)
	if summary != nil {
		for _, r := range summary.Results {
			switch {
			case r.Err == nil:
			case !vctex.IsFatal(r.Err):
				fmt.Fprintf(os.Stderr, "WARNING: %s, ignoring.\n", r.Err)
			case len(summary.Results) > 1:
				// A single failure is reported by the exit error
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", r.Err)
			}
		}
		if len(summary.Results) > 1 {
			fmt.Fprintf(os.Stderr, "%d converted, %d skipped, %d failed\n", summary.Converted, summary.Rejected, summary.Failed)
		}
	}
	if err != nil && vctex.IsFatal(err) {
		return cli.Exit(err, 1)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	tex, err := t64.DecodeFile(c.Args().First())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", vctex.ErrPathNotFound, c.Args().First())
		}
		return cli.Exit(err, 1)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "typeROM:    %q\n", tex.TypeROM.String)
	fmt.Fprintf(w, "unk_34:     0x%X\n", tex.Unk34)
	fmt.Fprintf(w, "size:       %dx%d\n", tex.SizeX, tex.SizeY)
	fmt.Fprintf(w, "wrap:       %s %s\n", tex.WrapS, tex.WrapT)
	fmt.Fprintf(w, "mode:       0x%X\n", tex.Mode)
	fmt.Fprintf(w, "format:     %s\n", tex.Format)
	fmt.Fprintf(w, "address:    0x%04X\n", tex.Address&0xffff)
	fmt.Fprintf(w, "codePixel:  %s\n", tex.CodePixel)
	fmt.Fprintf(w, "codeColor:  %s\n", tex.CodeColor)
	fmt.Fprintf(w, "data0:      %s\n", tex.Data0)
	fmt.Fprintf(w, "data1:      %s\n", tex.Data1)
	fmt.Fprintf(w, "palette:    %d bytes\n", len(tex.Palette))
	fmt.Fprintf(w, "data:       %d bytes (declared %s)\n", len(tex.Data), tex.DataLen)

	return nil
}

func list(c *cli.Context) error {
	if c.String("db") == "" {
		return cli.Exit("no catalog database given, use --db", 1)
	}

	db, err := openCatalog(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	entries, err := db.Entries()
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, e := range entries {
		h, err := t64.DecodeHeader(e.Header)
		if err != nil {
			return cli.Exit(fmt.Errorf("%s: %w", e.Source, err), 1)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%dx%d\t0x%04X\t%s\n", e.Digest, e.Source, e.Format, e.SizeX, e.SizeY, h.Address&0xffff, e.Output)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "vctex"
	app.Usage = "VC64 texture conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"VCTEX_DB"},
			Usage:   "path to catalog database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert T64 files to TEX0 and optionally PNG",
			Description: "Converts a single T64 file or every T64 file beneath a directory.",
			ArgsUsage:   "FILE|DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   vctex.DefaultOutputDir,
					Usage:   "output directory",
				},
				&cli.StringFlag{
					Name:    "mode",
					Aliases: []string{"m"},
					Value:   "t64",
					Usage:   "source format, either 't64' (to TEX0) or 'tex0' (to T64)",
				},
				&cli.BoolFlag{
					Name:    "png",
					Aliases: []string{"p"},
					Usage:   "decode each TEX0 file to PNG",
				},
				&cli.StringFlag{
					Name:    "wimgt",
					EnvVars: []string{"VCTEX_WIMGT"},
					Value:   "./wimgt",
					Usage:   "path to the wimgt decoder",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Value: decoder.DefaultTimeout,
					Usage: "time limit for decoding each PNG",
				},
				&cli.BoolFlag{
					Name:  "thumbnails",
					Usage: "store a thumbnail of each PNG in the catalog",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "number of files to convert concurrently",
				},
			},
			Action: convert,
		},
		{
			Name:      "info",
			Usage:     "Print the header of a T64 file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:   "catalog",
			Usage:  "List converted textures recorded in the catalog",
			Action: list,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
