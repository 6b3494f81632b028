package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/oy3o/stdf"
	"github.com/oy3o/stdf/compress"
)

func (a *App) convertCmd() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Decode IN and re-encode it to OUT, compressed by OUT's extension",
		ArgsUsage: "IN OUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "compress", Aliases: []string{"c"}, Usage: "output compression (none, gzip, zstd, s2, lz4); overrides the extension"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return cli.Exit("error: convert needs IN and OUT", 1)
			}
			src, dst := cmd.Args().Get(0), cmd.Args().Get(1)
			f := compress.FormatFromPath(dst)
			if cmd.IsSet("compress") {
				var err error
				if f, err = compress.ParseFormat(cmd.String("compress")); err != nil {
					return err
				}
			}
			return a.convert(src, dst, f)
		},
	}
}

func (a *App) convert(src, dst string, f compress.Format) error {
	in, err := a.openInput(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var (
		out  io.Writer = os.Stdout
		file *os.File
	)
	if dst != stdinPath {
		if file, err = os.Create(dst); err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	zw, err := compress.NewWriter(out, f)
	if err != nil {
		return err
	}
	w, err := stdf.NewWriter(zw, a.schema)
	if err != nil {
		return err
	}

	n, err := stdf.Copy(w, in.Reader)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if file != nil {
		if cerr := file.Sync(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("%s -> %s: %w", src, dst, err)
	}
	a.lo.Info("converted", "in", src, "out", dst, "records", n, "bytes", w.Count(), "compress", f.String())
	return nil
}
