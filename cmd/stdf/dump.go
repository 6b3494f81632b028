package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/oy3o/stdf"
)

type dumpLine struct {
	Offset int64         `json:"offset"`
	Rec    string        `json:"rec"`
	Typ    uint8         `json:"typ"`
	Sub    uint8         `json:"sub"`
	Len    uint16        `json:"len"`
	Fields orderedFields `json:"fields"`
	Raw    string        `json:"raw,omitempty"`
}

func (a *App) dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print every record as a JSON line",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "only print these record names"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}
			out := bufio.NewWriter(os.Stdout)
			err := a.dump(ctx, out, paths, parseFilter(cmd.StringSlice("filter")))
			if ferr := out.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}
}

// parseFilter builds a name set from repeated and comma-separated values. An
// empty set matches every record.
func parseFilter(values []string) map[string]bool {
	set := map[string]bool{}
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				set[strings.ToUpper(name)] = true
			}
		}
	}
	return set
}

func (a *App) dump(ctx context.Context, out io.Writer, paths []string, filter map[string]bool) error {
	enc := json.NewEncoder(out)
	for _, path := range paths {
		if err := a.dumpFile(ctx, enc, path, filter); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (a *App) dumpFile(ctx context.Context, enc *json.Encoder, path string, filter map[string]bool) error {
	in, err := a.openInput(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	for rec, err := range in.All() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(filter) > 0 && !filter[rec.Name] {
			continue
		}
		if err := enc.Encode(a.line(rec)); err != nil {
			return err
		}
	}
	a.lo.Debug("dump done", "file", path, "records", in.Count(), "order", stdf.OrderName(in.Order()))
	return nil
}

func (a *App) line(rec *stdf.Record) dumpLine {
	entry, _ := a.schema.LookupByName(rec.Name)
	line := dumpLine{
		Offset: rec.Offset,
		Rec:    rec.Name,
		Typ:    rec.Typ,
		Sub:    rec.Sub,
		Len:    rec.Len,
		Fields: orderedFields{f: rec.Fields, entry: entry},
	}
	if rec.Unknown() {
		line.Raw = hex.EncodeToString(rec.Raw)
	}
	return line
}
