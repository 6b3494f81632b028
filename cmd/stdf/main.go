package main

import (
	"context"
	"fmt"
	"os"

	"github.com/knadh/koanf"
	"github.com/urfave/cli/v3"
	"github.com/zerodha/logf"

	"github.com/oy3o/stdf"
)

// Version of the build. This is injected at build-time.
var buildString = "unknown"

type App struct {
	ko     *koanf.Koanf
	lo     logf.Logger
	schema *stdf.Table
}

func main() {
	app := &App{}
	cmd := &cli.Command{
		Name:    "stdf",
		Usage:   "Inspect and rewrite STDF V4 test data files",
		Version: buildString,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a TOML config file"},
			&cli.StringFlag{Name: "schema", Usage: "record schema file (json, yaml or toml); default is the embedded STDF V4 schema"},
			&cli.StringFlag{Name: "log", Usage: "log level (info or debug)"},
		},
		Before: app.init,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			app.dumpCmd(),
			app.statsCmd(),
			app.convertCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init loads config, logger and schema before any subcommand runs.
func (a *App) init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	ko, err := initConfig(cmd.String("config"), flagOverrides(cmd))
	if err != nil {
		return ctx, fmt.Errorf("config: %w", err)
	}
	a.ko = ko
	a.lo = initLogger(ko)

	a.schema, err = initSchema(ko)
	if err != nil {
		return ctx, fmt.Errorf("schema: %w", err)
	}
	a.lo.Debug("schema loaded", "records", a.schema.Len(), "digest", fmt.Sprintf("%016x", a.schema.Digest()), "source", ko.String("app.schema"))
	return ctx, nil
}
