package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/urfave/cli/v3"
	"github.com/zerodha/logf"

	"github.com/oy3o/stdf"
)

const envPrefix = "STDF_"

func defaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"app.log":       "info",
		"app.schema":    "",
		"stats.workers": runtime.NumCPU(),
	}
}

// flagOverrides returns the global flags the user set, keyed like the config.
func flagOverrides(cmd *cli.Command) map[string]interface{} {
	m := map[string]interface{}{}
	if cmd.IsSet("log") {
		m["app.log"] = cmd.String("log")
	}
	if cmd.IsSet("schema") {
		m["app.schema"] = cmd.String("schema")
	}
	return m
}

// initConfig loads config to `ko`: defaults, then the TOML file at path (if
// any), then STDF_ environment variables, then command-line flags.
func initConfig(path string, flags map[string]interface{}) (*koanf.Koanf, error) {
	ko := koanf.New(".")
	if err := ko.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, err
	}
	if path != "" {
		if err := ko.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}
	err := ko.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := ko.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, err
		}
	}
	return ko, nil
}

// initLogger initializes logger instance. Logs go to stderr so they never mix
// with record output.
func initLogger(ko *koanf.Koanf) logf.Logger {
	opts := logf.Opts{Writer: os.Stderr, EnableCaller: true, Level: logf.InfoLevel}
	if ko.String("app.log") == "debug" {
		opts.Level = logf.DebugLevel
		opts.EnableColor = true
	}
	return logf.New(opts)
}

func initSchema(ko *koanf.Koanf) (*stdf.Table, error) {
	if path := ko.String("app.schema"); path != "" {
		return stdf.LoadSchema(path)
	}
	return stdf.DefaultSchema(), nil
}
