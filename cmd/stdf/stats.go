package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/urfave/cli/v3"

	"github.com/oy3o/stdf"
)

// fileStats summarises one file.
type fileStats struct {
	Path    string
	Records int
	Bytes   int64
	Order   stdf.ByteOrder
	Digest  uint64 // xxhash64 of the decompressed stream
	Counts  map[string]int
	Err     error
}

func (a *App) statsCmd() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Count records by name and fingerprint each file",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "files processed in parallel (default from stats.workers)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: no input files", 1)
			}
			workers := a.ko.Int("stats.workers")
			if cmd.IsSet("workers") {
				workers = int(cmd.Int("workers"))
			}
			return a.stats(ctx, os.Stdout, paths, workers)
		},
	}
}

// stats processes paths on up to workers goroutines, one Reader per file, and
// prints the results in argument order.
func (a *App) stats(ctx context.Context, out io.Writer, paths []string, workers int) error {
	results := a.collectStats(ctx, paths, workers)
	var failed int
	for _, st := range results {
		if st.Err != nil {
			failed++
			a.lo.Error("stats failed", "file", st.Path, "error", st.Err)
			continue
		}
		printStats(out, st)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func (a *App) collectStats(ctx context.Context, paths []string, workers int) []fileStats {
	workers = max(1, min(workers, len(paths)))
	results := make([]fileStats, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for i := range jobs {
				results[i] = a.fileStats(ctx, paths[i])
			}
		})
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (a *App) fileStats(ctx context.Context, path string) fileStats {
	st := fileStats{Path: path, Counts: map[string]int{}}

	var src io.Reader = os.Stdin
	if path != stdinPath {
		f, err := os.Open(path)
		if err != nil {
			st.Err = err
			return st
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	d := xxhash.New()
	in, err := a.streamInput(src, d)
	if err != nil {
		st.Err = err
		return st
	}
	defer func() { _ = in.Close() }()

	for rec, err := range in.All() {
		if err != nil {
			st.Err = err
			return st
		}
		if err := ctx.Err(); err != nil {
			st.Err = err
			return st
		}
		st.Counts[rec.Name]++
	}
	st.Records = in.Count()
	st.Bytes = in.Offset()
	st.Order = in.Order()
	st.Digest = d.Sum64()
	a.lo.Debug("stats done", "file", path, "records", st.Records)
	return st
}

func printStats(out io.Writer, st fileStats) {
	_, _ = fmt.Fprintf(out, "%s\trecords=%d\tbytes=%d\torder=%s\txxh64=%016x\n",
		st.Path, st.Records, st.Bytes, stdf.OrderName(st.Order), st.Digest)
	names := make([]string, 0, len(st.Counts))
	for name := range st.Counts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "\t%s\t%d\n", name, st.Counts[name])
	}
}
