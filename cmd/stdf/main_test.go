package main

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zerodha/logf"

	"github.com/oy3o/stdf"
	"github.com/oy3o/stdf/compress"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	ko, err := initConfig("", nil)
	require.NoError(t, err)
	return &App{
		ko:     ko,
		lo:     logf.New(logf.Opts{Writer: io.Discard}),
		schema: stdf.DefaultSchema(),
	}
}

// sampleFile writes a little-endian FAR, an SDR, a PIR/PRR pair and an
// unknown record to path, compressed by its extension.
func sampleFile(t *testing.T, path string) []byte {
	t.Helper()
	var plain bytes.Buffer
	w, err := stdf.NewWriter(&plain, stdf.DefaultSchema())
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord("FAR", stdf.Map{"CPU_TYPE": stdf.CPUx86, "STDF_VER": 4}))
	require.NoError(t, w.WriteRecord("SDR", stdf.Map{
		"HEAD_NUM": 1, "SITE_GRP": 0, "SITE_CNT": 2, "SITE_NUM": []uint8{1, 2}, "HAND_TYP": "hh",
	}))
	require.NoError(t, w.WriteRecord("PIR", stdf.Map{"HEAD_NUM": 1, "SITE_NUM": 2}))
	require.NoError(t, w.WriteRecord("PRR", stdf.Map{"HEAD_NUM": 1, "SITE_NUM": 2, "PART_FLG": 0, "NUM_TEST": 7}))
	require.NoError(t, w.Put(&stdf.Record{
		Name:   stdf.UnknownName,
		Header: stdf.Header{Len: 2, Typ: 180, Sub: 1},
		Fields: stdf.NewFields(0),
		Raw:    []byte{0xCA, 0xFE},
	}))
	require.NoError(t, w.Flush())

	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := compress.NewWriter(f, compress.FormatFromPath(path))
	require.NoError(t, err)
	_, err = zw.Write(plain.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return plain.Bytes()
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, map[string]bool{"PTR": true, "FTR": true, "MIR": true},
		parseFilter([]string{"ptr, FTR", "MIR", ""}))
	assert.Empty(t, parseFilter(nil))
}

func TestOrderedFieldsJSON(t *testing.T) {
	f := stdf.NewFields(6)
	f.Set("Z", uint8(1))
	f.Set("A", "text")
	f.Set("BITS", stdf.Bits{Count: 12, Data: []byte{0xFF, 0x0F}})
	f.Set("GEN", []stdf.GenValue{{Kind: stdf.B0}, {Kind: stdf.U2, Value: uint16(300)}})
	f.Set("NAN", float32(math.NaN()))
	f.Set("RAW", []byte{0xAB})

	b, err := json.Marshal(orderedFields{f: f})
	require.NoError(t, err)
	assert.Equal(t,
		`{"Z":1,"A":"text","BITS":{"count":12,"data":"ff0f"},"GEN":[{"type":"B0"},{"type":"U2","value":300}],"NAN":"NaN","RAW":"ab"}`,
		string(b))

	empty, err := json.Marshal(orderedFields{f: stdf.NewFields(0)})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestDump(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "lot.stdf")
	sampleFile(t, path)

	var out bytes.Buffer
	require.NoError(t, app.dump(context.Background(), &out, []string{path}, parseFilter([]string{"SDR,UNK"})))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t,
		`{"offset":6,"rec":"SDR","typ":1,"sub":80,"len":8,"fields":{"HEAD_NUM":1,"SITE_GRP":0,"SITE_CNT":2,"SITE_NUM":[1,2],"HAND_TYP":"hh"}}`,
		lines[0])
	assert.Contains(t, lines[0], `"fields":{"HEAD_NUM":1,"SITE_GRP":0,"SITE_CNT":2,`)
	assert.Contains(t, lines[1], `"rec":"UNK","typ":180,"sub":1,"len":2,"fields":{},"raw":"cafe"`)

	err := app.dump(context.Background(), io.Discard, []string{filepath.Join(t.TempDir(), "missing.stdf")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStats(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.stdf")
	zipped := filepath.Join(dir, "b.stdf.gz")
	data := sampleFile(t, plain)
	sampleFile(t, zipped)

	results := app.collectStats(context.Background(), []string{plain, zipped}, 4)
	require.Len(t, results, 2)
	for _, st := range results {
		require.NoError(t, st.Err)
		assert.Equal(t, 5, st.Records)
		assert.EqualValues(t, len(data), st.Bytes)
		assert.Equal(t, stdf.LE, st.Order)
		assert.Equal(t, map[string]int{"FAR": 1, "SDR": 1, "PIR": 1, "PRR": 1, "UNK": 1}, st.Counts)
	}
	assert.Equal(t, results[0].Digest, results[1].Digest)

	var out bytes.Buffer
	require.NoError(t, app.stats(context.Background(), &out, []string{plain}, 1))
	assert.True(t, strings.HasPrefix(out.String(), plain+"\trecords=5\t"))
	assert.Contains(t, out.String(), "order=little")
	assert.Contains(t, out.String(), "\tPRR\t1\n")

	err := app.stats(context.Background(), io.Discard, []string{plain, filepath.Join(dir, "missing.stdf")}, 2)
	assert.EqualError(t, err, "1 of 2 files failed")
}

func TestConvert(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "lot.stdf")
	data := sampleFile(t, src)

	zst := filepath.Join(dir, "lot.stdf.zst")
	require.NoError(t, app.convert(src, zst, compress.FormatFromPath(zst)))

	head := make([]byte, 4)
	f, err := os.Open(zst)
	require.NoError(t, err)
	_, err = io.ReadFull(f, head)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, compress.Zstd, compress.Detect(head))

	back := filepath.Join(dir, "back.stdf")
	require.NoError(t, app.convert(zst, back, compress.None))
	got, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestInitConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		ko, err := initConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "info", ko.String("app.log"))
		assert.Positive(t, ko.Int("stats.workers"))
	})

	t.Run("Layers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stdf.toml")
		require.NoError(t, os.WriteFile(path, []byte("[app]\nlog = \"debug\"\nschema = \"file.json\"\n\n[stats]\nworkers = 3\n"), 0o644))
		t.Setenv("STDF_STATS__WORKERS", "5")

		ko, err := initConfig(path, map[string]interface{}{"app.schema": "flag.yaml"})
		require.NoError(t, err)
		assert.Equal(t, "debug", ko.String("app.log"))
		assert.Equal(t, 5, ko.Int("stats.workers"))
		assert.Equal(t, "flag.yaml", ko.String("app.schema"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := initConfig(filepath.Join(t.TempDir(), "nope.toml"), nil)
		assert.Error(t, err)
	})
}

func TestInitSchema(t *testing.T) {
	ko, err := initConfig("", nil)
	require.NoError(t, err)
	tbl, err := initSchema(ko)
	require.NoError(t, err)
	assert.Same(t, stdf.DefaultSchema(), tbl)

	ko, err = initConfig("", map[string]interface{}{"app.schema": filepath.Join(t.TempDir(), "none.json")})
	require.NoError(t, err)
	_, err = initSchema(ko)
	assert.Error(t, err)
}
