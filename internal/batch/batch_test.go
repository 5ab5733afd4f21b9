package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/dmscan/internal/pipeline"
	"github.com/MeKo-Tech/dmscan/internal/scan"
	"github.com/MeKo-Tech/dmscan/internal/search"
	"github.com/MeKo-Tech/dmscan/internal/testutil"
)

// widthDecoder succeeds on the n-th call for images of the given width.
type widthDecoder struct {
	width, n, calls int
}

func (d *widthDecoder) Decode(_ context.Context, img image.Image) string {
	if img.Bounds().Dx() != d.width {
		return ""
	}
	d.calls++
	if d.calls == d.n {
		return "D-PAYLOAD"
	}
	return ""
}

func setupDir(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	testutil.WriteJPEG(t, dir, "a.jpg", testutil.Blank(8, 8, 200))
	testutil.WriteCorrupt(t, dir, "b.jpg")
	testutil.WritePNG(t, dir, "c.png", testutil.Blank(8, 8, 0))
	testutil.WriteJPEG(t, dir, "d.jpg", testutil.Blank(12, 10, 90))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o750))
	return dir
}

func newScanner(t *testing.T, dec search.Decoder) *scan.Scanner {
	t.Helper()
	s, err := scan.New(scan.Options{
		Pipeline: pipeline.DefaultConfig(),
		Rotate:   true,
		Search:   search.DefaultConfig(),
		Decoder:  dec,
	})
	require.NoError(t, err)
	return s
}

func TestDiscover(t *testing.T) {
	dir := setupDir(t)

	files, err := Discover(dir, ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "d.jpg"),
	}, files)

	files, err = Discover(dir, ".JPG", []string{"a*"})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = Discover(filepath.Join(dir, "missing"), ".jpg", nil)
	assert.Error(t, err)
}

func TestDiscoverFollowsSymlinks(t *testing.T) {
	dir := setupDir(t)
	if err := os.Symlink(filepath.Join(dir, "a.jpg"), filepath.Join(dir, "e.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.jpg"), filepath.Join(dir, "f.jpg")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nested.jpg"), filepath.Join(dir, "g.jpg")))

	files, err := Discover(dir, ".jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "d.jpg"),
		filepath.Join(dir, "e.jpg"),
	}, files)
}

func TestDiscoverWarnsOnUnsupportedExtension(t *testing.T) {
	dir := setupDir(t)
	logs := testutil.CaptureLogs(t)

	_, err := Discover(dir, ".jpg", nil)
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "not a supported image format")

	files, err := Discover(dir, ".gif", nil)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Contains(t, logs.String(), "not a supported image format")
	assert.Contains(t, logs.String(), `".gif"`)
}

func TestRunMixedDirectory(t *testing.T) {
	dir := setupDir(t)
	dec := &widthDecoder{width: 24, n: 13}

	var out bytes.Buffer
	sum, err := Run(context.Background(), Config{Dir: dir, Ext: ".jpg"}, newScanner(t, dec), &out)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"==== a.jpg ====",
		"[ORIGINAL][RESIZE][MEDIAN][ROTATE]: not found",
		"b.jpg: cannot load image",
		"==== d.jpg ====",
		"[ORIGINAL][RESIZE][MEDIAN][ROTATE 130]: D-PAYLOAD",
	}, "\n")+"\n", out.String())

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Found)
	assert.Equal(t, 1, sum.NotFound)
	assert.Equal(t, []string{"b.jpg"}, sum.Failed)
	assert.Equal(t, []RotatedHit{{File: "d.jpg", Text: "D-PAYLOAD", Angle: 130}}, sum.Rotated)
	assert.InDelta(t, 50.0, sum.SuccessRate(), 1e-9)
}

func TestRunEmptyDirectory(t *testing.T) {
	var out bytes.Buffer
	sum, err := Run(context.Background(), Config{Dir: t.TempDir(), Ext: ".jpg"}, newScanner(t, &widthDecoder{}), &out)
	require.NoError(t, err)
	assert.Zero(t, sum.Total)
	assert.Empty(t, out.String())
	assert.Zero(t, sum.SuccessRate())
}

type failingScanner struct{}

func (failingScanner) ScanFile(context.Context, string) (scan.Result, error) {
	return scan.Result{}, errors.New("boom")
}

func TestRunStopsOnUnexpectedError(t *testing.T) {
	dir := setupDir(t)
	_, err := Run(context.Background(), Config{Dir: dir, Ext: ".jpg"}, failingScanner{}, &bytes.Buffer{})
	assert.EqualError(t, err, "boom")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Dir: setupDir(t), Ext: ".jpg"}, failingScanner{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummaryFormat(t *testing.T) {
	s := &Summary{
		Total: 4, Found: 3, NotFound: 1, Failed: []string{"x.jpg"},
		Rotated: []RotatedHit{{File: "d.jpg", Text: "T", Angle: 40}},
	}

	text, err := s.Format("text")
	require.NoError(t, err)
	assert.Contains(t, text, "Read: 3 | Unread: 1 | Unloadable: 1 | Success rate: 75.0%")
	assert.Contains(t, text, "d.jpg | T | 40°")

	js, err := s.Format("json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.InDelta(t, 75.0, decoded["success_rate"], 1e-9)
	assert.InDelta(t, 3, decoded["found"], 0)

	_, err = s.Format("xml")
	assert.Error(t, err)

	empty, err := (&Summary{}).Format("")
	require.NoError(t, err)
	assert.Contains(t, empty, "No image needed rotation.")
}
