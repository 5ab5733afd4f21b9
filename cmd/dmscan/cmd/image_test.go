package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/dmscan/internal/barcode"
	"github.com/MeKo-Tech/dmscan/internal/scan"
	"github.com/MeKo-Tech/dmscan/internal/testutil"
)

func TestImageCommand(t *testing.T) {
	assert.True(t, strings.HasPrefix(imageCmd.Use, "image"))
	assert.NotEmpty(t, imageCmd.Short)
	assert.Contains(t, imageCmd.Long, "Process images")
}

func TestImageCommandDefaultPipeline(t *testing.T) {
	stubDecoder(t, "LOT-42", 1)
	path := testutil.WritePNG(t, t.TempDir(), "label.png", testutil.Blank(8, 8, 200))

	out, err := runCLI(t, "image", path, "--no-rotate")
	require.NoError(t, err)
	assert.Contains(t, out, "[ORIGINAL][RESIZE][MEDIAN]: LOT-42\n")
}

func TestImageCommandRotationHit(t *testing.T) {
	calls := stubDecoder(t, "LOT-42", 3)
	path := testutil.WritePNG(t, t.TempDir(), "label.png", testutil.Blank(8, 8, 200))

	out, err := runCLI(t, "image", path, "--no-preprocess")
	require.NoError(t, err)
	assert.Contains(t, out, "[ORIGINAL][ROTATE 30]: LOT-42\n")
	assert.EqualValues(t, 3, calls.Load())
}

func TestImageCommandNotFound(t *testing.T) {
	calls := stubDecoder(t, "never", 1000)
	path := testutil.WritePNG(t, t.TempDir(), "label.png", testutil.Blank(32, 32, 200))

	out, err := runCLI(t, "image", path, "--no-preprocess", "--step", "90", "--clahe")
	require.NoError(t, err)
	assert.Contains(t, out, "[ORIGINAL][CLAHE][ROTATE]: not found\n")
	assert.EqualValues(t, 3, calls.Load())
}

func TestImageCommandLoadFailure(t *testing.T) {
	calls := stubDecoder(t, "X", 1)
	path := testutil.WriteCorrupt(t, t.TempDir(), "broken.jpg")

	_, err := runCLI(t, "image", path)
	require.Error(t, err)
	var le *scan.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.Path)
	assert.Zero(t, calls.Load())
}

func TestImageCommandWithoutFile(t *testing.T) {
	_, err := runCLI(t, "image")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestImageCommandInvalidConfiguration(t *testing.T) {
	stubDecoder(t, "X", 1)
	path := testutil.WritePNG(t, t.TempDir(), "label.png", testutil.Blank(8, 8, 200))

	_, err := runCLI(t, "image", path, "--formats", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestImageCommandRejectsUnsupportedFormat(t *testing.T) {
	calls := stubDecoder(t, "X", 1)
	path := testutil.WritePNG(t, t.TempDir(), "label.png", testutil.Blank(8, 8, 200))

	_, err := runCLI(t, "image", path, "--formats", "pdf417")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.ErrorIs(t, err, barcode.ErrUnsupportedFormat)
	assert.Zero(t, calls.Load())
}

func TestImageCommandPreviewAndMetrics(t *testing.T) {
	stubDecoder(t, "X", 1)
	dir := t.TempDir()
	path := testutil.WritePNG(t, dir, "label.png", testutil.Blank(8, 8, 200))
	previews := filepath.Join(dir, "previews")
	metricsFile := filepath.Join(dir, "dmscan.prom")

	_, err := runCLI(t, "image", path, "--no-rotate", "--preview-dir", previews, "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(previews, "label_original.png"))
	assert.FileExists(t, filepath.Join(previews, "label_processed.png"))
	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dmscan_scans_total{outcome="direct"} 1`)
}
