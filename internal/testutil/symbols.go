package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/dmscan/internal/transform"
)

// EncodeQR renders text as a QR symbol of roughly size x size pixels on a
// white background with a four module quiet zone.
func EncodeQR(text string, size int) (*image.Gray, error) {
	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_MARGIN: 4,
	}
	matrix, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, hints)
	if err != nil {
		return nil, fmt.Errorf("encode QR code: %w", err)
	}

	b := matrix.Bounds()
	img := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), matrix, b.Min, draw.Src)
	return img, nil
}

// QRCode is EncodeQR for tests.
func QRCode(t *testing.T, text string, size int) *image.Gray {
	t.Helper()

	img, err := EncodeQR(text, size)
	require.NoError(t, err, "Failed to encode QR code")
	return img
}

// QRCodeColor is QRCode rendered into an opaque NRGBA buffer.
func QRCodeColor(t *testing.T, text string, size int) *image.NRGBA {
	t.Helper()

	g := QRCode(t, text, size)
	img := image.NewNRGBA(g.Bounds())
	draw.Draw(img, img.Bounds(), g, image.Point{}, draw.Src)
	return img
}

// Rotated returns img turned clockwise by angle degrees, so that a
// counter-clockwise rotation by the same angle restores it.
func Rotated(img image.Image, angle float64) image.Image {
	return transform.Rotate(img, -angle)
}

// Blank returns a uniform gray image.
func Blank(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Gray{Y: v}}, image.Point{}, draw.Src)
	return img
}

// WriteJPEG encodes img at high quality into dir/name and returns the path.
func WriteJPEG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	f, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() { require.NoError(t, f.Close()) }()

	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 95}))
	return path
}

// WritePNG encodes img into dir/name and returns the path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	f, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() { require.NoError(t, f.Close()) }()

	require.NoError(t, png.Encode(f, img))
	return path
}

// WriteCorrupt writes bytes that no image decoder accepts.
func WriteCorrupt(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o600))
	return path
}
