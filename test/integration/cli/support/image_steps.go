package support

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/dmscan/internal/testutil"
	"github.com/MeKo-Tech/dmscan/internal/utils"
)

func writeImage(path string, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return utils.SavePNG(path, img)
	}
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
}

// aQRImageEncoding writes a QR symbol image into the scenario's image directory.
func (testCtx *TestContext) aQRImageEncoding(name, text string) error {
	img, err := testutil.EncodeQR(text, 240)
	if err != nil {
		return err
	}
	path := filepath.Join(testCtx.ImageDir, name)
	if err := writeImage(path, img); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	testCtx.TrackFile(path)
	return nil
}

// aRotatedQRImageEncoding writes a QR symbol turned clockwise by angle degrees.
func (testCtx *TestContext) aRotatedQRImageEncoding(name, text string, angle int) error {
	img, err := testutil.EncodeQR(text, 240)
	if err != nil {
		return err
	}
	path := filepath.Join(testCtx.ImageDir, name)
	if err := writeImage(path, testutil.Rotated(img, float64(angle))); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	testCtx.TrackFile(path)
	return nil
}

// aBlankImage writes an image without any symbol.
func (testCtx *TestContext) aBlankImage(name string) error {
	path := filepath.Join(testCtx.ImageDir, name)
	if err := writeImage(path, testutil.Blank(64, 64, 255)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	testCtx.TrackFile(path)
	return nil
}

// aCorruptImage writes a file that no decoder accepts.
func (testCtx *TestContext) aCorruptImage(name string) error {
	path := filepath.Join(testCtx.ImageDir, name)
	if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	testCtx.TrackFile(path)
	return nil
}

// RegisterImageSteps registers fixture creation steps.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a QR image "([^"]*)" encoding "([^"]*)"$`, testCtx.aQRImageEncoding)
	sc.Step(`^a QR image "([^"]*)" encoding "([^"]*)" rotated by (\d+) degrees$`, testCtx.aRotatedQRImageEncoding)
	sc.Step(`^a blank image "([^"]*)"$`, testCtx.aBlankImage)
	sc.Step(`^a corrupt image "([^"]*)"$`, testCtx.aCorruptImage)
}
