package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// SupportedImageExtensions lists file extensions the loader can decode.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ImageMetadata captures lightweight file and pixel information.
type ImageMetadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
	Channels  int
}

// LoadImage opens and decodes an image file and normalizes it into a working
// buffer: *image.Gray for grayscale sources, *image.NRGBA for everything else.
// An empty result is reported as a load error, never returned.
func LoadImage(path string) (image.Image, ImageMetadata, error) {
	if path == "" {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Err: errors.New("empty path")}
	}

	f, err := os.Open(path) //nolint:gosec // G304: reading a user supplied image path is expected
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Path: path, Err: err}
	}
	if fi.IsDir() {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Path: path, Err: errors.New("is a directory")}
	}

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "decode", Path: path, Err: err}
	}

	img := Normalize(src)
	b := img.Bounds()
	if b.Empty() {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "decode", Path: path, Err: errors.New("empty image")}
	}

	meta := ImageMetadata{
		Path:      path,
		Format:    format,
		SizeBytes: fi.Size(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Channels:  Channels(img),
	}
	return img, meta, nil
}

// SavePNG encodes img as PNG at path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &ImageProcessingError{Operation: "save", Path: path, Err: err}
	}
	f, err := os.Create(path) //nolint:gosec // G304: output path comes from the preview directory flag
	if err != nil {
		return &ImageProcessingError{Operation: "save", Path: path, Err: err}
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return &ImageProcessingError{Operation: "save", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
