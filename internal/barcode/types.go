package barcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by a Decoder when no symbol could be read.
var ErrNotFound = errors.New("barcode: no symbol found")

// ErrUnsupportedFormat is returned by ParseFormat for symbologies the
// decoder backend cannot read.
var ErrUnsupportedFormat = errors.New("barcode: format not supported by the decoder backend")

// Format represents a barcode symbology.
type Format int

const (
	FormatUnknown Format = iota
	FormatQR
	FormatDataMatrix
	FormatAztec
	FormatCode128
	FormatCode39
	FormatEAN8
	FormatEAN13
	FormatUPCA
	FormatUPCE
	FormatITF
	FormatCodabar
)

var formatNames = map[Format]string{
	FormatQR:         "qr",
	FormatDataMatrix: "datamatrix",
	FormatAztec:      "aztec",
	FormatCode128:    "code128",
	FormatCode39:     "code39",
	FormatEAN8:       "ean8",
	FormatEAN13:      "ean13",
	FormatUPCA:       "upca",
	FormatUPCE:       "upce",
	FormatITF:        "itf",
	FormatCodabar:    "codabar",
}

// String returns the canonical lower-case name used in configuration.
func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat resolves a symbology name; common spellings with dashes are
// accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qr", "qrcode", "qr-code":
		return FormatQR, nil
	case "datamatrix", "data-matrix":
		return FormatDataMatrix, nil
	case "aztec":
		return FormatAztec, nil
	case "pdf417", "pdf-417", "maxicode", "rss14", "rss-expanded":
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	case "code128", "code-128":
		return FormatCode128, nil
	case "code39", "code-39":
		return FormatCode39, nil
	case "ean8", "ean-8":
		return FormatEAN8, nil
	case "ean13", "ean-13":
		return FormatEAN13, nil
	case "upca", "upc-a":
		return FormatUPCA, nil
	case "upce", "upc-e":
		return FormatUPCE, nil
	case "itf", "interleaved2of5", "i2/5":
		return FormatITF, nil
	case "codabar":
		return FormatCodabar, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown barcode format %q", s)
	}
}

// ParseFormats parses a list of names, rejecting unknown entries.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Options controls backend decoding behavior.
type Options struct {
	// Formats constrains the set of symbologies to search. Empty means all.
	Formats []Format

	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool
}

// DefaultOptions searches for Data Matrix symbols with try-harder enabled.
func DefaultOptions() Options {
	return Options{Formats: []Format{FormatDataMatrix}, TryHarder: true}
}

// Decoder is a pluggable barcode decoder implementation.
type Decoder interface {
	Decode(ctx context.Context, v View, opts Options) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, v View, opts Options) (string, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, v View, opts Options) (string, error) {
	return f(ctx, v, opts)
}
