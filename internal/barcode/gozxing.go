package barcode

import (
	"context"
	"fmt"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// GozxingDecoder decodes views with the pure Go ZXing port.
type GozxingDecoder struct{}

// NewGozxingDecoder returns the default decoder backend.
func NewGozxingDecoder() *GozxingDecoder { return &GozxingDecoder{} }

// Decode returns the text of the first symbol any selected reader finds,
// or ErrNotFound.
func (d *GozxingDecoder) Decode(ctx context.Context, v View, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if v.Width <= 0 || v.Height <= 0 {
		return "", ErrNotFound
	}

	source, err := luminanceSource(v)
	if err != nil {
		return "", fmt.Errorf("build luminance source: %w", err)
	}
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return "", fmt.Errorf("build binary bitmap: %w", err)
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	formats := opts.Formats
	if len(formats) == 0 {
		formats = allFormats()
	}
	var zformats []gozxing.BarcodeFormat
	for _, f := range formats {
		if bf, ok := mapFormatToZXing(f); ok {
			zformats = append(zformats, bf)
		}
	}
	hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = zformats
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	for _, f := range formats {
		reader := readerFor(f)
		if reader == nil {
			continue
		}
		r, err := reader.Decode(bitmap, hints)
		if err != nil || r == nil {
			continue
		}
		if text := r.GetText(); text != "" {
			return text, nil
		}
	}
	return "", ErrNotFound
}

func luminanceSource(v View) (gozxing.LuminanceSource, error) {
	if v.Format == PixelLum {
		return gozxing.NewPlanarYUVLuminanceSource(v.Pix, v.Stride, v.Height, 0, 0, v.Width, v.Height, false)
	}
	pixels := make([]int, v.Width*v.Height)
	for y := range v.Height {
		row := v.Pix[y*v.Stride:]
		for x := range v.Width {
			r, g, b := int(row[x*3]), int(row[x*3+1]), int(row[x*3+2])
			pixels[y*v.Width+x] = 0xff<<24 | r<<16 | g<<8 | b
		}
	}
	return gozxing.NewRGBLuminanceSource(v.Width, v.Height, pixels), nil
}

func allFormats() []Format {
	return []Format{
		FormatQR, FormatDataMatrix, FormatAztec,
		FormatCode128, FormatCode39, FormatEAN8, FormatEAN13,
		FormatUPCA, FormatUPCE, FormatITF, FormatCodabar,
	}
}

func readerFor(f Format) gozxing.Reader {
	switch f {
	case FormatQR:
		return qrcode.NewQRCodeReader()
	case FormatDataMatrix:
		return datamatrix.NewDataMatrixReader()
	case FormatAztec:
		return aztec.NewAztecReader()
	case FormatCode128:
		return oned.NewCode128Reader()
	case FormatCode39:
		return oned.NewCode39Reader()
	case FormatEAN8:
		return oned.NewEAN8Reader()
	case FormatEAN13:
		return oned.NewEAN13Reader()
	case FormatUPCA:
		return oned.NewUPCAReader()
	case FormatUPCE:
		return oned.NewUPCEReader()
	case FormatITF:
		return oned.NewITFReader()
	case FormatCodabar:
		return oned.NewCodaBarReader()
	default:
		return nil
	}
}

func mapFormatToZXing(f Format) (gozxing.BarcodeFormat, bool) {
	switch f {
	case FormatQR:
		return gozxing.BarcodeFormat_QR_CODE, true
	case FormatDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case FormatAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case FormatCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case FormatCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case FormatEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case FormatEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case FormatUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case FormatUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	case FormatITF:
		return gozxing.BarcodeFormat_ITF, true
	case FormatCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	default:
		return 0, false
	}
}
