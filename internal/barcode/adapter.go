package barcode

import (
	"context"
	"errors"
	"image"
	"log/slog"
)

// Adapter binds a Decoder to fixed Options and reduces every failure to an
// empty string, which is what the rotation search consumes.
type Adapter struct {
	decoder Decoder
	opts    Options
}

// NewAdapter creates an adapter. A nil decoder selects the gozxing backend.
func NewAdapter(dec Decoder, opts Options) *Adapter {
	if dec == nil {
		dec = NewGozxingDecoder()
	}
	return &Adapter{decoder: dec, opts: opts}
}

// Decode views img with the matching pixel format and returns the decoded
// text, or "" when nothing was found.
func (a *Adapter) Decode(ctx context.Context, img image.Image) string {
	text, err := a.decoder.Decode(ctx, NewView(img), a.opts)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Debug("Decoder failed", "error", err)
		}
		return ""
	}
	return text
}
