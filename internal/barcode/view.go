package barcode

import (
	"image"

	"github.com/MeKo-Tech/dmscan/internal/utils"
)

// PixelFormat tells the decoder how to interpret View.Pix.
type PixelFormat int

const (
	// PixelLum is one luminance byte per pixel.
	PixelLum PixelFormat = iota
	// PixelRGB is three bytes per pixel in R, G, B order.
	PixelRGB
)

func (p PixelFormat) String() string {
	if p == PixelRGB {
		return "rgb"
	}
	return "lum"
}

// View is a read-only description of an image buffer handed to a Decoder.
type View struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
	Format PixelFormat
}

// NewView builds a View over img. Single-channel buffers become PixelLum,
// everything else PixelRGB with the alpha channel dropped.
func NewView(img image.Image) View {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if utils.Channels(img) == 1 {
		g := utils.ToGray(img)
		pix := make([]byte, w*h)
		for y := range h {
			copy(pix[y*w:(y+1)*w], g.Pix[y*g.Stride:y*g.Stride+w])
		}
		return View{Width: w, Height: h, Stride: w, Pix: pix, Format: PixelLum}
	}

	n := utils.ToNRGBA(img)
	pix := make([]byte, w*h*3)
	for y := range h {
		src := n.Pix[y*n.Stride:]
		dst := pix[y*w*3:]
		for x := range w {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return View{Width: w, Height: h, Stride: w * 3, Pix: pix, Format: PixelRGB}
}
