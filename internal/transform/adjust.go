package transform

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/dmscan/internal/utils"
)

// Grayscale converts img to a single channel buffer.
func Grayscale(img image.Image) image.Image {
	return utils.ToGray(img)
}

// Contrast applies saturate(alpha*v + beta) to every channel.
func Contrast(img image.Image, alpha, beta float64) image.Image {
	if utils.Channels(img) == 1 {
		p := grayPlane(img)
		for i, v := range p.pix {
			p.pix[i] = saturate(alpha*float64(v) + beta)
		}
		return grayImage(p)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: saturate(alpha*float64(c.R) + beta),
			G: saturate(alpha*float64(c.G) + beta),
			B: saturate(alpha*float64(c.B) + beta),
			A: 0xff,
		}
	})
}
