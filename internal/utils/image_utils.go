package utils

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Channels reports the channel count of a working buffer: 1 for *image.Gray
// and *image.Gray16, 3 for everything else.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 3
	}
}

// Normalize converts any decoded image into a working buffer with a zero
// origin. Gray inputs stay single channel, color inputs become opaque NRGBA.
func Normalize(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.Gray:
		return CloneGray(src)
	case *image.Gray16:
		b := src.Bounds()
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// ToGray converts img to a single channel buffer using ITU-R 601 luma.
// A gray input is cloned so the result never aliases the input.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return CloneGray(g)
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		for y := range b.Dy() {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range b.Dx() {
				r, g, bl := uint32(row[x*4]), uint32(row[x*4+1]), uint32(row[x*4+2])
				dst.Pix[y*dst.Stride+x] = uint8((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
			}
		}
		return dst
	}
	for y := range b.Dy() {
		for x := range b.Dx() {
			dst.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return dst
}

// ToNRGBA returns img as an NRGBA buffer with a zero origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// CloneGray copies a gray buffer into a new one with a zero origin.
func CloneGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}
