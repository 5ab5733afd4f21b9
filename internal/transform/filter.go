package transform

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MedianBlur replaces every pixel by the median of its ksize x ksize
// neighbourhood, per channel, with replicated borders. ksize must be odd;
// values below 3 return a copy.
func MedianBlur(img image.Image, ksize int) image.Image {
	if ksize < 3 {
		return mapPlanes(img, func(p plane) plane { return p })
	}
	return mapPlanes(img, func(p plane) plane { return medianPlane(p, ksize) })
}

// medianPlane uses a sliding histogram per row so every step costs one
// column update plus a bounded bin scan.
func medianPlane(p plane, ksize int) plane {
	out := newPlane(p.w, p.h)
	r := ksize / 2
	half := (ksize*ksize)/2 + 1
	var hist [256]int
	for y := range p.h {
		hist = [256]int{}
		for ky := -r; ky <= r; ky++ {
			for kx := -r; kx <= r; kx++ {
				hist[p.clampedAt(kx, y+ky)]++
			}
		}
		for x := range p.w {
			if x > 0 {
				for ky := -r; ky <= r; ky++ {
					hist[p.clampedAt(x-r-1, y+ky)]--
					hist[p.clampedAt(x+r, y+ky)]++
				}
			}
			acc := 0
			for v := range 256 {
				acc += hist[v]
				if acc >= half {
					out.pix[y*p.w+x] = uint8(v)
					break
				}
			}
		}
	}
	return out
}

// GaussianBlur smooths img with a Gaussian of the given sigma. When sigma is
// not positive it is derived from ksize the way OpenCV does.
func GaussianBlur(img image.Image, ksize int, sigma float64) image.Image {
	if sigma <= 0 {
		sigma = SigmaForKernel(ksize)
	}
	if sigma <= 0 {
		return mapPlanes(img, func(p plane) plane { return p })
	}
	return sameChannels(img, imaging.Blur(img, sigma))
}

// SigmaForKernel returns the default sigma for a Gaussian kernel size.
func SigmaForKernel(ksize int) float64 {
	if ksize < 1 {
		return 0
	}
	return 0.3*((float64(ksize)-1)*0.5-1) + 0.8
}

var sharpenKernel = [9]float64{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

// Sharpen applies the classic 3x3 Laplacian sharpening kernel.
func Sharpen(img image.Image) image.Image {
	out := imaging.Convolve3x3(img, sharpenKernel, nil)
	return sameChannels(img, forceOpaque(out))
}

func forceOpaque(n *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	return n
}

// Resize scales img by the same factor on both axes using a bicubic filter.
func Resize(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	return sameChannels(img, forceOpaque(imaging.Resize(img, w, h, imaging.CatmullRom)))
}
