package transform

import "image"

// Threshold binarizes the luma channel: values above thresh become 255,
// all others 0.
func Threshold(img image.Image, thresh float64) image.Image {
	p := grayPlane(img)
	for i, v := range p.pix {
		if float64(v) > thresh {
			p.pix[i] = 255
		} else {
			p.pix[i] = 0
		}
	}
	return grayImage(p)
}

// AdaptiveThreshold binarizes the luma channel against the mean of the
// blockSize x blockSize neighbourhood minus c. Neighbourhoods are clipped at
// the image border.
func AdaptiveThreshold(img image.Image, blockSize int, c float64) image.Image {
	p := grayPlane(img)
	sum := integral(p)
	r := blockSize / 2
	stride := p.w + 1
	out := newPlane(p.w, p.h)
	for y := range p.h {
		y0, y1 := max(y-r, 0), min(y+r+1, p.h)
		for x := range p.w {
			x0, x1 := max(x-r, 0), min(x+r+1, p.w)
			s := sum[y1*stride+x1] - sum[y0*stride+x1] - sum[y1*stride+x0] + sum[y0*stride+x0]
			mean := float64(s) / float64((y1-y0)*(x1-x0))
			if float64(p.at(x, y)) > mean-c {
				out.pix[y*p.w+x] = 255
			}
		}
	}
	return grayImage(out)
}

// integral returns a (w+1)*(h+1) summed-area table.
func integral(p plane) []int64 {
	stride := p.w + 1
	sum := make([]int64, stride*(p.h+1))
	for y := range p.h {
		var row int64
		for x := range p.w {
			row += int64(p.at(x, y))
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + row
		}
	}
	return sum
}
