package transform

import (
	"image"
	"math"
)

// EqualizeHist spreads the luma histogram over the full 0..255 range.
// Color input is converted to gray first.
func EqualizeHist(img image.Image) image.Image {
	p := grayPlane(img)
	var hist [256]int
	for _, v := range p.pix {
		hist[v]++
	}
	lut := equalizeLUT(hist, len(p.pix))
	for i, v := range p.pix {
		p.pix[i] = lut[v]
	}
	return grayImage(p)
}

func equalizeLUT(hist [256]int, total int) [256]uint8 {
	var lut [256]uint8
	first := 0
	for first < 256 && hist[first] == 0 {
		first++
	}
	if first == 256 || hist[first] == total {
		// single intensity: leave values unchanged
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}
	scale := 255.0 / float64(total-hist[first])
	sum := 0
	for i := first + 1; i < 256; i++ {
		sum += hist[i]
		lut[i] = saturate(float64(sum) * scale)
	}
	return lut
}

// CLAHE performs contrast limited adaptive histogram equalization on the
// luma channel with a tiles x tiles grid and the given clip limit.
func CLAHE(img image.Image, clipLimit float64, tiles int) image.Image {
	p := grayPlane(img)
	if tiles < 1 {
		tiles = 1
	}
	tw := int(math.Ceil(float64(p.w) / float64(tiles)))
	th := int(math.Ceil(float64(p.h) / float64(tiles)))
	tw, th = max(tw, 1), max(th, 1)
	tx := (p.w + tw - 1) / tw
	ty := (p.h + th - 1) / th

	luts := make([][256]uint8, tx*ty)
	for j := range ty {
		for i := range tx {
			luts[j*tx+i] = tileLUT(p, i*tw, j*th, min((i+1)*tw, p.w), min((j+1)*th, p.h), clipLimit)
		}
	}

	out := newPlane(p.w, p.h)
	for y := range p.h {
		fy := (float64(y)+0.5)/float64(th) - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		y1 := clamp(y0+1, 0, ty-1)
		y0 = clamp(y0, 0, ty-1)
		for x := range p.w {
			fx := (float64(x)+0.5)/float64(tw) - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			x1 := clamp(x0+1, 0, tx-1)
			x0 = clamp(x0, 0, tx-1)

			v := p.at(x, y)
			top := (1-wx)*float64(luts[y0*tx+x0][v]) + wx*float64(luts[y0*tx+x1][v])
			bot := (1-wx)*float64(luts[y1*tx+x0][v]) + wx*float64(luts[y1*tx+x1][v])
			out.pix[y*p.w+x] = saturate((1-wy)*top + wy*bot)
		}
	}
	return grayImage(out)
}

func tileLUT(p plane, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	area := (x1 - x0) * (y1 - y0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[p.at(x, y)]++
		}
	}

	if clipLimit > 0 {
		limit := max(int(clipLimit*float64(area)/256), 1)
		excess := 0
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}
		bonus, rest := excess/256, excess%256
		for i := range hist {
			hist[i] += bonus
		}
		if rest > 0 {
			step := max(256/rest, 1)
			for i := 0; i < 256 && rest > 0; i += step {
				hist[i]++
				rest--
			}
		}
	}

	var lut [256]uint8
	scale := 255.0 / float64(max(area, 1))
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = saturate(float64(sum) * scale)
	}
	return lut
}
