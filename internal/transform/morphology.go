package transform

import "image"

// Dilate replaces every pixel by the maximum of its ksize x ksize
// rectangular neighbourhood, per channel.
func Dilate(img image.Image, ksize int) image.Image {
	return mapPlanes(img, func(p plane) plane { return morph(p, ksize, maxU8) })
}

// Erode replaces every pixel by the minimum of its ksize x ksize
// rectangular neighbourhood, per channel.
func Erode(img image.Image, ksize int) image.Image {
	return mapPlanes(img, func(p plane) plane { return morph(p, ksize, minU8) })
}

// morph runs the rectangular element as a row pass followed by a column
// pass. Out-of-range neighbours are ignored.
func morph(p plane, ksize int, pick func(a, b uint8) uint8) plane {
	if ksize <= 1 {
		return p
	}
	r := ksize / 2
	tmp := newPlane(p.w, p.h)
	for y := range p.h {
		for x := range p.w {
			v := p.at(x, y)
			for k := max(x-r, 0); k <= min(x+r, p.w-1); k++ {
				v = pick(v, p.at(k, y))
			}
			tmp.pix[y*p.w+x] = v
		}
	}
	out := newPlane(p.w, p.h)
	for y := range p.h {
		for x := range p.w {
			v := tmp.at(x, y)
			for k := max(y-r, 0); k <= min(y+r, p.h-1); k++ {
				v = pick(v, tmp.at(x, k))
			}
			out.pix[y*p.w+x] = v
		}
	}
	return out
}

func maxU8(a, b uint8) uint8 { return max(a, b) }
func minU8(a, b uint8) uint8 { return min(a, b) }
