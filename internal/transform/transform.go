// Package transform implements the pixel-level primitives used by the
// preprocessing pipeline. Every function returns a new buffer and leaves its
// input untouched. Working buffers are *image.Gray (one channel) or
// *image.NRGBA (three channels, alpha forced opaque).
package transform

import (
	"image"

	"github.com/MeKo-Tech/dmscan/internal/utils"
)

// Transform maps an image buffer to a new image buffer.
type Transform func(image.Image) image.Image

// plane is a single 8-bit channel with a zero origin.
type plane struct {
	w, h int
	pix  []uint8
}

func newPlane(w, h int) plane {
	return plane{w: w, h: h, pix: make([]uint8, w*h)}
}

func (p plane) at(x, y int) uint8 { return p.pix[y*p.w+x] }

// clampedAt reads with replicated borders.
func (p plane) clampedAt(x, y int) uint8 {
	return p.pix[clamp(y, 0, p.h-1)*p.w+clamp(x, 0, p.w-1)]
}

// split decomposes img into one plane for gray buffers or three (R, G, B)
// for color buffers.
func split(img image.Image) ([]plane, bool) {
	if utils.Channels(img) == 1 {
		g := utils.ToGray(img)
		b := g.Bounds()
		return []plane{{w: b.Dx(), h: b.Dy(), pix: g.Pix}}, true
	}
	n := utils.ToNRGBA(img)
	b := n.Bounds()
	w, h := b.Dx(), b.Dy()
	ps := []plane{newPlane(w, h), newPlane(w, h), newPlane(w, h)}
	for y := range h {
		row := n.Pix[y*n.Stride:]
		for x := range w {
			i := y*w + x
			ps[0].pix[i] = row[x*4]
			ps[1].pix[i] = row[x*4+1]
			ps[2].pix[i] = row[x*4+2]
		}
	}
	return ps, false
}

// join is the inverse of split.
func join(ps []plane, gray bool) image.Image {
	w, h := ps[0].w, ps[0].h
	if gray {
		return &image.Gray{Pix: ps[0].pix, Stride: w, Rect: image.Rect(0, 0, w, h)}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		row := dst.Pix[y*dst.Stride:]
		for x := range w {
			i := y*w + x
			row[x*4] = ps[0].pix[i]
			row[x*4+1] = ps[1].pix[i]
			row[x*4+2] = ps[2].pix[i]
			row[x*4+3] = 0xff
		}
	}
	return dst
}

// mapPlanes applies fn to every channel of img independently.
func mapPlanes(img image.Image, fn func(plane) plane) image.Image {
	ps, gray := split(img)
	for i := range ps {
		ps[i] = fn(ps[i])
	}
	return join(ps, gray)
}

// grayPlane converts img to a single luma plane; color input loses its
// chroma here, which is what the single channel steps expect.
func grayPlane(img image.Image) plane {
	g := utils.ToGray(img)
	b := g.Bounds()
	return plane{w: b.Dx(), h: b.Dy(), pix: g.Pix}
}

func grayImage(p plane) *image.Gray {
	return &image.Gray{Pix: p.pix, Stride: p.w, Rect: image.Rect(0, 0, p.w, p.h)}
}

// sameChannels converts out back to a gray buffer when in was gray. The
// imaging helpers always return NRGBA.
func sameChannels(in, out image.Image) image.Image {
	if utils.Channels(in) == 1 {
		return utils.ToGray(out)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func saturate(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
