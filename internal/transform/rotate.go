package transform

import (
	"image"
	"math"
)

// Rotate turns img counter-clockwise by angle degrees about its geometric
// center. The output keeps the input size; samples falling outside the
// source replicate the nearest border pixel.
func Rotate(img image.Image, angle float64) image.Image {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return mapPlanes(img, func(p plane) plane {
		cx, cy := float64(p.w)/2, float64(p.h)/2
		out := newPlane(p.w, p.h)
		for y := range p.h {
			dy := float64(y) - cy
			for x := range p.w {
				dx := float64(x) - cx
				sx := cos*dx - sin*dy + cx
				sy := sin*dx + cos*dy + cy
				out.pix[y*p.w+x] = bilinear(p, sx, sy)
			}
		}
		return out
	})
}

func bilinear(p plane, x, y float64) uint8 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)
	c00 := float64(p.clampedAt(x0, y0))
	c10 := float64(p.clampedAt(x0+1, y0))
	c01 := float64(p.clampedAt(x0, y0+1))
	c11 := float64(p.clampedAt(x0+1, y0+1))
	top := c00 + (c10-c00)*fx
	bot := c01 + (c11-c01)*fx
	return saturate(top + (bot-top)*fy)
}
