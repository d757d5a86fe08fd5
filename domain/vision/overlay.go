package vision

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	markerRadius    = 5
	markerThickness = 2
)

// DrawCircle draws a ring of the given radius and stroke thickness centred on
// c. Pixels outside img are skipped.
func DrawCircle(img draw.Image, c image.Point, radius, thickness int, col color.Color) {
	half := float64(thickness) / 2
	inner := float64(radius) - half
	outer := float64(radius) + half
	b := img.Bounds()
	reach := radius + thickness
	for y := c.Y - reach; y <= c.Y+reach; y++ {
		for x := c.X - reach; x <= c.X+reach; x++ {
			if !(image.Point{x, y}).In(b) {
				continue
			}
			dx, dy := float64(x-c.X), float64(y-c.Y)
			d2 := dx*dx + dy*dy
			if d2 >= inner*inner && d2 < outer*outer {
				img.Set(x, y, col)
			}
		}
	}
}

// Normalize stretches p so that its minimum maps to 0 and its maximum to 255.
// A flat plane maps to all zeros.
func Normalize(p Plane) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.W, p.H))
	if len(p.Pix) == 0 {
		return out
	}
	lo, hi := p.Pix[0], p.Pix[0]
	for _, v := range p.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return out
	}
	scale := 255 / float64(hi-lo)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			out.Pix[y*out.Stride+x] = uint8(float64(p.Pix[y*p.W+x]-lo)*scale + 0.5)
		}
	}
	return out
}
