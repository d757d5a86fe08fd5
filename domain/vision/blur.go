package vision

import (
	"image"

	"github.com/disintegration/imaging"
)

// Plane is a single-channel 8-bit intensity image in row-major order.
type Plane struct {
	W, H int
	Pix  []uint8
}

func (p Plane) At(x, y int) uint8 { return p.Pix[y*p.W+x] }

// Intensity converts img to a single-channel plane using imaging's luminance
// weights.
func Intensity(img image.Image) Plane {
	g := imaging.Grayscale(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	p := Plane{W: w, H: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			p.Pix[y*w+x] = row[x*4]
		}
	}
	return p
}

// BoxBlur applies a normalized k×k mean filter. The window for output pixel
// (x,y) spans [x-k/2, x-k/2+k) × [y-k/2, y-k/2+k); samples outside the plane
// are mirrored without repeating the edge pixel (reflect-101). It returns the
// rounded means and the exact window sums, the latter for tie-free ranking.
func BoxBlur(p Plane, k int) (Plane, []uint32) {
	if p.W == 0 || p.H == 0 {
		return Plane{W: p.W, H: p.H}, nil
	}
	if k < 1 {
		k = 1
	}
	a := k / 2
	pw, ph := p.W+k-1, p.H+k-1

	// Summed-area table over the padded plane, one extra leading row/column.
	stride := pw + 1
	integral := make([]uint32, stride*(ph+1))
	xs := make([]int, pw)
	for px := range xs {
		xs[px] = reflect101(px-a, p.W)
	}
	for py := 0; py < ph; py++ {
		sy := reflect101(py-a, p.H)
		src := p.Pix[sy*p.W:]
		var rowSum uint32
		base := (py + 1) * stride
		prev := py * stride
		for px := 0; px < pw; px++ {
			rowSum += uint32(src[xs[px]])
			integral[base+px+1] = integral[prev+px+1] + rowSum
		}
	}

	area := uint32(k * k)
	out := Plane{W: p.W, H: p.H, Pix: make([]uint8, p.W*p.H)}
	sums := make([]uint32, p.W*p.H)
	for y := 0; y < p.H; y++ {
		top, bot := y*stride, (y+k)*stride
		for x := 0; x < p.W; x++ {
			s := integral[bot+x+k] - integral[top+x+k] - integral[bot+x] + integral[top+x]
			sums[y*p.W+x] = s
			out.Pix[y*p.W+x] = uint8((s + area/2) / area)
		}
	}
	return out, sums
}

// reflect101 maps i into [0,n) by mirroring around the edge pixels, so for
// n=5 the sequence -2,-1,0..4,5,6 becomes 2,1,0..4,3,2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// ArgMax returns the index of the first largest value in row-major order.
func ArgMax(vals []uint32) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}
