package audio

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Waveform plot geometry: a 5×1 inch figure at 100 dpi.
const (
	PlotWidth  = 500
	PlotHeight = 100

	plotMarginX   = 30
	plotMarginTop = 16
	plotMarginBot = 6
)

var (
	plotBackground = color.RGBA{255, 255, 255, 255}
	plotAxis       = color.RGBA{80, 80, 80, 255}
	plotZero       = color.RGBA{210, 210, 210, 255}
	plotTrace      = color.RGBA{31, 119, 180, 255}
	plotText       = color.RGBA{0, 0, 0, 255}
)

// PlotWaveform renders samples as a min/max envelope per pixel column with the
// vertical axis fixed to [-ylim, ylim]. Values outside the range are clipped.
func PlotWaveform(samples []float32, ylim float64, title string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PlotWidth, PlotHeight))
	draw.Draw(img, img.Rect, &image.Uniform{C: plotBackground}, image.Point{}, draw.Src)

	area := image.Rect(plotMarginX, plotMarginTop, PlotWidth-plotMarginX/2, PlotHeight-plotMarginBot)
	if ylim <= 0 {
		ylim = 1
	}
	toY := func(v float64) int {
		if v > ylim {
			v = ylim
		} else if v < -ylim {
			v = -ylim
		}
		span := float64(area.Dy() - 1)
		return area.Min.Y + int((ylim-v)/(2*ylim)*span+0.5)
	}

	zero := toY(0)
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, zero, plotZero)
	}
	if n := len(samples); n > 0 {
		cols := area.Dx()
		for c := 0; c < cols; c++ {
			lo, hi := c*n/cols, (c+1)*n/cols
			if hi <= lo {
				hi = lo + 1
			}
			if lo >= n {
				break
			}
			mn, mx := samples[lo], samples[lo]
			for _, s := range samples[lo:min(hi, n)] {
				mn = min(mn, s)
				mx = max(mx, s)
			}
			y0, y1 := toY(float64(mx)), toY(float64(mn))
			for y := y0; y <= y1; y++ {
				img.Set(area.Min.X+c, y, plotTrace)
			}
		}
	}
	drawFrame(img, area)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(plotText),
		Face: basicfont.Face7x13,
	}
	adv := d.MeasureString(title)
	d.Dot = fixed.P((PlotWidth-adv.Round())/2, plotMarginTop-4)
	d.DrawString(title)
	return img
}

func drawFrame(img *image.RGBA, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, plotAxis)
		img.Set(x, r.Max.Y-1, plotAxis)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, plotAxis)
		img.Set(r.Max.X-1, y, plotAxis)
	}
}
