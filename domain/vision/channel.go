package vision

import (
	"fmt"
	"image"
	"image/draw"
	"strings"
)

// Channel selects the colour channel kept before grayscale conversion.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// ParseChannel accepts "red", "green" or "blue" in any case.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	}
	return Red, fmt.Errorf("vision: unknown channel %q", s)
}

// IsolateChannel returns a copy of img with every channel except ch set to
// zero. Alpha is forced opaque.
func IsolateChannel(img image.Image, ch Channel) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	keep := int(ch)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if c != keep {
				out.Pix[i+c] = 0
			}
		}
		out.Pix[i+3] = 0xFF
	}
	return out
}
