package capture

import "image"

// FishingZone returns the w×h region horizontally centred on screen whose
// centre sits offsetY pixels below the screen centre (negative moves it up).
// The result is clamped to screen.
func FishingZone(screen image.Rectangle, w, h, offsetY int) image.Rectangle {
	sw, sh := screen.Dx(), screen.Dy()
	x := screen.Min.X + sw/2 - w/2
	y := screen.Min.Y + offsetY + sh/2 - h/2
	return image.Rect(x, y, x+w, y+h).Intersect(screen)
}
