package capture

import (
	"image"
	"testing"
)

func TestFishingZone_DefaultGeometry(t *testing.T) {
	screen := image.Rect(0, 0, 1920, 1080)
	got := FishingZone(screen, 250, 250, -100)
	want := image.Rect(835, 315, 1085, 565)
	if got != want {
		t.Fatalf("zone = %v, want %v", got, want)
	}
}

func TestFishingZone_ClampedToScreen(t *testing.T) {
	screen := image.Rect(0, 0, 200, 200)
	got := FishingZone(screen, 250, 250, -100)
	if !got.In(screen) {
		t.Fatalf("zone %v escapes screen %v", got, screen)
	}
	if got.Min.Y != 0 {
		t.Fatalf("expected top clamp, got %v", got)
	}
}

func TestFishingZone_OffsetScreen(t *testing.T) {
	screen := image.Rect(100, 50, 1100, 850)
	got := FishingZone(screen, 200, 100, 0)
	want := image.Rect(500, 400, 700, 500)
	if got != want {
		t.Fatalf("zone = %v, want %v", got, want)
	}
}

func TestScreenSampler_EmptyRegion(t *testing.T) {
	s := NewScreenSampler(nil)
	if _, err := s.Grab(image.Rectangle{}); err == nil {
		t.Fatalf("expected error for empty region")
	}
	if st := s.Stats(); st.Failures != 1 || st.Grabs != 0 {
		t.Fatalf("stats = %+v", st)
	}
}
