package audio

import (
	"errors"
	"testing"
)

func TestSelectDevice_PrefersLoopback(t *testing.T) {
	devs := []DeviceCandidate{
		{Name: "Built-in Microphone", MaxInputChannels: 1},
		{Name: "Speakers", MaxInputChannels: 0},
		{Name: "Stereo Mix (Realtek)", MaxInputChannels: 2},
	}
	idx, err := SelectDevice(devs, "", nil)
	if err != nil || idx != 2 {
		t.Fatalf("SelectDevice = %d, %v", idx, err)
	}
}

func TestSelectDevice_ExplicitAndExcluded(t *testing.T) {
	devs := []DeviceCandidate{
		{Name: "Monitor of Built-in Audio", MaxInputChannels: 2},
		{Name: "BlackHole 2ch", MaxInputChannels: 2},
	}
	if idx, _ := SelectDevice(devs, "", []string{"built-in"}); idx != 1 {
		t.Fatalf("exclusion ignored, got %d", idx)
	}
	if idx, _ := SelectDevice(devs, "MONITOR", nil); idx != 0 {
		t.Fatalf("explicit match failed, got %d", idx)
	}
}

func TestSelectDevice_NoneAvailable(t *testing.T) {
	_, err := SelectDevice([]DeviceCandidate{{Name: "USB Mic", MaxInputChannels: 1}}, "", nil)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	_, err = SelectDevice(nil, "cable", nil)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}
