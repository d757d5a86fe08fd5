package fishing

import (
	"context"
	"strings"
	"testing"
)

func TestSession_LogoutSequence(t *testing.T) {
	log := &eventLog{}
	s := NewSession(fakeActuator{log}, SessionKeys{Esc: "esc", Enter: "enter"}, discardLogger)
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	want := "hold esc 1s|hold esc 1s|hold enter 1s|write /logout|hold enter 1s"
	if got := strings.Join(log.all(), "|"); got != want {
		t.Fatalf("events = %s", got)
	}
}

func TestSession_Login(t *testing.T) {
	log := &eventLog{}
	s := NewSession(fakeActuator{log}, SessionKeys{Esc: "esc", Enter: "enter"}, nil)
	if err := s.Login(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := strings.Join(log.all(), "|"); got != "hold enter 1s" {
		t.Fatalf("events = %s", got)
	}
}

func TestSession_CancelledLogoutStops(t *testing.T) {
	log := &eventLog{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSession(fakeActuator{log}, SessionKeys{Esc: "esc", Enter: "enter"}, nil)
	if err := s.Logout(ctx); err == nil {
		t.Fatalf("expected error")
	}
	if len(log.all()) != 1 {
		t.Fatalf("sequence continued after cancellation: %v", log.all())
	}
}
