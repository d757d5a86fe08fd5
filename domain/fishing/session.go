package fishing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	sessionKeyHold   = time.Second
	logoutCommand    = "/logout"
	logoutTypeMinGap = 0.03
	logoutTypeMaxGap = 0.2
)

// SessionKeys are the physical keys used to leave and re-enter the game.
type SessionKeys struct {
	Esc   string
	Enter string
}

// Session drives the character logout/login key sequences.
type Session struct {
	act    Actuator
	keys   SessionKeys
	logger *slog.Logger
}

func NewSession(act Actuator, keys SessionKeys, logger *slog.Logger) *Session {
	return &Session{act: act, keys: keys, logger: logger}
}

// Logout closes open panels, opens chat and types the logout command.
func (s *Session) Logout(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("logging out")
	}
	for _, k := range []string{s.keys.Esc, s.keys.Esc, s.keys.Enter} {
		if err := s.act.HoldKey(ctx, k, sessionKeyHold); err != nil {
			return fmt.Errorf("fishing: logout: %w", err)
		}
	}
	if err := s.act.Write(ctx, logoutCommand, logoutTypeMinGap, logoutTypeMaxGap); err != nil {
		return fmt.Errorf("fishing: logout: %w", err)
	}
	if err := s.act.HoldKey(ctx, s.keys.Enter, sessionKeyHold); err != nil {
		return fmt.Errorf("fishing: logout: %w", err)
	}
	return nil
}

// Login enters the game from the character selection screen.
func (s *Session) Login(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("logging in from character selection")
	}
	if err := s.act.HoldKey(ctx, s.keys.Enter, sessionKeyHold); err != nil {
		return fmt.Errorf("fishing: login: %w", err)
	}
	return nil
}
