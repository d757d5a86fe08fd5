package fishing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/pixel-fisher-go/domain/action"
	"github.com/soocke/pixel-fisher-go/domain/timing"
)

// ErrWindowNotFound is returned when no top-level window matches the target
// title.
var ErrWindowNotFound = errors.New("fishing: target window not found")

// WaitForFocus checks that a window whose title contains title exists and
// then polls every poll until that window is in the foreground. Platforms
// that cannot list windows skip the existence check.
func WaitForFocus(ctx context.Context, w Windows, title string, poll time.Duration, sleeper timing.Sleeper, logger *slog.Logger) error {
	if sleeper == nil {
		sleeper = timing.TimerSleeper{}
	}
	titles, err := w.ListWindows()
	switch {
	case errors.Is(err, action.ErrUnsupported):
		if logger != nil {
			logger.Debug("window listing unsupported, skipping presence check")
		}
	case err != nil:
		return fmt.Errorf("fishing: list windows: %w", err)
	default:
		if !anyContains(titles, title) {
			return fmt.Errorf("%w: %q", ErrWindowNotFound, title)
		}
	}
	for {
		fg, err := w.ForegroundWindowTitle()
		if err == nil && strings.Contains(fg, title) {
			if logger != nil {
				logger.Info("target window focused", "title", fg)
			}
			return nil
		}
		if logger != nil {
			logger.Info("waiting for target window focus", "title", title, "foreground", fg)
		}
		if err := sleeper.Sleep(ctx, poll); err != nil {
			return err
		}
	}
}

func anyContains(titles []string, sub string) bool {
	for _, t := range titles {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}
