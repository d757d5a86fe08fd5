package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/soocke/pixel-fisher-go/debug"
)

const (
	logoutTimeout      = 30 * time.Second
	statsLogInterval   = time.Minute
	runtimeLogInterval = 5 * time.Second
)

// App runs the fishing session described by an AppContainer.
type App struct {
	c *AppContainer
}

func New(c *AppContainer) *App { return &App{c: c} }

// Run prepares the output folder, waits for the game window to be focused
// and fishes until ctx is cancelled. Cancellation returns nil; setup or
// cycle failures are returned.
func (a *App) Run(ctx context.Context) error {
	c, cfg, logger := a.c, a.c.Config, a.c.Logger
	if err := c.Sink.EnsureDir(); err != nil {
		return err
	}
	logger.Info("output folder ready", "dir", c.Sink.Dir())

	if err := c.Fisher.AwaitFocus(ctx, c.Windows, cfg.WindowTitle, cfg.FocusPoll()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if cfg.LoginOnStart {
		if err := c.Session.Login(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Debug {
		debug.StartGoroutineLogger(runCtx, runtimeLogInterval, logger)
		debug.StartMemLogger(runCtx, runtimeLogInterval, logger)
	}
	debug.StartStatsLogger(runCtx, statsLogInterval, logger, "fishing.stats", a.statsAttrs)
	if cfg.PauseKey != "" && c.Hotkeys != nil {
		go func() {
			err := c.Hotkeys.Listen(runCtx, cfg.PauseKey, func() {
				paused := c.Fisher.TogglePause()
				logger.Info("pause toggled", "paused", paused)
			})
			if err != nil {
				logger.Warn("pause hotkey unavailable", "key", cfg.PauseKey, "error", err)
			}
		}()
		logger.Info("pause hotkey registered", "key", cfg.PauseKey)
	}

	logger.Info("starting to fish")
	err := c.Fisher.Run(runCtx)
	if cfg.LogoutOnExit {
		lctx, lcancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer lcancel()
		if lerr := c.Session.Logout(lctx); lerr != nil {
			err = errors.Join(err, lerr)
		}
	}
	s := c.Fisher.Stats()
	logger.Info("fishing stopped", "casts", s.Casts, "catches", s.Catches, "active", s.Active.Round(time.Second))
	return err
}

func (a *App) statsAttrs() []slog.Attr {
	s := a.c.Fisher.Stats()
	attrs := []slog.Attr{
		slog.Int("casts", s.Casts),
		slog.Int("catches", s.Catches),
		slog.Int("misses", s.Misses),
		slog.Int("not_found", s.NotFound),
		slog.Float64("catch_rate", s.CatchRate()),
		slog.Duration("active", s.Active),
	}
	if a.c.Sampler != nil {
		st := a.c.Sampler.Stats()
		attrs = append(attrs,
			slog.Uint64("grabs", st.Grabs),
			slog.Uint64("grab_failures", st.Failures),
			slog.Duration("avg_grab", st.AvgGrab),
		)
	}
	return attrs
}
