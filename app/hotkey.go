package app

import (
	"context"

	hook "github.com/robotn/gohook"
)

// Hotkeys delivers global key presses.
type Hotkeys interface {
	// Listen calls fn on every press of key until ctx is done.
	Listen(ctx context.Context, key string, fn func()) error
}

// GoHookHotkeys listens through a process-wide keyboard hook.
type GoHookHotkeys struct{}

func (GoHookHotkeys) Listen(ctx context.Context, key string, fn func()) error {
	hook.Register(hook.KeyDown, []string{key}, func(hook.Event) { fn() })
	s := hook.Start()
	go func() {
		<-ctx.Done()
		hook.End()
	}()
	<-hook.Process(s)
	return nil
}
