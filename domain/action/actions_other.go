//go:build !windows

package action

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// robotInjector drives input through robotgo on platforms without Win32.
type robotInjector struct{}

// NewInjector returns the input injector for the running platform.
func NewInjector() Injector { return robotInjector{} }

func (robotInjector) KeyDown(key string) error {
	return robotgo.KeyToggle(robotKey(key), "down")
}

func (robotInjector) KeyUp(key string) error {
	return robotgo.KeyToggle(robotKey(key), "up")
}

func (robotInjector) CursorPos() (int, int, error) {
	x, y := robotgo.GetMousePos()
	return x, y, nil
}

func (robotInjector) SetCursor(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (robotInjector) ButtonDown(b Button) error {
	if b != ButtonLeft && b != ButtonRight {
		return fmt.Errorf("unknown button %d", b)
	}
	return robotgo.Toggle(b.String())
}

func (robotInjector) ButtonUp(b Button) error {
	if b != ButtonLeft && b != ButtonRight {
		return fmt.Errorf("unknown button %d", b)
	}
	return robotgo.Toggle(b.String(), "up")
}

func (robotInjector) TypeRune(r rune) error {
	robotgo.TypeStr(string(r))
	return nil
}

// ListWindows is not available outside Windows.
func ListWindows() ([]string, error) {
	return nil, ErrUnsupported
}

// ForegroundWindowTitle returns the title of the active window.
func ForegroundWindowTitle() (string, error) {
	return robotgo.GetTitle(), nil
}
