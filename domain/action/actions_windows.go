package action

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procKeybdEvent       = user32.NewProc("keybd_event")
	procMouseEvent       = user32.NewProc("mouse_event")
	procSetCursorPos     = user32.NewProc("SetCursorPos")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procVkKeyScanW       = user32.NewProc("VkKeyScanW")
	procEnumWindows      = user32.NewProc("EnumWindows")
	procGetWindowTextW   = user32.NewProc("GetWindowTextW")
	procIsWindowVisible  = user32.NewProc("IsWindowVisible")
	procGetForegroundWnd = user32.NewProc("GetForegroundWindow")
)

const (
	keyeventfKeyUp       = 0x0002
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010
	vkShift              = 0x10
)

// win32Injector synthesizes input with the legacy keybd_event/mouse_event APIs.
type win32Injector struct{}

// NewInjector returns the input injector for the running platform.
func NewInjector() Injector { return win32Injector{} }

func (win32Injector) KeyDown(key string) error {
	vk, err := ParseVK(key)
	if err != nil {
		return err
	}
	_, _, _ = procKeybdEvent.Call(uintptr(vk), 0, 0, 0)
	return nil
}

func (win32Injector) KeyUp(key string) error {
	vk, err := ParseVK(key)
	if err != nil {
		return err
	}
	_, _, _ = procKeybdEvent.Call(uintptr(vk), 0, keyeventfKeyUp, 0)
	return nil
}

func (win32Injector) CursorPos() (int, int, error) {
	var pt struct{ X, Y int32 }
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos: %w", err)
	}
	return int(pt.X), int(pt.Y), nil
}

func (win32Injector) SetCursor(x, y int) error {
	r, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if r == 0 {
		return fmt.Errorf("SetCursorPos: %w", err)
	}
	return nil
}

func (win32Injector) ButtonDown(b Button) error {
	switch b {
	case ButtonLeft:
		_, _, _ = procMouseEvent.Call(mouseeventfLeftDown, 0, 0, 0, 0)
	case ButtonRight:
		_, _, _ = procMouseEvent.Call(mouseeventfRightDown, 0, 0, 0, 0)
	default:
		return fmt.Errorf("unknown button %d", b)
	}
	return nil
}

func (win32Injector) ButtonUp(b Button) error {
	switch b {
	case ButtonLeft:
		_, _, _ = procMouseEvent.Call(mouseeventfLeftUp, 0, 0, 0, 0)
	case ButtonRight:
		_, _, _ = procMouseEvent.Call(mouseeventfRightUp, 0, 0, 0, 0)
	default:
		return fmt.Errorf("unknown button %d", b)
	}
	return nil
}

// TypeRune resolves r through the active keyboard layout and taps the key,
// holding shift when the layout requires it.
func (win32Injector) TypeRune(r rune) error {
	ret, _, _ := procVkKeyScanW.Call(uintptr(r))
	code := uint16(ret)
	if code == 0xFFFF {
		return fmt.Errorf("rune %q has no key in the current layout", r)
	}
	vk := uintptr(code & 0xFF)
	shift := code&0x100 != 0
	if shift {
		_, _, _ = procKeybdEvent.Call(vkShift, 0, 0, 0)
	}
	_, _, _ = procKeybdEvent.Call(vk, 0, 0, 0)
	_, _, _ = procKeybdEvent.Call(vk, 0, keyeventfKeyUp, 0)
	if shift {
		_, _, _ = procKeybdEvent.Call(vkShift, 0, keyeventfKeyUp, 0)
	}
	return nil
}

// ListWindows returns titles of top-level visible windows.
// Empty titles are skipped.
func ListWindows() ([]string, error) {
	var titles []string
	cb := syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		vis, _, _ := procIsWindowVisible.Call(hwnd)
		if vis == 0 {
			return 1 // continue
		}
		if title := windowText(hwnd); title != "" {
			titles = append(titles, title)
		}
		return 1
	})
	if r, _, err := procEnumWindows.Call(cb, 0); r == 0 {
		if err != nil && err != syscall.Errno(0) {
			return nil, fmt.Errorf("EnumWindows: %w", err)
		}
		return nil, errors.New("EnumWindows failed")
	}
	return titles, nil
}

// ForegroundWindowTitle returns the title of the current foreground window.
func ForegroundWindowTitle() (string, error) {
	hwnd, _, _ := procGetForegroundWnd.Call()
	if hwnd == 0 {
		return "", errors.New("no foreground window")
	}
	return windowText(hwnd), nil
}

func windowText(hwnd uintptr) string {
	const maxChars = 256
	buf := make([]uint16, maxChars)
	r, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		return ""
	}
	return strings.TrimSpace(string(utf16.Decode(buf[:min(int(r), len(buf))])))
}
