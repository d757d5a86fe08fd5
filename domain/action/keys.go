package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Windows virtual-key codes for the named keys accepted in key bindings.
var namedVK = map[string]byte{
	"BACKSPACE": 0x08,
	"TAB":       0x09,
	"ENTER":     0x0D,
	"RETURN":    0x0D,
	"SHIFT":     0x10,
	"CTRL":      0x11,
	"ALT":       0x12,
	"ESC":       0x1B,
	"ESCAPE":    0x1B,
	"SPACE":     0x20,
}

// ParseVK converts a key token (e.g. "F3", "R", "1", "esc") into a Windows
// virtual-key code. Recognizes F1..F12, digits, letters A..Z and the names in
// namedVK.
func ParseVK(key string) (byte, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if vk, ok := namedVK[k]; ok {
		return vk, nil
	}
	if len(k) == 1 {
		c := k[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return c, nil // ASCII matches the VK codes
		}
	}
	if len(k) >= 2 && len(k) <= 3 && k[0] == 'F' {
		if n, err := strconv.Atoi(k[1:]); err == nil && n >= 1 && n <= 12 {
			return byte(0x70 + n - 1), nil // VK_F1=0x70
		}
	}
	return 0, fmt.Errorf("action: unknown key %q", key)
}

// robotKey maps a binding token to the key name used by robotgo.
func robotKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "esc":
		return "escape"
	case "return":
		return "enter"
	case "ctrl":
		return "control"
	}
	return k
}
