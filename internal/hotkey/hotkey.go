// Package hotkey registers the global capture shortcut.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnsupported is returned where global shortcuts are unavailable.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

var modifierNames = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"super":   "super",
	"win":     "super",
	"cmd":     "super",
	"command": "super",
}

var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

// Binding is a parsed shortcut.
type Binding struct {
	// Mods holds canonical modifier names: ctrl, shift, alt or super.
	Mods []string
	Key  string
}

// Parse reads a shortcut such as "ctrl+shift+s". Modifiers may appear in any
// order; the key comes last.
func Parse(s string) (Binding, error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '+' || r == '-' || r == ' ' })
	if len(parts) == 0 {
		return Binding{}, fmt.Errorf("empty hotkey")
	}
	var b Binding
	seen := map[string]bool{}
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[p]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
		if !seen[m] {
			seen[m] = true
			b.Mods = append(b.Mods, m)
		}
	}
	k := parts[len(parts)-1]
	if alias, ok := keyAliases[k]; ok {
		k = alias
	}
	if !validKey(k) {
		return Binding{}, fmt.Errorf("unknown key %q in %q", k, s)
	}
	b.Key = k
	return b, nil
}

func validKey(k string) bool {
	if len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9') {
		return true
	}
	switch k {
	case "space", "enter", "escape", "tab", "delete", "backspace", "home", "end", "up", "down", "left", "right":
		return true
	}
	var n int
	if _, err := fmt.Sscanf(k, "f%d", &n); err == nil && n >= 1 && n <= 12 && k == fmt.Sprintf("f%d", n) {
		return true
	}
	return false
}

// String formats b for menus, e.g. "Ctrl+Shift+S".
func (b Binding) String() string {
	parts := make([]string, 0, len(b.Mods)+1)
	for _, m := range b.Mods {
		parts = append(parts, strings.ToUpper(m[:1])+m[1:])
	}
	parts = append(parts, strings.ToUpper(b.Key[:1])+b.Key[1:])
	return strings.Join(parts, "+")
}

// registration is a live native shortcut.
type registration interface {
	unregister() error
}

var register = registerNative

// Manager owns at most one registered shortcut.
type Manager struct {
	mu  sync.Mutex
	reg registration
}

// Register installs b, replacing any previous shortcut. fire runs on a
// library goroutine for every key press.
func (m *Manager) Register(b Binding, fire func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reg != nil {
		if err := m.reg.unregister(); err != nil {
			return fmt.Errorf("unregister hotkey: %w", err)
		}
		m.reg = nil
	}
	reg, err := register(b, fire)
	if err != nil {
		return fmt.Errorf("register hotkey %s: %w", b, err)
	}
	m.reg = reg
	return nil
}

// Unregister removes the shortcut.
func (m *Manager) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reg == nil {
		return nil
	}
	err := m.reg.unregister()
	m.reg = nil
	return err
}
