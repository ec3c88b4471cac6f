package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	ListWindows() ([]WindowInfo, error)
	CaptureWindowImage(uint32) (*image.RGBA, error)
}

var backend = newBackend()

var (
	// ErrNoMonitors is returned when the display server reports no outputs.
	ErrNoMonitors = errors.New("no monitors available")
	// ErrNoWindows is returned when no top-level window can be listed.
	ErrNoWindows = errors.New("no windows available")
)

// MonitorInfo describes an individual monitor in global coordinates.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window. Rect is in global coordinates.
type WindowInfo struct {
	Index      int
	ID         uint32
	Title      string
	Class      string
	Instance   string
	PID        uint32
	Executable string
	Rect       image.Rectangle
	Monitor    int
	Active     bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// ListWindows retrieves the top-level windows, top-most first.
func ListWindows() ([]WindowInfo, error) {
	return backend.ListWindows()
}

// FindMonitor resolves a monitor selector: "", "primary", an index (with or
// without a leading #) or part of the output name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, ErrNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	switch sel {
	case "":
		return monitors[0], nil
	case "primary":
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// windowMatchers maps selector prefixes to predicates.
var windowMatchers = map[string]func(WindowInfo, string) bool{
	"title": func(w WindowInfo, v string) bool { return containsFold(w.Title, v) },
	"name":  func(w WindowInfo, v string) bool { return containsFold(w.Title, v) },
	"exec":  func(w WindowInfo, v string) bool { return containsFold(w.Executable, v) },
	"class": func(w WindowInfo, v string) bool { return containsFold(w.Class, v) || containsFold(w.Instance, v) },
	"pid": func(w WindowInfo, v string) bool {
		pid, err := strconv.ParseUint(v, 10, 32)
		return err == nil && w.PID == uint32(pid)
	},
	"id": func(w WindowInfo, v string) bool {
		id, err := parseWindowID(v)
		return err == nil && w.ID == id
	},
}

// SelectWindow matches a selector against windows. An empty selector picks
// the active window, falling back to the top-most one. Selectors may be
// "active", "index:N", a prefixed match such as "title:editor", "class:term",
// "exec:firefox", "pid:42" or "id:0x1a00003", a bare index, a bare hex id, or
// free text matched against title, executable and class.
func SelectWindow(selector string, windows []WindowInfo) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, ErrNoWindows
	}
	sel := strings.TrimSpace(selector)
	lower := strings.ToLower(sel)
	switch lower {
	case "":
		if w, ok := activeWindow(windows); ok {
			return w, nil
		}
		return windows[0], nil
	case "active":
		if w, ok := activeWindow(windows); ok {
			return w, nil
		}
		return WindowInfo{}, errors.New("no active window detected")
	}

	if prefix, value, ok := strings.Cut(sel, ":"); ok {
		prefix = strings.ToLower(prefix)
		value = strings.TrimSpace(value)
		if prefix == "index" {
			return windowByIndex(windows, value)
		}
		if match, known := windowMatchers[prefix]; known {
			for _, w := range windows {
				if match(w, value) {
					return w, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window with %s %q not found", prefix, value)
		}
	}
	if _, err := strconv.Atoi(sel); err == nil {
		return windowByIndex(windows, sel)
	}
	if strings.HasPrefix(lower, "0x") {
		if id, err := parseWindowID(sel); err == nil {
			for _, w := range windows {
				if w.ID == id {
					return w, nil
				}
			}
			return WindowInfo{}, fmt.Errorf("window id 0x%x not found", id)
		}
	}
	for _, w := range windows {
		if containsFold(w.Title, sel) || containsFold(w.Executable, sel) ||
			containsFold(w.Class, sel) || containsFold(w.Instance, sel) {
			return w, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("no window matched %q", selector)
}

func activeWindow(windows []WindowInfo) (WindowInfo, bool) {
	for _, w := range windows {
		if w.Active {
			return w, true
		}
	}
	return WindowInfo{}, false
}

func windowByIndex(windows []WindowInfo, val string) (WindowInfo, error) {
	idx, err := strconv.Atoi(val)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("invalid index %q", val)
	}
	if idx < 0 || idx >= len(windows) {
		return WindowInfo{}, fmt.Errorf("window index %d out of range", idx)
	}
	return windows[idx], nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func parseWindowID(val string) (uint32, error) {
	v := strings.TrimSpace(val)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v, base = v[2:], 16
	}
	parsed, err := strconv.ParseUint(v, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", val)
	}
	return uint32(parsed), nil
}
