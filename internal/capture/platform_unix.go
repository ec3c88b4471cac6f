//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

func runningOnWayland() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// withScreen connects to the X server and calls fn with the default screen.
func withScreen(fn func(conn *xgb.Conn, setup *xproto.SetupInfo, screen *xproto.ScreenInfo) error) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return errors.New("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return errors.New("xproto screen unavailable")
	}
	return fn(conn, setup, screen)
}

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	var monitors []MonitorInfo
	err := withScreen(func(conn *xgb.Conn, _ *xproto.SetupInfo, screen *xproto.ScreenInfo) error {
		var err error
		monitors, err = fetchMonitors(conn, screen.Root)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return displayMonitors()
	}
	return monitors, nil
}

func (x11Backend) ListWindows() ([]WindowInfo, error) {
	var windows []WindowInfo
	err := withScreen(func(conn *xgb.Conn, _ *xproto.SetupInfo, screen *xproto.ScreenInfo) error {
		monitors, _ := fetchMonitors(conn, screen.Root)
		activeID, _ := fetchActiveWindow(conn, screen.Root)
		var err error
		windows, err = fetchWindows(conn, screen.Root, monitors, activeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, ErrNoWindows
	}
	return windows, nil
}

func (x11Backend) CaptureWindowImage(id uint32) (*image.RGBA, error) {
	var img *image.RGBA
	err := withScreen(func(conn *xgb.Conn, setup *xproto.SetupInfo, _ *xproto.ScreenInfo) error {
		g, err := xproto.GetGeometry(conn, xproto.Drawable(id)).Reply()
		if err != nil {
			return fmt.Errorf("window geometry: %w", err)
		}
		if g.Width == 0 || g.Height == 0 {
			return errors.New("window has empty geometry")
		}
		reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(id),
			0, 0, g.Width, g.Height, ^uint32(0)).Reply()
		if err != nil {
			return fmt.Errorf("window pixels: %w", err)
		}
		img, err = xImageToRGBA(setup, reply, int(g.Width), int(g.Height))
		return err
	})
	return img, err
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]MonitorInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	var primary randr.Output
	if p, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = p.Output
	}
	monitors := make([]MonitorInfo, 0, len(res.Outputs))
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		x, y := int(crtc.X), int(crtc.Y)
		monitors = append(monitors, MonitorInfo{
			Index:   len(monitors),
			Name:    strings.TrimSpace(string(info.Name)),
			Rect:    image.Rect(x, y, x+int(crtc.Width), y+int(crtc.Height)),
			Primary: output == primary,
		})
	}
	return monitors, nil
}

func fetchActiveWindow(conn *xgb.Conn, root xproto.Window) (uint32, error) {
	reply, err := getProperty(conn, root, "_NET_ACTIVE_WINDOW", xproto.AtomWindow, 1)
	if err != nil {
		return 0, err
	}
	if reply.Format != 32 || reply.ValueLen == 0 {
		return 0, errors.New("active window unavailable")
	}
	return xgb.Get32(reply.Value), nil
}

// fetchWindows lists client windows top-most first. The stacking list is
// bottom-to-top, so it is walked backwards.
func fetchWindows(conn *xgb.Conn, root xproto.Window, monitors []MonitorInfo, activeID uint32) ([]WindowInfo, error) {
	reply, err := getProperty(conn, root, "_NET_CLIENT_LIST_STACKING", xproto.AtomWindow, 1<<16)
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		reply, err = getProperty(conn, root, "_NET_CLIENT_LIST", xproto.AtomWindow, 1<<16)
		if err != nil {
			return nil, err
		}
	}
	n := int(reply.ValueLen)
	windows := make([]WindowInfo, 0, n)
	for i := n - 1; i >= 0; i-- {
		win := xproto.Window(xgb.Get32(reply.Value[i*4:]))
		info, err := describeWindow(conn, root, win)
		if err != nil {
			continue
		}
		info.Index = len(windows)
		info.Active = info.ID == activeID
		info.Monitor = monitorForRect(info.Rect, monitors)
		windows = append(windows, info)
	}
	return windows, nil
}

func describeWindow(conn *xgb.Conn, root, win xproto.Window) (WindowInfo, error) {
	rect, err := windowRect(conn, root, win)
	if err != nil {
		return WindowInfo{}, err
	}
	title := readText(conn, win, "_NET_WM_NAME", "UTF8_STRING")
	if title == "" {
		title = readText(conn, win, "WM_NAME", "")
	}
	class, instance := readClass(conn, win)
	pid := readPID(conn, win)
	return WindowInfo{
		ID:         uint32(win),
		Title:      title,
		Class:      class,
		Instance:   instance,
		PID:        pid,
		Executable: readExecutable(pid),
		Rect:       rect,
		Monitor:    -1,
	}, nil
}

// windowRect returns the outer rectangle of win, border included, in root
// coordinates.
func windowRect(conn *xgb.Conn, root, win xproto.Window) (image.Rectangle, error) {
	g, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	t, err := xproto.TranslateCoordinates(conn, win, root, int16(g.X), int16(g.Y)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	b := int(g.BorderWidth)
	x, y := int(t.DstX)-b, int(t.DstY)-b
	return image.Rect(x, y, x+int(g.Width)+2*b, y+int(g.Height)+2*b), nil
}

func monitorForRect(rect image.Rectangle, monitors []MonitorInfo) int {
	if len(monitors) == 0 {
		return -1
	}
	center := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
	for _, mon := range monitors {
		if center.In(mon.Rect) {
			return mon.Index
		}
	}
	return monitors[0].Index
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func getProperty(conn *xgb.Conn, win xproto.Window, name string, typ xproto.Atom, length uint32) (*xproto.GetPropertyReply, error) {
	atom, err := internAtom(conn, name)
	if err != nil {
		return nil, err
	}
	return xproto.GetProperty(conn, false, win, atom, typ, 0, length).Reply()
}

// readText reads a string property. An empty typeName means STRING.
func readText(conn *xgb.Conn, win xproto.Window, name, typeName string) string {
	typ := xproto.Atom(xproto.AtomString)
	if typeName != "" {
		a, err := internAtom(conn, typeName)
		if err != nil {
			return ""
		}
		typ = a
	}
	reply, err := getProperty(conn, win, name, typ, 1<<16)
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func readClass(conn *xgb.Conn, win xproto.Window) (class, instance string) {
	reply, err := getProperty(conn, win, "WM_CLASS", xproto.AtomString, 64)
	if err != nil || reply.ValueLen == 0 {
		return "", ""
	}
	var vals []string
	for _, p := range bytes.Split(reply.Value, []byte{0}) {
		if len(p) > 0 {
			vals = append(vals, string(p))
		}
	}
	switch len(vals) {
	case 0:
		return "", ""
	case 1:
		return vals[0], vals[0]
	}
	return vals[1], vals[0]
}

func readPID(conn *xgb.Conn, win xproto.Window) uint32 {
	reply, err := getProperty(conn, win, "_NET_WM_PID", xproto.AtomCardinal, 1)
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		return 0
	}
	return xgb.Get32(reply.Value)
}

func readExecutable(pid uint32) string {
	if pid == 0 {
		return ""
	}
	proc := filepath.Join("/proc", fmt.Sprint(pid))
	if data, err := os.ReadFile(filepath.Join(proc, "comm")); err == nil {
		return strings.TrimSpace(string(data))
	}
	if exe, err := os.Readlink(filepath.Join(proc, "exe")); err == nil {
		return filepath.Base(exe)
	}
	return ""
}
