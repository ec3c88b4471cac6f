//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest  = "org.freedesktop.Notifications"
	notifyPath  = "/org/freedesktop/Notifications"
	notifyCall  = "org.freedesktop.Notifications.Notify"
	notifyDelay = int32(5000)
)

// Notify sends a desktop notification over the org.freedesktop.Notifications D-Bus interface.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = notifyDelay
	}
	hints := map[string]dbus.Variant{"desktop-entry": dbus.MakeVariant(AppName)}
	obj := conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyCall, 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, timeout)
	return call.Err
}
