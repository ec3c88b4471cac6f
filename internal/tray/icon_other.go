//go:build !windows

package tray

func trayIcon() ([]byte, error) { return iconPNG(IconSize) }
