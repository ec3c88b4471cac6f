//go:build windows

package platform

import (
	"strings"

	"github.com/go-toast/toast"
)

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	n := toast.Notification{
		AppID:   AppName,
		Title:   title,
		Message: body,
		Icon:    strings.TrimSpace(opts.IconPath),
	}
	if opts.Timeout > 10000 {
		n.Duration = toast.Long
	}
	return n.Push()
}
