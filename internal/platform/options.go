// Package platform sends desktop notifications through the native
// notification service of each OS.
package platform

// AppName is reported to notification services.
const AppName = "snapmark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is the display time in milliseconds. Zero uses the platform default.
	Timeout int32
}
