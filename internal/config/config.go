// Package config loads snapmark settings from an RC or TOML file, a .env
// file and SNAPMARK_* environment variables.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/theme"
)

// Style is the annotation style applied to new elements.
type Style struct {
	Color       color.RGBA
	StrokeWidth int
	FontSize    float64
}

// Element converts s into the element style, clamping out of range values.
func (s Style) Element() element.Style {
	e := element.DefaultStyle()
	e.Color = s.Color
	if s.StrokeWidth > 0 {
		e.StrokeWidth = min(s.StrokeWidth, 50)
	}
	if s.FontSize > 0 {
		e.FontSize = max(element.MinFontSize, min(s.FontSize, element.MaxFontSize))
	}
	return e
}

// OCR configures text recognition.
type OCR struct {
	Enabled  bool
	Command  string
	Language string
	Timeout  time.Duration
}

// Hotkey configures the global shortcuts.
type Hotkey struct {
	Capture string
}

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Style   Style
	OCR     OCR
	Hotkey  Hotkey
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	def := element.DefaultStyle()
	return &Config{
		Style: Style{Color: def.Color, StrokeWidth: def.StrokeWidth, FontSize: def.FontSize},
		OCR: OCR{
			Enabled:  true,
			Command:  "tesseract",
			Language: "eng",
			Timeout:  30 * time.Second,
		},
		Hotkey: Hotkey{Capture: "ctrl+shift+s"},
		Notify: Notify{Save: true, Copy: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// String returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}

	sb.WriteString("\n[style]\n")
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Style.Color))
	fmt.Fprintf(&sb, "stroke_width = %d\n", c.Style.StrokeWidth)
	fmt.Fprintf(&sb, "font_size = %g\n", c.Style.FontSize)

	sb.WriteString("\n[ocr]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.OCR.Enabled)
	fmt.Fprintf(&sb, "command = %s\n", c.OCR.Command)
	fmt.Fprintf(&sb, "language = %s\n", c.OCR.Language)
	fmt.Fprintf(&sb, "timeout = %s\n", c.OCR.Timeout)

	sb.WriteString("\n[hotkey]\n")
	fmt.Fprintf(&sb, "capture = %s\n", c.Hotkey.Capture)

	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n%s", name, c.Themes[name].String())
	}
	return sb.String()
}
