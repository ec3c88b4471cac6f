package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/snapmark/internal/theme"
)

// Parse reads configuration in RC format: "key = value" lines grouped under
// [section] headers. Theme sections also accept "Key: value".
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)
	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				cfg.theme(name)
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		if err := cfg.Set(section, strings.TrimSpace(key), value); err != nil {
			return nil, err
		}
	}
	return cfg, scanner.Err()
}

// theme returns the inline theme name, creating it from defaults.
func (c *Config) theme(name string) *theme.Theme {
	t, ok := c.Themes[name]
	if !ok {
		t = theme.Default()
		t.Name = name
		c.Themes[name] = t
	}
	return t
}

// Set assigns one setting. An empty section is the root. Unknown keys are
// ignored so that newer files still load.
func (c *Config) Set(section, key, value string) error {
	lower := strings.ToLower(section)
	var err error
	switch {
	case lower == "":
		err = c.setRoot(key, value)
	case lower == "style":
		err = c.setStyle(key, value)
	case lower == "ocr":
		err = c.setOCR(key, value)
	case lower == "hotkey":
		if strings.EqualFold(key, "capture") {
			c.Hotkey.Capture = value
		}
	case lower == "notify":
		err = c.setNotify(key, value)
	case strings.HasPrefix(lower, "theme.") || strings.HasPrefix(lower, "themes."):
		_, name, _ := strings.Cut(section, ".")
		err = c.theme(name).Set(key, value)
	}
	if err != nil {
		if section == "" {
			return fmt.Errorf("error in root section: %w", err)
		}
		return fmt.Errorf("error in section [%s]: %w", section, err)
	}
	return nil
}

func (c *Config) setRoot(key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		c.Theme = value
	case "save_dir":
		c.SaveDir = value
	}
	return nil
}

func (c *Config) setStyle(key, value string) error {
	switch strings.ToLower(key) {
	case "color":
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.Style.Color = col
	case "stroke_width":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid stroke width %q", value)
		}
		c.Style.StrokeWidth = n
	case "font_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid font size %q", value)
		}
		c.Style.FontSize = f
	}
	return nil
}

func (c *Config) setOCR(key, value string) error {
	switch strings.ToLower(key) {
	case "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		c.OCR.Enabled = b
	case "command":
		c.OCR.Command = value
	case "language":
		c.OCR.Language = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		c.OCR.Timeout = d
	}
	return nil
}

func (c *Config) setNotify(key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "capture":
		c.Notify.Capture = b
	case "save":
		c.Notify.Save = b
	case "copy":
		c.Notify.Copy = b
	}
	return nil
}
