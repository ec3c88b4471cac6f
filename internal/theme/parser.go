package theme

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition from r. Each line is "Key: #RRGGBB" or
// "Key: #RRGGBBAA". Keys are matched case-insensitively and unknown keys are
// ignored. Missing keys keep their Default value.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by name.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	field := reflect.ValueOf(t).Elem().FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, key)
	})
	if !field.IsValid() || field.Type() != rgbaType {
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(col))
	return nil
}

// Fields returns the colour fields in declaration order with their hex
// values.
func (t *Theme) Fields() [][2]string {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out [][2]string
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != rgbaType {
			continue
		}
		out = append(out, [2]string{typ.Field(i).Name, Hex(val.Field(i).Interface().(color.RGBA))})
	}
	return out
}

// String renders t in the file format read by Parse.
func (t *Theme) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", t.Name)
	for _, f := range t.Fields() {
		fmt.Fprintf(&sb, "%s: %s\n", f[0], f[1])
	}
	return sb.String()
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.RGBA{}, errors.New("color must start with #")
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, errors.New("invalid hex length")
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is translucent.
func Hex(c color.RGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
