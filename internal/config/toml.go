package config

import (
	"fmt"
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// ParseTOML reads configuration in TOML. Tables map onto the RC sections and
// inline themes live under [themes.NAME].
func ParseTOML(r io.Reader) (*Config, error) {
	var doc map[string]any
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	cfg := New()
	if err := cfg.apply("", doc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply walks a decoded table. Nested tables extend the section name with a
// dot, so [themes.dark] reaches Set as section "themes.dark".
func (c *Config) apply(section string, table map[string]any) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := table[key].(type) {
		case map[string]any:
			name := key
			if section != "" {
				name = section + "." + key
			}
			if err := c.apply(name, v); err != nil {
				return err
			}
		default:
			if err := c.Set(section, key, fmt.Sprint(v)); err != nil {
				return err
			}
		}
	}
	return nil
}
