package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Inline holds themes defined in the config file by name.
	Inline map[string]*Theme
}

// NewLoader creates a Loader with the standard paths.
func NewLoader() *Loader {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return &Loader{
		ConfigDir: filepath.Join(dir, "snapmark", "themes"),
		SystemDir: "/usr/share/snapmark/themes",
	}
}

// Load resolves a theme by name or path. The lookup order is an existing
// file path, inline config themes, embedded themes, ConfigDir and SystemDir.
// An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	if t, ok := l.Inline[name]; ok {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	if t, err := parseFile(EmbeddedThemes, "defaults/"+filename); err == nil {
		return t, nil
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, filename)); err == nil {
			return parseFile(os.DirFS(dir), filename)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

// Names lists the embedded theme names.
func Names() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	sort.Strings(names)
	return names
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}
