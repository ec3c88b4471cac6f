package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/snapmark/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Program() string        { return c.subProgram("config") }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "save":
		return c.runSave()
	case "path":
		path := c.loader().GetConfigPath()
		if path == "" {
			fmt.Fprintln(c.stdout, "no config file found")
			return nil
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) loader() *config.Loader {
	path := c.configPath
	if path == "" {
		path = configPathOverride
	}
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	return config.NewLoader(version, path)
}

func (c *configCmd) runSave() error {
	path := c.configPath
	if path == "" {
		path = c.loader().GetConfigPath()
	}
	if path == "" {
		path = filepath.Join(config.Dir(), "config.rc")
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return fmt.Errorf("refusing to overwrite %s: config save writes the RC format", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.config.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}
