package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/notify"
	"github.com/example/snapmark/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	configPath    string
	config        *config.Config
	notifier      *notify.Notifier
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
	saveDir       string
	activeTheme   *theme.Theme
	stdout        io.Writer
	stderr        io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subProgram(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	return config.NewLoader(version, path).Load()
}

func newRoot() *root {
	cfg, err := loadConfig(configPathOverride)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("snapmark", flag.ContinueOnError),
		program:  "snapmark",
		config:   cfg,
		notifier: notify.New(cfg.Notify),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.SetOutput(io.Discard)
	r.fs.StringVar(&r.configPath, "config", "", "configuration file to load instead of the default search path")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.StringVar(&r.saveDir, "save-dir", "", "directory suggested for saved images")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "overlay color theme (dark, light, high-contrast or a file path)")
	r.fs.Usage = usageFunc(r)
	return r
}

// applyFlags re-reads the configuration when -config was given and lets
// explicitly set flags win over it.
func (r *root) applyFlags() error {
	if r.configPath != "" {
		cfg, err := loadConfig(r.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", r.configPath, err)
		}
		r.config = cfg
	}
	r.applyOverrides(r.config)
	if r.notifier != nil {
		r.notifier.Configure(r.config.Notify)
	}
	r.activeTheme = r.resolveTheme()
	return nil
}

// applyOverrides copies the flags given on the command line into cfg.
func (r *root) applyOverrides(cfg *config.Config) {
	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "notify-capture":
			cfg.Notify.Capture = r.captureAlerts
		case "notify-save":
			cfg.Notify.Save = r.saveAlerts
		case "notify-copy":
			cfg.Notify.Copy = r.copyAlerts
		case "save-dir":
			cfg.SaveDir = r.saveDir
		}
	})
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv(config.EnvPrefix + "THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	loader := theme.NewLoader()
	loader.Inline = r.config.Themes
	t, err := loader.Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.applyFlags(); err != nil {
		return err
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "capture":
		cmd, err = parseCaptureCmd(subArgs, r)
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "daemon":
		cmd, err = parseDaemonCmd(subArgs, r)
	case "windows":
		cmd, err = parseWindowsCmd(subArgs, r)
	case "monitors":
		cmd, err = parseMonitorsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
