package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/hotkey"
	"github.com/example/snapmark/internal/overlay"
	"github.com/example/snapmark/internal/tray"
)

var (
	runTray       = func(t *tray.Tray) { t.Run() }
	newHotkeys    = func() hotkeyRegistrar { return &hotkey.Manager{} }
	watchConfigFn = config.Watch
)

type hotkeyRegistrar interface {
	Register(b hotkey.Binding, fire func()) error
	Unregister() error
}

type daemonCmd struct {
	*root
	fs       *flag.FlagSet
	display  string
	noTray   bool
	noHotkey bool
	noWatch  bool
}

func parseDaemonCmd(args []string, r *root) (*daemonCmd, error) {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	c := &daemonCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.StringVar(&c.display, "display", "", "capture only this monitor (index, name or primary)")
	fs.BoolVar(&c.noTray, "no-tray", false, "do not show the tray icon")
	fs.BoolVar(&c.noHotkey, "no-hotkey", false, "do not register the global capture shortcut")
	fs.BoolVar(&c.noWatch, "no-watch", false, "do not reload settings when the config file changes")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *daemonCmd) Program() string        { return c.subProgram("daemon") }
func (c *daemonCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *daemonCmd) Run() error {
	a := newApp(c.root, overlay.Options{})
	a.display = c.display
	post := a.overlay.Post

	shortcut := ""
	if !c.noHotkey && c.config.Hotkey.Capture != "" {
		b, err := hotkey.Parse(c.config.Hotkey.Capture)
		if err != nil {
			return fmt.Errorf("invalid capture hotkey: %w", err)
		}
		hk := newHotkeys()
		if err := hk.Register(b, func() { post(action.Hotkey{ID: action.HotkeyCapture}) }); err != nil {
			// The tray still offers capture.
			log.Printf("hotkey %s: %v", b, err)
		} else {
			shortcut = b.String()
			defer hk.Unregister()
		}
	}

	if !c.noWatch {
		if path := c.watchPath(); path != "" {
			w, err := watchConfigFn(path, func() (*config.Config, error) { return loadConfig(c.configPath) }, func(*config.Config) {
				post(action.Tray{Item: action.TraySettings})
			})
			if err != nil {
				log.Printf("watch %s: %v", path, err)
			} else {
				defer w.Close()
			}
		}
	}

	if !c.noTray {
		t := tray.New(shortcut, post)
		t.OnExit = a.overlay.Close
		go runTray(t)
		defer t.Quit()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Printf("%s %s running", c.program, version)
	return runUI(ctx, a)
}

func (c *daemonCmd) watchPath() string {
	path := c.configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	return config.NewLoader(version, path).GetConfigPath()
}
