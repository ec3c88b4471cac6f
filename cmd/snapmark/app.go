package main

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/host"
	"github.com/example/snapmark/internal/ocr"
	"github.com/example/snapmark/internal/overlay"
	"github.com/example/snapmark/internal/render"
)

var (
	grabFn          = capture.Grab
	captureWindowFn = capture.CaptureWindow
	runUI           = func(ctx context.Context, a *app) error {
		var err error
		driver.Main(func(s screen.Screen) {
			err = a.run(ctx, s)
		})
		return err
	}
)

// app is the interactive stack: overlay window, session and OCR pool.
type app struct {
	root    *root
	overlay *overlay.Overlay
	session *host.Session
	ocr     *ocr.Service
	display string
}

func newApp(r *root, opts overlay.Options) *app {
	cfg := r.config
	if opts.Theme == nil {
		opts.Theme = r.activeTheme
	}
	if opts.Messages == nil && r.notifier != nil {
		opts.Messages = r.notifier
	}
	a := &app{root: r, overlay: overlay.New(opts)}
	exec := &host.Executor{
		Platform:  a.overlay,
		Capturer:  host.CapturerFunc(a.grab),
		Composer:  render.NewComposer(),
		LoadStyle: a.reloadStyle,
		SaveDir:   saveDir(cfg),
	}
	if r.notifier != nil {
		exec.Notifier = r.notifier
	}
	if cfg.OCR.Enabled {
		rec := ocr.NewTesseract(cfg.OCR.Command, cfg.OCR.Language)
		a.ocr = ocr.NewService(rec, 1, cfg.OCR.Timeout, func(res ocr.Result) {
			a.overlay.Post(res.Action())
		})
		exec.OCR = a.ocr
	}
	a.session = host.NewSession(cfg.Style.Element(), exec)
	return a
}

func (a *app) grab() (capture.Frame, error) {
	return grabFn(capture.Options{Display: a.display})
}

// reloadStyle rereads the configuration for a settings reload. It runs on
// the overlay loop.
func (a *app) reloadStyle() (element.Style, error) {
	cfg, err := loadConfig(a.root.configPath)
	if err != nil {
		return element.Style{}, err
	}
	a.root.applyOverrides(cfg)
	a.root.config = cfg
	if a.root.notifier != nil {
		a.root.notifier.Configure(cfg.Notify)
	}
	a.session.Exec.SaveDir = saveDir(cfg)
	return cfg.Style.Element(), nil
}

func (a *app) run(ctx context.Context, s screen.Screen) error {
	if a.ocr != nil {
		defer a.ocr.Close()
	}
	return a.overlay.Run(ctx, s, a.session)
}

// saveDir picks the directory suggested for saved images.
func saveDir(cfg *config.Config) string {
	if cfg.SaveDir != "" {
		return cfg.SaveDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		pictures := filepath.Join(home, "Pictures")
		if st, err := os.Stat(pictures); err == nil && st.IsDir() {
			return pictures
		}
		return home
	}
	return "."
}
