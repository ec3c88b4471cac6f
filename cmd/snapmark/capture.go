package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/overlay"
)

type captureCmd struct {
	*root
	fs      *flag.FlagSet
	display string
	window  string
	delay   time.Duration
}

func parseCaptureCmd(args []string, r *root) (*captureCmd, error) {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	c := &captureCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.StringVar(&c.display, "display", "", "capture only this monitor (index, name or primary)")
	fs.StringVar(&c.window, "window", "", "annotate a single window instead (selector as listed by the windows command)")
	fs.DurationVar(&c.delay, "delay", 0, "wait before grabbing the screen")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.window != "" && c.display != "" {
		return nil, fmt.Errorf("-window and -display cannot be combined")
	}
	return c, nil
}

func (c *captureCmd) Program() string        { return c.subProgram("capture") }
func (c *captureCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *captureCmd) Run() error {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	frame, detail, err := c.grab()
	if err != nil {
		return err
	}
	if c.notifier != nil {
		b := frame.Image.Bounds()
		c.notifier.Capture(fmt.Sprintf("%dx%d %s", b.Dx(), b.Dy(), detail), frame.Image)
	}
	a := newApp(c.root, overlay.Options{ExitOnHide: true})
	a.display = c.display
	return annotate(a, frame)
}

// grab captures the screen, or a single window when -window is set. A window
// frame carries no window layout, so auto-highlight stays off.
func (c *captureCmd) grab() (capture.Frame, string, error) {
	if c.window != "" {
		img, info, err := captureWindowFn(c.window, capture.Options{})
		if err != nil {
			return capture.Frame{}, "", fmt.Errorf("failed to capture window: %w", err)
		}
		title := info.Title
		if title == "" {
			title = fmt.Sprintf("0x%x", info.ID)
		}
		return capture.Frame{Image: img}, "window " + title, nil
	}
	frame, err := grabFn(capture.Options{Display: c.display})
	if err != nil {
		return capture.Frame{}, "", fmt.Errorf("failed to capture screen: %w", err)
	}
	return frame, "screen", nil
}

// annotate shows frame in the overlay and blocks until the session ends.
func annotate(a *app, frame capture.Frame) error {
	a.overlay.Call(func() {
		if err := a.session.Load(frame); err != nil {
			fmt.Fprintf(a.root.stderr, "load: %v\n", err)
		}
	})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runUI(ctx, a)
}

type openCmd struct {
	*root
	fs   *flag.FlagSet
	path string
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	c := &openCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.path = fs.Arg(0)
	return c, nil
}

func (c *openCmd) Program() string        { return c.subProgram("open") }
func (c *openCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *openCmd) Run() error {
	img, err := loadImage(c.path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	a := newApp(c.root, overlay.Options{ExitOnHide: true})
	return annotate(a, capture.Frame{Image: img})
}
