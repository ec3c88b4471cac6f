package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/hotkey"
	"github.com/example/snapmark/internal/host"
	"github.com/example/snapmark/internal/ocr"
	"github.com/example/snapmark/internal/render"
)

// script is a headless session read from YAML.
type script struct {
	Image string `yaml:"image"`
	// Size is a blank canvas [width, height] used when Image is empty.
	Size []int `yaml:"size"`
	// Output is where "save: file" writes.
	Output string `yaml:"output"`
	// Clipboard is where "save: clipboard" writes.
	Clipboard string `yaml:"clipboard"`
	// Render, when set, receives the overlay as it looks after the last step.
	Render string `yaml:"render"`
	Steps  []step `yaml:"steps"`
}

type step struct {
	Down        []int  `yaml:"down"`
	Move        []int  `yaml:"move"`
	Up          []int  `yaml:"up"`
	Drag        []int  `yaml:"drag"`
	Click       []int  `yaml:"click"`
	DoubleClick []int  `yaml:"double_click"`
	Tool        string `yaml:"tool"`
	Type        string `yaml:"type"`
	Key         string `yaml:"key"`
	Undo        bool   `yaml:"undo"`
	Redo        bool   `yaml:"redo"`
	Save        string `yaml:"save"`
	OCR         bool   `yaml:"ocr"`
	Cancel      bool   `yaml:"cancel"`
	Tick        int    `yaml:"tick"`
}

var toolAliases = map[string]element.Tool{
	"rect":    element.ToolRectangle,
	"oval":    element.ToolCircle,
	"ellipse": element.ToolCircle,
	"line":    element.ToolArrow,
	"select":  element.ToolNone,
}

var scriptKeys = map[string]action.Key{
	"escape":    action.KeyEscape,
	"enter":     action.KeyEnter,
	"backspace": action.KeyBackspace,
	"delete":    action.KeyDelete,
	"left":      action.KeyArrowLeft,
	"right":     action.KeyArrowRight,
	"up":        action.KeyArrowUp,
	"down":      action.KeyArrowDown,
	"home":      action.KeyHome,
	"end":       action.KeyEnd,
	"tab":       action.KeyTab,
}

func point(name string, v []int) (int, int, error) {
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("%s needs [x, y], got %v", name, v)
	}
	return v[0], v[1], nil
}

func parseScriptKey(s string) (action.KeyDown, error) {
	b, err := hotkey.Parse(s)
	if err != nil {
		return action.KeyDown{}, err
	}
	var k action.KeyDown
	for _, m := range b.Mods {
		switch m {
		case "ctrl", "super":
			k.Mods |= action.ModCtrl
		case "shift":
			k.Mods |= action.ModShift
		case "alt":
			k.Mods |= action.ModAlt
		}
	}
	if named, ok := scriptKeys[b.Key]; ok {
		k.Key = named
		return k, nil
	}
	if len(b.Key) != 1 {
		return action.KeyDown{}, fmt.Errorf("unsupported key %q", s)
	}
	k.Key, k.Rune = action.KeyRune, rune(b.Key[0])
	return k, nil
}

// actions converts a step into dispatcher actions. pressed carries the
// primary button state between steps.
func (s step) actions(pressed *bool) ([]action.Action, error) {
	var out []action.Action
	add := func(a ...action.Action) { out = append(out, a...) }

	if s.Down != nil {
		x, y, err := point("down", s.Down)
		if err != nil {
			return nil, err
		}
		add(action.PointerDown{X: x, Y: y})
		*pressed = true
	}
	if s.Move != nil {
		x, y, err := point("move", s.Move)
		if err != nil {
			return nil, err
		}
		add(action.PointerMove{X: x, Y: y, Pressed: *pressed})
	}
	if s.Up != nil {
		x, y, err := point("up", s.Up)
		if err != nil {
			return nil, err
		}
		add(action.PointerUp{X: x, Y: y})
		*pressed = false
	}
	if s.Drag != nil {
		if len(s.Drag) != 4 {
			return nil, fmt.Errorf("drag needs [x0, y0, x1, y1], got %v", s.Drag)
		}
		d := s.Drag
		add(action.PointerDown{X: d[0], Y: d[1]},
			action.PointerMove{X: d[2], Y: d[3], Pressed: true},
			action.PointerUp{X: d[2], Y: d[3]})
	}
	if s.Click != nil {
		x, y, err := point("click", s.Click)
		if err != nil {
			return nil, err
		}
		add(action.PointerDown{X: x, Y: y}, action.PointerUp{X: x, Y: y})
	}
	if s.DoubleClick != nil {
		x, y, err := point("double_click", s.DoubleClick)
		if err != nil {
			return nil, err
		}
		add(action.DoubleClick{X: x, Y: y}, action.PointerUp{X: x, Y: y})
	}
	if s.Tool != "" {
		name := strings.ToLower(s.Tool)
		t, ok := toolAliases[name]
		if !ok {
			if t, ok = element.ParseTool(name); !ok {
				return nil, fmt.Errorf("unknown tool %q", s.Tool)
			}
		}
		add(action.SelectTool{Tool: t})
	}
	for _, r := range s.Type {
		add(action.CharInput{Rune: r})
	}
	if s.Key != "" {
		k, err := parseScriptKey(s.Key)
		if err != nil {
			return nil, err
		}
		add(k)
	}
	if s.Undo {
		add(action.Undo{})
	}
	if s.Redo {
		add(action.Redo{})
	}
	switch strings.ToLower(s.Save) {
	case "":
	case "file":
		add(action.Save{Target: action.SaveFile})
	case "clipboard":
		add(action.Save{Target: action.SaveClipboard})
	default:
		return nil, fmt.Errorf("unknown save target %q", s.Save)
	}
	if s.OCR {
		add(action.ExtractText{})
	}
	if s.Cancel {
		add(action.Cancel{})
	}
	if s.Tick != 0 {
		add(action.TimerFired{ID: s.Tick})
	}
	if len(out) == 0 {
		return nil, errors.New("empty step")
	}
	return out, nil
}

func readScript(path string) (*script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var sc script
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for _, p := range []*string{&sc.Image, &sc.Output, &sc.Clipboard, &sc.Render} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return &sc, nil
}

func (sc *script) frame() (capture.Frame, error) {
	if sc.Image != "" {
		img, err := loadImage(sc.Image)
		if err != nil {
			return capture.Frame{}, err
		}
		return capture.Frame{Image: img}, nil
	}
	if len(sc.Size) != 2 || sc.Size[0] <= 0 || sc.Size[1] <= 0 {
		return capture.Frame{}, errors.New("script needs an image or a size: [width, height]")
	}
	img := image.NewRGBA(image.Rect(0, 0, sc.Size[0], sc.Size[1]))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return capture.Frame{Image: img}, nil
}

// headless is a host.Platform and host.Notifier without a window. Messages
// go to out.
type headless struct {
	out       io.Writer
	output    string
	clipboard string
	hidden    bool
	timers    map[int]time.Duration
	errors    []string
}

func (h *headless) ShowWindow()    { h.hidden = false }
func (h *headless) HideWindow()    { h.hidden = true }
func (h *headless) DestroyWindow() { h.hidden = true }
func (h *headless) RequestRedraw() {}

func (h *headless) StartTimer(id int, interval time.Duration) { h.timers[id] = interval }
func (h *headless) StopTimer(id int)                          { delete(h.timers, id) }

func (h *headless) WriteImage(img image.Image) error {
	if h.clipboard == "" {
		return errors.New("script has no clipboard file")
	}
	return writePNG(h.clipboard, img)
}

func (h *headless) WriteText(text string) error {
	fmt.Fprintf(h.out, "text: %s\n", text)
	return nil
}

func (h *headless) SavePath(suggested string) (string, bool, error) {
	if h.output != "" {
		return h.output, true, nil
	}
	return suggested, true, nil
}

func (h *headless) ShowMessage(title, body string) { fmt.Fprintf(h.out, "%s: %s\n", title, body) }

func (h *headless) ShowError(msg string) {
	h.errors = append(h.errors, msg)
	fmt.Fprintf(h.out, "error: %s\n", msg)
}

func (h *headless) Save(path string)                     { fmt.Fprintf(h.out, "saved %s\n", path) }
func (h *headless) Copy(detail string)                   { fmt.Fprintf(h.out, "copied %s\n", detail) }
func (h *headless) Capture(detail string, _ image.Image) {}

// syncOCR recognizes on Submit and holds the result until the step ends.
type syncOCR struct {
	rec     ocr.Recognizer
	timeout time.Duration
	results []ocr.Result
}

func (s *syncOCR) Available() bool { return s.rec != nil && s.rec.Available() }

func (s *syncOCR) Submit(job ocr.Job) error {
	if !s.Available() {
		return ocr.ErrUnavailable
	}
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, blocks, err := s.rec.Recognize(ctx, job.Image)
	s.results = append(s.results, ocr.Result{Job: job.ID, Text: text, Blocks: blocks, Err: err})
	return nil
}

func (s *syncOCR) Cancel(id uuid.UUID) {
	kept := s.results[:0]
	for _, r := range s.results {
		if r.Job != id {
			kept = append(kept, r)
		}
	}
	s.results = kept
}

func (s *syncOCR) drain() []ocr.Result {
	out := s.results
	s.results = nil
	return out
}

func newRecognizer(cfg config.OCR) ocr.Recognizer {
	if !cfg.Enabled {
		return nil
	}
	return ocr.NewTesseract(cfg.Command, cfg.Language)
}

type replayCmd struct {
	*root
	fs     *flag.FlagSet
	strict bool
	path   string
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	c := &replayCmd{root: r, fs: fs}
	fs.SetOutput(os.Stderr)
	fs.BoolVar(&c.strict, "strict", false, "fail when the session reports an error")
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

func (c *replayCmd) Program() string        { return c.subProgram("replay") }
func (c *replayCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *replayCmd) Run() error {
	sc, err := readScript(c.path)
	if err != nil {
		return err
	}
	frame, err := sc.frame()
	if err != nil {
		return err
	}

	h := &headless{out: c.stdout, output: sc.Output, clipboard: sc.Clipboard, timers: map[int]time.Duration{}}
	rec := &syncOCR{rec: newRecognizer(c.config.OCR), timeout: c.config.OCR.Timeout}
	exec := &host.Executor{
		Platform: h,
		Composer: render.NewComposer(),
		Notifier: h,
		OCR:      rec,
		SaveDir:  filepath.Dir(c.path),
		LoadStyle: func() (element.Style, error) {
			return c.config.Style.Element(), nil
		},
	}
	sess := host.NewSession(c.config.Style.Element(), exec)
	if err := sess.Load(frame); err != nil {
		return err
	}

	var pressed bool
	for i, st := range sc.Steps {
		acts, err := st.actions(&pressed)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, a := range acts {
			if err := sess.Handle(a); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		for _, res := range rec.drain() {
			if err := sess.Handle(res.Action()); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	if sc.Render != "" {
		dst := image.NewRGBA(frame.Image.Bounds())
		sess.Tracker.MarkFullRedraw()
		if err := sess.Paint(render.NewCanvas(dst, c.activeTheme)); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := writePNG(sc.Render, dst); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if c.strict && len(h.errors) > 0 {
		return fmt.Errorf("replay reported %d error(s): %s", len(h.errors), strings.Join(h.errors, "; "))
	}
	return nil
}
