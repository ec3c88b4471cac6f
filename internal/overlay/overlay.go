// Package overlay is the desktop host. It shows the captured frame in a
// shiny window, feeds window input to the session and provides timers,
// clipboard access and message display.
package overlay

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/host"
	"github.com/example/snapmark/internal/platform"
	"github.com/example/snapmark/internal/render"
	"github.com/example/snapmark/internal/theme"
)

// Messenger displays short messages to the user.
type Messenger interface {
	Message(title, body string)
}

// Options configures an Overlay.
type Options struct {
	Theme *theme.Theme
	// ExitOnHide makes Run return once the overlay is hidden. One-shot
	// captures use it; the tray daemon keeps running.
	ExitOnHide bool
	// SaveDialog asks where to save. When nil the suggested path is used.
	SaveDialog func(suggested string) (string, bool, error)
	Messages   Messenger
}

// windowEvent is an event read from a particular window. Events from a
// window that has since been released are dropped.
type windowEvent struct {
	win screen.Window
	ev  any
}

// Overlay runs the event loop. Everything except Post, Call and Close must
// be used from the loop, which is where the session invokes the
// host.Platform methods.
type Overlay struct {
	opts   Options
	events chan any
	done   chan struct{}
	once   sync.Once
	now    func() time.Time

	screen  screen.Screen
	session *host.Session

	win     screen.Window
	buf     screen.Buffer
	canvas  *render.Canvas
	size    image.Point
	pointer Pointer
	swallow bool
	quit    bool

	mu     sync.Mutex
	timers map[int]chan struct{}
}

var _ host.Platform = (*Overlay)(nil)

// New returns an overlay. It can accept posts before Run starts.
func New(opts Options) *Overlay {
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	return &Overlay{
		opts:   opts,
		events: make(chan any, 64),
		done:   make(chan struct{}),
		now:    time.Now,
		timers: make(map[int]chan struct{}),
	}
}

// Post queues an action for the loop. It reports false once the overlay has
// shut down. Safe for concurrent use.
func (o *Overlay) Post(a action.Action) bool { return o.post(a) }

// Call runs fn on the loop.
func (o *Overlay) Call(fn func()) bool { return o.post(fn) }

func (o *Overlay) post(ev any) bool {
	// a closed overlay may still have room in events
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.events <- ev:
		return true
	case <-o.done:
		return false
	}
}

// Close stops the loop and any timers. It may be called more than once.
func (o *Overlay) Close() {
	o.once.Do(func() { close(o.done) })
}

// Run processes events until the overlay is destroyed, hidden with
// ExitOnHide set, closed or ctx ends.
func (o *Overlay) Run(ctx context.Context, s screen.Screen, sess *host.Session) error {
	o.screen, o.session = s, sess
	defer o.shutdown()
	for !o.quit {
		select {
		case <-ctx.Done():
			return nil
		case <-o.done:
			return nil
		case ev := <-o.events:
			o.handle(ev)
		}
	}
	return nil
}

func (o *Overlay) shutdown() {
	o.releaseWindow()
	o.mu.Lock()
	for id, stop := range o.timers {
		close(stop)
		delete(o.timers, id)
	}
	o.mu.Unlock()
	o.Close()
}

func (o *Overlay) handle(ev any) {
	switch ev := ev.(type) {
	case func():
		ev()
	case action.Action:
		o.dispatch(ev)
	case windowEvent:
		if ev.win != o.win {
			return
		}
		o.windowEvent(ev.ev)
	}
}

func (o *Overlay) dispatch(a action.Action) {
	if err := o.session.Handle(a); err != nil {
		log.Printf("overlay: %T: %v", a, err)
	}
}

func (o *Overlay) windowEvent(e any) {
	switch e := e.(type) {
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			// closed by the window manager
			o.releaseWindow()
			if err := o.session.Run(command.HideWindow{}, command.ResetSession{}); err != nil {
				log.Printf("overlay: %v", err)
			}
		}
	case size.Event:
		if sz := e.Size(); sz != o.size {
			o.size = sz
			o.releaseBuffer()
		}
		o.RequestRedraw()
	case paint.Event:
		o.paint()
	case key.Event:
		for _, a := range KeyActions(e) {
			o.dispatch(a)
		}
	case mouse.Event:
		o.mouse(e)
	case error:
		log.Printf("overlay: window: %v", e)
	}
}

func (o *Overlay) mouse(e mouse.Event) {
	if e.Button == mouse.ButtonLeft {
		switch e.Direction {
		case mouse.DirPress:
			buttons := render.ToolbarButtons(o.session.Exec.Toolbar(), o.session.Tracker.Screen())
			if b, ok := render.ButtonAt(buttons, int(e.X), int(e.Y)); ok {
				o.swallow = true
				o.dispatch(b.Action)
				return
			}
		case mouse.DirRelease:
			if o.swallow {
				o.swallow = false
				return
			}
		}
	}
	for _, a := range o.pointer.Actions(e, o.now()) {
		o.dispatch(a)
	}
}

func (o *Overlay) paint() {
	if o.win == nil {
		return
	}
	if o.buf == nil {
		if o.size.X <= 0 || o.size.Y <= 0 {
			return
		}
		b, err := o.screen.NewBuffer(o.size)
		if err != nil {
			log.Printf("new buffer: %v", err)
			return
		}
		o.buf = b
		if o.canvas == nil {
			o.canvas = render.NewCanvas(b.RGBA(), o.opts.Theme)
		} else {
			o.canvas.SetTarget(b.RGBA())
		}
		o.session.Tracker.MarkFullRedraw()
	}
	if err := o.session.Paint(o.canvas); err != nil {
		log.Printf("paint: %v", err)
	}
	o.win.Upload(image.Point{}, o.buf, o.buf.Bounds())
	o.win.Publish()
}

func (o *Overlay) pump(w screen.Window) {
	for {
		e := w.NextEvent()
		if !o.post(windowEvent{win: w, ev: e}) {
			return
		}
		if le, ok := e.(lifecycle.Event); ok && le.To == lifecycle.StageDead {
			return
		}
	}
}

func (o *Overlay) releaseBuffer() {
	if o.buf != nil {
		o.buf.Release()
		o.buf = nil
	}
}

func (o *Overlay) releaseWindow() {
	o.pointer.Reset()
	o.swallow = false
	o.releaseBuffer()
	if o.win != nil {
		w := o.win
		o.win = nil
		w.Release()
	}
}

func (o *Overlay) ShowWindow() {
	if o.win != nil || o.screen == nil {
		return
	}
	b := o.session.Exec.Frame().Bounds()
	if b.Empty() {
		return
	}
	sz := image.Pt(b.Width()+1, b.Height()+1)
	w, err := o.screen.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: platform.AppName})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	o.win, o.size = w, sz
	go o.pump(w)
	o.RequestRedraw()
}

func (o *Overlay) HideWindow() {
	o.releaseWindow()
	if o.opts.ExitOnHide {
		o.quit = true
	}
}

func (o *Overlay) DestroyWindow() {
	o.releaseWindow()
	o.quit = true
}

func (o *Overlay) RequestRedraw() {
	if o.win != nil {
		o.win.Send(paint.Event{})
	}
}
