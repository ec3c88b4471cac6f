package overlay

import (
	"image"
	"log"
	"time"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/platform"
)

var (
	writeImage = clipboard.WriteImage
	writeText  = clipboard.WriteText
)

// StartTimer posts TimerFired{id} every interval until stopped. Starting a
// running timer restarts it.
func (o *Overlay) StartTimer(id int, interval time.Duration) {
	o.StopTimer(id)
	stop := make(chan struct{})
	o.mu.Lock()
	o.timers[id] = stop
	o.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				select {
				case o.events <- action.TimerFired{ID: id}:
				case <-stop:
					return
				case <-o.done:
					return
				}
			case <-stop:
				return
			case <-o.done:
				return
			}
		}
	}()
}

func (o *Overlay) StopTimer(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if stop, ok := o.timers[id]; ok {
		close(stop)
		delete(o.timers, id)
	}
}

func (o *Overlay) WriteImage(img image.Image) error { return writeImage(img) }

func (o *Overlay) WriteText(text string) error { return writeText(text) }

func (o *Overlay) SavePath(suggested string) (string, bool, error) {
	if o.opts.SaveDialog != nil {
		return o.opts.SaveDialog(suggested)
	}
	return suggested, true, nil
}

func (o *Overlay) ShowMessage(title, body string) {
	log.Printf("%s: %s", title, body)
	if o.opts.Messages != nil {
		o.opts.Messages.Message(title, body)
	}
}

func (o *Overlay) ShowError(msg string) {
	if o.opts.Messages != nil {
		o.opts.Messages.Message(platform.AppName+" error", msg)
	}
}
