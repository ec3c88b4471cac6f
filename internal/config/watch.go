package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor write bursts into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a config file when it changes on disk. The directory is
// watched rather than the file so that atomic renames are seen.
type Watcher struct {
	path     string
	load     func() (*Config, error)
	onChange func(*Config)
	debounce time.Duration

	fw   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching path. onChange runs on the watcher goroutine with
// each successfully parsed configuration; parse errors are logged and the
// previous configuration stays in effect.
func Watch(path string, load func() (*Config, error), onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		load:     load,
		onChange: onChange,
		debounce: DefaultDebounce,
		fw:       fw,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.process()
	return w, nil
}

func (w *Watcher) process() {
	defer w.wg.Done()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("config watch: %v", err)
		case <-fire:
			fire = nil
			cfg, err := w.load()
			if err != nil {
				log.Printf("config reload: %v", err)
				continue
			}
			w.onChange(cfg)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
