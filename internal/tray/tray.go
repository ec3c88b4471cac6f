// Package tray shows the notification area icon of the background daemon.
package tray

import (
	"log"
	"runtime"

	"github.com/getlantern/systray"

	"github.com/example/snapmark/assets"
	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/platform"
)

// IconSize is the pixel size of the tray icon.
const IconSize = 32

var iconPNG = assets.IconPNG

type menuItem struct {
	title   string
	tooltip string
	item    action.TrayItem
}

// Tray runs the menu. Clicks are handed to Post as action.Tray values.
type Tray struct {
	// Shortcut is shown next to the capture entry, e.g. "Ctrl+Shift+S".
	Shortcut string
	Post     func(action.Action) bool
	// OnExit runs after the tray has been torn down.
	OnExit func()
}

// New returns a tray posting to post.
func New(shortcut string, post func(action.Action) bool) *Tray {
	return &Tray{Shortcut: shortcut, Post: post}
}

func (t *Tray) items() []menuItem {
	capture := "Capture"
	if t.Shortcut != "" {
		capture += " (" + t.Shortcut + ")"
	}
	return []menuItem{
		{title: capture, tooltip: "Select a region of the screen", item: action.TrayCapture},
		{title: "Reload settings", tooltip: "Reread the configuration file", item: action.TraySettings},
		{title: "Quit", tooltip: "Quit " + platform.AppName, item: action.TrayQuit},
	}
}

// Run shows the icon and blocks until Quit. The calling goroutine is
// locked to its thread for the lifetime of the menu.
func (t *Tray) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the icon and makes Run return.
func (t *Tray) Quit() { systray.Quit() }

func (t *Tray) onReady() {
	if icon, err := trayIcon(); err != nil {
		log.Printf("tray icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(platform.AppName)
	systray.SetTooltip(platform.AppName + " - annotate screenshots")

	items := t.items()
	for i, it := range items {
		if i == len(items)-1 {
			systray.AddSeparator()
		}
		m := systray.AddMenuItem(it.title, it.tooltip)
		go t.forward(m.ClickedCh, it.item)
	}
}

// forward posts item for every click until the loop is gone.
func (t *Tray) forward(clicked <-chan struct{}, item action.TrayItem) {
	for range clicked {
		if !t.click(item) {
			return
		}
	}
}

func (t *Tray) click(item action.TrayItem) bool {
	if t.Post == nil {
		return false
	}
	return t.Post(action.Tray{Item: item})
}

func (t *Tray) onExit() {
	if t.OnExit != nil {
		t.OnExit()
	}
}
