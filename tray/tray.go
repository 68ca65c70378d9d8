package tray

import (
	"fmt"
	"sync"

	"github.com/decred/slog"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
	"github.com/kc2g-flex-tools/audioswitch/events"
	"github.com/kc2g-flex-tools/audioswitch/hotkey"
)

type Config struct {
	Notify bool   `dialsdesc:"Show a notification after switching devices"`
	Title  string `dialsdesc:"Tray icon tooltip"`
}

func DefaultConfig() *Config {
	return &Config{
		Notify: true,
		Title:  "audioswitch",
	}
}

// Requester performs a switch on behalf of a menu click.
type Requester interface {
	RequestSwitch(target audioshim.Endpoint) error
}

// Menu renders entries and reports clicks. Each call replaces the whole menu.
type Menu interface {
	Show(entries []MenuEntry, click func(MenuEntry))
}

// Notifier shows a transient desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

type Tray struct {
	cfg       *Config
	log       slog.Logger
	menu      Menu
	notifier  Notifier
	modifiers []hotkey.Key

	// Switcher handles clicks; set before events start flowing.
	Switcher Requester

	mu      sync.Mutex
	entries []MenuEntry
}

// New creates a Tray. modifiers are used for the hotkey hints and may be nil.
func New(cfg *Config, menu Menu, notifier Notifier, modifiers []hotkey.Key, log slog.Logger) *Tray {
	if log == nil {
		log = slog.Disabled
	}
	return &Tray{
		cfg:       cfg,
		log:       log,
		menu:      menu,
		notifier:  notifier,
		modifiers: modifiers,
	}
}

// HandleEvents applies bus events until ch is closed.
func (t *Tray) HandleEvents(ch <-chan events.Event) {
	for event := range ch {
		switch e := event.(type) {
		case events.DevicesChanged:
			t.rebuild(BuildMenu(e.Snapshot, t.modifiers))
		case events.DeviceSwitched:
			t.log.Infof("Switched to %q", e.Endpoint.Name)
			if t.cfg.Notify {
				t.notify(e.Endpoint.Name)
			}
		case events.SwitchFailed:
			t.log.Errorf("Switch to %q failed: %v", e.Endpoint.Name, e.Err)
			t.notify(fmt.Sprintf("Could not switch to %s", e.Endpoint.Name))
		}
	}
}

func (t *Tray) rebuild(entries []MenuEntry) {
	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	t.menu.Show(entries, t.click)
}

// Entries returns the menu entries currently shown.
func (t *Tray) Entries() []MenuEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]MenuEntry(nil), t.entries...)
}

func (t *Tray) click(entry MenuEntry) {
	if t.Switcher == nil {
		return
	}
	t.log.Debugf("Menu click on %q", entry.Endpoint.Name)
	if err := t.Switcher.RequestSwitch(entry.Endpoint); err != nil {
		t.log.Warnf("Menu switch to %q: %v", entry.Endpoint.Name, err)
	}
}

func (t *Tray) notify(body string) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.Notify(t.cfg.Title, body); err != nil {
		t.log.Warnf("Notification failed: %v", err)
	}
}
