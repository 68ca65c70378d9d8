package hotkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/decred/slog"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// KeyState reports whether a key is physically down right now. It must not block.
type KeyState interface {
	IsDown(Key) bool
}

// KeySource is a KeyState backed by native resources.
type KeySource interface {
	KeyState
	Close() error
}

// Sampler is implemented by key states that read the whole keyboard in one
// request. Tick calls Sample once before checking chords.
type Sampler interface {
	Sample()
}

// Lister provides the live device list the slots index into.
type Lister interface {
	List() ([]audioshim.Endpoint, error)
}

// Trigger is called when the chord for slot is pressed.
type Trigger func(slot int, ep audioshim.Endpoint)

const noChord = -1

// Watcher polls key state and fires once per chord press.
type Watcher struct {
	keys      KeyState
	list      Lister
	trigger   Trigger
	modifiers []Key
	interval  time.Duration
	log       slog.Logger

	// last is the slot that fired and is still held, or noChord.
	// Only touched by Tick.
	last int
}

func NewWatcher(cfg *Config, keys KeyState, list Lister, trigger Trigger, log slog.Logger) (*Watcher, error) {
	mods, err := ParseModifiers(cfg.Modifiers)
	if err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("invalid hotkey poll interval %v", cfg.Interval)
	}
	if log == nil {
		log = slog.Disabled
	}
	return &Watcher{
		keys:      keys,
		list:      list,
		trigger:   trigger,
		modifiers: mods,
		interval:  cfg.Interval,
		log:       log,
		last:      noChord,
	}, nil
}

// Modifiers returns the parsed modifier keys.
func (w *Watcher) Modifiers() []Key {
	return w.modifiers
}

func (w *Watcher) held(c Chord) bool {
	for _, k := range c.Keys() {
		if !w.keys.IsDown(k) {
			return false
		}
	}
	return true
}

// Tick scans the slots of endpoints in ascending order and returns the slot
// to switch to, if any. The lowest held slot wins. A slot fires when it
// becomes held, or when it replaces a different held slot; it does not fire
// again until its chord is released.
func (w *Watcher) Tick(endpoints []audioshim.Endpoint) (int, bool) {
	if s, ok := w.keys.(Sampler); ok {
		s.Sample()
	}
	held := noChord
	for i := range endpoints {
		c, ok := SlotChord(w.modifiers, i)
		if !ok {
			break
		}
		if w.held(c) {
			held = i
			break
		}
	}
	if held == noChord {
		w.last = noChord
		return 0, false
	}
	fire := held != w.last
	w.last = held
	return held, fire
}

func (w *Watcher) poll() {
	eps, err := w.list.List()
	if err != nil {
		w.log.Debugf("Skipping hotkey poll: %v", err)
		return
	}
	slot, fire := w.Tick(eps)
	if !fire {
		return
	}
	c, _ := SlotChord(w.modifiers, slot)
	w.log.Debugf("Chord %s pressed, switching to %q", c, eps[slot].Name)
	w.trigger(slot, eps[slot])
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Infof("Watching %s+<n> hotkeys every %v", ChordPrefix(w.modifiers), w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// ChordPrefix formats modifiers the way they appear in menu hints, e.g. "ctrl+alt".
func ChordPrefix(modifiers []Key) string {
	parts := make([]string, len(modifiers))
	for i, m := range modifiers {
		parts[i] = m.String()
	}
	return strings.Join(parts, "+")
}
