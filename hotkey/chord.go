package hotkey

import (
	"fmt"
	"strings"
	"time"
)

// Config controls the number-key device hotkeys
type Config struct {
	Enabled   bool          `dialsdesc:"Enable <modifiers>+<number> hotkeys for switching devices"`
	Interval  time.Duration `dialsdesc:"How often the key state is polled"`
	Modifiers string        `dialsdesc:"Modifier keys held together with the number key, joined by +"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Interval:  500 * time.Millisecond,
		Modifiers: "ctrl+alt",
	}
}

// Key is a platform-independent key identifier
type Key int

const (
	KeyCtrl Key = iota
	KeyAlt
	KeyShift
	KeyWin
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// MaxSlots is the number of device slots reachable with number keys (1-9, then 0).
const MaxSlots = 10

var keyNames = map[Key]string{
	KeyCtrl:  "ctrl",
	KeyAlt:   "alt",
	KeyShift: "shift",
	KeyWin:   "win",
}

func (k Key) String() string {
	if k >= Key0 && k <= Key9 {
		return fmt.Sprintf("%d", int(k-Key0))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// IsModifier reports whether k can be used as a chord modifier.
func (k Key) IsModifier() bool {
	return k >= KeyCtrl && k <= KeyWin
}

// Chord is a set of modifiers held together with one number key.
type Chord struct {
	Modifiers []Key
	Key       Key
}

func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, m.String())
	}
	parts = append(parts, c.Key.String())
	return strings.Join(parts, "+")
}

// Keys returns every key that must be down for the chord to be held.
func (c Chord) Keys() []Key {
	return append(append([]Key(nil), c.Modifiers...), c.Key)
}

// ParseModifiers parses a string like "ctrl+alt".
func ParseModifiers(s string) ([]Key, error) {
	var mods []Key
	seen := map[Key]bool{}
	for _, part := range strings.Split(s, "+") {
		name := strings.ToLower(strings.TrimSpace(part))
		var k Key
		switch name {
		case "ctrl", "control":
			k = KeyCtrl
		case "alt", "option", "menu":
			k = KeyAlt
		case "shift":
			k = KeyShift
		case "win", "super", "cmd", "meta":
			k = KeyWin
		case "":
			continue
		default:
			return nil, fmt.Errorf("unknown modifier %q", part)
		}
		if seen[k] {
			return nil, fmt.Errorf("modifier %q repeated", part)
		}
		seen[k] = true
		mods = append(mods, k)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("no modifiers in %q", s)
	}
	return mods, nil
}

// SlotChord returns the chord for device slot (0-based): digit slot+1,
// with slot 9 on the 0 key. Slots past MaxSlots have no chord.
func SlotChord(modifiers []Key, slot int) (Chord, bool) {
	if slot < 0 || slot >= MaxSlots {
		return Chord{}, false
	}
	return Chord{Modifiers: modifiers, Key: Key0 + Key((slot+1)%10)}, true
}
