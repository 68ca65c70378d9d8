//go:build darwin

package hotkey

import (
	"fmt"
	"sync"

	"github.com/decred/slog"
	xhotkey "golang.design/x/hotkey"
)

var digitKeys = map[Key]xhotkey.Key{
	Key0: xhotkey.Key0,
	Key1: xhotkey.Key1,
	Key2: xhotkey.Key2,
	Key3: xhotkey.Key3,
	Key4: xhotkey.Key4,
	Key5: xhotkey.Key5,
	Key6: xhotkey.Key6,
	Key7: xhotkey.Key7,
	Key8: xhotkey.Key8,
	Key9: xhotkey.Key9,
}

// chordKeyState derives key state from registered global hotkeys. Every slot
// chord is registered up front; keydown/keyup events maintain the held set.
type chordKeyState struct {
	mu        sync.Mutex
	modifiers map[Key]bool
	held      map[Key]bool // digit keys whose chord is down

	hks  []*xhotkey.Hotkey
	done chan struct{}
	wg   sync.WaitGroup
	log  slog.Logger
}

func NewKeySource(modifiers []Key, slots int, log slog.Logger) (KeySource, error) {
	if log == nil {
		log = slog.Disabled
	}
	mods := make([]xhotkey.Modifier, 0, len(modifiers))
	s := &chordKeyState{
		modifiers: map[Key]bool{},
		held:      map[Key]bool{},
		done:      make(chan struct{}),
		log:       log,
	}
	for _, m := range modifiers {
		xm, ok := modifierMap[m]
		if !ok {
			return nil, fmt.Errorf("modifier %s not supported on this platform", m)
		}
		mods = append(mods, xm)
		s.modifiers[m] = true
	}

	for slot := 0; slot < slots; slot++ {
		c, ok := SlotChord(modifiers, slot)
		if !ok {
			break
		}
		hk := xhotkey.New(mods, digitKeys[c.Key])
		if err := hk.Register(); err != nil {
			log.Warnf("Unable to register hotkey %s: %v", c, err)
			continue
		}
		s.hks = append(s.hks, hk)
		s.wg.Add(1)
		go s.track(hk, c.Key)
	}
	if len(s.hks) == 0 && slots > 0 {
		return nil, fmt.Errorf("no hotkeys could be registered")
	}
	return s, nil
}

func (s *chordKeyState) track(hk *xhotkey.Hotkey, digit Key) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-hk.Keydown():
			s.set(digit, true)
		case <-hk.Keyup():
			s.set(digit, false)
		}
	}
}

func (s *chordKeyState) set(digit Key, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.held[digit] = true
	} else {
		delete(s.held, digit)
	}
}

func (s *chordKeyState) IsDown(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modifiers[k] {
		return len(s.held) > 0
	}
	return s.held[k]
}

func (s *chordKeyState) Close() error {
	close(s.done)
	s.wg.Wait()
	var firstErr error
	for _, hk := range s.hks {
		if err := hk.Unregister(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
