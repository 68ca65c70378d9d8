//go:build linux

package hotkey

import (
	"fmt"
	"slices"
	"sync"

	"github.com/decred/slog"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// keysyms lists the X keysyms that count as each Key; any one of them held
// means the key is down.
var keysyms = map[Key][]xproto.Keysym{
	KeyCtrl:  {0xffe3, 0xffe4},                 // Control_L, Control_R
	KeyAlt:   {0xffe9, 0xffea, 0xffe7, 0xffe8}, // Alt_L, Alt_R, Meta_L, Meta_R
	KeyShift: {0xffe1, 0xffe2},                 // Shift_L, Shift_R
	KeyWin:   {0xffeb, 0xffec},                 // Super_L, Super_R
	Key0:     {'0'},
	Key1:     {'1'},
	Key2:     {'2'},
	Key3:     {'3'},
	Key4:     {'4'},
	Key5:     {'5'},
	Key6:     {'6'},
	Key7:     {'7'},
	Key8:     {'8'},
	Key9:     {'9'},
}

// x11KeyState reads the whole keyboard with QueryKeymap once per Sample.
type x11KeyState struct {
	conn  *xgb.Conn
	codes map[Key][]xproto.Keycode
	log   slog.Logger

	mu     sync.Mutex
	keymap []byte
}

// NewKeySource connects to the X display named by $DISPLAY. Without one it
// returns an error and hotkeys stay off.
func NewKeySource(modifiers []Key, slots int, log slog.Logger) (KeySource, error) {
	if log == nil {
		log = slog.Disabled
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X display: %w", err)
	}
	setup := xproto.Setup(conn)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, byte(count)).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read keyboard mapping: %w", err)
	}
	codes := keycodesFor(setup.MinKeycode, int(mapping.KeysymsPerKeycode), mapping.Keysyms)
	for _, m := range modifiers {
		if len(codes[m]) == 0 {
			conn.Close()
			return nil, fmt.Errorf("no key on this keyboard produces %s", m)
		}
	}
	return &x11KeyState{conn: conn, codes: codes, log: log}, nil
}

// keycodesFor inverts a GetKeyboardMapping reply: syms holds perCode
// keysyms for each keycode starting at first.
func keycodesFor(first xproto.Keycode, perCode int, syms []xproto.Keysym) map[Key][]xproto.Keycode {
	wanted := map[xproto.Keysym]Key{}
	for k, ss := range keysyms {
		for _, s := range ss {
			wanted[s] = k
		}
	}
	out := map[Key][]xproto.Keycode{}
	if perCode <= 0 {
		return out
	}
	for i, sym := range syms {
		k, ok := wanted[sym]
		if !ok {
			continue
		}
		code := xproto.Keycode(int(first) + i/perCode)
		if !slices.Contains(out[k], code) {
			out[k] = append(out[k], code)
		}
	}
	return out
}

// keyDown reads one keycode's bit from a 32-byte QueryKeymap vector.
func keyDown(keymap []byte, code xproto.Keycode) bool {
	i := int(code) / 8
	if i >= len(keymap) {
		return false
	}
	return keymap[i]&(1<<(code%8)) != 0
}

// Sample refreshes the keymap. On error every key reads as up.
func (s *x11KeyState) Sample() {
	reply, err := xproto.QueryKeymap(s.conn).Reply()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Debugf("QueryKeymap: %v", err)
		s.keymap = nil
		return
	}
	s.keymap = reply.Keys
}

func (s *x11KeyState) IsDown(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range s.codes[k] {
		if keyDown(s.keymap, code) {
			return true
		}
	}
	return false
}

func (s *x11KeyState) Close() error {
	s.conn.Close()
	return nil
}
