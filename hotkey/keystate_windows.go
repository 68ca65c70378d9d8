//go:build windows

package hotkey

import (
	"github.com/decred/slog"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// virtualKeys maps Key -> Windows virtual-key codes; any one down counts
var virtualKeys = map[Key][]uintptr{
	KeyCtrl:  {0x11},       // VK_CONTROL
	KeyAlt:   {0x12},       // VK_MENU
	KeyShift: {0x10},       // VK_SHIFT
	KeyWin:   {0x5B, 0x5C}, // VK_LWIN, VK_RWIN
	Key0:     {0x30},
	Key1:     {0x31},
	Key2:     {0x32},
	Key3:     {0x33},
	Key4:     {0x34},
	Key5:     {0x35},
	Key6:     {0x36},
	Key7:     {0x37},
	Key8:     {0x38},
	Key9:     {0x39},
}

type asyncKeyState struct {
	vkDown func(vk uintptr) bool
}

// NewKeySource returns a KeySource that reads GetAsyncKeyState directly.
// Chords need no registration on Windows, so modifiers and slots are unused.
func NewKeySource(modifiers []Key, slots int, log slog.Logger) (KeySource, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, err
	}
	return asyncKeyState{vkDown: asyncKeyDown}, nil
}

func asyncKeyDown(vk uintptr) bool {
	// high bit set: key is down
	r, _, _ := procGetAsyncKeyState.Call(vk)
	return r&0x8000 != 0
}

func (s asyncKeyState) IsDown(k Key) bool {
	for _, vk := range virtualKeys[k] {
		if s.vkDown(vk) {
			return true
		}
	}
	return false
}

func (asyncKeyState) Close() error {
	return nil
}
