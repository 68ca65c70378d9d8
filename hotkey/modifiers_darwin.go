//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

// modifierMap maps Key -> hotkey.Modifier on macOS
var modifierMap = map[Key]xhotkey.Modifier{
	KeyCtrl:  xhotkey.ModCtrl,
	KeyShift: xhotkey.ModShift,
	KeyAlt:   xhotkey.ModOption,
	KeyWin:   xhotkey.ModCmd,
}
