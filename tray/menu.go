package tray

import (
	"github.com/kc2g-flex-tools/audioswitch/audioshim"
	"github.com/kc2g-flex-tools/audioswitch/device"
	"github.com/kc2g-flex-tools/audioswitch/hotkey"
)

// MenuEntry is one device line in the tray menu
type MenuEntry struct {
	Endpoint audioshim.Endpoint
	Checked  bool
	Hint     string // hotkey for this slot, empty past the last number key
}

// BuildMenu computes the menu for snap. Entries follow the snapshot order,
// which is also the hotkey slot order.
func BuildMenu(snap device.Snapshot, modifiers []hotkey.Key) []MenuEntry {
	entries := make([]MenuEntry, len(snap.Endpoints))
	for i, ep := range snap.Endpoints {
		entries[i] = MenuEntry{
			Endpoint: ep,
			Checked:  snap.DefaultID != "" && ep.ID == snap.DefaultID,
		}
		if len(modifiers) == 0 {
			continue
		}
		if c, ok := hotkey.SlotChord(modifiers, i); ok {
			entries[i].Hint = c.String()
		}
	}
	return entries
}

// Label is the text shown for the entry.
func (e MenuEntry) Label() string {
	if e.Endpoint.Name == "" {
		return e.Endpoint.ID
	}
	return e.Endpoint.Name
}
