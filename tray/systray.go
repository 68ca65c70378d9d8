package tray

import (
	"sync"

	"fyne.io/systray"
)

// SystrayMenu renders the menu into the system tray.
type SystrayMenu struct {
	mu     sync.Mutex
	stop   chan struct{}
	onQuit func()
}

func NewSystrayMenu(onQuit func()) *SystrayMenu {
	return &SystrayMenu{onQuit: onQuit}
}

// Show replaces the tray menu. Click watchers of the previous menu exit.
func (m *SystrayMenu) Show(entries []MenuEntry, click func(MenuEntry)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		close(m.stop)
	}
	stop := make(chan struct{})
	m.stop = stop

	systray.ResetMenu()
	for _, e := range entries {
		item := systray.AddMenuItemCheckbox(e.Label(), e.Hint, e.Checked)
		go func(e MenuEntry) {
			for {
				select {
				case <-stop:
					return
				case <-item.ClickedCh:
					click(e)
				}
			}
		}(e)
	}
	if len(entries) == 0 {
		systray.AddMenuItem("No playback devices", "").Disable()
	}
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "")
	go func() {
		select {
		case <-stop:
		case <-quit.ClickedCh:
			if m.onQuit != nil {
				m.onQuit()
			}
		}
	}()
}

// Run shows the tray icon and blocks on the UI loop until Quit is called.
// onReady runs once the icon is visible.
func Run(cfg *Config, onReady, onExit func()) {
	systray.Run(func() {
		systray.SetIcon(Icon())
		systray.SetTooltip(cfg.Title)
		onReady()
	}, onExit)
}

// Quit stops the UI loop started by Run.
func Quit() {
	systray.Quit()
}
