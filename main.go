package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/vimeo/dials"
	"github.com/vimeo/dials/sources/env"
	"github.com/vimeo/dials/sources/flag"
	"golang.org/x/sync/errgroup"

	"github.com/kc2g-flex-tools/audioswitch/audio"
	"github.com/kc2g-flex-tools/audioswitch/audioshim"
	"github.com/kc2g-flex-tools/audioswitch/device"
	"github.com/kc2g-flex-tools/audioswitch/errutil"
	"github.com/kc2g-flex-tools/audioswitch/events"
	"github.com/kc2g-flex-tools/audioswitch/hotkey"
	"github.com/kc2g-flex-tools/audioswitch/tray"
)

type Config struct {
	LogFile    string `dialsdesc:"Log file path (default: audioswitch/audioswitch.log in the XDG state directory)"`
	DebugLevel string `dialsdesc:"Log level (trace, debug, info, warn, error) or comma separated subsys=level pairs"`
	List       bool   `dialsdesc:"Print the active playback devices and exit"`
	Select     string `dialsdesc:"Switch to the device with this ID or 1-based position and exit"`
	Hotkey     *hotkey.Config
	Tray       *tray.Config
	Switch     *SwitchConfig
}

var config *Config

func defaultConfig() *Config {
	return &Config{
		DebugLevel: "info",
		Hotkey:     hotkey.DefaultConfig(),
		Tray:       tray.DefaultConfig(),
		Switch:     DefaultSwitchConfig(),
	}
}

func main() {
	os.Exit(run())
}

// run returns the process exit code. Fatal paths return instead of exiting
// so the deferred closes flush the log file.
func run() int {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	// variables from ./.env feed the env source below
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Loading .env: %v\n", err)
	}

	config = defaultConfig()
	flagSrc, err := flag.NewCmdLineSet(flag.DefaultFlagNameConfig(), config)
	if err != nil {
		panic(err)
	}
	d, err := dials.Config(mainCtx, config, &env.Source{}, flagSrc)
	if err != nil {
		panic(err)
	}
	config = d.View()

	oneShot := config.List || config.Select != ""
	logFile := config.LogFile
	if logFile == "" && !oneShot {
		logFile, err = xdg.StateFile("audioswitch/audioswitch.log")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Locating log file: %v\n", err)
		}
	}
	var stdOut io.Writer = os.Stdout
	if oneShot {
		stdOut = os.Stderr
	}
	logBknd, err := newLogBackend(logFile, config.DebugLevel, stdOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logBknd.close()
	log := logBknd.logger("MAIN")

	shim, err := audio.Open(logBknd.logger("AUDI"))
	if err != nil {
		errutil.CriticalError(log, "open audio service", err)
		return 1
	}
	defer shim.Close()

	dir := device.NewDirectory(shim, logBknd.logger("DEVS"))
	sw := device.NewSwitcher(shim, logBknd.logger("DEVS"))
	eventBus := events.NewBus()
	ss := NewSwitchState(config.Switch, dir, sw, eventBus, logBknd.logger("SWCH"))

	switch {
	case config.List:
		if err := printDevices(os.Stdout, dir); err != nil {
			errutil.CriticalError(log, "list devices", err)
			return 1
		}
		return 0
	case config.Select != "":
		target, err := dir.Lookup(config.Select)
		if err == nil {
			err = ss.RequestSwitch(target)
		}
		if err != nil {
			errutil.CriticalError(log, "select device", err)
			return 1
		}
		return 0
	}

	if err := runTray(mainCtx, mainCancel, logBknd, ss, eventBus); err != nil {
		errutil.CriticalError(log, "start tray", err)
		return 1
	}
	return 0
}

func printDevices(w io.Writer, dir *device.Directory) error {
	snap, err := dir.Snapshot()
	if err != nil {
		return err
	}
	for i, ep := range snap.Endpoints {
		mark := " "
		if ep.ID == snap.DefaultID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %2d  %s\t%s\n", mark, i+1, ep.Name, ep.ID)
	}
	return nil
}

// runTray shows the tray icon and blocks until Quit is chosen.
func runTray(ctx context.Context, cancel context.CancelFunc, logBknd *logBackend, ss *SwitchState, eventBus *events.Bus) error {
	log := logBknd.logger("MAIN")
	hkLog := logBknd.logger("HKEY")

	var modifiers []hotkey.Key
	if config.Hotkey.Enabled {
		var err error
		modifiers, err = hotkey.ParseModifiers(config.Hotkey.Modifiers)
		if err != nil {
			return fmt.Errorf("hotkey modifiers: %w", err)
		}
	}

	menu := tray.NewSystrayMenu(tray.Quit)
	t := tray.New(config.Tray, menu, tray.DesktopNotifier{}, modifiers, logBknd.logger("TRAY"))
	t.Switcher = ss
	trayEvents := eventBus.Subscribe(100)

	g, gctx := errgroup.WithContext(ctx)

	onReady := func() {
		g.Go(func() error {
			t.HandleEvents(trayEvents)
			return nil
		})
		errutil.WarnError(log, "initial refresh", ss.Refresh())
		g.Go(func() error {
			return ss.WatchDevices(gctx)
		})

		if !config.Hotkey.Enabled {
			return
		}
		keys, err := hotkey.NewKeySource(modifiers, hotkey.MaxSlots, hkLog)
		if err != nil {
			errutil.LogError(log, "hotkeys disabled", err)
			return
		}
		trigger := func(slot int, ep audioshim.Endpoint) {
			errutil.WarnError(hkLog, fmt.Sprintf("hotkey %d", slot+1), ss.RequestSwitch(ep))
		}
		w, err := hotkey.NewWatcher(config.Hotkey, keys, ss.Directory, trigger, hkLog)
		if err != nil {
			keys.Close()
			errutil.LogError(log, "hotkeys disabled", err)
			return
		}
		g.Go(func() error {
			defer keys.Close()
			return w.Run(gctx)
		})
	}

	onExit := func() {
		cancel()
		eventBus.Close()
		errutil.LogError(log, "shutdown", g.Wait())
		log.Infof("Exiting")
	}

	log.Infof("Starting tray")
	tray.Run(config.Tray, onReady, onExit)
	return nil
}
