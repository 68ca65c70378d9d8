// SwitchState: the coordinator between menu clicks, hotkeys and the
// default-endpoint switcher.

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
	"github.com/kc2g-flex-tools/audioswitch/device"
	"github.com/kc2g-flex-tools/audioswitch/errutil"
	"github.com/kc2g-flex-tools/audioswitch/events"
)

type SwitchConfig struct {
	Retries         int           `dialsdesc:"Extra attempts for roles that did not take after a switch"`
	RefreshInterval time.Duration `dialsdesc:"How often the device list is re-read to catch plugged devices and outside default changes"`
}

func DefaultSwitchConfig() *SwitchConfig {
	return &SwitchConfig{
		Retries:         1,
		RefreshInterval: time.Second,
	}
}

type SwitchState struct {
	// mu serializes switches so role assignments of two switches never interleave
	mu        sync.Mutex
	cfg       *SwitchConfig
	Directory *device.Directory
	Switcher  *device.Switcher
	EventBus  *events.Bus
	log       slog.Logger

	// published is the snapshot of the last DevicesChanged, nil before the first
	published *device.Snapshot
}

func NewSwitchState(cfg *SwitchConfig, dir *device.Directory, sw *device.Switcher, eventBus *events.Bus, log slog.Logger) *SwitchState {
	if log == nil {
		log = slog.Disabled
	}
	return &SwitchState{
		cfg:       cfg,
		Directory: dir,
		Switcher:  sw,
		EventBus:  eventBus,
		log:       log,
	}
}

// RequestSwitch makes target the default device for every role. It does
// nothing when target already is the Console default.
func (ss *SwitchState) RequestSwitch(target audioshim.Endpoint) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, err := ss.Directory.Default()
	switch {
	case errors.Is(err, audioshim.ErrNoDefaultEndpoint):
		ss.log.Debugf("No default device set, switching to %q", target.Name)
	case err != nil:
		return fmt.Errorf("check current default: %w", err)
	case current.ID == target.ID:
		ss.log.Debugf("%q is already the default device", target.Name)
		return nil
	}

	if err := ss.setDefault(target.ID); err != nil {
		// some roles may have changed: show what the OS reports now
		errutil.WarnError(ss.log, "refresh after failed switch", ss.refresh())
		ss.EventBus.Publish(events.SwitchFailed{Endpoint: target, Err: err})
		return err
	}

	ss.log.Infof("Default device is now %q", target.Name)
	ss.EventBus.Publish(events.DeviceSwitched{Endpoint: target})
	errutil.WarnError(ss.log, "refresh after switch", ss.refresh())
	return nil
}

// setDefault runs the switcher and retries the roles that did not take.
func (ss *SwitchState) setDefault(id string) error {
	err := ss.Switcher.SetDefault(id)
	for attempt := 0; attempt < ss.cfg.Retries; attempt++ {
		var psf *device.PartialSwitchFailure
		if !errors.As(err, &psf) || errors.Is(err, audioshim.ErrUnsupported) {
			return err
		}
		ss.log.Warnf("Retrying %s for %q", audioshim.FormatRoles(psf.Remaining), id)
		retryErr := ss.Switcher.SetDefaultRoles(id, psf.Remaining)
		var again *device.PartialSwitchFailure
		if !errors.As(retryErr, &again) {
			return retryErr
		}
		again.Succeeded = append(append([]audioshim.Role(nil), psf.Succeeded...), again.Succeeded...)
		err = again
	}
	return err
}

// Refresh publishes a fresh device list. When the directory can't be read
// nothing is published and the previous menu stays up.
func (ss *SwitchState) Refresh() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.refresh()
}

func (ss *SwitchState) refresh() error {
	snap, err := ss.Directory.Snapshot()
	if err != nil {
		return err
	}
	ss.publish(snap)
	return nil
}

func (ss *SwitchState) publish(snap device.Snapshot) {
	ss.published = &snap
	ss.EventBus.Publish(events.DevicesChanged{Snapshot: snap})
}

// RefreshIfChanged publishes a fresh device list only when it differs from
// the last one published. It reports whether it published.
func (ss *SwitchState) RefreshIfChanged() (bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	snap, err := ss.Directory.Snapshot()
	if err != nil {
		return false, err
	}
	if ss.published != nil && ss.published.Equal(snap) {
		return false, nil
	}
	ss.log.Debugf("Device list changed, %d devices, default %q", len(snap.Endpoints), snap.DefaultID)
	ss.publish(snap)
	return true, nil
}

// WatchDevices keeps the menu current between switches: devices plugged in
// or removed, and defaults changed by other applications. It runs until ctx
// is cancelled.
func (ss *SwitchState) WatchDevices(ctx context.Context) error {
	if ss.cfg.RefreshInterval <= 0 {
		return fmt.Errorf("invalid device refresh interval %v", ss.cfg.RefreshInterval)
	}
	ticker := time.NewTicker(ss.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := ss.RefreshIfChanged(); err != nil {
				ss.log.Debugf("Skipping device refresh: %v", err)
			}
		}
	}
}
