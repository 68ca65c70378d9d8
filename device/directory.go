package device

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/decred/slog"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// Snapshot is the device list together with the Console default at one instant.
// DefaultID is empty when nothing is selected.
type Snapshot struct {
	Endpoints []audioshim.Endpoint
	DefaultID string
}

// Default returns the endpoint in the snapshot that is currently default.
func (s Snapshot) Default() (audioshim.Endpoint, bool) {
	if s.DefaultID == "" {
		return audioshim.Endpoint{}, false
	}
	for _, ep := range s.Endpoints {
		if ep.ID == s.DefaultID {
			return ep, true
		}
	}
	return audioshim.Endpoint{}, false
}

// Equal reports whether both snapshots list the same endpoints in the same
// order with the same default.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.DefaultID != o.DefaultID || len(s.Endpoints) != len(o.Endpoints) {
		return false
	}
	for i := range s.Endpoints {
		if s.Endpoints[i] != o.Endpoints[i] {
			return false
		}
	}
	return true
}

// Directory answers which render endpoints exist and which one is default.
type Directory struct {
	shim audioshim.Shim
	log  slog.Logger
}

func NewDirectory(shim audioshim.Shim, log slog.Logger) *Directory {
	if log == nil {
		log = slog.Disabled
	}
	return &Directory{shim: shim, log: log}
}

// List returns the active render endpoints in OS enumeration order.
// That order is the slot order used by hotkeys.
func (d *Directory) List() ([]audioshim.Endpoint, error) {
	eps, err := d.shim.RenderEndpoints()
	if err != nil {
		return nil, unavailable("list render endpoints", err)
	}
	return eps, nil
}

// Default returns the Console-role default endpoint.
func (d *Directory) Default() (audioshim.Endpoint, error) {
	ep, err := d.shim.DefaultRenderEndpoint(audioshim.Console)
	if errors.Is(err, audioshim.ErrNoDefaultEndpoint) {
		return audioshim.Endpoint{}, err
	}
	if err != nil {
		return audioshim.Endpoint{}, unavailable("get default render endpoint", err)
	}
	return ep, nil
}

// Snapshot takes a fresh (endpoint list, current default) pair.
func (d *Directory) Snapshot() (Snapshot, error) {
	eps, err := d.List()
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Endpoints: eps}
	def, err := d.Default()
	switch {
	case errors.Is(err, audioshim.ErrNoDefaultEndpoint):
		d.log.Debugf("No default render endpoint configured")
	case err != nil:
		return Snapshot{}, err
	default:
		snap.DefaultID = def.ID
	}
	return snap, nil
}

// Lookup finds an endpoint by exact id, or by its 1-based position in the list.
func (d *Directory) Lookup(selector string) (audioshim.Endpoint, error) {
	eps, err := d.List()
	if err != nil {
		return audioshim.Endpoint{}, err
	}
	for _, ep := range eps {
		if ep.ID == selector {
			return ep, nil
		}
	}
	if n, err := strconv.Atoi(selector); err == nil {
		if n >= 1 && n <= len(eps) {
			return eps[n-1], nil
		}
		return audioshim.Endpoint{}, fmt.Errorf("device %d out of range (have %d)", n, len(eps))
	}
	return audioshim.Endpoint{}, fmt.Errorf("no active device with id %q", selector)
}

// unavailable wraps err so that it matches ErrDirectoryUnavailable.
func unavailable(op string, err error) error {
	if errors.Is(err, audioshim.ErrDirectoryUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, audioshim.ErrDirectoryUnavailable, err)
}
