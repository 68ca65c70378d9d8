//go:build !windows && !linux

package audio

import (
	"fmt"
	"runtime"

	"github.com/decred/slog"
	"github.com/gen2brain/malgo"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// miniaudioShim lists playback devices through miniaudio. miniaudio has no
// way to change the system default, so switching is unsupported.
type miniaudioShim struct {
	ctx *malgo.AllocatedContext
	log slog.Logger
}

// Open initializes a miniaudio context on the platform's native backend.
func Open(log slog.Logger) (audioshim.Shim, error) {
	if log == nil {
		log = slog.Disabled
	}
	var backends []malgo.Backend
	if runtime.GOOS == "darwin" {
		backends = []malgo.Backend{malgo.BackendCoreaudio}
	}
	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(message string) {
		log.Tracef("miniaudio: %s", message)
	})
	if err != nil {
		return nil, fmt.Errorf("init miniaudio context: %w", err)
	}
	log.Warnf("Switching the default device is not supported on %s; the device list is read-only", runtime.GOOS)
	return &miniaudioShim{ctx: ctx, log: log}, nil
}

func (m *miniaudioShim) devices() ([]malgo.DeviceInfo, error) {
	infos, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate playback devices: %w", audioshim.ErrDirectoryUnavailable, err)
	}
	return infos, nil
}

func (m *miniaudioShim) RenderEndpoints() ([]audioshim.Endpoint, error) {
	infos, err := m.devices()
	if err != nil {
		return nil, err
	}
	eps := make([]audioshim.Endpoint, 0, len(infos))
	for i := range infos {
		eps = append(eps, audioshim.Endpoint{
			ID:   infos[i].ID.String(),
			Name: infos[i].Name(),
		})
	}
	return eps, nil
}

func (m *miniaudioShim) DefaultRenderEndpoint(role audioshim.Role) (audioshim.Endpoint, error) {
	infos, err := m.devices()
	if err != nil {
		return audioshim.Endpoint{}, err
	}
	for i := range infos {
		if infos[i].IsDefault == 1 {
			return audioshim.Endpoint{ID: infos[i].ID.String(), Name: infos[i].Name()}, nil
		}
	}
	return audioshim.Endpoint{}, audioshim.ErrNoDefaultEndpoint
}

func (m *miniaudioShim) SetDefaultEndpoint(id string, role audioshim.Role) error {
	return audioshim.ErrUnsupported
}

func (m *miniaudioShim) Close() error {
	err := m.ctx.Uninit()
	m.ctx.Free()
	return err
}
