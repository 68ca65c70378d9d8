//go:build linux

package audio

import (
	"fmt"

	"github.com/decred/slog"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// pulseShim is the PulseAudio (and PipeWire-pulse) binding. The server has
// a single default sink, so every role reads and writes the same value.
type pulseShim struct {
	client *pulse.Client
	log    slog.Logger
}

// Open connects to the PulseAudio server.
func Open(log slog.Logger) (audioshim.Shim, error) {
	if log == nil {
		log = slog.Disabled
	}
	pc, err := pulse.NewClient(
		pulse.ClientApplicationName("audioswitch"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to pulse server: %w", err)
	}
	log.Debugf("PulseAudio binding ready")
	return &pulseShim{client: pc, log: log}, nil
}

func (p *pulseShim) RenderEndpoints() ([]audioshim.Endpoint, error) {
	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("%w: list sinks: %w", audioshim.ErrDirectoryUnavailable, err)
	}
	devices := make([]audioshim.Endpoint, 0, len(sinks))
	for _, sink := range sinks {
		devices = append(devices, audioshim.Endpoint{
			ID:   sink.ID(),
			Name: sink.Name(),
		})
	}
	return devices, nil
}

func (p *pulseShim) DefaultRenderEndpoint(role audioshim.Role) (audioshim.Endpoint, error) {
	var info proto.GetServerInfoReply
	if err := p.client.RawRequest(&proto.GetServerInfo{}, &info); err != nil {
		return audioshim.Endpoint{}, fmt.Errorf("%w: server info: %w", audioshim.ErrDirectoryUnavailable, err)
	}
	eps, err := p.RenderEndpoints()
	if err != nil {
		return audioshim.Endpoint{}, err
	}
	return defaultByID(eps, info.DefaultSinkName)
}

func (p *pulseShim) SetDefaultEndpoint(id string, role audioshim.Role) error {
	err := p.client.RawRequest(&proto.SetDefaultSink{SinkName: id}, nil)
	if err != nil {
		return fmt.Errorf("set default sink %s: %w", id, err)
	}
	return nil
}

func (p *pulseShim) Close() error {
	p.client.Close()
	return nil
}
