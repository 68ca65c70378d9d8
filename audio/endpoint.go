package audio

import (
	"fmt"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// defaultByID picks the endpoint the audio server names as default. An
// empty name, or one that isn't an active endpoint, means no default.
func defaultByID(eps []audioshim.Endpoint, id string) (audioshim.Endpoint, error) {
	if id == "" {
		return audioshim.Endpoint{}, audioshim.ErrNoDefaultEndpoint
	}
	for _, ep := range eps {
		if ep.ID == id {
			return ep, nil
		}
	}
	return audioshim.Endpoint{}, fmt.Errorf("%w: %q is not an active device", audioshim.ErrNoDefaultEndpoint, id)
}
