package audioshim

import (
	"errors"
	"strings"
)

var (
	// ErrDirectoryUnavailable is returned when the OS audio service can't be reached.
	ErrDirectoryUnavailable = errors.New("audio directory unavailable")
	// ErrNoDefaultEndpoint is returned when no render device is configured as default.
	ErrNoDefaultEndpoint = errors.New("no default render endpoint")
	// ErrUnsupported is returned by bindings that can't change the default endpoint.
	ErrUnsupported = errors.New("changing the default endpoint is not supported on this platform")
)

// Role is one of the independent default-device slots the OS keeps
type Role int

const (
	Console Role = iota
	Multimedia
	Communications
)

// AllRoles lists every role in the order they are assigned during a switch.
var AllRoles = []Role{Console, Multimedia, Communications}

func (r Role) String() string {
	switch r {
	case Console:
		return "console"
	case Multimedia:
		return "multimedia"
	case Communications:
		return "communications"
	default:
		return "unknown"
	}
}

// FormatRoles joins role names for log lines and error messages.
func FormatRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}

// Endpoint represents an active audio output device
type Endpoint struct {
	ID   string
	Name string
}

// Shim is the capability interface every platform binding implements.
// Implementations never cache: each call queries the OS afresh.
type Shim interface {
	// RenderEndpoints returns the active render endpoints in OS enumeration order.
	RenderEndpoints() ([]Endpoint, error)
	// DefaultRenderEndpoint returns the default render endpoint for role.
	DefaultRenderEndpoint(role Role) (Endpoint, error)
	// SetDefaultEndpoint makes id the default render endpoint for role.
	SetDefaultEndpoint(id string, role Role) error
	// Close releases the native resources held by the binding.
	Close() error
}
