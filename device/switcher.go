package device

import (
	"fmt"

	"github.com/decred/slog"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// PartialSwitchFailure is returned when not every role could be assigned.
// Roles in Succeeded now point at ID; Failed and the roles after it do not.
type PartialSwitchFailure struct {
	ID        string
	Succeeded []audioshim.Role
	Failed    audioshim.Role
	Remaining []audioshim.Role
	Err       error
}

func (e *PartialSwitchFailure) Error() string {
	if len(e.Succeeded) == 0 {
		return fmt.Sprintf("switch to %q failed at role %s: %v", e.ID, e.Failed, e.Err)
	}
	return fmt.Sprintf("switch to %q incomplete: set for %s, failed at role %s: %v",
		e.ID, audioshim.FormatRoles(e.Succeeded), e.Failed, e.Err)
}

func (e *PartialSwitchFailure) Unwrap() error {
	return e.Err
}

// Switcher assigns one endpoint as default for every playback role.
type Switcher struct {
	shim audioshim.Shim
	log  slog.Logger
}

func NewSwitcher(shim audioshim.Shim, log slog.Logger) *Switcher {
	if log == nil {
		log = slog.Disabled
	}
	return &Switcher{shim: shim, log: log}
}

// SetDefault makes id the default for Console, Multimedia and Communications,
// in that order. It stops at the first failing role.
func (s *Switcher) SetDefault(id string) error {
	return s.SetDefaultRoles(id, audioshim.AllRoles)
}

// SetDefaultRoles is SetDefault restricted to roles.
func (s *Switcher) SetDefaultRoles(id string, roles []audioshim.Role) error {
	var done []audioshim.Role
	for i, role := range roles {
		if err := s.shim.SetDefaultEndpoint(id, role); err != nil {
			s.log.Warnf("Set default %s -> %q failed: %v", role, id, err)
			return &PartialSwitchFailure{
				ID:        id,
				Succeeded: done,
				Failed:    role,
				Remaining: append([]audioshim.Role(nil), roles[i:]...),
				Err:       err,
			}
		}
		s.log.Tracef("Set default %s -> %q", role, id)
		done = append(done, role)
	}
	return nil
}
