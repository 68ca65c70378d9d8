package audioshim

import (
	"fmt"
	"sync"
)

// SetCall records one SetDefaultEndpoint call made against a Fake.
type SetCall struct {
	ID   string
	Role Role
}

// Fake is an in-memory Shim with failure injection, used by tests.
type Fake struct {
	mu        sync.Mutex
	endpoints []Endpoint
	defaults  map[Role]string
	calls     []SetCall
	closed    bool

	// ListErr is returned by RenderEndpoints and DefaultRenderEndpoint when set.
	ListErr error
	// FailRoles makes SetDefaultEndpoint fail for the given roles.
	FailRoles map[Role]error
	// FailOnce clears a FailRoles entry after it has failed once.
	FailOnce bool
}

// NewFake returns a Fake holding endpoints, with defaultID default for every role.
func NewFake(endpoints []Endpoint, defaultID string) *Fake {
	f := &Fake{
		defaults:  map[Role]string{},
		FailRoles: map[Role]error{},
	}
	f.endpoints = append(f.endpoints, endpoints...)
	if defaultID != "" {
		for _, r := range AllRoles {
			f.defaults[r] = defaultID
		}
	}
	return f
}

func (f *Fake) RenderEndpoints() ([]Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]Endpoint, len(f.endpoints))
	copy(out, f.endpoints)
	return out, nil
}

func (f *Fake) DefaultRenderEndpoint(role Role) (Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return Endpoint{}, f.ListErr
	}
	id, ok := f.defaults[role]
	if !ok {
		return Endpoint{}, ErrNoDefaultEndpoint
	}
	for _, ep := range f.endpoints {
		if ep.ID == id {
			return ep, nil
		}
	}
	return Endpoint{}, ErrNoDefaultEndpoint
}

func (f *Fake) SetDefaultEndpoint(id string, role Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, SetCall{ID: id, Role: role})
	if err, ok := f.FailRoles[role]; ok {
		if f.FailOnce {
			delete(f.FailRoles, role)
		}
		return err
	}
	for _, ep := range f.endpoints {
		if ep.ID == id {
			f.defaults[role] = id
			return nil
		}
	}
	return fmt.Errorf("set default %s: unknown endpoint %q", role, id)
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// SetEndpoints replaces the device list, as if hardware was plugged or unplugged.
func (f *Fake) SetEndpoints(endpoints []Endpoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append([]Endpoint(nil), endpoints...)
}

// SetDefault changes the default for role without recording a call,
// the way another application would.
func (f *Fake) SetDefault(role Role, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		delete(f.defaults, role)
		return
	}
	f.defaults[role] = id
}

// Defaults returns the current default id per role.
func (f *Fake) Defaults() map[Role]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Role]string, len(f.defaults))
	for r, id := range f.defaults {
		out[r] = id
	}
	return out
}

// Calls returns every SetDefaultEndpoint call made so far.
func (f *Fake) Calls() []SetCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SetCall(nil), f.calls...)
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
