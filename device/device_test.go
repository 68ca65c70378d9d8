package device

import (
	"errors"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

var (
	speakers   = audioshim.Endpoint{ID: "A", Name: "Speakers"}
	headphones = audioshim.Endpoint{ID: "B", Name: "Headphones"}
	hdmi       = audioshim.Endpoint{ID: "C", Name: "HDMI"}
)

func TestDirectoryList(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	d := NewDirectory(fake, slog.Disabled)

	eps, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []audioshim.Endpoint{speakers, headphones}, eps)

	fake.SetEndpoints([]audioshim.Endpoint{headphones})
	eps, err = d.List()
	require.NoError(t, err)
	assert.Equal(t, []audioshim.Endpoint{headphones}, eps, "list is re-queried on every call")
}

func TestDirectoryUnavailable(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers}, "A")
	fake.ListErr = errors.New("rpc server unavailable")
	d := NewDirectory(fake, nil)

	_, err := d.List()
	assert.ErrorIs(t, err, audioshim.ErrDirectoryUnavailable)

	_, err = d.Default()
	assert.ErrorIs(t, err, audioshim.ErrDirectoryUnavailable)

	_, err = d.Snapshot()
	assert.ErrorIs(t, err, audioshim.ErrDirectoryUnavailable)
}

func TestDirectoryDefault(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "B")
	d := NewDirectory(fake, slog.Disabled)

	def, err := d.Default()
	require.NoError(t, err)
	assert.Equal(t, headphones, def)

	// Only the Console role is consulted.
	fake.SetDefault(audioshim.Multimedia, "A")
	def, err = d.Default()
	require.NoError(t, err)
	assert.Equal(t, headphones, def)

	fake.SetDefault(audioshim.Console, "")
	_, err = d.Default()
	assert.ErrorIs(t, err, audioshim.ErrNoDefaultEndpoint)
	assert.NotErrorIs(t, err, audioshim.ErrDirectoryUnavailable)
}

func TestDirectorySnapshot(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	d := NewDirectory(fake, slog.Disabled)

	snap, err := d.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Endpoints: []audioshim.Endpoint{speakers, headphones}, DefaultID: "A"}, snap)
	def, ok := snap.Default()
	assert.True(t, ok)
	assert.Equal(t, speakers, def)

	fake.SetDefault(audioshim.Console, "")
	snap, err = d.Snapshot()
	require.NoError(t, err, "a missing default is not an error for snapshots")
	assert.Empty(t, snap.DefaultID)
	_, ok = snap.Default()
	assert.False(t, ok)
}

func TestSnapshotEqual(t *testing.T) {
	base := Snapshot{Endpoints: []audioshim.Endpoint{speakers, headphones}, DefaultID: "A"}
	for _, tc := range []struct {
		name  string
		other Snapshot
		equal bool
	}{
		{"same", Snapshot{Endpoints: []audioshim.Endpoint{speakers, headphones}, DefaultID: "A"}, true},
		{"default changed", Snapshot{Endpoints: []audioshim.Endpoint{speakers, headphones}, DefaultID: "B"}, false},
		{"device added", Snapshot{Endpoints: []audioshim.Endpoint{speakers, headphones, hdmi}, DefaultID: "A"}, false},
		{"reordered", Snapshot{Endpoints: []audioshim.Endpoint{headphones, speakers}, DefaultID: "A"}, false},
		{"renamed", Snapshot{Endpoints: []audioshim.Endpoint{{ID: "A", Name: "Desk"}, headphones}, DefaultID: "A"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, base.Equal(tc.other))
			assert.Equal(t, tc.equal, tc.other.Equal(base))
		})
	}
}

func TestDirectoryLookup(t *testing.T) {
	d := NewDirectory(audioshim.NewFake([]audioshim.Endpoint{speakers, headphones, hdmi}, "A"), slog.Disabled)

	tests := []struct {
		selector string
		want     audioshim.Endpoint
		wantErr  bool
	}{
		{selector: "B", want: headphones},
		{selector: "1", want: speakers},
		{selector: "3", want: hdmi},
		{selector: "0", wantErr: true},
		{selector: "4", wantErr: true},
		{selector: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := d.Lookup(tt.selector)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSwitcherSetsAllRoles(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	s := NewSwitcher(fake, slog.Disabled)

	require.NoError(t, s.SetDefault("B"))
	assert.Equal(t, []audioshim.SetCall{
		{ID: "B", Role: audioshim.Console},
		{ID: "B", Role: audioshim.Multimedia},
		{ID: "B", Role: audioshim.Communications},
	}, fake.Calls())
	assert.Equal(t, map[audioshim.Role]string{
		audioshim.Console:        "B",
		audioshim.Multimedia:     "B",
		audioshim.Communications: "B",
	}, fake.Defaults())
}

func TestSwitcherPartialFailure(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	boom := errors.New("E_ACCESSDENIED")
	fake.FailRoles[audioshim.Communications] = boom
	s := NewSwitcher(fake, slog.Disabled)

	err := s.SetDefault("B")
	var psf *PartialSwitchFailure
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, "B", psf.ID)
	assert.Equal(t, []audioshim.Role{audioshim.Console, audioshim.Multimedia}, psf.Succeeded)
	assert.Equal(t, audioshim.Communications, psf.Failed)
	assert.Equal(t, []audioshim.Role{audioshim.Communications}, psf.Remaining)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "console,multimedia")

	assert.Equal(t, "A", fake.Defaults()[audioshim.Communications])
	assert.Equal(t, "B", fake.Defaults()[audioshim.Console])
}

func TestSwitcherStopsAtFirstFailure(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	fake.FailRoles[audioshim.Console] = audioshim.ErrUnsupported
	s := NewSwitcher(fake, slog.Disabled)

	err := s.SetDefault("B")
	var psf *PartialSwitchFailure
	require.ErrorAs(t, err, &psf)
	assert.Empty(t, psf.Succeeded)
	assert.Equal(t, audioshim.AllRoles, psf.Remaining)
	assert.ErrorIs(t, err, audioshim.ErrUnsupported)
	assert.Len(t, fake.Calls(), 1)
}

func TestSwitcherRoleSubset(t *testing.T) {
	fake := audioshim.NewFake([]audioshim.Endpoint{speakers, headphones}, "A")
	s := NewSwitcher(fake, slog.Disabled)

	require.NoError(t, s.SetDefaultRoles("B", []audioshim.Role{audioshim.Communications}))
	assert.Equal(t, []audioshim.SetCall{{ID: "B", Role: audioshim.Communications}}, fake.Calls())
}
