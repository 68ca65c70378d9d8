package audioshim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleString(t *testing.T) {
	assert.Equal(t, "console", Console.String())
	assert.Equal(t, "multimedia", Multimedia.String())
	assert.Equal(t, "communications", Communications.String())
	assert.Equal(t, "unknown", Role(7).String())
	assert.Equal(t, "console,communications", FormatRoles([]Role{Console, Communications}))
	assert.Equal(t, "", FormatRoles(nil))
}

func TestFakeDefaults(t *testing.T) {
	f := NewFake([]Endpoint{{ID: "A", Name: "Speakers"}, {ID: "B", Name: "Headphones"}}, "A")

	ep, err := f.DefaultRenderEndpoint(Console)
	require.NoError(t, err)
	assert.Equal(t, "Speakers", ep.Name)

	require.NoError(t, f.SetDefaultEndpoint("B", Multimedia))
	assert.Equal(t, map[Role]string{Console: "A", Multimedia: "B", Communications: "A"}, f.Defaults())
	assert.Equal(t, []SetCall{{ID: "B", Role: Multimedia}}, f.Calls())

	assert.Error(t, f.SetDefaultEndpoint("Z", Console))

	f.SetDefault(Console, "")
	_, err = f.DefaultRenderEndpoint(Console)
	assert.ErrorIs(t, err, ErrNoDefaultEndpoint)
}

func TestFakeFailures(t *testing.T) {
	f := NewFake([]Endpoint{{ID: "A"}}, "")
	boom := errors.New("boom")
	f.FailRoles[Communications] = boom
	f.FailOnce = true

	assert.ErrorIs(t, f.SetDefaultEndpoint("A", Communications), boom)
	assert.NoError(t, f.SetDefaultEndpoint("A", Communications))

	f.ListErr = ErrDirectoryUnavailable
	_, err := f.RenderEndpoints()
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
	_, err = f.DefaultRenderEndpoint(Console)
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)

	require.NoError(t, f.Close())
	assert.True(t, f.Closed())
}
