package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreupdate/sysupdated/internal/discovery"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

type fakeLister struct {
	byClass map[sysupdate.Class][]discovery.Image
}

func (f *fakeLister) ListImages(class sysupdate.Class) ([]discovery.Image, error) {
	return f.byClass[class], nil
}

type fakeRunner struct {
	// responses is keyed by the target's stable id, "" for the host-wide
	// (nil-target) call.
	responses map[string]map[string]any
}

func (f *fakeRunner) Run(target *sysupdate.Target, verb string, extra ...string) (map[string]any, error) {
	key := ""
	if target != nil {
		key = target.StableID()
	}
	return f.responses[key], nil
}

func TestRebuildDiscardsImagesWithoutDefaultComponent(t *testing.T) {
	lister := &fakeLister{byClass: map[sysupdate.Class][]discovery.Image{
		sysupdate.ClassPortable: {
			{Name: "foo", Path: "/var/lib/portables/foo.raw", Kind: sysupdate.ImageKindRaw},
			{Name: "bar", Path: "/var/lib/portables/bar.raw", Kind: sysupdate.ImageKindRaw},
		},
	}}
	runner := &fakeRunner{responses: map[string]map[string]any{
		"portable:foo": {"default": true},
		"portable:bar": {"default": false},
		"":             {"default": false},
	}}

	targets, err := Rebuild(lister, runner)
	require.NoError(t, err)

	_, ok := targets.Get("portable:foo")
	assert.True(t, ok)
	_, ok = targets.Get("portable:bar")
	assert.False(t, ok)
}

func TestRebuildAddsHostAndComponents(t *testing.T) {
	lister := &fakeLister{byClass: map[sysupdate.Class][]discovery.Image{}}
	runner := &fakeRunner{responses: map[string]map[string]any{
		"": {
			"default":    true,
			"components": []any{"etc", "var"},
		},
	}}

	targets, err := Rebuild(lister, runner)
	require.NoError(t, err)

	host, ok := targets.Get(sysupdate.HostStableID)
	require.True(t, ok)
	assert.Equal(t, "sysupdate.d", host.Path)

	etc, ok := targets.Get("component:etc")
	require.True(t, ok)
	assert.Equal(t, "sysupdate.etc.d", etc.Path)

	_, ok = targets.Get("component:var")
	assert.True(t, ok)
}

func TestRebuildNoHostDefaultNoComponents(t *testing.T) {
	lister := &fakeLister{byClass: map[sysupdate.Class][]discovery.Image{}}
	runner := &fakeRunner{responses: map[string]map[string]any{
		"": {"default": false},
	}}

	targets, err := Rebuild(lister, runner)
	require.NoError(t, err)
	assert.True(t, targets.Empty())
}
