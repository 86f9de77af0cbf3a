package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

func TestTargetsPutGetFlush(t *testing.T) {
	r := NewTargets()
	assert.True(t, r.Empty())

	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	r.Put(host)
	assert.False(t, r.Empty())

	got, ok := r.Get(sysupdate.HostStableID)
	require.True(t, ok)
	assert.Same(t, host, got)

	r.Flush()
	assert.True(t, r.Empty())
	_, ok = r.Get(sysupdate.HostStableID)
	assert.False(t, ok)
}

func TestTargetsList(t *testing.T) {
	r := NewTargets()
	r.Put(&sysupdate.Target{Class: sysupdate.ClassHost})
	r.Put(&sysupdate.Target{Class: sysupdate.ClassComponent, Name: "foo"})

	assert.Len(t, r.List(), 2)
}
