package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

func TestJobsNextIDStrictlyIncreasing(t *testing.T) {
	r := NewJobs()
	a := r.NextID()
	b := r.NextID()
	c := r.NextID()
	assert.Less(t, uint64(a), uint64(b))
	assert.Less(t, uint64(b), uint64(c))
}

func TestJobsPutGetDelete(t *testing.T) {
	r := NewJobs()
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	id := r.NextID()
	j := sysupdate.NewJob(id, sysupdate.TypeList, host, "", false)

	assert.True(t, r.Empty())
	r.Put(j)
	assert.False(t, r.Empty())

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, j, got)

	r.Delete(id)
	assert.True(t, r.Empty())
	_, ok = r.Get(id)
	assert.False(t, ok)
}

func TestJobsByPIDNotFoundWhenProcessUnset(t *testing.T) {
	r := NewJobs()
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	j := sysupdate.NewJob(r.NextID(), sysupdate.TypeList, host, "", false)
	r.Put(j)

	_, ok := r.ByPID(12345)
	assert.False(t, ok)
}

func TestJobsList(t *testing.T) {
	r := NewJobs()
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	r.Put(sysupdate.NewJob(r.NextID(), sysupdate.TypeList, host, "", false))
	r.Put(sysupdate.NewJob(r.NextID(), sysupdate.TypeVacuum, host, "", false))

	assert.Len(t, r.List(), 2)
}
