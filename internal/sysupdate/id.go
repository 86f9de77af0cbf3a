package sysupdate

import (
	"fmt"
	"sync/atomic"
)

// JobID is a process-lifetime-unique, strictly increasing job identifier.
// Unlike the teacher's opaque typeid.TypeID, this must be ordered: the
// daemon's invariant is "job ids are strictly increasing within a daemon
// lifetime" (never reused), which a random/ULID-style id cannot guarantee.
type JobID uint64

// String renders the id as a plain decimal number; ObjectPathSuffix adds
// the leading underscore used in the job's bus object path.
func (id JobID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// ObjectPathSuffix returns the "_<id>" suffix used in the job's bus object
// path, per spec.md §3 ("/…/job/_<id>").
func (id JobID) ObjectPathSuffix() string {
	return "_" + id.String()
}

// IDAllocator hands out strictly increasing JobIDs. The zero value is ready
// to use and starts allocating at 1.
type IDAllocator struct {
	last atomic.Uint64
}

// Next returns the next JobID, always greater than any previously returned.
func (a *IDAllocator) Next() JobID {
	return JobID(a.last.Add(1))
}
