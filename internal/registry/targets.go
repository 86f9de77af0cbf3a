// Package registry holds the Target and Job maps the Manager owns, per
// spec.md §9's "arena-like pair of id-keyed maps" design note. Both
// registries are touched only from the single event-loop goroutine
// (spec.md §5); neither type does its own locking.
package registry

import (
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// Targets is the ephemeral Target cache described in spec.md §4.3: lazily
// populated, flushed whenever the Job registry becomes empty.
type Targets struct {
	byID map[string]*sysupdate.Target
}

// NewTargets returns an empty Target registry.
func NewTargets() *Targets {
	return &Targets{byID: make(map[string]*sysupdate.Target)}
}

// Get looks up a target by its stable id.
func (r *Targets) Get(stableID string) (*sysupdate.Target, bool) {
	t, ok := r.byID[stableID]
	return t, ok
}

// Put inserts or replaces a target.
func (r *Targets) Put(t *sysupdate.Target) {
	r.byID[t.StableID()] = t
}

// List returns every registered target, in no particular order.
func (r *Targets) List() []*sysupdate.Target {
	out := make([]*sysupdate.Target, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out
}

// Empty reports whether the registry currently holds no targets.
func (r *Targets) Empty() bool {
	return len(r.byID) == 0
}

// Flush discards every target. Per spec.md §9 ("never flush while any Job
// references a Target"), the caller (the event loop) must only call this
// when the Job registry is empty; Flush itself does not check.
func (r *Targets) Flush() {
	r.byID = make(map[string]*sysupdate.Target)
}
