package registry

import "github.com/coreupdate/sysupdated/internal/sysupdate"

// Jobs is the live-job map keyed by JobID, plus the allocator that hands
// out strictly increasing ids (spec.md §8 invariant 1).
type Jobs struct {
	ids  sysupdate.IDAllocator
	byID map[sysupdate.JobID]*sysupdate.Job
}

// NewJobs returns an empty Job registry.
func NewJobs() *Jobs {
	return &Jobs{byID: make(map[sysupdate.JobID]*sysupdate.Job)}
}

// NextID allocates the next strictly increasing JobID without registering
// anything; the caller constructs the Job and then calls Put.
func (r *Jobs) NextID() sysupdate.JobID {
	return r.ids.Next()
}

// Put registers a job. Per spec.md §4.1 ("Registration happens before the
// worker is spawned so that a same-PID notification cannot race the
// registry"), callers must call this before starting the job's Cmd.
func (r *Jobs) Put(j *sysupdate.Job) {
	r.byID[j.ID] = j
}

// Get looks up a job by id.
func (r *Jobs) Get(id sysupdate.JobID) (*sysupdate.Job, bool) {
	j, ok := r.byID[id]
	return j, ok
}

// Delete removes a job from the registry and closes its captured stdout
// file, if any. This is the "single destruction point" spec.md §9 calls for.
func (r *Jobs) Delete(id sysupdate.JobID) {
	if j, ok := r.byID[id]; ok && j.Stdout != nil {
		_ = j.Stdout.Close()
	}
	delete(r.byID, id)
}

// Empty reports whether no jobs are currently tracked.
func (r *Jobs) Empty() bool {
	return len(r.byID) == 0
}

// List returns every tracked job, in no particular order.
func (r *Jobs) List() []*sysupdate.Job {
	out := make([]*sysupdate.Job, 0, len(r.byID))
	for _, j := range r.byID {
		out = append(out, j)
	}
	return out
}

// ByPID finds the job whose child process has the given PID. Linear scan
// is acceptable per spec.md §9 ("expected concurrency is small"); if
// concurrency grows, maintain a PID->Job index instead.
func (r *Jobs) ByPID(pid int) (*sysupdate.Job, bool) {
	for _, j := range r.byID {
		if j.Cmd != nil && j.Cmd.Process != nil && j.Cmd.Process.Pid == pid {
			return j, true
		}
	}
	return nil, false
}
