package eventloop

import (
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// jobOutcome is what a Job's CompletionFunc delivers back to the RMI
// handler goroutine that spawned it, for job types that answer at
// child-exit rather than at detach (List, Describe, CheckNew, Vacuum).
// Update uses its own reply channel (see Loop.Update).
type jobOutcome struct {
	doc    map[string]any
	status sysupdate.ExitStatus
}

// spawnJob creates, registers, exports and starts a worker for one
// operation, running entirely on the loop goroutine via SubmitWaitErr.
// If mutating is true, the target's busy flag gates creation and is held
// for the job's lifetime. The returned channel receives exactly one
// jobOutcome, pushed by the job's Completion callback from the loop
// goroutine at child-exit.
func (l *Loop) spawnJob(t *sysupdate.Target, typ sysupdate.Type, version string, offline, mutating bool) (*sysupdate.Job, <-chan jobOutcome, error) {
	ch := make(chan jobOutcome, 1)

	job, err := SubmitWaitErr(l, func() (*sysupdate.Job, error) {
		if mutating && t.Busy() {
			return nil, sysupdate.ErrBusy
		}

		id := l.jobs.NextID()
		job := sysupdate.NewJob(id, typ, t, version, offline)
		if mutating {
			t.SetBusy(true)
		}
		l.jobs.Put(job)

		path, props, err := l.bus.ExportJob(job, l)
		if err != nil {
			if mutating {
				t.SetBusy(false)
			}
			l.jobs.Delete(id)
			return nil, err
		}
		l.jobBuses[id] = jobBus{path: string(path), props: props}

		job.Completion = func(doc map[string]any, status sysupdate.ExitStatus) {
			ch <- jobOutcome{doc: doc, status: status}
		}

		if err := l.invoker.Spawn(job); err != nil {
			if mutating {
				t.SetBusy(false)
			}
			l.bus.UnexportJob(job)
			delete(l.jobBuses, id)
			l.jobs.Delete(id)
			return nil, err
		}
		go func() {
			<-job.Done
			l.jobDone <- job.ID
		}()

		return job, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return job, ch, nil
}
