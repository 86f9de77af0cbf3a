package eventloop

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/coreupdate/sysupdated/internal/busapi"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

var (
	_ busapi.ManagerHandler = (*Loop)(nil)
	_ busapi.TargetHandler  = (*Loop)(nil)
	_ busapi.JobHandler     = (*Loop)(nil)
)

// List implements busapi.TargetHandler (spec.md §4.1 item 1).
func (l *Loop) List(t *sysupdate.Target, flags uint64, sender string) ([]string, error) {
	offline, err := sysupdate.ParseOfflineFlags(flags)
	if err != nil {
		return nil, err
	}
	if err := l.authorize(context.Background(), sender, sysupdate.ActionCheck, t, "", offline); err != nil {
		return nil, err
	}

	_, ch, err := l.spawnJob(t, sysupdate.TypeList, "", offline, false)
	if err != nil {
		return nil, err
	}
	outcome := <-ch
	if outcome.status.Err != nil {
		return nil, outcome.status.Err
	}
	return extractStringArray(outcome.doc, "all")
}

// Describe implements busapi.TargetHandler (spec.md §4.1 item 2).
func (l *Loop) Describe(t *sysupdate.Target, version string, flags uint64, sender string) (string, error) {
	if version == "" {
		return "", sysupdate.ErrInvalidArgs
	}
	offline, err := sysupdate.ParseOfflineFlags(flags)
	if err != nil {
		return "", err
	}
	if err := l.authorize(context.Background(), sender, sysupdate.ActionCheck, t, version, offline); err != nil {
		return "", err
	}

	_, ch, err := l.spawnJob(t, sysupdate.TypeDescribe, version, offline, false)
	if err != nil {
		return "", err
	}
	outcome := <-ch
	if outcome.status.Err != nil {
		return "", outcome.status.Err
	}
	raw, err := json.Marshal(outcome.doc)
	if err != nil {
		return "", &sysupdate.ProtocolError{Reason: err.Error()}
	}
	return string(raw), nil
}

// CheckNew implements busapi.TargetHandler (spec.md §4.1 item 3).
func (l *Loop) CheckNew(t *sysupdate.Target, sender string) (string, error) {
	if err := l.authorize(context.Background(), sender, sysupdate.ActionCheck, t, "", false); err != nil {
		return "", err
	}

	_, ch, err := l.spawnJob(t, sysupdate.TypeCheckNew, "", false, false)
	if err != nil {
		return "", err
	}
	outcome := <-ch
	if outcome.status.Err != nil {
		return "", outcome.status.Err
	}

	v, ok := outcome.doc["available"]
	if !ok {
		return "", &sysupdate.ProtocolError{Reason: `missing "available" key`}
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &sysupdate.ProtocolError{Reason: `"available" is not a string`}
	}
	return s, nil
}

// Update implements busapi.TargetHandler (spec.md §4.1 item 4). Detached:
// the caller is answered as soon as READY=1 arrives. If the worker exits
// first, the caller gets ErrNoUpdateCandidate on a clean exit, or the
// worker's error otherwise.
func (l *Loop) Update(t *sysupdate.Target, version string, flags uint64, sender string) (string, uint64, dbus.ObjectPath, error) {
	if err := sysupdate.RequireZeroFlags(flags); err != nil {
		return "", 0, "", err
	}

	action := sysupdate.ActionUpdate
	if version != "" {
		action = sysupdate.ActionUpdateToVersion
	}
	if err := l.authorize(context.Background(), sender, action, t, version, false); err != nil {
		return "", 0, "", err
	}

	type updateResult struct {
		version string
		id      sysupdate.JobID
		path    string
		err     error
	}
	replyCh := make(chan updateResult, 1)

	_, err := SubmitWaitErr(l, func() (*sysupdate.Job, error) {
		if t.Busy() {
			return nil, sysupdate.ErrBusy
		}

		id := l.jobs.NextID()
		job := sysupdate.NewJob(id, sysupdate.TypeUpdate, t, version, false)
		t.SetBusy(true)
		l.jobs.Put(job)

		path, props, err := l.bus.ExportJob(job, l)
		if err != nil {
			t.SetBusy(false)
			l.jobs.Delete(id)
			return nil, err
		}
		l.jobBuses[id] = jobBus{path: string(path), props: props}

		job.Completion = func(_ map[string]any, status sysupdate.ExitStatus) {
			if status.Err != nil {
				replyCh <- updateResult{err: status.Err}
				return
			}
			replyCh <- updateResult{err: sysupdate.ErrNoUpdateCandidate}
		}
		job.Detach = func(jobID sysupdate.JobID, objectPath string) {
			selected, ok := job.ReportedVersion()
			if !ok || selected == "" {
				selected = version
			}
			replyCh <- updateResult{version: selected, id: jobID, path: objectPath}
		}

		if err := l.invoker.Spawn(job); err != nil {
			t.SetBusy(false)
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
		return "", 0, "", err
	}

	res := <-replyCh
	if res.err != nil {
		return "", 0, "", res.err
	}
	return res.version, uint64(res.id), dbus.ObjectPath(res.path), nil
}

// Vacuum implements busapi.TargetHandler (spec.md §4.1 item 5).
func (l *Loop) Vacuum(t *sysupdate.Target, sender string) (uint32, error) {
	if err := l.authorize(context.Background(), sender, sysupdate.ActionVacuum, t, "", false); err != nil {
		return 0, err
	}

	_, ch, err := l.spawnJob(t, sysupdate.TypeVacuum, "", false, true)
	if err != nil {
		return 0, err
	}
	outcome := <-ch
	if outcome.status.Err != nil {
		return 0, outcome.status.Err
	}

	v, ok := outcome.doc["removed"]
	if !ok {
		return 0, &sysupdate.ProtocolError{Reason: `missing "removed" key`}
	}
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, &sysupdate.ProtocolError{Reason: `"removed" is not a non-negative number`}
	}
	return uint32(f), nil
}

// GetAppStream and GetVersion implement busapi.TargetHandler via the
// synchronous worker helper (spec.md §4.4): no Job is created, since
// these queries share no state with the job registry.

func (l *Loop) GetAppStream(t *sysupdate.Target, sender string) ([]string, error) {
	if err := l.authorize(context.Background(), sender, sysupdate.ActionCheck, t, "", false); err != nil {
		return nil, err
	}
	doc, err := l.sync.Run(t, "list")
	if err != nil {
		return nil, err
	}
	return extractStringArray(doc, "appstream_urls")
}

func (l *Loop) GetVersion(t *sysupdate.Target, sender string) (string, error) {
	if err := l.authorize(context.Background(), sender, sysupdate.ActionCheck, t, "", false); err != nil {
		return "", err
	}
	doc, err := l.sync.Run(t, "list")
	if err != nil {
		return "", err
	}
	v, ok := doc["current"]
	if !ok {
		return "", nil
	}
	s, _ := v.(string)
	return s, nil
}

// Cancel implements busapi.JobHandler (spec.md §4.1 "Cancellation").
func (l *Loop) Cancel(j *sysupdate.Job, sender string) error {
	action := j.Type.CancelAction(j.Version != "")
	if err := l.authorizeJob(context.Background(), sender, action, j); err != nil {
		return err
	}
	return SubmitWait(l, func() error {
		if _, ok := l.jobs.Get(j.ID); !ok {
			return sysupdate.ErrJobNotFound
		}
		sig := j.Cancel()
		return deliverSignal(j, sig)
	})
}

// ListTargets implements busapi.ManagerHandler.
func (l *Loop) ListTargets() ([]busapi.TargetSummary, error) {
	return SubmitWaitErr(l, func() ([]busapi.TargetSummary, error) {
		l.ensureTargets()
		ts := l.targets.List()
		out := make([]busapi.TargetSummary, 0, len(ts))
		for _, t := range ts {
			out = append(out, busapi.TargetSummary{Class: t.Class.String(), Name: t.Name, Path: t.Path})
		}
		return out, nil
	})
}

// ListJobs implements busapi.ManagerHandler.
func (l *Loop) ListJobs() ([]busapi.JobSummary, error) {
	return SubmitWaitErr(l, func() ([]busapi.JobSummary, error) {
		js := l.jobs.List()
		out := make([]busapi.JobSummary, 0, len(js))
		for _, j := range js {
			path := ""
			if jb, ok := l.jobBuses[j.ID]; ok {
				path = jb.path
			}
			out = append(out, busapi.JobSummary{
				Id:       uint64(j.ID),
				Type:     j.Type.String(),
				Progress: uint32(j.Progress()),
				Path:     dbus.ObjectPath(path),
			})
		}
		return out, nil
	})
}

// ListAppStream implements busapi.ManagerHandler: aggregated across the
// host document's appstream_urls key, via the synchronous worker helper.
func (l *Loop) ListAppStream() ([]string, error) {
	doc, err := l.sync.Run(nil, "list")
	if err != nil {
		return nil, err
	}
	return extractStringArray(doc, "appstream_urls")
}

// ensureTargets rebuilds the Target registry if it is currently empty,
// per spec.md §4.3's lazy/ephemeral discovery. Must run on the loop
// goroutine.
func (l *Loop) ensureTargets() {
	if !l.targets.Empty() {
		return
	}
	rebuilt, err := rebuildTargets(l.lister, l.sync)
	if err != nil {
		return
	}
	l.targets = rebuilt
	for _, t := range l.targets.List() {
		_, _ = l.bus.ExportTarget(t, l)
	}
}

func extractStringArray(doc map[string]any, key string) ([]string, error) {
	v, ok := doc[key]
	if !ok {
		return nil, &sysupdate.ProtocolError{Reason: fmt.Sprintf("missing %q key", key)}
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &sysupdate.ProtocolError{Reason: fmt.Sprintf("%q is not an array", key)}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, &sysupdate.ProtocolError{Reason: fmt.Sprintf("%q element is not a string", key)}
		}
		out = append(out, s)
	}
	return out, nil
}
