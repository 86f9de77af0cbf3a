package eventloop

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/godbus/dbus/v5"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// handleChildExit implements spec.md §4.1 "Child exit handling" steps 1-7.
// Runs on the loop goroutine only (reached via the jobDone channel).
func (l *Loop) handleChildExit(id sysupdate.JobID) {
	job, ok := l.jobs.Get(id)
	if !ok {
		return
	}

	if job.Type.Mutating() {
		job.Target.SetBusy(false)
	}

	status := computeExitStatus(job)

	var doc map[string]any
	if status.Err == nil {
		parsed, err := parseStdout(job.Stdout)
		if err != nil {
			status.Err = err
		} else {
			doc = parsed
		}
	}

	jb, hasBus := l.jobBuses[id]

	if job.Detached() {
		statusCode := int32(status.Code)
		if status.HasErrno {
			statusCode = -int32(status.Errno)
		}
		if hasBus {
			if err := l.bus.EmitJobRemoved(uint64(id), dbus.ObjectPath(jb.path), statusCode); err != nil {
				slog.Warn("emit JobRemoved failed", "job", id, "err", err)
			}
		}
	} else if job.Completion != nil {
		job.Completion(doc, status)
	}

	if hasBus {
		l.bus.UnexportJob(job)
		delete(l.jobBuses, id)
	}
	l.jobs.Delete(id)
	l.idleCheck()
}

// computeExitStatus translates a reaped child's Wait error and last
// notify-channel errno into an ExitStatus, per spec.md §4.1 steps 2-3 and
// §7's worker-runtime-error taxonomy.
func computeExitStatus(job *sysupdate.Job) sysupdate.ExitStatus {
	errno, hasErrno := job.Errno()

	if job.WaitErr == nil {
		return sysupdate.ExitStatus{Errno: errno, HasErrno: hasErrno, Code: 0}
	}

	var exitErr *exec.ExitError
	if !errors.As(job.WaitErr, &exitErr) {
		return sysupdate.ExitStatus{Err: job.WaitErr, Errno: errno, HasErrno: hasErrno}
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return sysupdate.ExitStatus{
			Err:      &sysupdate.SignalError{Signal: ws.Signal().String()},
			Errno:    errno,
			HasErrno: hasErrno,
		}
	}

	code := exitErr.ExitCode()
	if hasErrno {
		return sysupdate.ExitStatus{
			Err:      &sysupdate.ErrnoError{Errno: errno},
			Errno:    errno,
			HasErrno: true,
			Code:     code,
		}
	}
	return sysupdate.ExitStatus{Err: &sysupdate.ExitError{Code: code}, Code: code}
}

// parseStdout seeks a job's captured stdout file back to the start and
// parses it as a single JSON document, per spec.md §4.1 step 4. Empty
// output yields an empty document, not an error.
func parseStdout(f *os.File) (map[string]any, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &sysupdate.ProtocolError{Reason: "unparseable worker stdout: " + err.Error()}
	}
	return doc, nil
}

// deliverSignal sends the OS signal Cancel() selected to a job's child
// process. Reading j.Cmd.Process after Start() has returned is safe from
// any goroutine; its fields never change again.
func deliverSignal(j *sysupdate.Job, sig sysupdate.CancelSignal) error {
	if j.Cmd == nil || j.Cmd.Process == nil {
		return sysupdate.ErrJobNotFound
	}
	osSig := syscall.SIGTERM
	if sig == sysupdate.SignalKill {
		osSig = syscall.SIGKILL
	}
	return j.Cmd.Process.Signal(osSig)
}
