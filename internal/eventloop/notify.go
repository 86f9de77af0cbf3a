package eventloop

import (
	"log/slog"

	"github.com/coreupdate/sysupdated/internal/busid"
	"github.com/coreupdate/sysupdated/internal/notifysock"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// handleNotification implements spec.md §4.2 step 4-5 and §4.1 "Progress
// and metadata updates": find the job by credential-verified PID, then
// apply version, progress, errno, and finally ready — in that order, so
// any same-datagram metadata is visible when detach completes. Runs on
// the loop goroutine only.
func (l *Loop) handleNotification(msg notifysock.Message) {
	job, ok := l.jobs.ByPID(int(msg.PID))
	if !ok {
		slog.Warn("notify datagram from unrecognized pid", "pid", msg.PID)
		return
	}

	n := sysupdate.ParseNotification(msg.Payload)

	if n.HasVersion {
		job.SetVersion(n.Version)
	}
	if n.HasProgress && !n.ProgressInvalid {
		job.SetProgress(n.Progress)
		if jb, ok := l.jobBuses[job.ID]; ok {
			jb.props.SetMust(busid.Interface, "Progress", uint32(n.Progress))
		}
	} else if n.ProgressInvalid {
		slog.Warn("dropping out-of-range or unparseable progress report", "job", job.ID)
	}
	if n.HasErrno {
		job.SetErrno(n.Errno)
	}
	if n.Ready {
		job.MarkReady()
		if job.Detach != nil && !job.Detached() {
			detach := job.Detach
			path := ""
			if jb, ok := l.jobBuses[job.ID]; ok {
				path = jb.path
			}
			job.Detach = nil
			job.Completion = nil
			job.MarkDetached()
			detach(job.ID, path)
		}
	}
}
