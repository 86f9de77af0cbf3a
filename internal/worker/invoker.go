// Package worker implements the Worker Invoker and the synchronous worker
// helper from spec.md §4.1 and §4.4, grounded on the teacher's
// internal/worker/jobworker/jobworker.go (argument-vector assembly ahead of
// exec.Command) and pkg/worker/worker.go (building up argv/env before
// spawning a child).
package worker

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/coreupdate/sysupdated/internal/memfile"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// Invoker builds argument vectors and spawns the external worker binary for
// one operation against one target (spec.md §4.1 "Worker Invoker").
type Invoker struct {
	// Path is the worker executable.
	Path string
	// VerifyDisabled passes --verify=no, for testing.
	VerifyDisabled bool
	// NotifySocketPath is exported to the child as NOTIFY_SOCKET.
	NotifySocketPath string
}

// New creates an Invoker from the given executable path, verify-disabled
// knob, and notify socket path.
func New(path string, verifyDisabled bool, notifySocketPath string) *Invoker {
	return &Invoker{
		Path:             path,
		VerifyDisabled:   verifyDisabled,
		NotifySocketPath: notifySocketPath,
	}
}

// Spawn builds the argv for j, wires its environment and anonymous stdout
// capture, and starts the child process. The caller must have already
// registered j in the job registry (spec.md §4.1: "Registration happens
// before the worker is spawned so that a same-PID notification cannot race
// the registry"). A goroutine is started to reap the child and close
// j.Done; it performs no domain logic, only recording j.WaitErr, so that
// all actual state mutation still happens on the event-loop goroutine that
// observes j.Done closing.
func (inv *Invoker) Spawn(j *sysupdate.Job) error {
	args := buildArgs(inv.VerifyDisabled, j.Target, j.Offline, j.Type, j.Version)

	cmd := exec.Command(inv.Path, args...) //nolint:gosec // worker path/args are daemon-controlled, not user input

	stdout, err := memfile.New(fmt.Sprintf("sysupdate-job-%s-stdout", j.ID))
	if err != nil {
		return fmt.Errorf("allocate stdout capture: %w", err)
	}
	j.Stdout = stdout

	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "NOTIFY_SOCKET="+inv.NotifySocketPath)

	// exec.Cmd only ever passes fd 0/1/2 (Stdin/Stdout/Stderr) plus whatever
	// is explicitly listed in ExtraFiles, which is left nil here — so the
	// "close everything but 0/1/2" requirement from spec.md §4.1 is already
	// satisfied by not opting in to fd inheritance, with no extra syscalls
	// needed the way the teacher's cgroup/namespace path required them.
	j.Cmd = cmd

	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		return fmt.Errorf("spawn worker: %w", err)
	}

	go func() {
		j.WaitErr = cmd.Wait()
		close(j.Done)
	}()

	return nil
}
