// Package memfile creates the anonymous, seekable, memory-backed file used
// to capture a worker's stdout (spec.md §4.1: "The child's stdout is an
// anonymous seekable memory file (so the daemon can re-read it after
// exit)"). A pipe can't be rewound, so a plain os.Pipe() won't do; this
// package wraps memfd_create on Linux and falls back to an unlinked temp
// file elsewhere, following the teacher's build-tag split for
// platform-specific syscalls (pkg/worker/worker_linux.go vs worker_other.go).
package memfile

import "os"

// New returns a new anonymous, seekable file suitable for use as an
// exec.Cmd's Stdout. The caller owns the returned file and must Close it
// once done (registry.Jobs.Delete does so when the Job is destroyed).
func New(name string) (*os.File, error) {
	return create(name)
}
