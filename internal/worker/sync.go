package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// Sync is the synchronous worker helper from spec.md §4.4: used only for
// short queries (version read, appstream URL read, component listing) that
// share no state with the job registry and therefore bypass notify/progress
// handling entirely.
type Sync struct {
	Path           string
	VerifyDisabled bool
}

// NewSync creates a Sync helper from the given executable path and
// verify-disabled knob.
func NewSync(path string, verifyDisabled bool) *Sync {
	return &Sync{Path: path, VerifyDisabled: verifyDisabled}
}

// Run invokes the worker with the given verb against target (which may be
// nil for the host with no selector), waits for it to exit, and parses its
// stdout as a single JSON document.
func (s *Sync) Run(target *sysupdate.Target, verb string, extra ...string) (map[string]any, error) {
	args := []string{"--json=short"}
	if s.VerifyDisabled {
		args = append(args, "--verify=no")
	}
	if target != nil {
		args = append(args, target.Selector()...)
	}
	args = append(args, verb)
	args = append(args, extra...)

	cmd := exec.Command(s.Path, args...) //nolint:gosec // worker path/args are daemon-controlled, not user input

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sync worker call %q failed: %w", verb, err)
	}

	if stdout.Len() == 0 {
		return map[string]any{}, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		return nil, &sysupdate.ProtocolError{Reason: fmt.Sprintf("unparseable stdout from %q: %v", verb, err)}
	}

	return doc, nil
}
