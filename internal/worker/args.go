package worker

import "github.com/coreupdate/sysupdated/internal/sysupdate"

// buildArgs assembles the worker argument vector per spec.md §4.1:
//
//	always: executable name, --json=short
//	optional: --verify=no (testing knob)
//	target selector: none (host) | --component=<name> | --root=<path> | --image=<path>
//	optional: --offline
//	verb: list | check-new | update | vacuum
//	  describe is "list" followed by the version argument
//	  update is "update" followed by the version (or nothing, meaning latest)
func buildArgs(verifyDisabled bool, t *sysupdate.Target, offline bool, typ sysupdate.Type, version string) []string {
	args := []string{"--json=short"}

	if verifyDisabled {
		args = append(args, "--verify=no")
	}

	args = append(args, t.Selector()...)

	if offline {
		args = append(args, "--offline")
	}

	switch typ {
	case sysupdate.TypeList:
		args = append(args, "list")
	case sysupdate.TypeDescribe:
		args = append(args, "list", version)
	case sysupdate.TypeCheckNew:
		args = append(args, "check-new")
	case sysupdate.TypeUpdate:
		args = append(args, "update")
		if version != "" {
			args = append(args, version)
		}
	case sysupdate.TypeVacuum:
		args = append(args, "vacuum")
	}

	return args
}
