// Package policy defines the asynchronous authorization gate that every
// RMI method checks before mutating anything (spec.md §4.1 "Authorization",
// §9 "Asynchronous policy gate"). The decision logic itself lives in an
// external policy service (spec.md §1 Non-goals); this package only
// defines the client contract and a continuation-friendly Result.
package policy

import "context"

// Result is the outcome of a policy check.
type Result int

const (
	// Deny means the action is not authorized; callers surface
	// sysupdate.ErrAuthDenied.
	Deny Result = iota
	// Allow means the action is authorized and a Job may be created.
	Allow
	// Challenge means the policy service needs interactive user
	// authentication before it can decide; the bus method handler should
	// hold the RMI request open and retry once that completes (spec.md §4.1:
	// "the handler returns with the bus library holding the request for
	// later retry").
	Challenge
)

// Details carries the structured detail set passed to the policy service
// for a single check, per spec.md §4.1: "class, name, version if
// applicable, offline bit".
type Details struct {
	Class   string
	Name    string
	Version string
	Offline bool
}

// Map renders Details as the string-keyed map polkit-style authorities
// expect.
func (d Details) Map() map[string]string {
	m := map[string]string{
		"class":   d.Class,
		"name":    d.Name,
		"offline": boolString(d.Offline),
	}
	if d.Version != "" {
		m["version"] = d.Version
	}
	return m
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Client asynchronously checks whether the caller identified by sender (the
// D-Bus unique or well-known bus name of the RMI caller) is authorized to
// perform action. It is called for each Target method invocation and each
// Cancel call, and again (a bounded number of times) while the result is
// Challenge, with an action name from spec.md §6 ("Policy actions"):
// ".check", ".update", ".update-to-version", ".vacuum".
type Client interface {
	CheckAuthorization(ctx context.Context, sender, action string, details Details) (Result, error)
}
