// Package busid escapes arbitrary target stable ids into D-Bus object path
// segments, and builds the well-known object paths under the sysupdate1
// bus namespace (spec.md §6).
package busid

import "fmt"

const (
	// ManagerPath is the Manager object's path.
	ManagerPath = "/org/freedesktop/sysupdate1"
	// TargetPathPrefix is the parent path under which every Target object lives.
	TargetPathPrefix = ManagerPath + "/target"
	// JobPathPrefix is the parent path under which every Job object lives.
	JobPathPrefix = ManagerPath + "/job"
	// Interface is the D-Bus interface name implemented by Manager, Target and Job.
	Interface = "org.freedesktop.sysupdate1"
)

// EscapeLabel escapes s into a string usable as a single D-Bus object path
// segment, following the systemd "bus label" convention: any byte outside
// [A-Za-z0-9_] is replaced by "_xx" (lowercase hex), and a leading digit is
// also escaped so the result is never misread as starting a new numeric
// segment. This has no equivalent in godbus/dbus (which only validates
// paths, it doesn't escape arbitrary strings into them), so it is
// hand-rolled rather than pulled from a library.
func EscapeLabel(s string) string {
	if s == "" {
		return "_"
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			out = append(out, c)
		case c >= '0' && c <= '9' && i > 0:
			out = append(out, c)
		default:
			out = append(out, fmt.Sprintf("_%02x", c)...)
		}
	}
	return string(out)
}

// TargetPath returns the object path for a target with the given stable id.
func TargetPath(stableID string) string {
	return TargetPathPrefix + "/" + EscapeLabel(stableID)
}

// JobPath returns the object path for a job with the given id suffix
// (e.g. "_7").
func JobPath(idSuffix string) string {
	return JobPathPrefix + "/" + idSuffix
}
