package sysupdate

import (
	"strconv"
	"strings"
)

// Notification is one parsed datagram from a worker's notify channel. Zero
// values mean "key absent"; Ready/HasVersion/HasProgress/HasErrno report
// which keys were actually present.
type Notification struct {
	Ready bool

	Version    string
	HasVersion bool

	Progress    uint
	HasProgress bool
	// ProgressInvalid is set when X_SYSUPDATE_PROGRESS was present but
	// unparseable or out of [0,100]; the caller should log and drop it.
	ProgressInvalid bool

	Errno    int
	HasErrno bool
}

// ParseNotification parses a raw datagram payload of "KEY=VALUE" lines,
// one per line, per spec.md §3. Unrecognized keys are ignored. READY is
// always reported last by the caller applying the result (spec.md §4.1),
// this function only extracts it as a boolean flag.
func ParseNotification(payload []byte) Notification {
	var n Notification

	for _, line := range strings.Split(string(payload), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		switch key {
		case "READY":
			if value == "1" {
				n.Ready = true
			}
		case "X_SYSUPDATE_VERSION":
			n.Version = value
			n.HasVersion = true
		case "X_SYSUPDATE_PROGRESS":
			n.HasProgress = true
			p, err := strconv.ParseUint(value, 10, 64)
			if err != nil || p > 100 {
				n.ProgressInvalid = true
				break
			}
			n.Progress = uint(p)
		case "ERRNO":
			e, err := strconv.Atoi(value)
			if err != nil || e < 0 {
				break
			}
			n.Errno = e
			n.HasErrno = true
		}
	}

	return n
}
