//go:build !linux

package notifysock

import (
	"errors"
	"net"
)

// SCM_CREDENTIALS is a Linux-specific mechanism; other platforms have no
// portable equivalent exposed by golang.org/x/sys/unix, so peer-credential
// authentication (and therefore the notify receiver itself) is unsupported
// there. This keeps the daemon buildable on non-Linux for development/test
// purposes without silently trusting unauthenticated senders.
var errUnsupportedPlatform = errors.New("notifysock: credential-authenticated datagram sockets require linux")

func enableCredentials(*net.UnixConn) error {
	return errUnsupportedPlatform
}

func (r *Receiver) recvOne() (*Message, error) {
	return nil, errUnsupportedPlatform
}
