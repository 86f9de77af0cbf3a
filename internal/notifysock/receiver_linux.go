//go:build linux

package notifysock

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// enableCredentials turns on SO_PASSCRED so every datagram arrives with an
// SCM_CREDENTIALS ancillary message carrying the sender's verified pid/uid/gid
// (spec.md §4.2: "peer credentials are required"). net.UnixConn has no
// portable API for this sockopt, so golang.org/x/sys/unix is used to reach
// the underlying fd, same dependency family the teacher already reaches for
// via "syscall" in its platform-specific files.
func enableCredentials(conn *net.UnixConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_PASSCRED, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// maxAncillaryFDs bounds how many SCM_RIGHTS file descriptors a single
// datagram's oob buffer can hold. Workers never legitimately pass fds over
// this socket; this only needs to be large enough that a hostile or
// misbehaving sender's rights aren't silently truncated before they can be
// closed.
const maxAncillaryFDs = 16

// recvOne reads one datagram with its ancillary credentials, applying
// spec.md §4.2 steps 2-4. It returns (nil, nil) for a datagram that was
// validly received but should be dropped. Any ancillary file descriptors
// the sender attached (SCM_RIGHTS) are always closed before returning,
// whether or not the datagram is otherwise accepted.
func (r *Receiver) recvOne() (*Message, error) {
	buf := make([]byte, maxDatagram)
	oob := make([]byte, unix.CmsgSpace(unix.SizeofUcred)+unix.CmsgSpace(maxAncillaryFDs*4))

	n, oobn, flags, _, err := r.conn.ReadMsgUnix(buf, oob)
	if err != nil {
		return nil, err
	}

	cred, fds, err := parseControlMessages(oob[:oobn])
	closeFDs(fds)
	if err != nil {
		return nil, nil
	}

	if flags&unix.MSG_TRUNC != 0 {
		// length was truncated: drop
		return nil, nil
	}

	if cred == nil || cred.Pid <= 0 {
		// lacking credentials: drop
		return nil, nil
	}

	payload := make([]byte, n)
	copy(payload, buf[:n])

	return &Message{PID: cred.Pid, Payload: payload}, nil
}

// parseControlMessages scans every control message in oob, per spec.md
// §4.2 step 1 ("close any ancillary fds"): it extracts the SCM_CREDENTIALS
// sender credentials and collects the fds of any SCM_RIGHTS message so the
// caller can close them, instead of only looking at the first message and
// leaking whatever else the sender attached.
func parseControlMessages(oob []byte) (*unix.Ucred, []int, error) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, nil, fmt.Errorf("parse control message: %w", err)
	}

	var cred *unix.Ucred
	var fds []int
	for _, m := range msgs {
		if m.Header.Level != unix.SOL_SOCKET {
			continue
		}
		switch m.Header.Type {
		case unix.SCM_CREDENTIALS:
			if cred == nil {
				cred, err = unix.ParseUnixCredentials(&m)
				if err != nil {
					cred = nil
				}
			}
		case unix.SCM_RIGHTS:
			rights, err := unix.ParseUnixRights(&m)
			if err == nil {
				fds = append(fds, rights...)
			}
		}
	}

	return cred, fds, nil
}

func closeFDs(fds []int) {
	for _, fd := range fds {
		_ = unix.Close(fd)
	}
}
