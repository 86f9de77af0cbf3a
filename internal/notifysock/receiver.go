// Package notifysock implements the notify receiver from spec.md §4.2: a
// single datagram socket, bound at a well-known path, that receives
// progress/status messages from all live workers, demultiplexed by the
// sender's credential-verified PID.
package notifysock

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
)

// Message is one validated datagram: a worker's PID (taken from kernel
// credentials, never from application data) and its raw payload.
type Message struct {
	PID     int32
	Payload []byte
}

// maxDatagram bounds a single read; workers are expected to emit few, small
// lines (spec.md §4.2), so this is generous headroom, not a protocol limit.
const maxDatagram = 16 * 1024

// Receiver is a bound, credential-authenticated Unix datagram socket.
type Receiver struct {
	conn *net.UnixConn
	path string
}

// Listen removes any stale socket file at path, binds a new SOCK_DGRAM
// socket there with peer credential passing enabled, and returns a Receiver
// ready to have Run called on it.
func Listen(path string) (*Receiver, error) {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return nil, err
	}

	// A previous, uncleanly-terminated daemon may have left the socket file
	// behind; binding would otherwise fail with "address already in use".
	_ = os.Remove(path)

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		return nil, err
	}

	if err := enableCredentials(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Receiver{conn: conn, path: path}, nil
}

// Path returns the bound socket path.
func (r *Receiver) Path() string {
	return r.path
}

// Close closes the socket and removes the socket file.
func (r *Receiver) Close() error {
	err := r.conn.Close()
	_ = os.Remove(r.path)
	return err
}

// Run reads datagrams until ctx is done or the socket is closed, applying
// spec.md §4.2 steps 2-4 (drop truncated, drop uncredentialed, drop
// non-positive PID) before delivering the rest to out. It is meant to run
// in its own goroutine; out is read exclusively by the single event-loop
// goroutine per spec.md §5, so Run never mutates daemon state directly.
func (r *Receiver) Run(ctx context.Context, out chan<- Message) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := r.recvOne()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// transient receive errors are ignored per spec.md §4.2
			slog.Warn("notify socket receive error", "err", err)
			continue
		}
		if msg == nil {
			// datagram was dropped per validation rules
			continue
		}

		select {
		case out <- *msg:
		case <-ctx.Done():
			return
		}
	}
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
