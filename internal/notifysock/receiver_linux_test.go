//go:build linux

package notifysock

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReceiverRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notify")

	r, err := Listen(path)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Message, 1)
	go r.Run(ctx, out)

	client, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: path, Net: "unixgram"})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("READY=1\n"))
	require.NoError(t, err)

	select {
	case msg := <-out:
		require.Equal(t, int32(os.Getpid()), msg.PID)
		require.Equal(t, "READY=1\n", string(msg.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notify datagram")
	}
}
