package worker

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

func fakeWorkerScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("fake worker script requires a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fake-worker.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func TestInvokerSpawnCapturesStdout(t *testing.T) {
	path := fakeWorkerScript(t, `echo '{"all":["1.0","2.0"]}'`)

	inv := New(path, false, filepath.Join(t.TempDir(), "notify"))

	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	j := sysupdate.NewJob(1, sysupdate.TypeList, host, "", false)

	require.NoError(t, inv.Spawn(j))

	select {
	case <-j.Done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker to exit")
	}

	require.NoError(t, j.WaitErr)

	_, err := j.Stdout.Seek(0, io.SeekStart)
	require.NoError(t, err)

	data, err := io.ReadAll(j.Stdout)
	require.NoError(t, err)
	require.JSONEq(t, `{"all":["1.0","2.0"]}`, string(data))
}

func TestInvokerSpawnPropagatesNotifySocketEnv(t *testing.T) {
	path := fakeWorkerScript(t, `printenv NOTIFY_SOCKET`)

	notifyPath := filepath.Join(t.TempDir(), "notify")
	inv := New(path, false, notifyPath)

	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	j := sysupdate.NewJob(1, sysupdate.TypeList, host, "", false)

	require.NoError(t, inv.Spawn(j))

	select {
	case <-j.Done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker to exit")
	}

	_, err := j.Stdout.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(j.Stdout)
	require.NoError(t, err)
	require.Equal(t, notifyPath+"\n", string(data))
}
