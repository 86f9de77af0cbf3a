package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvironmentDefaults(t *testing.T) {
	t.Setenv("SYSUPDATED_WORKER_PATH", "")
	t.Setenv("SYSUPDATED_VERIFY_NO", "")
	t.Setenv("SYSUPDATED_RUNTIME_DIR", "")
	t.Setenv("SYSUPDATED_IDLE_TIMEOUT", "")
	t.Setenv("SYSUPDATED_BUS_ADDRESS", "")
	t.Setenv("XDG_RUNTIME_DIR", "")

	cfg := FromEnvironment()
	assert.Equal(t, DefaultWorkerPath, cfg.WorkerPath)
	assert.False(t, cfg.VerifyDisabled)
	assert.Equal(t, "/run", cfg.RuntimeDir)
	assert.Equal(t, DefaultIdleTimeout, cfg.IdleTimeout)
	assert.Equal(t, "/run/sysupdate/notify", cfg.NotifySocketPath())
}

func TestFromEnvironmentOverrides(t *testing.T) {
	t.Setenv("SYSUPDATED_WORKER_PATH", "/opt/worker")
	t.Setenv("SYSUPDATED_VERIFY_NO", "1")
	t.Setenv("SYSUPDATED_RUNTIME_DIR", "/tmp/rt")
	t.Setenv("SYSUPDATED_IDLE_TIMEOUT", "10s")
	t.Setenv("SYSUPDATED_BUS_ADDRESS", "unix:path=/tmp/bus")
	t.Setenv("XDG_RUNTIME_DIR", "")

	cfg := FromEnvironment()
	assert.Equal(t, "/opt/worker", cfg.WorkerPath)
	assert.True(t, cfg.VerifyDisabled)
	assert.Equal(t, "/tmp/rt", cfg.RuntimeDir)
	assert.Equal(t, 10*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "unix:path=/tmp/bus", cfg.BusAddress)
}

func TestDefaultRuntimeDirPrefersXDG(t *testing.T) {
	t.Setenv("SYSUPDATED_RUNTIME_DIR", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg := FromEnvironment()
	assert.Equal(t, "/run/user/1000", cfg.RuntimeDir)
}
