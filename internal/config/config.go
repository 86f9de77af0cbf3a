// Package config collects the daemon's environment- and flag-driven
// settings, grounded on the teacher's internal/config/config.go field
// shape and internal/server/server.go's (*Config).Flags(*cobra.Command)
// registration pattern (spec.md §6 "Configuration knobs").
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

const (
	// DefaultIdleTimeout is the quiescence interval after which the daemon
	// exits once no jobs are outstanding (spec.md §5 "Idle shutdown").
	DefaultIdleTimeout = 5 * time.Second

	// DefaultWorkerPath is used when SYSUPDATED_WORKER_PATH is unset.
	DefaultWorkerPath = "/usr/lib/sysupdate/sysupdate-worker"
)

// Config holds every environment- and flag-derived setting the daemon
// needs at startup.
type Config struct {
	// WorkerPath is the path to the external worker binary invoked for
	// every operation (spec.md §6 "path override for the worker binary").
	WorkerPath string

	// VerifyDisabled, when true, passes --verify=no to the worker
	// (spec.md §6, "a boolean to disable verification", intended for testing).
	VerifyDisabled bool

	// RuntimeDir is the base runtime directory; the notify socket lives at
	// <RuntimeDir>/sysupdate/notify.
	RuntimeDir string

	// IdleTimeout overrides DefaultIdleTimeout.
	IdleTimeout time.Duration

	// BusAddress, if non-empty, connects to this D-Bus address instead of
	// the system bus. Used by tests against a private dbus-daemon.
	BusAddress string
}

// NotifySocketPath returns the well-known absolute notify socket path
// under RuntimeDir (spec.md §6 "Runtime files").
func (c *Config) NotifySocketPath() string {
	return filepath.Join(c.RuntimeDir, "sysupdate", "notify")
}

// FromEnvironment builds a Config from the environment knobs named in
// spec.md §6 plus the SPEC_FULL.md additions, applying defaults for
// anything unset.
func FromEnvironment() *Config {
	cfg := Config{
		WorkerPath:  DefaultWorkerPath,
		RuntimeDir:  defaultRuntimeDir(),
		IdleTimeout: DefaultIdleTimeout,
	}

	if v := os.Getenv("SYSUPDATED_WORKER_PATH"); v != "" {
		cfg.WorkerPath = v
	}
	if v := os.Getenv("SYSUPDATED_VERIFY_NO"); v == "1" || v == "true" {
		cfg.VerifyDisabled = true
	}
	if v := os.Getenv("SYSUPDATED_RUNTIME_DIR"); v != "" {
		cfg.RuntimeDir = v
	}
	if v := os.Getenv("SYSUPDATED_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdleTimeout = d
		}
	}
	cfg.BusAddress = os.Getenv("SYSUPDATED_BUS_ADDRESS")

	return &cfg
}

func defaultRuntimeDir() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return "/run"
}

// Flags registers cobra flags that override whatever FromEnvironment
// already populated, matching the teacher's pattern of config objects
// owning their own flag registration.
func (c *Config) Flags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.WorkerPath, "worker-path", c.WorkerPath, "path to the sysupdate worker binary")
	cmd.Flags().BoolVar(&c.VerifyDisabled, "verify-no", c.VerifyDisabled, "pass --verify=no to the worker (testing only)")
	cmd.Flags().StringVar(&c.RuntimeDir, "runtime-dir", c.RuntimeDir, "base runtime directory for the notify socket")
	cmd.Flags().DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "quiescence interval before exiting when no jobs are outstanding")
	cmd.Flags().StringVar(&c.BusAddress, "bus-address", c.BusAddress, "connect to this D-Bus address instead of the system bus (testing only)")
}
