// Command sysupdated is the privileged update-coordination daemon: it
// exposes the RMI surface busapi defines over the system bus and drives
// every Job through internal/eventloop's reactor (spec.md §1 Overview).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coreupdate/sysupdated/internal/busapi"
	"github.com/coreupdate/sysupdated/internal/config"
	"github.com/coreupdate/sysupdated/internal/discovery"
	"github.com/coreupdate/sysupdated/internal/eventloop"
	"github.com/coreupdate/sysupdated/internal/policy"
	"github.com/coreupdate/sysupdated/internal/policy/allowall"
	"github.com/coreupdate/sysupdated/internal/policy/polkit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sysupdated:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnvironment()
	usePolkit := true

	root := &cobra.Command{
		Use:   "sysupdated",
		Short: "Coordinates system, portable service, sysext and confext updates over D-Bus",

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg, usePolkit)
		},
	}

	cfg.Flags(root)
	root.Flags().BoolVar(&usePolkit, "polkit", usePolkit, "authorize requests via polkit (disable only for local testing)")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return root.ExecuteContext(ctx)
}

// serve wires together the bus connection, policy client, image discovery
// and event loop, and blocks until ctx is cancelled or the loop's idle
// timeout elapses with no jobs outstanding (spec.md §5).
func serve(ctx context.Context, cfg *config.Config, usePolkit bool) error {
	bus, err := busapi.Connect(cfg.BusAddress)
	if err != nil {
		return fmt.Errorf("connect to bus: %w", err)
	}
	defer bus.Close()

	var policyClient policy.Client = polkit.New(bus.Raw())
	if !usePolkit {
		policyClient = allowall.Client{}
	}

	loop := eventloop.New(cfg, bus, discovery.Filesystem{}, policyClient)

	if err := bus.ExportManager(loop); err != nil {
		return fmt.Errorf("export manager object: %w", err)
	}

	return loop.Run(ctx)
}
