package eventloop

import (
	"log/slog"

	"github.com/coreupdate/sysupdated/internal/discovery"
	"github.com/coreupdate/sysupdated/internal/registry"
)

// rebuildTargets wraps registry.Rebuild with the logging the loop wants
// on a failed discovery pass (the registry is simply left empty and
// retried on the next ensureTargets call).
func rebuildTargets(lister discovery.ImageLister, sync registry.ComponentsRunner) (*registry.Targets, error) {
	targets, err := registry.Rebuild(lister, sync)
	if err != nil {
		slog.Warn("target discovery failed", "err", err)
		return nil, err
	}
	return targets, nil
}
