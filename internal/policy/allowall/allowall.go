// Package allowall provides a policy.Client test double that authorizes
// every request, for unit tests that exercise Manager/event-loop logic
// without a live polkit bus.
package allowall

import (
	"context"

	"github.com/coreupdate/sysupdated/internal/policy"
)

// Client always returns policy.Allow.
type Client struct{}

var _ policy.Client = Client{}

// CheckAuthorization implements policy.Client.
func (Client) CheckAuthorization(_ context.Context, _, _ string, _ policy.Details) (policy.Result, error) {
	return policy.Allow, nil
}
