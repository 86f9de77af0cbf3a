// Package polkit implements policy.Client as a thin proxy to the
// well-known org.freedesktop.PolicyKit1.Authority bus object, grounded on
// the connect/Object/Call idiom in
// other_examples/669ad9a7_nikicat-secrets-dispatcher__internal-daemon-daemon.go.go
// (itself built on github.com/godbus/dbus/v5). The actual authorization
// decision is made entirely by polkit/the external policy service, per
// spec.md §1 Non-goals; this package only speaks its wire protocol.
package polkit

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/coreupdate/sysupdated/internal/policy"
)

const (
	busName    = "org.freedesktop.PolicyKit1"
	objectPath = "/org/freedesktop/PolicyKit1/Authority"
	ifaceName  = busName + ".Authority"
	methodName = ifaceName + ".CheckAuthorization"
)

// checkAuthorizationFlags requests that polkit allow interactive
// authentication dialogs; if one is required but none can be shown, polkit
// reports "not authorized" without a challenge and the caller gets Deny.
const checkAuthorizationFlags = 0x1

// authResult mirrors polkit's CheckAuthorization reply struct:
// (is_authorized b, is_challenge b, details a{ss}).
type authResult struct {
	IsAuthorized bool
	IsChallenge  bool
	Details      map[string]string
}

// Client talks to polkit over an existing bus connection.
type Client struct {
	conn *dbus.Conn
}

// New wraps an already-connected *dbus.Conn (typically the same connection
// the bus surface uses to export Manager/Target/Job).
func New(conn *dbus.Conn) *Client {
	return &Client{conn: conn}
}

var _ policy.Client = (*Client)(nil)

// subject is polkit's "system-bus-name" subject kind: (kind s, details a{sv}).
type subject struct {
	Kind    string
	Details map[string]dbus.Variant
}

// CheckAuthorization implements policy.Client.
func (c *Client) CheckAuthorization(ctx context.Context, sender, action string, details policy.Details) (policy.Result, error) {
	subj := subject{
		Kind: "system-bus-name",
		Details: map[string]dbus.Variant{
			"name": dbus.MakeVariant(sender),
		},
	}

	obj := c.conn.Object(busName, dbus.ObjectPath(objectPath))

	var res authResult
	call := obj.CallWithContext(ctx, methodName, 0,
		subj, action, details.Map(), uint32(checkAuthorizationFlags), "")
	if call.Err != nil {
		return policy.Deny, fmt.Errorf("polkit CheckAuthorization: %w", call.Err)
	}
	if err := call.Store(&res); err != nil {
		return policy.Deny, fmt.Errorf("polkit CheckAuthorization: decode reply: %w", err)
	}

	switch {
	case res.IsAuthorized:
		return policy.Allow, nil
	case res.IsChallenge:
		return policy.Challenge, nil
	default:
		return policy.Deny, nil
	}
}
