package busapi

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/coreupdate/sysupdated/internal/busid"
)

// BusName is the well-known bus name this daemon requests.
const BusName = busid.Interface

// Conn owns the bus connection and the set of dynamically exported Target
// and Job objects. It is not safe for concurrent use from multiple
// goroutines beyond what godbus itself serializes internally; callers
// (the event loop) own it exclusively, mirroring spec.md §5's
// single-goroutine-owns-state discipline.
type Conn struct {
	raw *dbus.Conn
}

// Connect dials the given bus address (empty means the system bus) and
// requests BusName, following
// other_examples/669ad9a7_nikicat-secrets-dispatcher__internal-daemon-daemon.go.go's
// connect/RequestName sequence.
func Connect(address string) (*Conn, error) {
	var raw *dbus.Conn
	var err error
	if address == "" {
		raw, err = dbus.ConnectSystemBus()
	} else {
		raw, err = dbus.Connect(address)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to bus: %w", err)
	}

	reply, err := raw.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("request bus name %q: %w", BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		raw.Close()
		return nil, fmt.Errorf("not primary owner of %q (reply=%d)", BusName, reply)
	}

	slog.Info("acquired bus name", "name", BusName)
	return &Conn{raw: raw}, nil
}

// Close releases the bus connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// Raw returns the underlying *dbus.Conn, for collaborators (the polkit
// client) that need to make their own bus calls.
func (c *Conn) Raw() *dbus.Conn {
	return c.raw
}

// export exports obj at path implementing iface, plus an Introspectable
// covering that single interface — matching the reference daemon's
// "always export Introspectable, busctl introspect gives opaque errors
// otherwise" comment.
func export(raw *dbus.Conn, obj interface{}, path dbus.ObjectPath, iface string) error {
	if err := raw.Export(obj, path, iface); err != nil {
		return fmt.Errorf("export %s at %s: %w", iface, path, err)
	}

	node := &introspect.Node{
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: iface, Methods: introspect.Methods(obj)},
		},
	}
	if err := raw.Export(introspect.NewIntrospectable(node), path, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspectable at %s: %w", path, err)
	}
	return nil
}

func unexport(raw *dbus.Conn, path dbus.ObjectPath, iface string) {
	_ = raw.Export(nil, path, iface)
	_ = raw.Export(nil, path, "org.freedesktop.DBus.Introspectable")
}
