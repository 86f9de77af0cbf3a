package busapi

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/coreupdate/sysupdated/internal/busid"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// TargetHandler supplies the domain logic behind one Target object's
// methods; internal/eventloop's Loop implements this. sender is the
// RMI caller's bus name, threaded through for the policy gate
// (internal/policy.Client.CheckAuthorization).
type TargetHandler interface {
	List(t *sysupdate.Target, flags uint64, sender string) ([]string, error)
	Describe(t *sysupdate.Target, version string, flags uint64, sender string) (string, error)
	CheckNew(t *sysupdate.Target, sender string) (string, error)
	Update(t *sysupdate.Target, version string, flags uint64, sender string) (string, uint64, dbus.ObjectPath, error)
	Vacuum(t *sysupdate.Target, sender string) (uint32, error)
	GetAppStream(t *sysupdate.Target, sender string) ([]string, error)
	GetVersion(t *sysupdate.Target, sender string) (string, error)
}

type targetObject struct {
	target  *sysupdate.Target
	handler TargetHandler
}

func (o *targetObject) List(flags uint64, sender dbus.Sender) ([]string, *dbus.Error) {
	versions, err := o.handler.List(o.target, flags, string(sender))
	return versions, toDBusError(err)
}

func (o *targetObject) Describe(version string, flags uint64, sender dbus.Sender) (string, *dbus.Error) {
	doc, err := o.handler.Describe(o.target, version, flags, string(sender))
	return doc, toDBusError(err)
}

func (o *targetObject) CheckNew(sender dbus.Sender) (string, *dbus.Error) {
	version, err := o.handler.CheckNew(o.target, string(sender))
	return version, toDBusError(err)
}

func (o *targetObject) Update(version string, flags uint64, sender dbus.Sender) (string, uint64, dbus.ObjectPath, *dbus.Error) {
	selected, id, path, err := o.handler.Update(o.target, version, flags, string(sender))
	return selected, id, path, toDBusError(err)
}

func (o *targetObject) Vacuum(sender dbus.Sender) (uint32, *dbus.Error) {
	removed, err := o.handler.Vacuum(o.target, string(sender))
	return removed, toDBusError(err)
}

func (o *targetObject) GetAppStream(sender dbus.Sender) ([]string, *dbus.Error) {
	urls, err := o.handler.GetAppStream(o.target, string(sender))
	return urls, toDBusError(err)
}

func (o *targetObject) GetVersion(sender dbus.Sender) (string, *dbus.Error) {
	v, err := o.handler.GetVersion(o.target, string(sender))
	return v, toDBusError(err)
}

// ExportTarget exports a Target object at its escaped bus path, with
// read-only Class/Name/Path properties via godbus's prop helper package
// (spec.md §6: "read-only properties Class, Name, Path").
func (c *Conn) ExportTarget(t *sysupdate.Target, handler TargetHandler) (dbus.ObjectPath, error) {
	path := dbus.ObjectPath(busid.TargetPath(t.StableID()))
	obj := &targetObject{target: t, handler: handler}

	if err := export(c.raw, obj, path, busid.Interface); err != nil {
		return "", err
	}

	props := prop.Map{
		busid.Interface: {
			"Class": {Value: t.Class.String(), Writable: false, Emit: prop.EmitFalse},
			"Name":  {Value: t.Name, Writable: false, Emit: prop.EmitFalse},
			"Path":  {Value: t.Path, Writable: false, Emit: prop.EmitFalse},
		},
	}
	if _, err := prop.Export(c.raw, path, props); err != nil {
		return "", err
	}

	return path, nil
}

// UnexportTarget removes a previously exported Target object, called when
// the Target registry is flushed (spec.md §4.3/§9 idle quiescence).
func (c *Conn) UnexportTarget(t *sysupdate.Target) {
	path := dbus.ObjectPath(busid.TargetPath(t.StableID()))
	unexport(c.raw, path, busid.Interface)
	unexport(c.raw, path, "org.freedesktop.DBus.Properties")
}
