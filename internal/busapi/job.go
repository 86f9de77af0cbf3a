package busapi

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/coreupdate/sysupdated/internal/busid"
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// JobHandler supplies the domain logic behind a Job object's Cancel
// method; internal/eventloop's Loop implements this.
type JobHandler interface {
	Cancel(j *sysupdate.Job, sender string) error
}

type jobObject struct {
	job     *sysupdate.Job
	handler JobHandler
}

func (o *jobObject) Cancel(sender dbus.Sender) *dbus.Error {
	return toDBusError(o.handler.Cancel(o.job, string(sender)))
}

// ExportJob exports a Job object at its bus path, with read-only
// Id/Type/Offline properties and a change-notifying Progress property
// (spec.md §6).
func (c *Conn) ExportJob(j *sysupdate.Job, handler JobHandler) (dbus.ObjectPath, *prop.Properties, error) {
	path := dbus.ObjectPath(busid.JobPath(j.ID.ObjectPathSuffix()))
	obj := &jobObject{job: j, handler: handler}

	if err := export(c.raw, obj, path, busid.Interface); err != nil {
		return "", nil, err
	}

	props := prop.Map{
		busid.Interface: {
			"Id":       {Value: uint64(j.ID), Writable: false, Emit: prop.EmitFalse},
			"Type":     {Value: j.Type.String(), Writable: false, Emit: prop.EmitFalse},
			"Offline":  {Value: j.Offline, Writable: false, Emit: prop.EmitFalse},
			"Progress": {Value: uint32(j.Progress()), Writable: false, Emit: prop.EmitTrue},
		},
	}
	p, err := prop.Export(c.raw, path, props)
	if err != nil {
		return "", nil, err
	}

	return path, p, nil
}

// UnexportJob removes a previously exported Job object, called by the
// event loop once a job has been destroyed (spec.md §4.1 step 7).
func (c *Conn) UnexportJob(j *sysupdate.Job) {
	path := dbus.ObjectPath(busid.JobPath(j.ID.ObjectPathSuffix()))
	unexport(c.raw, path, busid.Interface)
	unexport(c.raw, path, "org.freedesktop.DBus.Properties")
}

// EmitProgressChanged notifies bus subscribers of a new Progress value,
// via the *prop.Properties handle returned from ExportJob.
func EmitProgressChanged(p *prop.Properties, progress uint) {
	p.SetMust(busid.Interface, "Progress", uint32(progress))
}
