package busapi

import (
	"github.com/godbus/dbus/v5"

	"github.com/coreupdate/sysupdated/internal/busid"
)

// TargetSummary is one row of Manager.ListTargets's reply.
type TargetSummary struct {
	Class string
	Name  string
	Path  string
}

// JobSummary is one row of Manager.ListJobs's reply.
type JobSummary struct {
	Id       uint64
	Type     string
	Progress uint32
	Path     dbus.ObjectPath
}

// ManagerHandler supplies the domain logic behind the Manager object's
// methods; internal/eventloop's Loop implements this.
type ManagerHandler interface {
	ListTargets() ([]TargetSummary, error)
	ListJobs() ([]JobSummary, error)
	ListAppStream() ([]string, error)
}

type managerObject struct {
	handler ManagerHandler
}

func (m *managerObject) ListTargets() ([]TargetSummary, *dbus.Error) {
	targets, err := m.handler.ListTargets()
	return targets, toDBusError(err)
}

func (m *managerObject) ListJobs() ([]JobSummary, *dbus.Error) {
	jobs, err := m.handler.ListJobs()
	return jobs, toDBusError(err)
}

func (m *managerObject) ListAppStream() ([]string, *dbus.Error) {
	urls, err := m.handler.ListAppStream()
	return urls, toDBusError(err)
}

// ExportManager exports the singleton Manager object at busid.ManagerPath.
func (c *Conn) ExportManager(handler ManagerHandler) error {
	return export(c.raw, &managerObject{handler: handler}, busid.ManagerPath, busid.Interface)
}

// EmitJobRemoved emits the Manager.JobRemoved signal (spec.md §4.1 step 5).
func (c *Conn) EmitJobRemoved(id uint64, path dbus.ObjectPath, status int32) error {
	return c.raw.Emit(busid.ManagerPath, busid.Interface+".JobRemoved", id, path, status)
}
