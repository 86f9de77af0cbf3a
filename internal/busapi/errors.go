// Package busapi exposes the Manager/Target/Job object tree on the system
// bus (spec.md §6), using godbus/dbus/v5 the way
// other_examples/669ad9a7_nikicat-secrets-dispatcher__internal-daemon-daemon.go.go
// connects, exports and names a bus object. Domain code in
// internal/sysupdate and internal/eventloop never imports godbus/dbus;
// errors.go is the one boundary that translates sysupdate's typed errors
// into dbus.Error, mirroring the teacher's separation of gRPC status
// construction into internal/server alone.
package busapi

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

const errorPrefix = "org.freedesktop.sysupdate1.Error."

// toDBusError maps a domain error to a *dbus.Error for an exported method
// reply. A nil err yields a nil *dbus.Error (success).
func toDBusError(err error) *dbus.Error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sysupdate.ErrInvalidArgs):
		return dbus.NewError(errorPrefix+"InvalidArgs", []interface{}{err.Error()})
	case errors.Is(err, sysupdate.ErrAuthDenied):
		return dbus.NewError(errorPrefix+"AuthorizationDenied", []interface{}{err.Error()})
	case errors.Is(err, sysupdate.ErrBusy):
		return dbus.NewError(errorPrefix+"Busy", []interface{}{err.Error()})
	case errors.Is(err, sysupdate.ErrNoUpdateCandidate):
		return dbus.NewError(errorPrefix+"NoUpdateCandidate", []interface{}{err.Error()})
	case errors.Is(err, sysupdate.ErrJobNotFound):
		return dbus.NewError(errorPrefix+"JobNotFound", []interface{}{err.Error()})
	case errors.Is(err, sysupdate.ErrTargetNotFound):
		return dbus.NewError(errorPrefix+"TargetNotFound", []interface{}{err.Error()})
	}

	var protoErr *sysupdate.ProtocolError
	if errors.As(err, &protoErr) {
		return dbus.NewError(errorPrefix+"Protocol", []interface{}{protoErr.Error()})
	}
	var sigErr *sysupdate.SignalError
	if errors.As(err, &sigErr) {
		return dbus.NewError(errorPrefix+"Signalled", []interface{}{sigErr.Error()})
	}
	var exitErr *sysupdate.ExitError
	if errors.As(err, &exitErr) {
		return dbus.NewError(errorPrefix+"ExitCode", []interface{}{exitErr.Error()})
	}
	var errnoErr *sysupdate.ErrnoError
	if errors.As(err, &errnoErr) {
		return dbus.NewError(errorPrefix+"Errno", []interface{}{errnoErr.Error()})
	}

	return dbus.NewError(errorPrefix+"Failed", []interface{}{err.Error()})
}
