package busapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

func TestToDBusErrorNilIsNil(t *testing.T) {
	assert.Nil(t, toDBusError(nil))
}

func TestToDBusErrorSentinels(t *testing.T) {
	cases := []struct {
		err  error
		name string
	}{
		{sysupdate.ErrInvalidArgs, errorPrefix + "InvalidArgs"},
		{sysupdate.ErrAuthDenied, errorPrefix + "AuthorizationDenied"},
		{sysupdate.ErrBusy, errorPrefix + "Busy"},
		{sysupdate.ErrNoUpdateCandidate, errorPrefix + "NoUpdateCandidate"},
		{sysupdate.ErrJobNotFound, errorPrefix + "JobNotFound"},
		{sysupdate.ErrTargetNotFound, errorPrefix + "TargetNotFound"},
		{&sysupdate.ProtocolError{Reason: "bad json"}, errorPrefix + "Protocol"},
		{&sysupdate.SignalError{Signal: "SIGSEGV"}, errorPrefix + "Signalled"},
		{&sysupdate.ExitError{Code: 3}, errorPrefix + "ExitCode"},
		{&sysupdate.ErrnoError{Errno: 5}, errorPrefix + "Errno"},
	}
	for _, tc := range cases {
		derr := toDBusError(tc.err)
		if assert.NotNil(t, derr) {
			assert.Equal(t, tc.name, derr.Name)
		}
	}
}
