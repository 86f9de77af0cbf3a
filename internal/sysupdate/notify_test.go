package sysupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNotificationRoundTrip(t *testing.T) {
	n := ParseNotification([]byte("X_SYSUPDATE_VERSION=1.2\nX_SYSUPDATE_PROGRESS=50\nREADY=1\n"))

	assert.True(t, n.HasVersion)
	assert.Equal(t, "1.2", n.Version)
	assert.True(t, n.HasProgress)
	assert.False(t, n.ProgressInvalid)
	assert.Equal(t, uint(50), n.Progress)
	assert.True(t, n.Ready)
}

func TestParseNotificationProgressOutOfRangeIsDropped(t *testing.T) {
	n := ParseNotification([]byte("X_SYSUPDATE_PROGRESS=101\n"))
	assert.True(t, n.HasProgress)
	assert.True(t, n.ProgressInvalid)
}

func TestParseNotificationProgressUnparseableIsDropped(t *testing.T) {
	n := ParseNotification([]byte("X_SYSUPDATE_PROGRESS=not-a-number\n"))
	assert.True(t, n.HasProgress)
	assert.True(t, n.ProgressInvalid)
}

func TestParseNotificationProgressBoundaryAccepted(t *testing.T) {
	n := ParseNotification([]byte("X_SYSUPDATE_PROGRESS=100\n"))
	assert.False(t, n.ProgressInvalid)
	assert.Equal(t, uint(100), n.Progress)
}

func TestParseNotificationErrno(t *testing.T) {
	n := ParseNotification([]byte("ERRNO=5\n"))
	assert.True(t, n.HasErrno)
	assert.Equal(t, 5, n.Errno)
}

func TestParseNotificationIgnoresUnrecognizedKeys(t *testing.T) {
	n := ParseNotification([]byte("SOME_OTHER_KEY=value\n"))
	assert.False(t, n.Ready)
	assert.False(t, n.HasVersion)
	assert.False(t, n.HasProgress)
	assert.False(t, n.HasErrno)
}

func TestParseNotificationReadyRequiresExactlyOne(t *testing.T) {
	n := ParseNotification([]byte("READY=0\n"))
	assert.False(t, n.Ready)
}

func TestParseNotificationEmptyPayload(t *testing.T) {
	n := ParseNotification(nil)
	assert.False(t, n.Ready)
	assert.False(t, n.HasVersion)
	assert.False(t, n.HasProgress)
	assert.False(t, n.HasErrno)
}
