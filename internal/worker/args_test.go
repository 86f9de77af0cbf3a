package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

func TestBuildArgsHostList(t *testing.T) {
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	args := buildArgs(false, host, false, sysupdate.TypeList, "")
	assert.Equal(t, []string{"--json=short", "list"}, args)
}

func TestBuildArgsComponentDescribe(t *testing.T) {
	tgt := &sysupdate.Target{Class: sysupdate.ClassComponent, Name: "foo"}
	args := buildArgs(false, tgt, false, sysupdate.TypeDescribe, "1.2.3")
	assert.Equal(t, []string{"--json=short", "--component=foo", "list", "1.2.3"}, args)
}

func TestBuildArgsUpdateLatest(t *testing.T) {
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	args := buildArgs(false, host, false, sysupdate.TypeUpdate, "")
	assert.Equal(t, []string{"--json=short", "update"}, args)
}

func TestBuildArgsUpdateVersion(t *testing.T) {
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	args := buildArgs(false, host, false, sysupdate.TypeUpdate, "9.9")
	assert.Equal(t, []string{"--json=short", "update", "9.9"}, args)
}

func TestBuildArgsVerifyAndOffline(t *testing.T) {
	host := &sysupdate.Target{Class: sysupdate.ClassHost}
	args := buildArgs(true, host, true, sysupdate.TypeVacuum, "")
	assert.Equal(t, []string{"--json=short", "--verify=no", "--offline", "vacuum"}, args)
}

func TestBuildArgsImageSelector(t *testing.T) {
	img := &sysupdate.Target{Class: sysupdate.ClassPortable, Kind: sysupdate.ImageKindRaw, Path: "/var/lib/portables/foo.raw"}
	args := buildArgs(false, img, false, sysupdate.TypeCheckNew, "")
	assert.Equal(t, []string{"--json=short", "--image=/var/lib/portables/foo.raw", "check-new"}, args)
}
