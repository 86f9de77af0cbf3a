package sysupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetStableID(t *testing.T) {
	host := &Target{Class: ClassHost}
	assert.Equal(t, "host", host.StableID())

	comp := &Target{Class: ClassComponent, Name: "foo"}
	assert.Equal(t, "component:foo", comp.StableID())

	machine := &Target{Class: ClassMachine, Name: "bar"}
	assert.Equal(t, "machine:bar", machine.StableID())
}

func TestTargetSelector(t *testing.T) {
	assert.Nil(t, (&Target{Class: ClassHost}).Selector())

	assert.Equal(t, []string{"--component=foo"}, (&Target{Class: ClassComponent, Name: "foo"}).Selector())

	dir := &Target{Class: ClassSysext, Kind: ImageKindDirectory, Path: "/var/lib/extensions/foo"}
	assert.Equal(t, []string{"--root=/var/lib/extensions/foo"}, dir.Selector())

	raw := &Target{Class: ClassPortable, Kind: ImageKindRaw, Path: "/var/lib/portables/foo.raw"}
	assert.Equal(t, []string{"--image=/var/lib/portables/foo.raw"}, raw.Selector())

	blk := &Target{Class: ClassConfext, Kind: ImageKindBlockDevice, Path: "/dev/sdb1"}
	assert.Equal(t, []string{"--image=/dev/sdb1"}, blk.Selector())

	invalid := &Target{Class: ClassMachine, Kind: ImageKindInvalid, Path: "/nope"}
	assert.Nil(t, invalid.Selector())
}

func TestTargetBusy(t *testing.T) {
	tg := &Target{Class: ClassHost}
	assert.False(t, tg.Busy())
	tg.SetBusy(true)
	assert.True(t, tg.Busy())
	tg.SetBusy(false)
	assert.False(t, tg.Busy())
}
