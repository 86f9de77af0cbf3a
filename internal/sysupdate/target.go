package sysupdate

import "fmt"

// Class identifies the kind of entity a Target represents.
type Class int

const (
	ClassHost Class = iota
	ClassComponent
	ClassMachine
	ClassPortable
	ClassSysext
	ClassConfext
)

func (c Class) String() string {
	switch c {
	case ClassHost:
		return "host"
	case ClassComponent:
		return "component"
	case ClassMachine:
		return "machine"
	case ClassPortable:
		return "portable"
	case ClassSysext:
		return "sysext"
	case ClassConfext:
		return "confext"
	default:
		return "unknown"
	}
}

// ImageKind describes the on-disk layout of an image-class Target. It is only
// meaningful when Class is one of machine, portable, sysext or confext.
type ImageKind int

const (
	ImageKindInvalid ImageKind = iota
	ImageKindDirectory
	ImageKindSubvolume
	ImageKindRaw
	ImageKindBlockDevice
)

func (k ImageKind) String() string {
	switch k {
	case ImageKindDirectory:
		return "directory"
	case ImageKindSubvolume:
		return "subvolume"
	case ImageKindRaw:
		return "raw"
	case ImageKindBlockDevice:
		return "block"
	default:
		return "invalid"
	}
}

// Target is one updatable entity: the host, a component sub-tree of the
// host, or a discovered image.
type Target struct {
	Class Class
	Name  string
	Path  string
	Kind  ImageKind

	// busy is true while a mutating job (update or vacuum) is running
	// against this target. It is the only field mutated after creation.
	busy bool
}

// HostStableID is the fixed stable id of the host target.
const HostStableID = "host"

// StableID returns the identifier that is unique within a Registry. The host
// target always has id "host"; every other target has id "<class>:<name>".
func (t *Target) StableID() string {
	if t.Class == ClassHost {
		return HostStableID
	}
	return fmt.Sprintf("%s:%s", t.Class, t.Name)
}

// Busy reports whether a mutating job currently runs against this target.
func (t *Target) Busy() bool {
	return t.busy
}

// SetBusy is called by the event loop when a mutating job starts or ends.
func (t *Target) SetBusy(busy bool) {
	t.busy = busy
}

// Selector returns the worker command-line selector argument for this
// target: absent for the host, --component=<name> for component targets,
// --root=<path> for directory/subvolume images, --image=<path> for raw
// file/block device images.
func (t *Target) Selector() []string {
	switch t.Class {
	case ClassHost:
		return nil
	case ClassComponent:
		return []string{"--component=" + t.Name}
	default:
		switch t.Kind {
		case ImageKindDirectory, ImageKindSubvolume:
			return []string{"--root=" + t.Path}
		case ImageKindRaw, ImageKindBlockDevice:
			return []string{"--image=" + t.Path}
		default:
			return nil
		}
	}
}
