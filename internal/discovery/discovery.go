// Package discovery models the out-of-scope filesystem image-discovery
// call (spec.md §1 "OUT OF SCOPE", §4.3) as a narrow interface so the
// registry's rebuild sequence can be exercised in tests without touching
// a real filesystem.
package discovery

import (
	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// Image is one filesystem-discovered update image, prior to the
// "does it have a default component" worker query that decides whether
// it becomes a Target (spec.md §4.3 step 1).
type Image struct {
	Name string
	Path string
	Kind sysupdate.ImageKind
}

// ImageLister enumerates discovered images of one class. Classes other
// than host/component are always image classes (machine, portable,
// sysext, confext); host and component targets come from the worker's
// own `components` query (spec.md §4.3 step 2), not from ImageLister.
type ImageLister interface {
	ListImages(class sysupdate.Class) ([]Image, error)
}

// ImageClasses are the classes enumerated via ImageLister, in the order
// spec.md §4.3 step 1 lists them.
var ImageClasses = []sysupdate.Class{
	sysupdate.ClassMachine,
	sysupdate.ClassPortable,
	sysupdate.ClassSysext,
	sysupdate.ClassConfext,
}
