package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/coreupdate/sysupdated/internal/sysupdate"
)

// searchPaths lists the directories scanned for each image class, mirroring
// the well-known systemd runtime/state directory conventions for machine
// images, portable service images and system/configuration extensions.
// Actual image-format interpretation (raw vs. subvolume vs. directory vs.
// block device) is the out-of-scope discovery logic spec.md §1 names as an
// external collaborator; this default implementation is intentionally
// simple so most real deployments will want to supply their own
// ImageLister instead.
var searchPaths = map[sysupdate.Class][]string{
	sysupdate.ClassMachine:  {"/var/lib/machines"},
	sysupdate.ClassPortable: {"/var/lib/portables", "/etc/portables"},
	sysupdate.ClassSysext:   {"/var/lib/extensions", "/etc/extensions", "/usr/lib/extensions"},
	sysupdate.ClassConfext:  {"/var/lib/confexts", "/etc/confexts", "/usr/lib/confexts"},
}

// Filesystem is the default ImageLister: it scans the conventional
// directories for each image class and classifies entries by suffix
// (".raw" files are raw images, ".img" names block-device-backed images,
// other directories are directory images, and anything else is
// ImageKindInvalid). Subvolumes are reported as directories: telling the
// two apart requires a btrfs-specific syscall this package does not make.
type Filesystem struct{}

var _ ImageLister = Filesystem{}

// ListImages implements ImageLister.
func (Filesystem) ListImages(class sysupdate.Class) ([]Image, error) {
	var out []Image
	for _, dir := range searchPaths[class] {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(dir, name)
			out = append(out, Image{
				Name: strings.TrimSuffix(strings.TrimSuffix(name, ".raw"), ".img"),
				Path: path,
				Kind: classify(name, entry),
			})
		}
	}
	return out, nil
}

func classify(name string, entry os.DirEntry) sysupdate.ImageKind {
	switch {
	case strings.HasSuffix(name, ".raw"):
		return sysupdate.ImageKindRaw
	case strings.HasSuffix(name, ".img"):
		return sysupdate.ImageKindBlockDevice
	case entry.IsDir():
		return sysupdate.ImageKindDirectory
	default:
		return sysupdate.ImageKindInvalid
	}
}
