//go:build linux

package memfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// create uses memfd_create(2) to allocate a file that lives entirely in
// memory but still supports Seek, unlike os.Pipe's in-kernel ring buffer.
func create(name string) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	return os.NewFile(uintptr(fd), name), nil
}
