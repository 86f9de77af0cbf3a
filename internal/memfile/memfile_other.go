//go:build !linux

package memfile

import "os"

// create falls back to a temp file that is unlinked immediately after
// opening, so it still behaves like an anonymous file (no directory entry
// survives it) while remaining seekable on platforms without memfd_create.
func create(name string) (*os.File, error) {
	f, err := os.CreateTemp("", name+"-*")
	if err != nil {
		return nil, err
	}
	_ = os.Remove(f.Name())
	return f, nil
}
