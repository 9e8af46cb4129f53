//go:build unix

package load

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the contents of f read-only. Empty files and files that cannot
// be mapped are read into memory instead.
func mapFile(f *os.File) ([]byte, func() error, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size <= 0 || int64(int(size)) != size || !info.Mode().IsRegular() {
		return readAll(f)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readAll(f)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
