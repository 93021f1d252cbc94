//go:build linux
// +build linux

package disk

import (
	"golang.org/x/sys/unix"
)

func blockGeometry(fd int) (uint64, uint64, error) {
	size, err := unix.IoctlGetInt(fd, unix.BLKGETSIZE64)
	if err != nil {
		return 0, 0, err
	}
	ioSz, err := unix.IoctlGetInt(fd, unix.BLKSSZGET)
	if err != nil {
		return 0, 0, err
	}
	return uint64(size), uint64(ioSz), nil
}
