//go:build !linux
// +build !linux

package disk

import (
	"golang.org/x/sys/unix"
)

func blockGeometry(fd int) (uint64, uint64, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return 0, 0, err
	}
	return uint64(stat.Size), DefaultIoSize, nil
}
