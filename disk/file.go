package disk

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var _ Device = (*FileDevice)(nil)

// FileDevice is a device backed by a disk image file or a block special file.
type FileDevice struct {
	fd  int
	cur cursor
}

// Open opens an existing image or block device. Regular files use
// DefaultIoSize; block devices report their own geometry.
func Open(path string) (*FileDevice, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening device `%s`: %w", path, err)
	}
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat device `%s`: %w", path, err)
	}
	size, ioSz := uint64(stat.Size), DefaultIoSize
	if stat.Mode&unix.S_IFMT == unix.S_IFBLK {
		size, ioSz, err = blockGeometry(fd)
		if err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("querying geometry of `%s`: %w", path, err)
		}
	}
	size = size / ioSz * ioSz
	return &FileDevice{
		fd:  fd,
		cur: cursor{size: int64(size), ioSz: int64(ioSz)},
	}, nil
}

// Create makes (or resizes) a disk image of size bytes and opens it.
func Create(path string, size uint64) (*FileDevice, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0666)
	if err != nil {
		return nil, fmt.Errorf("creating image `%s`: %w", path, err)
	}
	err = unix.Ftruncate(fd, int64(size))
	unix.Close(fd)
	if err != nil {
		return nil, fmt.Errorf("sizing image `%s`: %w", path, err)
	}
	return Open(path)
}

func (d *FileDevice) Seek(off int64, whence int) (int64, error) {
	return d.cur.seek(off, whence)
}

func (d *FileDevice) Read(b []byte) error {
	pos, err := d.cur.advance("read", b)
	if err != nil {
		return err
	}
	n, err := unix.Pread(d.fd, b, pos)
	if err != nil {
		return fmt.Errorf("read at %d: %w", pos, err)
	}
	if n != len(b) {
		return fmt.Errorf("read at %d: short read of %d bytes", pos, n)
	}
	return nil
}

func (d *FileDevice) Write(b []byte) error {
	pos, err := d.cur.advance("write", b)
	if err != nil {
		return err
	}
	n, err := unix.Pwrite(d.fd, b, pos)
	if err != nil {
		return fmt.Errorf("write at %d: %w", pos, err)
	}
	if n != len(b) {
		return fmt.Errorf("write at %d: short write of %d bytes", pos, n)
	}
	return nil
}

func (d *FileDevice) Ioctl(req Request) (uint64, error) {
	return d.cur.ioctl(req)
}

func (d *FileDevice) Close() error {
	// NOTE: on macOS, this flushes to the drive but doesn't actually issue a
	// disk barrier.
	if err := unix.Fsync(d.fd); err != nil {
		unix.Close(d.fd)
		return fmt.Errorf("file sync failed: %w", err)
	}
	return unix.Close(d.fd)
}
