package disk

import (
	"fmt"
)

var _ Device = (*MemDevice)(nil)

// MemDevice is a device backed by a byte slice. Reopen hands out another
// handle on the same image, which lets tests unmount and mount again.
type MemDevice struct {
	img    []byte
	cur    cursor
	closed bool
}

func NewMemDevice(size uint64, ioSz uint64) *MemDevice {
	size = size / ioSz * ioSz
	return &MemDevice{
		img: make([]byte, size),
		cur: cursor{size: int64(size), ioSz: int64(ioSz)},
	}
}

func (d *MemDevice) Reopen() *MemDevice {
	return &MemDevice{
		img: d.img,
		cur: cursor{size: d.cur.size, ioSz: d.cur.ioSz},
	}
}

// Image returns the device contents; it aliases the device's storage.
func (d *MemDevice) Image() []byte {
	return d.img
}

func (d *MemDevice) Seek(off int64, whence int) (int64, error) {
	if d.closed {
		return 0, fmt.Errorf("seek: device closed")
	}
	return d.cur.seek(off, whence)
}

func (d *MemDevice) Read(b []byte) error {
	if d.closed {
		return fmt.Errorf("read: device closed")
	}
	pos, err := d.cur.advance("read", b)
	if err != nil {
		return err
	}
	copy(b, d.img[pos:])
	return nil
}

func (d *MemDevice) Write(b []byte) error {
	if d.closed {
		return fmt.Errorf("write: device closed")
	}
	pos, err := d.cur.advance("write", b)
	if err != nil {
		return err
	}
	copy(d.img[pos:], b)
	return nil
}

func (d *MemDevice) Ioctl(req Request) (uint64, error) {
	return d.cur.ioctl(req)
}

func (d *MemDevice) Close() error {
	d.closed = true
	return nil
}
