// Package disk defines the block-device capability the file system runs on
// and a few implementations of it.
//
// A device transfers data at its current seek position in units of exactly
// its I/O size; it never performs partial-unit reads or writes. Callers that
// need byte-granular access go through blkio.
package disk

import (
	"fmt"
	"io"
)

// Request selects the value returned by Device.Ioctl.
type Request int

const (
	IOC_REQ_DEVICE_SIZE  Request = iota // total capacity, in bytes
	IOC_REQ_DEVICE_IO_SZ                // native transfer unit, in bytes
)

const DefaultIoSize uint64 = 512

// Device provides unit-granular access to a block device.
type Device interface {
	// Seek sets the position of the next transfer, like io.Seeker.
	Seek(off int64, whence int) (int64, error)

	// Read fills b from the current position and advances past it.
	//
	// Expects len(b) == the device I/O size.
	Read(b []byte) error

	// Write stores b at the current position and advances past it.
	//
	// Expects len(b) == the device I/O size.
	Write(b []byte) error

	// Ioctl answers a capacity or geometry query.
	Ioctl(req Request) (uint64, error)

	// Close releases any resources used by the device and makes it unusable.
	Close() error
}

// cursor implements the seek and bounds bookkeeping shared by the devices in
// this package.
type cursor struct {
	pos  int64
	size int64
	ioSz int64
}

func (c *cursor) seek(off int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = off
	case io.SeekCurrent:
		pos = c.pos + off
	case io.SeekEnd:
		pos = c.size + off
	default:
		return c.pos, fmt.Errorf("seek: bad whence %d", whence)
	}
	if pos < 0 || pos > c.size {
		return c.pos, fmt.Errorf("seek: offset %d outside device of %d bytes",
			pos, c.size)
	}
	c.pos = pos
	return pos, nil
}

// advance validates a unit transfer at the current position and returns its
// offset.
func (c *cursor) advance(op string, b []byte) (int64, error) {
	if int64(len(b)) != c.ioSz {
		return 0, fmt.Errorf("%s: buffer of %d bytes is not io-sized (%d)",
			op, len(b), c.ioSz)
	}
	if c.pos+c.ioSz > c.size {
		return 0, fmt.Errorf("%s: out-of-bounds transfer at %d", op, c.pos)
	}
	pos := c.pos
	c.pos += c.ioSz
	return pos, nil
}

func (c *cursor) ioctl(req Request) (uint64, error) {
	switch req {
	case IOC_REQ_DEVICE_SIZE:
		return uint64(c.size), nil
	case IOC_REQ_DEVICE_IO_SZ:
		return uint64(c.ioSz), nil
	default:
		return 0, fmt.Errorf("ioctl: unknown request %d", req)
	}
}
