// Package blkio adapts byte-granular reads and writes to a device that only
// transfers whole I/O units.
//
// Every request is widened to an aligned window: the start is rounded down to
// an I/O-unit boundary and the length rounded up to cover the request. Writes
// read the window first, install the caller's bytes at their offset inside it,
// and write the whole window back, since the device cannot write part of a
// unit.
package blkio

import (
	"fmt"
	"io"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/disk"
	"github.com/mit-pdos/go-newfs/util"
)

// Driver performs aligned I/O against a device.
type Driver struct {
	d    disk.Device
	ioSz uint64
}

func MkDriver(d disk.Device, ioSz uint64) *Driver {
	return &Driver{d: d, ioSz: ioSz}
}

func (drv *Driver) IoSize() uint64 {
	return drv.ioSz
}

// window returns the aligned start, the offset of off inside the window, and
// the window length.
func (drv *Driver) window(off uint64, sz uint64) (uint64, uint64, uint64) {
	start := util.AlignDown(off, drv.ioSz)
	bias := off - start
	return start, bias, util.AlignUp(sz+bias, drv.ioSz)
}

func (drv *Driver) transfer(start uint64, win []byte,
	op func([]byte) error) error {
	if _, err := drv.d.Seek(int64(start), io.SeekStart); err != nil {
		return err
	}
	for cur := uint64(0); cur < uint64(len(win)); cur += drv.ioSz {
		if err := op(win[cur : cur+drv.ioSz]); err != nil {
			return err
		}
	}
	return nil
}

func (drv *Driver) readWindow(start uint64, sz uint64) ([]byte, error) {
	win := make([]byte, sz)
	if err := drv.transfer(start, win, drv.d.Read); err != nil {
		return nil, fmt.Errorf("reading %d bytes at %d: %v: %w",
			sz, start, err, common.ErrIO)
	}
	return win, nil
}

// ReadTo fills b with the bytes at off.
func (drv *Driver) ReadTo(off uint64, b []byte) error {
	start, bias, sz := drv.window(off, uint64(len(b)))
	util.DPrintf(20, "ReadTo: off %d len %d window [%d, %d)\n",
		off, len(b), start, start+sz)
	win, err := drv.readWindow(start, sz)
	if err != nil {
		return err
	}
	copy(b, win[bias:])
	return nil
}

// Read returns the sz bytes at off.
func (drv *Driver) Read(off uint64, sz uint64) ([]byte, error) {
	b := make([]byte, sz)
	if err := drv.ReadTo(off, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Write stores b at off, preserving the surrounding bytes of the I/O units
// it touches.
func (drv *Driver) Write(off uint64, b []byte) error {
	start, bias, sz := drv.window(off, uint64(len(b)))
	util.DPrintf(20, "Write: off %d len %d window [%d, %d)\n",
		off, len(b), start, start+sz)
	win, err := drv.readWindow(start, sz)
	if err != nil {
		return err
	}
	copy(win[bias:], b)
	if err := drv.transfer(start, win, drv.d.Write); err != nil {
		return fmt.Errorf("writing %d bytes at %d: %v: %w",
			sz, start, err, common.ErrIO)
	}
	return nil
}

func (drv *Driver) Close() error {
	if err := drv.d.Close(); err != nil {
		return fmt.Errorf("closing device: %v: %w", err, common.ErrIO)
	}
	return nil
}
