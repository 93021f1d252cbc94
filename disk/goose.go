package disk

import (
	"fmt"

	gdisk "github.com/tchajed/goose/machine/disk"
)

var _ Device = (*GooseDevice)(nil)

// GooseDevice presents a goose block disk as a device whose I/O unit is the
// goose block size.
type GooseDevice struct {
	d   gdisk.Disk
	cur cursor
}

func FromGoose(d gdisk.Disk) *GooseDevice {
	size := d.Size() * gdisk.BlockSize
	return &GooseDevice{
		d:   d,
		cur: cursor{size: int64(size), ioSz: int64(gdisk.BlockSize)},
	}
}

func (g *GooseDevice) Seek(off int64, whence int) (int64, error) {
	pos, err := g.cur.seek(off, whence)
	if err != nil {
		return pos, err
	}
	if uint64(pos)%gdisk.BlockSize != 0 {
		return pos, fmt.Errorf("seek: offset %d not block aligned", pos)
	}
	return pos, nil
}

func (g *GooseDevice) Read(b []byte) error {
	pos, err := g.cur.advance("read", b)
	if err != nil {
		return err
	}
	copy(b, g.d.Read(uint64(pos)/gdisk.BlockSize))
	return nil
}

func (g *GooseDevice) Write(b []byte) error {
	pos, err := g.cur.advance("write", b)
	if err != nil {
		return err
	}
	blk := make(gdisk.Block, gdisk.BlockSize)
	copy(blk, b)
	g.d.Write(uint64(pos)/gdisk.BlockSize, blk)
	return nil
}

func (g *GooseDevice) Ioctl(req Request) (uint64, error) {
	return g.cur.ioctl(req)
}

func (g *GooseDevice) Close() error {
	g.d.Barrier()
	g.d.Close()
	return nil
}
