package newfs

import (
	"bytes"

	"github.com/tchajed/goose/machine"

	"github.com/mit-pdos/go-newfs/common"
)

// inodeRecord is the on-disk inode: four 32-bit fields followed by the
// block-pointer array, all little-endian.
type inodeRecord struct {
	ino    uint32
	size   uint32
	dirCnt uint32
	ftype  common.FileType
	blocks [common.DATAPERFILE]int32
}

func (r inodeRecord) encode() []byte {
	b := make([]byte, common.INODESZ)
	machine.UInt32Put(b[0:], r.ino)
	machine.UInt32Put(b[4:], r.size)
	machine.UInt32Put(b[8:], r.dirCnt)
	machine.UInt32Put(b[12:], uint32(r.ftype))
	for i, p := range r.blocks {
		machine.UInt32Put(b[16+4*i:], uint32(p))
	}
	return b
}

func decodeInode(b []byte) inodeRecord {
	var r inodeRecord
	r.ino = machine.UInt32Get(b[0:])
	r.size = machine.UInt32Get(b[4:])
	r.dirCnt = machine.UInt32Get(b[8:])
	r.ftype = common.FileType(machine.UInt32Get(b[12:]))
	for i := range r.blocks {
		r.blocks[i] = int32(machine.UInt32Get(b[16+4*i:]))
	}
	return r
}

// dentryRecord is the on-disk directory entry: a NUL-padded name field, the
// type tag, and the target inode.
type dentryRecord struct {
	name  string
	ftype common.FileType
	ino   common.Inum
}

func (r dentryRecord) encodeTo(b []byte) {
	name := b[:common.MAXNAMELEN]
	for i := range name {
		name[i] = 0
	}
	copy(name, r.name)
	machine.UInt32Put(b[common.MAXNAMELEN:], uint32(r.ftype))
	machine.UInt32Put(b[common.MAXNAMELEN+4:], uint32(r.ino))
}

func decodeDentry(b []byte) dentryRecord {
	name := b[:common.MAXNAMELEN]
	if n := bytes.IndexByte(name, 0); n >= 0 {
		name = name[:n]
	}
	return dentryRecord{
		name:  string(name),
		ftype: common.FileType(machine.UInt32Get(b[common.MAXNAMELEN:])),
		ino:   common.Inum(machine.UInt32Get(b[common.MAXNAMELEN+4:])),
	}
}
