package super

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/blkio"
	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

// FsSuper is the in-memory superblock: device geometry, the region layout,
// and the usage counter. It is owned by a single mounted file system.
type FsSuper struct {
	Magic uint32
	Drv   *blkio.Driver

	SzIo    uint64
	SzBlk   uint64 // twice the device I/O size
	SzDisk  uint64
	SzUsage uint64 // bytes held by allocated data blocks

	MaxIno   uint64
	ImapBlks uint64
	ImapOfs  uint64

	MaxDno   uint64
	DmapBlks uint64
	DmapOfs  uint64

	InodeOfs    uint64
	DataOfs     uint64
	InodePerBlk uint64
	InodeBlks   uint64
}

func MkFsSuper(drv *blkio.Driver, szIo uint64, szDisk uint64) *FsSuper {
	return &FsSuper{
		Drv:    drv,
		SzIo:   szIo,
		SzBlk:  szIo << 1,
		SzDisk: szDisk,
	}
}

func (s *FsSuper) adopt(r Record) {
	s.Magic = uint32(r.Magic)
	s.SzUsage = r.Usage
	s.MaxIno = r.MaxIno
	s.ImapBlks = r.ImapBlks
	s.ImapOfs = r.ImapOfs
	s.MaxDno = r.MaxDno
	s.DmapBlks = r.DmapBlks
	s.DmapOfs = r.DmapOfs
	s.InodeOfs = r.InodeOfs
	s.DataOfs = r.DataOfs
	s.InodePerBlk = r.InodePerBlk
	s.InodeBlks = r.InodeBlks
}

func (s *FsSuper) Record() Record {
	return Record{
		Magic:       uint64(common.MAGICNUM),
		Usage:       s.SzUsage,
		MaxIno:      s.MaxIno,
		ImapBlks:    s.ImapBlks,
		ImapOfs:     s.ImapOfs,
		MaxDno:      s.MaxDno,
		DmapBlks:    s.DmapBlks,
		DmapOfs:     s.DmapOfs,
		InodeOfs:    s.InodeOfs,
		DataOfs:     s.DataOfs,
		InodePerBlk: s.InodePerBlk,
		InodeBlks:   s.InodeBlks,
	}
}

// Load reads the on-disk superblock. A record without the magic number marks
// an uninitialized volume: a fresh layout is computed, the record and zeroed
// bitmaps are written, and Load reports fresh. A matching record is adopted
// as stored.
func (s *FsSuper) Load() (bool, error) {
	b, err := s.Drv.Read(common.SUPEROFS, RECORDSZ)
	if err != nil {
		return false, fmt.Errorf("reading superblock: %w", err)
	}
	r := DecodeRecord(b)
	if r.Magic == uint64(common.MAGICNUM) {
		s.adopt(r)
		util.DPrintf(1, "Load: existing volume, %d inodes %d data blocks\n",
			s.MaxIno, s.MaxDno)
		return false, nil
	}

	r, err = ComputeLayout(s.SzDisk, s.SzBlk)
	if err != nil {
		return false, err
	}
	s.adopt(r)
	util.DPrintf(1, "Load: initializing volume, %d inodes %d data blocks\n",
		s.MaxIno, s.MaxDno)
	if err := s.Drv.Write(common.SUPEROFS, r.Encode()); err != nil {
		return false, fmt.Errorf("writing superblock: %w", err)
	}
	if err := s.Drv.Write(s.ImapOfs, make([]byte, s.BlksSz(s.ImapBlks))); err != nil {
		return false, fmt.Errorf("clearing inode bitmap: %w", err)
	}
	if err := s.Drv.Write(s.DmapOfs, make([]byte, s.BlksSz(s.DmapBlks))); err != nil {
		return false, fmt.Errorf("clearing data bitmap: %w", err)
	}
	return true, nil
}

// LoadBitmaps reads both bitmap regions into fresh buffers.
func (s *FsSuper) LoadBitmaps() ([]byte, []byte, error) {
	imap, err := s.Drv.Read(s.ImapOfs, s.BlksSz(s.ImapBlks))
	if err != nil {
		return nil, nil, fmt.Errorf("reading inode bitmap: %w", err)
	}
	dmap, err := s.Drv.Read(s.DmapOfs, s.BlksSz(s.DmapBlks))
	if err != nil {
		return nil, nil, fmt.Errorf("reading data bitmap: %w", err)
	}
	return imap, dmap, nil
}

// Flush writes the superblock record and both bitmaps back.
func (s *FsSuper) Flush(imap []byte, dmap []byte) error {
	if err := s.Drv.Write(common.SUPEROFS, s.Record().Encode()); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	if err := s.Drv.Write(s.ImapOfs, imap); err != nil {
		return fmt.Errorf("writing inode bitmap: %w", err)
	}
	if err := s.Drv.Write(s.DmapOfs, dmap); err != nil {
		return fmt.Errorf("writing data bitmap: %w", err)
	}
	return nil
}

func (s *FsSuper) BlksSz(blks uint64) uint64 {
	return blks * s.SzBlk
}

// InoOfs is the byte offset of inode ino's record in the inode table.
func (s *FsSuper) InoOfs(ino common.Inum) uint64 {
	return s.InodeOfs + uint64(ino)*common.INODESZ
}

// DnoOfs is the byte offset of data block dno.
func (s *FsSuper) DnoOfs(dno common.Dnum) uint64 {
	return s.DataOfs + uint64(dno)*s.SzBlk
}

// DentryPerBlk is how many directory entry records fit in a data block.
func (s *FsSuper) DentryPerBlk() uint64 {
	return s.SzBlk / common.DENTRYSZ
}

// MaxFileSz is the largest regular file an inode can address.
func (s *FsSuper) MaxFileSz() uint64 {
	return common.DATAPERFILE * s.SzBlk
}

// MaxDirCnt is the most entries a directory can hold.
func (s *FsSuper) MaxDirCnt() uint64 {
	return common.DATAPERFILE * s.DentryPerBlk()
}
