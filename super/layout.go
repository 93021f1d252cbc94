package super

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

// ComputeLayout derives a fresh layout for a device of szDisk bytes split
// into blocks of szBlk bytes:
//
//	| super | inode bitmap | data bitmap | inode table | data region |
//
// Each inode is budgeted DATAPERFILE data blocks plus its share of the
// table, and the inode count is rounded up to fill whole table blocks. The
// bitmaps start at one block each and grow only if their counts need more.
// The data region takes every block left over.
func ComputeLayout(szDisk uint64, szBlk uint64) (Record, error) {
	if szBlk < common.DENTRYSZ {
		return Record{}, fmt.Errorf("block of %d bytes cannot hold a "+
			"directory entry: %w", szBlk, common.ErrInval)
	}
	tot := szDisk / szBlk
	fixed := common.SUPERBLKS + common.IMAPBLKS + common.DMAPBLKS
	if tot <= fixed {
		return Record{}, fmt.Errorf("device of %d blocks cannot hold a "+
			"layout: %w", tot, common.ErrNoSpace)
	}
	bitsPerBlk := szBlk * common.NBITBYTE
	inodePerBlk := szBlk / common.INODESZ

	maxIno := (tot - fixed) / (common.DATAPERFILE + 1)
	maxIno = util.AlignUp(maxIno, inodePerBlk)
	if maxIno == 0 {
		return Record{}, fmt.Errorf("device of %d blocks has no room for "+
			"inodes: %w", tot, common.ErrNoSpace)
	}
	inodeBlks := maxIno / inodePerBlk
	imapBlks := common.IMAPBLKS
	if n := util.RoundUp(maxIno, bitsPerBlk); n > imapBlks {
		imapBlks = n
	}
	dmapBlks := common.DMAPBLKS
	var maxDno uint64
	for {
		used := common.SUPERBLKS + imapBlks + dmapBlks + inodeBlks
		if used >= tot {
			return Record{}, fmt.Errorf("device of %d blocks has no room "+
				"for data: %w", tot, common.ErrNoSpace)
		}
		maxDno = tot - used
		if maxDno <= dmapBlks*bitsPerBlk {
			break
		}
		dmapBlks++
	}

	r := Record{
		Magic:       uint64(common.MAGICNUM),
		MaxIno:      maxIno,
		ImapBlks:    imapBlks,
		ImapOfs:     common.SUPEROFS + common.SUPERBLKS*szBlk,
		MaxDno:      maxDno,
		DmapBlks:    dmapBlks,
		InodePerBlk: inodePerBlk,
		InodeBlks:   inodeBlks,
	}
	r.DmapOfs = r.ImapOfs + imapBlks*szBlk
	r.InodeOfs = r.DmapOfs + dmapBlks*szBlk
	r.DataOfs = r.InodeOfs + inodeBlks*szBlk
	return r, nil
}
