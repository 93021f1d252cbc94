package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

// AllocInode claims the lowest free inode number for d and attaches a new,
// empty inode to it.
func (fs *Fs) AllocInode(d *Dentry) (*Inode, error) {
	if err := fs.checkMounted(); err != nil {
		return nil, err
	}
	n, err := fs.imap.AllocNum()
	if err != nil {
		return nil, fmt.Errorf("allocating inode for `%s`: %w", d.Name, err)
	}
	inode := &Inode{
		Ino:    common.Inum(n),
		dentry: d.id,
		Blocks: nullBlocks(),
	}
	d.Inode = inode
	d.Ino = inode.Ino
	util.DPrintf(2, "AllocInode: `%s` -> %d\n", d.Name, inode.Ino)
	return inode, nil
}

func (fs *Fs) FreeInode(ino common.Inum) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if err := fs.imap.FreeNum(uint64(ino)); err != nil {
		return fmt.Errorf("freeing inode %d: %w", ino, err)
	}
	return nil
}

// AllocDataBlk claims the lowest free data block.
func (fs *Fs) AllocDataBlk() (common.Dnum, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, err
	}
	n, err := fs.dmap.AllocNum()
	if err != nil {
		return 0, fmt.Errorf("allocating data block: %w", err)
	}
	fs.super.SzUsage += fs.super.SzBlk
	return common.Dnum(n), nil
}

func (fs *Fs) FreeDataBlk(dno common.Dnum) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if err := fs.dmap.FreeNum(uint64(dno)); err != nil {
		return fmt.Errorf("freeing data block %d: %w", dno, err)
	}
	fs.super.SzUsage -= fs.super.SzBlk
	return nil
}

// resizeBlocks makes inode hold exactly need data blocks. Blocks it already
// holds are kept in order; missing ones are claimed all-or-nothing before any
// surplus is released, so a failure leaves the inode untouched.
func (fs *Fs) resizeBlocks(inode *Inode, need uint64) error {
	if need > common.DATAPERFILE {
		return fmt.Errorf("inode %d needs %d blocks, limit %d: %w",
			inode.Ino, need, common.DATAPERFILE, common.ErrFileTooBig)
	}
	blocks := inode.Blocks
	var claimed []common.Dnum
	for i := uint64(0); i < need; i++ {
		if blocks[i] != common.NULLBLK {
			continue
		}
		dno, err := fs.AllocDataBlk()
		if err != nil {
			for _, c := range claimed {
				fs.FreeDataBlk(c)
			}
			return err
		}
		claimed = append(claimed, dno)
		blocks[i] = int32(dno)
	}
	for i := need; i < common.DATAPERFILE; i++ {
		if blocks[i] == common.NULLBLK {
			continue
		}
		if err := fs.FreeDataBlk(common.Dnum(blocks[i])); err != nil {
			return err
		}
		blocks[i] = common.NULLBLK
	}
	inode.Blocks = blocks
	return nil
}
