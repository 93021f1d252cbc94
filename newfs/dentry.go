package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/common"
)

// AllocDentry links d at the head of directory inode's chain and returns the
// new entry count. A directory's size tracks its entry count.
func (fs *Fs) AllocDentry(inode *Inode, d *Dentry) uint64 {
	d.brother = inode.Dentrys
	d.parent = inode.dentry
	inode.Dentrys = d
	inode.DirCnt++
	inode.Size = inode.DirCnt * common.DENTRYSZ
	return inode.DirCnt
}

// DropDentry unlinks d from directory inode's chain and returns the new
// entry count. The search is linear in the number of entries.
func (fs *Fs) DropDentry(inode *Inode, d *Dentry) (uint64, error) {
	if inode.Dentrys == d {
		inode.Dentrys = d.brother
	} else {
		cur := inode.Dentrys
		for cur != nil && cur.brother != d {
			cur = cur.brother
		}
		if cur == nil {
			return inode.DirCnt, fmt.Errorf("`%s` not in directory %d: %w",
				d.Name, inode.Ino, common.ErrNotFound)
		}
		cur.brother = d.brother
	}
	d.brother = nil
	d.parent = NULLDENTRY
	inode.DirCnt--
	inode.Size = inode.DirCnt * common.DENTRYSZ
	return inode.DirCnt, nil
}

// GetDentry returns the i-th entry of a directory's chain, or nil past the
// end.
func (fs *Fs) GetDentry(inode *Inode, i uint64) *Dentry {
	cur := inode.Dentrys
	for n := uint64(0); cur != nil; n++ {
		if n == i {
			return cur
		}
		cur = cur.brother
	}
	return nil
}

// child finds the entry called name in a directory's chain.
func (fs *Fs) child(inode *Inode, name string) *Dentry {
	for cur := inode.Dentrys; cur != nil; cur = cur.brother {
		if cur.Name == name {
			return cur
		}
	}
	return nil
}
