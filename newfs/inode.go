package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

// hydrate returns d's inode, reading it from disk on first use.
func (fs *Fs) hydrate(d *Dentry) (*Inode, error) {
	if d.Inode != nil {
		return d.Inode, nil
	}
	return fs.ReadInode(d, d.Ino)
}

func (fs *Fs) blockOfs(inode *Inode, i uint64) (uint64, error) {
	if i >= common.DATAPERFILE || inode.Blocks[i] == common.NULLBLK {
		return 0, fmt.Errorf("inode %d has no block %d: %w",
			inode.Ino, i, common.ErrIO)
	}
	if b := inode.Blocks[i]; b < 0 || uint64(b) >= fs.super.MaxDno {
		return 0, fmt.Errorf("inode %d block %d points at %d, limit %d: %w",
			inode.Ino, i, b, fs.super.MaxDno, common.ErrIO)
	}
	return fs.super.DnoOfs(common.Dnum(inode.Blocks[i])), nil
}

// ReadInode loads inode ino from disk and attaches it to d. A directory's
// entries are rebuilt in on-disk order without loading their inodes; a
// regular file's content is read in full.
func (fs *Fs) ReadInode(d *Dentry, ino common.Inum) (*Inode, error) {
	if uint64(ino) >= fs.super.MaxIno {
		return nil, fmt.Errorf("inode %d past the table of %d: %w",
			ino, fs.super.MaxIno, common.ErrIO)
	}
	b, err := fs.super.Drv.Read(fs.super.InoOfs(ino), common.INODESZ)
	if err != nil {
		return nil, fmt.Errorf("reading inode %d: %w", ino, err)
	}
	rec := decodeInode(b)
	inode := &Inode{
		Ino:    ino,
		Size:   uint64(rec.size),
		dentry: d.id,
		Blocks: rec.blocks,
	}
	util.DPrintf(2, "ReadInode: `%s` ino %d size %d entries %d\n",
		d.Name, ino, rec.size, rec.dirCnt)

	blk := fs.super.SzBlk
	if d.IsDir() {
		cnt := uint64(rec.dirCnt)
		if cnt > fs.super.MaxDirCnt() {
			return nil, fmt.Errorf("directory inode %d claims %d entries: %w",
				ino, cnt, common.ErrIO)
		}
		perBlk := fs.super.DentryPerBlk()
		recs := make([]dentryRecord, 0, cnt)
		for i := uint64(0); i*perBlk < cnt; i++ {
			ofs, err := fs.blockOfs(inode, i)
			if err != nil {
				return nil, err
			}
			data, err := fs.super.Drv.Read(ofs, blk)
			if err != nil {
				return nil, fmt.Errorf("reading entries of inode %d: %w",
					ino, err)
			}
			for j := uint64(0); j < perBlk && i*perBlk+j < cnt; j++ {
				rec := decodeDentry(data[j*common.DENTRYSZ:])
				if uint64(rec.ino) >= fs.super.MaxIno {
					return nil, fmt.Errorf("entry `%s` of inode %d names inode %d: %w",
						rec.name, ino, rec.ino, common.ErrIO)
				}
				recs = append(recs, rec)
			}
		}
		// head insertion reverses, so link the last record first
		for i := len(recs) - 1; i >= 0; i-- {
			sub := fs.NewDentry(recs[i].name, recs[i].ftype)
			sub.Ino = recs[i].ino
			fs.AllocDentry(inode, sub)
		}
	} else {
		if inode.Size > fs.super.MaxFileSz() {
			return nil, fmt.Errorf("file inode %d claims %d bytes: %w",
				ino, inode.Size, common.ErrIO)
		}
		inode.Data = make([]byte, inode.Size)
		for i, off := uint64(0), uint64(0); off < inode.Size; i, off = i+1, off+blk {
			ofs, err := fs.blockOfs(inode, i)
			if err != nil {
				return nil, err
			}
			end := util.Min(off+blk, inode.Size)
			if err := fs.super.Drv.ReadTo(ofs, inode.Data[off:end]); err != nil {
				return nil, fmt.Errorf("reading content of inode %d: %w",
					ino, err)
			}
		}
	}
	d.Inode = inode
	d.Ino = ino
	return inode, nil
}

// SyncInode writes inode and, for a directory, every hydrated descendant back
// to disk. Data blocks are claimed as the content needs them. On error the
// subtree may be partially written; already synced children are not rolled
// back.
func (fs *Fs) SyncInode(inode *Inode) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	d := fs.Owner(inode)
	if d == nil {
		return fmt.Errorf("inode %d has no owning entry: %w",
			inode.Ino, common.ErrInval)
	}
	blk := fs.super.SzBlk
	rec := inodeRecord{
		ino:    uint32(inode.Ino),
		dirCnt: uint32(inode.DirCnt),
		ftype:  d.Ftype,
	}

	if d.IsDir() {
		if inode.DirCnt > fs.super.MaxDirCnt() {
			return fmt.Errorf("directory `%s` has %d entries, limit %d: %w",
				d.Name, inode.DirCnt, fs.super.MaxDirCnt(), common.ErrFileTooBig)
		}
		perBlk := fs.super.DentryPerBlk()
		need := util.RoundUp(inode.DirCnt, perBlk)
		if err := fs.resizeBlocks(inode, need); err != nil {
			return err
		}
		inode.Size = inode.DirCnt * common.DENTRYSZ
		data := make([]byte, need*blk)
		i := uint64(0)
		for cur := inode.Dentrys; cur != nil; cur = cur.brother {
			ofs := (i/perBlk)*blk + (i%perBlk)*common.DENTRYSZ
			dentryRecord{
				name:  cur.Name,
				ftype: cur.Ftype,
				ino:   cur.Ino,
			}.encodeTo(data[ofs:])
			i++
		}
		for k := uint64(0); k < need; k++ {
			ofs, err := fs.blockOfs(inode, k)
			if err != nil {
				return err
			}
			if err := fs.super.Drv.Write(ofs, data[k*blk:(k+1)*blk]); err != nil {
				return fmt.Errorf("writing entries of `%s`: %w", d.Name, err)
			}
		}
		for cur := inode.Dentrys; cur != nil; cur = cur.brother {
			if cur.Inode == nil {
				continue
			}
			if err := fs.SyncInode(cur.Inode); err != nil {
				return err
			}
		}
	} else {
		if inode.Size > fs.super.MaxFileSz() {
			return fmt.Errorf("file `%s` is %d bytes, limit %d: %w",
				d.Name, inode.Size, fs.super.MaxFileSz(), common.ErrFileTooBig)
		}
		if uint64(len(inode.Data)) < inode.Size {
			return fmt.Errorf("file `%s` holds %d of %d bytes: %w",
				d.Name, len(inode.Data), inode.Size, common.ErrInval)
		}
		need := util.RoundUp(inode.Size, blk)
		if err := fs.resizeBlocks(inode, need); err != nil {
			return err
		}
		for k := uint64(0); k < need; k++ {
			ofs, err := fs.blockOfs(inode, k)
			if err != nil {
				return err
			}
			end := util.Min((k+1)*blk, inode.Size)
			if err := fs.super.Drv.Write(ofs, inode.Data[k*blk:end]); err != nil {
				return fmt.Errorf("writing content of `%s`: %w", d.Name, err)
			}
		}
	}

	rec.size = uint32(inode.Size)
	rec.blocks = inode.Blocks
	if err := fs.super.Drv.Write(fs.super.InoOfs(inode.Ino), rec.encode()); err != nil {
		return fmt.Errorf("writing inode %d: %w", inode.Ino, err)
	}
	util.DPrintf(2, "SyncInode: `%s` ino %d size %d blocks %v\n",
		d.Name, inode.Ino, inode.Size, inode.Blocks)
	return nil
}

// DropInode frees inode and everything below it: child inodes (loaded from
// disk if needed), child entries, data blocks, and the inode's own bitmap
// bit. The root inode cannot be dropped. The caller detaches the owning
// entry from its parent.
func (fs *Fs) DropInode(inode *Inode) error {
	if err := fs.checkMounted(); err != nil {
		return err
	}
	if fs.isRoot(inode) {
		return fmt.Errorf("dropping the root inode: %w", common.ErrInval)
	}
	if fs.IsDir(inode) {
		for cur := inode.Dentrys; cur != nil; {
			next := cur.brother
			sub, err := fs.hydrate(cur)
			if err != nil {
				return err
			}
			if err := fs.DropInode(sub); err != nil {
				return err
			}
			if _, err := fs.DropDentry(inode, cur); err != nil {
				return err
			}
			fs.release(cur)
			cur = next
		}
	}
	if err := fs.resizeBlocks(inode, 0); err != nil {
		return err
	}
	inode.Data = nil
	if err := fs.FreeInode(inode.Ino); err != nil {
		return err
	}
	if d := fs.Owner(inode); d != nil {
		d.Inode = nil
	}
	util.DPrintf(2, "DropInode: %d\n", inode.Ino)
	return nil
}
