package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/alloc"
	"github.com/mit-pdos/go-newfs/blkio"
	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/config"
	"github.com/mit-pdos/go-newfs/disk"
	"github.com/mit-pdos/go-newfs/super"
	"github.com/mit-pdos/go-newfs/util"
)

// Open mounts the device named by opts.
func Open(opts *config.Options) (*Fs, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrInval)
	}
	util.SetDebug(opts.Debug)
	d, err := disk.Open(opts.Device)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrIO)
	}
	return Mount(d)
}

// Mount takes ownership of d and brings up the file system on it. A device
// without a valid superblock is initialized with a fresh layout and an empty
// root directory. On failure d is closed.
func Mount(d disk.Device) (*Fs, error) {
	fs, err := mount(d)
	if err != nil {
		d.Close()
		return nil, err
	}
	return fs, nil
}

func mount(d disk.Device) (*Fs, error) {
	szDisk, err := d.Ioctl(disk.IOC_REQ_DEVICE_SIZE)
	if err != nil {
		return nil, fmt.Errorf("querying device size: %v: %w", err, common.ErrIO)
	}
	szIo, err := d.Ioctl(disk.IOC_REQ_DEVICE_IO_SZ)
	if err != nil {
		return nil, fmt.Errorf("querying device io size: %v: %w", err, common.ErrIO)
	}
	if szIo == 0 || szIo<<1 < common.DENTRYSZ {
		return nil, fmt.Errorf("device io size %d too small: %w",
			szIo, common.ErrInval)
	}
	s := super.MkFsSuper(blkio.MkDriver(d, szIo), szIo, szDisk)
	fs := mkFs(s)

	root := fs.NewDentry("/", common.DIR)
	root.Ino = common.ROOTINUM
	fs.root = root

	fresh, err := s.Load()
	if err != nil {
		return nil, err
	}
	imap, dmap, err := s.LoadBitmaps()
	if err != nil {
		return nil, err
	}
	fs.imap = alloc.MkAlloc(imap, s.MaxIno)
	fs.dmap = alloc.MkAlloc(dmap, s.MaxDno)

	if fresh {
		inode, err := fs.AllocInode(root)
		if err != nil {
			return nil, err
		}
		if inode.Ino != common.ROOTINUM {
			return nil, fmt.Errorf("fresh root got inode %d: %w",
				inode.Ino, common.ErrIO)
		}
		if err := fs.SyncInode(inode); err != nil {
			return nil, err
		}
		root.Inode = nil
	}
	if _, err := fs.ReadInode(root, common.ROOTINUM); err != nil {
		return nil, err
	}
	fs.mounted = true
	util.DPrintf(1, "Mount: %d bytes, io %d, block %d, fresh %v\n",
		szDisk, szIo, s.SzBlk, fresh)
	return fs, nil
}

// Unmount writes the whole tree, the superblock, and both bitmaps back, then
// closes the device. Unmounting an Fs that is not mounted does nothing. If
// writing fails the Fs stays mounted and the device stays open.
func (fs *Fs) Unmount() error {
	if !fs.mounted {
		return nil
	}
	if err := fs.SyncInode(fs.root.Inode); err != nil {
		return fmt.Errorf("syncing tree: %w", err)
	}
	if err := fs.super.Flush(fs.imap.Bitmap(), fs.dmap.Bitmap()); err != nil {
		return err
	}
	fs.imap = nil
	fs.dmap = nil
	fs.mounted = false
	util.DPrintf(1, "Unmount: done\n")
	return fs.super.Drv.Close()
}
