package newfs

import (
	"fmt"
	"strings"

	"github.com/mit-pdos/go-newfs/common"
)

// Attr describes a file the way a front end's getattr reports it.
type Attr struct {
	Name   string
	Ftype  common.FileType
	Ino    common.Inum
	Size   uint64
	DirCnt uint64
	Mode   uint32
}

func (fs *Fs) attr(d *Dentry) Attr {
	a := Attr{
		Name:  d.Name,
		Ftype: d.Ftype,
		Ino:   d.Ino,
		Mode:  common.DEFAULTPERM,
	}
	if d.Inode != nil {
		a.Size = d.Inode.Size
		a.DirCnt = d.Inode.DirCnt
	}
	return a
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("name %q: %w", name, common.ErrInval)
	}
	if uint64(len(name)) > common.MAXNAMELEN {
		return fmt.Errorf("name of %d bytes: %w", len(name), common.ErrNameTooLong)
	}
	return nil
}

func parentPath(path string) string {
	comps := components(path)
	if len(comps) <= 1 {
		return "/"
	}
	return "/" + strings.Join(comps[:len(comps)-1], "/")
}

// resolve looks up path and fails unless it exists.
func (fs *Fs) resolve(path string) (*Dentry, error) {
	d, found, _, err := fs.Lookup(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("`%s`: %w", path, common.ErrNotFound)
	}
	return d, nil
}

// Create adds an empty file or directory at path.
func (fs *Fs) Create(path string, ftype common.FileType) (*Dentry, error) {
	name := GetFname(path)
	if err := checkName(name); err != nil {
		return nil, err
	}
	parent, err := fs.resolve(parentPath(path))
	if err != nil {
		return nil, err
	}
	if !parent.IsDir() {
		return nil, fmt.Errorf("`%s`: %w", parentPath(path), common.ErrNotDir)
	}
	dir := parent.Inode
	if fs.child(dir, name) != nil {
		return nil, fmt.Errorf("`%s`: %w", path, common.ErrExists)
	}
	if dir.DirCnt+1 > fs.super.MaxDirCnt() {
		return nil, fmt.Errorf("`%s` holds %d entries: %w",
			parentPath(path), dir.DirCnt, common.ErrFileTooBig)
	}
	d := fs.NewDentry(name, ftype)
	if _, err := fs.AllocInode(d); err != nil {
		fs.release(d)
		return nil, err
	}
	fs.AllocDentry(dir, d)
	return d, nil
}

// Remove deletes the file or directory at path; a directory is removed with
// everything below it.
func (fs *Fs) Remove(path string) error {
	d, err := fs.resolve(path)
	if err != nil {
		return err
	}
	parent := fs.Parent(d)
	if parent == nil {
		return fmt.Errorf("removing `%s`: %w", path, common.ErrInval)
	}
	if err := fs.DropInode(d.Inode); err != nil {
		return err
	}
	if _, err := fs.DropDentry(parent.Inode, d); err != nil {
		return err
	}
	fs.release(d)
	return nil
}

// ReadDir lists a directory in chain order. Children are not loaded, so
// Size and DirCnt are zero for entries that have not been traversed yet.
func (fs *Fs) ReadDir(path string) ([]Attr, error) {
	d, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	if !d.IsDir() {
		return nil, fmt.Errorf("`%s`: %w", path, common.ErrNotDir)
	}
	attrs := make([]Attr, 0, d.Inode.DirCnt)
	for cur := d.Inode.Dentrys; cur != nil; cur = cur.brother {
		attrs = append(attrs, fs.attr(cur))
	}
	return attrs, nil
}

func (fs *Fs) Stat(path string) (Attr, error) {
	d, err := fs.resolve(path)
	if err != nil {
		return Attr{}, err
	}
	return fs.attr(d), nil
}

// Statfs summarizes capacity and usage.
type Statfs struct {
	BlockSize   uint64
	Blocks      uint64
	FreeBlocks  uint64
	Inodes      uint64
	FreeInodes  uint64
	UsedBytes   uint64
	MaxFileSize uint64
	MaxNameLen  uint64
}

func (fs *Fs) Statfs() (Statfs, error) {
	if err := fs.checkMounted(); err != nil {
		return Statfs{}, err
	}
	return Statfs{
		BlockSize:   fs.super.SzBlk,
		Blocks:      fs.dmap.Max(),
		FreeBlocks:  fs.dmap.NumFree(),
		Inodes:      fs.imap.Max(),
		FreeInodes:  fs.imap.NumFree(),
		UsedBytes:   fs.super.SzUsage,
		MaxFileSize: fs.super.MaxFileSz(),
		MaxNameLen:  common.MAXNAMELEN,
	}, nil
}
