// Package newfs is the in-memory side of the file system: a tree of
// directory entries and inodes that is loaded from disk on demand and
// written back on sync.
//
// All state hangs off a single Fs value created by Mount. Fs does no locking;
// a front end that serves concurrent callers must serialize every call into
// it.
//
// Ownership runs downward. A directory inode owns the head of its child
// chain (Dentrys), every entry owns the next sibling (brother) and its
// hydrated inode. Upward links (entry to parent, inode to owning entry) are
// DentryIDs resolved through the Fs, so the tree has no reference cycles.
package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/alloc"
	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/super"
)

// DentryID names a live directory entry within one mounted Fs. Zero is never
// assigned and stands for "no entry".
type DentryID uint64

const NULLDENTRY DentryID = 0

// Dentry is a named edge from a directory to an inode.
type Dentry struct {
	id      DentryID
	Name    string
	Ftype   common.FileType
	Ino     common.Inum
	parent  DentryID
	brother *Dentry

	// Inode is nil until the entry is first traversed.
	Inode *Inode
}

func (d *Dentry) ID() DentryID {
	return d.id
}

// Brother is the next entry in the parent directory's chain.
func (d *Dentry) Brother() *Dentry {
	return d.brother
}

func (d *Dentry) IsDir() bool {
	return d.Ftype == common.DIR
}

// Inode is the in-memory form of a file or directory.
type Inode struct {
	Ino    common.Inum
	Size   uint64
	DirCnt uint64
	dentry DentryID

	// Dentrys heads the chain of entries in a directory.
	Dentrys *Dentry

	// Data holds the content of a regular file.
	Data []byte

	// Blocks are the data blocks the inode held at its last read or sync.
	Blocks [common.DATAPERFILE]int32
}

func nullBlocks() [common.DATAPERFILE]int32 {
	var blocks [common.DATAPERFILE]int32
	for i := range blocks {
		blocks[i] = common.NULLBLK
	}
	return blocks
}

// Fs is a mounted file system.
type Fs struct {
	super   *super.FsSuper
	imap    *alloc.Alloc
	dmap    *alloc.Alloc
	root    *Dentry
	mounted bool

	dentries map[DentryID]*Dentry
	nextID   DentryID
}

func mkFs(s *super.FsSuper) *Fs {
	return &Fs{
		super:    s,
		dentries: make(map[DentryID]*Dentry),
		nextID:   1,
	}
}

// NewDentry creates an unattached entry. It becomes part of the tree through
// AllocInode and AllocDentry.
func (fs *Fs) NewDentry(name string, ftype common.FileType) *Dentry {
	d := &Dentry{
		id:    fs.nextID,
		Name:  name,
		Ftype: ftype,
	}
	fs.nextID++
	fs.dentries[d.id] = d
	return d
}

// release forgets an entry that is no longer reachable.
func (fs *Fs) release(d *Dentry) {
	delete(fs.dentries, d.id)
	d.brother = nil
	d.Inode = nil
}

func (fs *Fs) lookupID(id DentryID) *Dentry {
	if id == NULLDENTRY {
		return nil
	}
	return fs.dentries[id]
}

// Parent returns the directory entry d lives under, or nil for the root.
func (fs *Fs) Parent(d *Dentry) *Dentry {
	return fs.lookupID(d.parent)
}

// Owner returns the entry through which inode was reached.
func (fs *Fs) Owner(inode *Inode) *Dentry {
	return fs.lookupID(inode.dentry)
}

func (fs *Fs) IsDir(inode *Inode) bool {
	d := fs.Owner(inode)
	return d != nil && d.IsDir()
}

func (fs *Fs) Root() *Dentry {
	return fs.root
}

func (fs *Fs) Super() *super.FsSuper {
	return fs.super
}

// checkMounted fails once Unmount has released the allocators.
func (fs *Fs) checkMounted() error {
	if fs.imap == nil || fs.dmap == nil {
		return fmt.Errorf("file system not mounted: %w", common.ErrInval)
	}
	return nil
}

func (fs *Fs) Mounted() bool {
	return fs.mounted
}

// isRoot reports whether inode is the root directory's inode.
func (fs *Fs) isRoot(inode *Inode) bool {
	return fs.root != nil && inode.dentry == fs.root.id
}
