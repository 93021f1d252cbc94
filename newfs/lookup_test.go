package newfs

import (
	"errors"

	"github.com/mit-pdos/go-newfs/common"
)

func (suite *FsSuite) TestLookup() {
	fs := suite.fs
	a := suite.create("/a", common.DIR)
	b := suite.write("/a/b", []byte("bee"))

	d, found, root, err := fs.Lookup("/a/b")
	suite.Require().NoError(err)
	suite.True(found)
	suite.False(root)
	suite.Equal(b, d)

	d, found, _, err = fs.Lookup("/a/b/c")
	suite.Require().NoError(err)
	suite.False(found, "a regular file stops the walk")
	suite.Equal(b, d)

	d, found, _, err = fs.Lookup("/a/x")
	suite.Require().NoError(err)
	suite.False(found)
	suite.Equal(a, d, "a miss returns the directory searched")

	d, found, _, err = fs.Lookup("/x")
	suite.Require().NoError(err)
	suite.False(found)
	suite.Equal(fs.Root(), d)

	d, found, root, err = fs.Lookup("/")
	suite.Require().NoError(err)
	suite.True(found)
	suite.True(root)
	suite.Equal(fs.Root(), d)

	d, found, _, err = fs.Lookup("//a//b/")
	suite.Require().NoError(err)
	suite.True(found, "empty components are skipped")
	suite.Equal(b, d)
}

func (suite *FsSuite) TestLookupExactName() {
	fs := suite.fs
	suite.create("/abc", common.REGFILE)
	for _, p := range []string{"/ab", "/abcd", "/ABC"} {
		d, found, _, err := fs.Lookup(p)
		suite.Require().NoError(err)
		suite.False(found, p)
		suite.Equal(fs.Root(), d, p)
	}
}

func (suite *FsSuite) TestLookupRelative() {
	for _, p := range []string{"", "a", "a/b"} {
		_, _, _, err := suite.fs.Lookup(p)
		suite.True(errors.Is(err, common.ErrInval), p)
	}
}

func (suite *FsSuite) TestLookupHydrates() {
	suite.create("/a", common.DIR)
	suite.write("/a/f", []byte("data"))
	suite.remount()

	fs := suite.fs
	a := fs.GetDentry(fs.Root().Inode, 0)
	suite.Require().NotNil(a)
	suite.Nil(a.Inode, "children start cold")

	cold := suite.cnt.reads
	d, found, _, err := fs.Lookup("/a/f")
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Greater(suite.cnt.reads, cold, "first walk reads inodes")
	suite.NotNil(a.Inode)
	suite.Equal([]byte("data"), d.Inode.Data)

	warm := suite.cnt.reads
	_, _, _, err = fs.Lookup("/a/f")
	suite.Require().NoError(err)
	suite.Equal(warm, suite.cnt.reads, "second walk stays in memory")
}

type node struct {
	name   string
	ftype  common.FileType
	size   uint64
	dirCnt uint64
	data   []byte
	kids   []node
}

// snapshot walks the tree from d, hydrating as it goes.
func (suite *FsSuite) snapshot(d *Dentry) node {
	inode, err := suite.fs.hydrate(d)
	suite.Require().NoError(err)
	n := node{
		name:   d.Name,
		ftype:  d.Ftype,
		size:   inode.Size,
		dirCnt: inode.DirCnt,
	}
	if d.IsDir() {
		for cur := inode.Dentrys; cur != nil; cur = cur.Brother() {
			n.kids = append(n.kids, suite.snapshot(cur))
		}
	} else {
		n.data = append([]byte{}, inode.Data...)
	}
	return n
}

func (suite *FsSuite) buildTree() {
	suite.create("/a", common.DIR)
	suite.write("/a/b", []byte("hello"))
	suite.create("/a/c", common.DIR)
	suite.write("/a/c/d", content(3000, 7))
	suite.create("/a/c/empty", common.REGFILE)
	suite.create("/e", common.DIR)
	suite.write("/f", content(6*blkSz, 11))
}

func (suite *FsSuite) TestRoundTrip() {
	suite.buildTree()
	before := suite.snapshot(suite.fs.Root())
	suite.remount()
	after := suite.snapshot(suite.fs.Root())
	suite.Equal(before, after)

	suite.Equal(uint64(3*common.DENTRYSZ), after.size, "root size follows its entries")
	suite.remount()
	suite.Equal(before, suite.snapshot(suite.fs.Root()), "order is stable across remounts")
}

func (suite *FsSuite) TestRemountListing() {
	suite.buildTree()
	ls, err := suite.fs.ReadDir("/a")
	suite.Require().NoError(err)
	suite.Equal([]string{"c", "b"}, names(ls), "newest entry first")

	suite.remount()
	again, err := suite.fs.ReadDir("/a")
	suite.Require().NoError(err)
	suite.Equal(names(ls), names(again))
	suite.Equal(ls[0].Ino, again[0].Ino)
	suite.Equal(ls[1].Ftype, again[1].Ftype)

	_, err = suite.fs.ReadDir("/f")
	suite.True(errors.Is(err, common.ErrNotDir))
}

func (suite *FsSuite) TestSyncSubtree() {
	suite.buildTree()
	fs := suite.fs
	c, _, _, err := fs.Lookup("/a/c")
	suite.Require().NoError(err)
	suite.Require().NoError(fs.SyncInode(c.Inode))

	// a fresh handle sees c's subtree but not the unsynced root
	other, err := Mount(suite.dev.Reopen())
	suite.Require().NoError(err)
	suite.Equal(uint64(0), other.Root().Inode.DirCnt)
	inode, err := other.ReadInode(other.NewDentry("c", common.DIR), c.Ino)
	suite.Require().NoError(err)
	suite.Equal(uint64(2), inode.DirCnt)
	suite.Require().NoError(other.super.Drv.Close())
}

func (suite *FsSuite) TestStat() {
	suite.buildTree()
	a, err := suite.fs.Stat("/a/c/d")
	suite.Require().NoError(err)
	suite.Equal(Attr{
		Name:  "d",
		Ftype: common.REGFILE,
		Ino:   a.Ino,
		Size:  3000,
		Mode:  common.DEFAULTPERM,
	}, a)
	_, err = suite.fs.Stat("/a/zz")
	suite.True(errors.Is(err, common.ErrNotFound))
}

func (suite *FsSuite) TestUsage() {
	fs := suite.fs
	suite.write("/f", content(2*blkSz+1, 0))
	suite.Require().NoError(fs.SyncInode(fs.Root().Inode))
	// root's entry block and three content blocks
	suite.Equal(uint64(4*blkSz), suite.statfs().UsedBytes)
	suite.remount()
	suite.Equal(uint64(4*blkSz), suite.statfs().UsedBytes, "usage is persisted")
	suite.Require().NoError(suite.fs.Remove("/f"))
	suite.Equal(uint64(blkSz), suite.statfs().UsedBytes)
}

func names(attrs []Attr) []string {
	var ns []string
	for _, a := range attrs {
		ns = append(ns, a.Name)
	}
	return ns
}
