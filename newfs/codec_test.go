package newfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-pdos/go-newfs/common"
)

func TestInodeRecord(t *testing.T) {
	assert := assert.New(t)
	r := inodeRecord{
		ino:    7,
		size:   2500,
		dirCnt: 0,
		ftype:  common.REGFILE,
		blocks: [common.DATAPERFILE]int32{4, 9, 12, -1, -1, -1},
	}
	b := r.encode()
	assert.Equal(common.INODESZ, uint64(len(b)))
	assert.Equal([]byte{7, 0, 0, 0}, b[0:4])
	assert.Equal([]byte{4, 0, 0, 0}, b[16:20], "block pointers follow the header")
	assert.Equal([]byte{0xff, 0xff, 0xff, 0xff}, b[28:32], "sentinel is -1")
	assert.Equal(r, decodeInode(b))
}

func TestDentryRecord(t *testing.T) {
	assert := assert.New(t)
	b := make([]byte, common.DENTRYSZ)
	for i := range b {
		b[i] = 0xEE
	}
	r := dentryRecord{name: "hello", ftype: common.DIR, ino: 42}
	r.encodeTo(b)
	assert.Equal(byte(0), b[5], "name field is NUL padded")
	assert.Equal(byte(0), b[common.MAXNAMELEN-1])
	assert.Equal([]byte{1, 0, 0, 0}, b[128:132])
	assert.Equal([]byte{42, 0, 0, 0}, b[132:136])
	assert.Equal(r, decodeDentry(b))

	long := dentryRecord{name: strings.Repeat("x", 128), ino: 1}
	long.encodeTo(b)
	assert.Equal(long, decodeDentry(b), "a full-width name has no terminator")
}

func TestPathHelpers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, CalcLvl("/"))
	assert.Equal(4, CalcLvl("/av/c/d/f"))
	assert.Equal(1, CalcLvl("/a/"))
	assert.Equal(2, CalcLvl("//a//b"))
	assert.Equal("f", GetFname("/av/c/d/f"))
	assert.Equal("", GetFname("/"))
	assert.Equal("/", parentPath("/a"))
	assert.Equal("/a/b", parentPath("/a/b/c"))
}
