package disk

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	gdisk "github.com/tchajed/goose/machine/disk"
)

// DeviceSuite runs the same checks against every Device implementation.
type DeviceSuite struct {
	suite.Suite
	open func() Device
	d    Device
	ioSz uint64
	size uint64
}

func (suite *DeviceSuite) SetupTest() {
	suite.d = suite.open()
	var err error
	suite.ioSz, err = suite.d.Ioctl(IOC_REQ_DEVICE_IO_SZ)
	suite.Require().NoError(err)
	suite.size, err = suite.d.Ioctl(IOC_REQ_DEVICE_SIZE)
	suite.Require().NoError(err)
}

func (suite *DeviceSuite) TearDownTest() {
	suite.d.Close()
}

func (suite *DeviceSuite) unit(b byte) []byte {
	u := make([]byte, suite.ioSz)
	for i := range u {
		u[i] = b
	}
	return u
}

func (suite *DeviceSuite) TestReadWrite() {
	d := suite.d
	_, err := d.Seek(int64(suite.ioSz), io.SeekStart)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Write(suite.unit(1)))
	suite.Require().NoError(d.Write(suite.unit(2)))

	got := make([]byte, suite.ioSz)
	_, err = d.Seek(int64(suite.ioSz), io.SeekStart)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Read(got))
	suite.Equal(suite.unit(1), got)
	suite.Require().NoError(d.Read(got))
	suite.Equal(suite.unit(2), got, "transfers advance the position")

	_, err = d.Seek(0, io.SeekStart)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Read(got))
	suite.Equal(suite.unit(0), got)
}

func (suite *DeviceSuite) TestUnitSizedOnly() {
	suite.Error(suite.d.Read(make([]byte, suite.ioSz/2)))
	suite.Error(suite.d.Write(make([]byte, suite.ioSz+1)))
}

func (suite *DeviceSuite) TestBounds() {
	_, err := suite.d.Seek(int64(suite.size)+1, io.SeekStart)
	suite.Error(err)
	_, err = suite.d.Seek(0, io.SeekEnd)
	suite.Require().NoError(err)
	suite.Error(suite.d.Read(make([]byte, suite.ioSz)),
		"no transfer past the end")
}

func TestMemDevice(t *testing.T) {
	suite.Run(t, &DeviceSuite{open: func() Device {
		return NewMemDevice(64*1024, 512)
	}})
}

func TestGooseDevice(t *testing.T) {
	suite.Run(t, &DeviceSuite{open: func() Device {
		return FromGoose(gdisk.NewMemDisk(16))
	}})
}

func TestFileDevice(t *testing.T) {
	dir := t.TempDir()
	n := 0
	suite.Run(t, &DeviceSuite{open: func() Device {
		n++
		path := filepath.Join(dir, "img"+string(rune('a'+n)))
		d, err := Create(path, 64*1024)
		require.NoError(t, err)
		return d
	}})
}

func TestGeometry(t *testing.T) {
	assert := assert.New(t)
	d := NewMemDevice(4*1024*1024+100, 512)
	size, err := d.Ioctl(IOC_REQ_DEVICE_SIZE)
	assert.NoError(err)
	assert.Equal(uint64(4*1024*1024), size, "capacity is whole units")
	ioSz, err := d.Ioctl(IOC_REQ_DEVICE_IO_SZ)
	assert.NoError(err)
	assert.Equal(uint64(512), ioSz)

	g := FromGoose(gdisk.NewMemDisk(10))
	ioSz, _ = g.Ioctl(IOC_REQ_DEVICE_IO_SZ)
	assert.Equal(uint64(gdisk.BlockSize), ioSz)
}

func TestMemReopen(t *testing.T) {
	d := NewMemDevice(4096, 512)
	d.Write(append([]byte{7}, make([]byte, 511)...))
	d.Close()
	assert.Error(t, d.Read(make([]byte, 512)), "closed handle is unusable")

	r := d.Reopen()
	got := make([]byte, 512)
	assert.NoError(t, r.Read(got))
	assert.Equal(t, byte(7), got[0])
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(os.TempDir(), "newfs-does-not-exist"))
	assert.Error(t, err)
}
