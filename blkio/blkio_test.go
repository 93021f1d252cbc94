package blkio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/disk"
)

// countingDevice records the transfers issued against a device.
type countingDevice struct {
	disk.Device
	reads  int
	writes int
}

func (c *countingDevice) Read(b []byte) error {
	c.reads++
	return c.Device.Read(b)
}

func (c *countingDevice) Write(b []byte) error {
	c.writes++
	return c.Device.Write(b)
}

func pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

func TestWindow(t *testing.T) {
	assert := assert.New(t)
	drv := MkDriver(nil, 512)

	start, bias, sz := drv.window(0, 512)
	assert.Equal([]uint64{0, 0, 512}, []uint64{start, bias, sz})

	start, bias, sz = drv.window(700, 100)
	assert.Equal([]uint64{512, 188, 512}, []uint64{start, bias, sz})

	start, bias, sz = drv.window(1000, 100)
	assert.Equal([]uint64{512, 488, 1024}, []uint64{start, bias, sz},
		"a request straddling a boundary covers both units")
}

func TestUnalignedRoundTrip(t *testing.T) {
	dev := disk.NewMemDevice(64*1024, 512)
	drv := MkDriver(dev, 512)

	data := pattern(1000, 3)
	require.NoError(t, drv.Write(700, data))

	got, err := drv.Read(700, 1000)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, data, dev.Image()[700:1700])
}

func TestWritePreservesNeighbors(t *testing.T) {
	dev := disk.NewMemDevice(8*1024, 512)
	drv := MkDriver(dev, 512)
	require.NoError(t, drv.Write(0, pattern(2048, 1)))

	require.NoError(t, drv.Write(510, []byte{0xAA, 0xBB, 0xCC, 0xDD}))

	img := dev.Image()
	expected := pattern(2048, 1)
	copy(expected[510:], []byte{0xAA, 0xBB, 0xCC, 0xDD})
	assert.Equal(t, expected, img[:2048],
		"only the requested bytes change inside the aligned window")
}

func TestTransferCounts(t *testing.T) {
	dev := &countingDevice{Device: disk.NewMemDevice(8*1024, 512)}
	drv := MkDriver(dev, 512)

	require.NoError(t, drv.Write(1000, make([]byte, 100)))
	assert.Equal(t, 2, dev.reads, "read-modify-write reads the window")
	assert.Equal(t, 2, dev.writes)

	_, err := drv.Read(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, dev.reads)
}

func TestDeviceErrorIsIO(t *testing.T) {
	dev := disk.NewMemDevice(1024, 512)
	drv := MkDriver(dev, 512)
	_, err := drv.Read(1000, 100)
	assert.True(t, errors.Is(err, common.ErrIO))
	err = drv.Write(2048, []byte{1})
	assert.True(t, errors.Is(err, common.ErrIO))
}
