package common

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrno(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(syscall.Errno(0), Errno(nil))
	assert.Equal(syscall.ENOSPC, Errno(ErrNoSpace))
	assert.Equal(syscall.ENOENT,
		Errno(fmt.Errorf("looking up `/a`: %w", ErrNotFound)),
		"wrapped kinds are recognized")
	assert.Equal(syscall.EFBIG, Errno(ErrFileTooBig))
	assert.Equal(syscall.EIO, Errno(fmt.Errorf("something else")),
		"unknown errors are reported as EIO")
}

func TestRecordSizes(t *testing.T) {
	assert.Equal(t, uint64(40), INODESZ)
	assert.Equal(t, uint64(136), DENTRYSZ)
}
