package common

import (
	"errors"
	"syscall"
)

// Error kinds returned by the engine. Callers match them with errors.Is;
// the concrete error usually wraps one of these with context.
var (
	ErrNoSpace     = errors.New("no space left")
	ErrNotFound    = errors.New("not found")
	ErrIsDir       = errors.New("is a directory")
	ErrNotDir      = errors.New("not a directory")
	ErrInval       = errors.New("invalid argument")
	ErrIO          = errors.New("i/o error")
	ErrUnsupported = errors.New("unsupported")
	ErrExists      = errors.New("already exists")
	ErrFileTooBig  = errors.New("exceeds per-inode block capacity")
	ErrNameTooLong = errors.New("name too long")
)

var errnos = []struct {
	kind  error
	errno syscall.Errno
}{
	{ErrNoSpace, syscall.ENOSPC},
	{ErrNotFound, syscall.ENOENT},
	{ErrIsDir, syscall.EISDIR},
	{ErrNotDir, syscall.ENOTDIR},
	{ErrInval, syscall.EINVAL},
	{ErrIO, syscall.EIO},
	{ErrUnsupported, syscall.ENXIO},
	{ErrExists, syscall.EEXIST},
	{ErrFileTooBig, syscall.EFBIG},
	{ErrNameTooLong, syscall.ENAMETOOLONG},
}

// Errno translates an engine error into the code a file-system front end
// reports. nil maps to 0 and unknown errors map to EIO.
func Errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	for _, e := range errnos {
		if errors.Is(err, e.kind) {
			return e.errno
		}
	}
	return syscall.EIO
}
