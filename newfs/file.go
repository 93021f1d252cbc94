package newfs

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

func (fs *Fs) checkFile(inode *Inode) error {
	if fs.IsDir(inode) {
		return fmt.Errorf("inode %d: %w", inode.Ino, common.ErrIsDir)
	}
	return nil
}

func (fs *Fs) checkSize(inode *Inode, size uint64) error {
	if max := fs.super.MaxFileSz(); size > max {
		return fmt.Errorf("inode %d: size %d over %d: %w",
			inode.Ino, size, max, common.ErrFileTooBig)
	}
	return nil
}

// ReadData returns up to n bytes of a regular file starting at off.
func (fs *Fs) ReadData(inode *Inode, off uint64, n uint64) ([]byte, error) {
	if err := fs.checkFile(inode); err != nil {
		return nil, err
	}
	if off >= inode.Size {
		return []byte{}, nil
	}
	end := off + n
	if util.SumOverflows(off, n) || end > inode.Size {
		end = inode.Size
	}
	b := make([]byte, end-off)
	copy(b, inode.Data[off:end])
	return b, nil
}

// WriteData stores b at off in a regular file, growing it as needed. A write
// that would take the file past its block capacity fails without changing
// it.
func (fs *Fs) WriteData(inode *Inode, off uint64, b []byte) (int, error) {
	if err := fs.checkFile(inode); err != nil {
		return 0, err
	}
	if util.SumOverflows(off, uint64(len(b))) {
		return 0, fmt.Errorf("write at %d overflows: %w", off, common.ErrInval)
	}
	end := off + uint64(len(b))
	if err := fs.checkSize(inode, end); err != nil {
		return 0, err
	}
	if end > inode.Size {
		fs.setSize(inode, end)
	}
	copy(inode.Data[off:], b)
	return len(b), nil
}

// Truncate sets a regular file's size, zero-filling when it grows.
func (fs *Fs) Truncate(inode *Inode, size uint64) error {
	if err := fs.checkFile(inode); err != nil {
		return err
	}
	if err := fs.checkSize(inode, size); err != nil {
		return err
	}
	fs.setSize(inode, size)
	return nil
}

func (fs *Fs) setSize(inode *Inode, size uint64) {
	if size <= uint64(len(inode.Data)) {
		inode.Data = inode.Data[:size]
	} else {
		data := make([]byte, size)
		copy(data, inode.Data)
		inode.Data = data
	}
	inode.Size = size
}
