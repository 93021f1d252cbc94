package addr

import (
	"github.com/mit-pdos/go-newfs/common"
)

// Addr identifies one bit of an in-memory bitmap buffer.
//
// Byte is the index of the byte holding the bit, and Bit is the position of
// the bit within that byte, least-significant first. This matches the order
// in which bitmaps are laid out on disk.
type Addr struct {
	Byte uint64
	Bit  uint64
}

func MkAddr(byt uint64, bit uint64) Addr {
	return Addr{Byte: byt, Bit: bit}
}

// MkBitAddr locates bit n of a bitmap.
func MkBitAddr(n uint64) Addr {
	return MkAddr(n/common.NBITBYTE, n%common.NBITBYTE)
}

// Flatid is the bitmap index of the bit, the inverse of MkBitAddr.
func (a Addr) Flatid() uint64 {
	return a.Byte*common.NBITBYTE + a.Bit
}

func (a Addr) Mask() byte {
	return 1 << a.Bit
}
