package alloc

import (
	"fmt"

	"github.com/mit-pdos/go-newfs/addr"
	"github.com/mit-pdos/go-newfs/common"
	"github.com/mit-pdos/go-newfs/util"
)

// Alloc uses a bit map to allocate and free numbers. Bit 0 corresponds to
// number 0, bit 1 to 1, and so on; numbers at or above max are never handed
// out even if the buffer has room for them.
//
// Allocation is first-fit: the lowest clear bit is claimed, so a freed number
// is reused before any higher number that was never allocated.
type Alloc struct {
	bitmap []byte
	max    uint64
}

// MkAlloc allocates out of an existing bitmap buffer, which it takes
// ownership of.
func MkAlloc(bitmap []byte, max uint64) *Alloc {
	if bits := uint64(len(bitmap)) * common.NBITBYTE; max > bits {
		max = bits
	}
	return &Alloc{bitmap: bitmap, max: max}
}

func (a *Alloc) inRange(num uint64) error {
	if num >= a.max {
		return fmt.Errorf("number %d out of range [0, %d): %w",
			num, a.max, common.ErrInval)
	}
	return nil
}

// AllocNum claims the lowest free number.
func (a *Alloc) AllocNum() (uint64, error) {
	nbyte := util.RoundUp(a.max, common.NBITBYTE)
	for i := uint64(0); i < nbyte; i++ {
		if a.bitmap[i] == 0xff {
			continue
		}
		for bit := uint64(0); bit < common.NBITBYTE; bit++ {
			ad := addr.MkAddr(i, bit)
			if ad.Flatid() >= a.max {
				break
			}
			if a.bitmap[i]&ad.Mask() == 0 {
				a.bitmap[i] |= ad.Mask()
				util.DPrintf(5, "AllocNum: %d\n", ad.Flatid())
				return ad.Flatid(), nil
			}
		}
	}
	return 0, fmt.Errorf("all %d numbers in use: %w", a.max, common.ErrNoSpace)
}

// FreeNum releases num. Freeing a number that is already free is a no-op.
func (a *Alloc) FreeNum(num uint64) error {
	if err := a.inRange(num); err != nil {
		return err
	}
	ad := addr.MkBitAddr(num)
	a.bitmap[ad.Byte] &^= ad.Mask()
	util.DPrintf(5, "FreeNum: %d\n", num)
	return nil
}

func (a *Alloc) IsUsed(num uint64) bool {
	if num >= a.max {
		return false
	}
	ad := addr.MkBitAddr(num)
	return a.bitmap[ad.Byte]&ad.Mask() != 0
}

func popCnt(b byte) uint64 {
	var count uint64
	var x = b
	for i := uint64(0); i < 8; i++ {
		count += uint64(x & 1)
		x = x >> 1
	}
	return count
}

// NumFree counts the free numbers below max.
func (a *Alloc) NumFree() uint64 {
	full := a.max / common.NBITBYTE
	var used uint64
	for _, b := range a.bitmap[:full] {
		used += popCnt(b)
	}
	for n := full * common.NBITBYTE; n < a.max; n++ {
		if a.IsUsed(n) {
			used++
		}
	}
	return a.max - used
}

func (a *Alloc) Max() uint64 {
	return a.max
}

// Bitmap returns the backing buffer, for writing it back to disk.
func (a *Alloc) Bitmap() []byte {
	return a.bitmap
}
