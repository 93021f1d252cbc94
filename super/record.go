package super

import (
	"github.com/tchajed/marshal"
)

// RECORDSZ is the encoded size of a Record; it always fits in one block.
const RECORDSZ uint64 = 12 * 8

// Record is the on-disk superblock: just enough to reconstruct the layout
// and the usage counter. Offsets are in bytes from the start of the device.
type Record struct {
	Magic       uint64
	Usage       uint64
	MaxIno      uint64
	ImapBlks    uint64
	ImapOfs     uint64
	MaxDno      uint64
	DmapBlks    uint64
	DmapOfs     uint64
	InodeOfs    uint64
	DataOfs     uint64
	InodePerBlk uint64
	InodeBlks   uint64
}

func (r Record) Encode() []byte {
	enc := marshal.NewEnc(RECORDSZ)
	enc.PutInt(r.Magic)
	enc.PutInt(r.Usage)
	enc.PutInt(r.MaxIno)
	enc.PutInt(r.ImapBlks)
	enc.PutInt(r.ImapOfs)
	enc.PutInt(r.MaxDno)
	enc.PutInt(r.DmapBlks)
	enc.PutInt(r.DmapOfs)
	enc.PutInt(r.InodeOfs)
	enc.PutInt(r.DataOfs)
	enc.PutInt(r.InodePerBlk)
	enc.PutInt(r.InodeBlks)
	return enc.Finish()
}

func DecodeRecord(b []byte) Record {
	dec := marshal.NewDec(b)
	var r Record
	r.Magic = dec.GetInt()
	r.Usage = dec.GetInt()
	r.MaxIno = dec.GetInt()
	r.ImapBlks = dec.GetInt()
	r.ImapOfs = dec.GetInt()
	r.MaxDno = dec.GetInt()
	r.DmapBlks = dec.GetInt()
	r.DmapOfs = dec.GetInt()
	r.InodeOfs = dec.GetInt()
	r.DataOfs = dec.GetInt()
	r.InodePerBlk = dec.GetInt()
	r.InodeBlks = dec.GetInt()
	return r
}
