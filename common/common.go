package common

const (
	MAGICNUM uint32 = 0x52415453

	SUPEROFS   uint64 = 0
	SUPERBLKS  uint64 = 1
	IMAPBLKS   uint64 = 1 // default inode bitmap size, in blocks
	DMAPBLKS   uint64 = 1 // default data bitmap size, in blocks
	NBITBYTE   uint64 = 8
	MAXNAMELEN uint64 = 128

	DATAPERFILE uint64 = 6 // block pointers per inode

	INODESZ  uint64 = 4*4 + DATAPERFILE*4 // on-disk InodeRecord size
	DENTRYSZ uint64 = MAXNAMELEN + 4 + 4  // on-disk DentryRecord size

	DEFAULTPERM uint32 = 0777
)

// Inum is an index into the inode bitmap and inode table.
type Inum uint32

// Dnum is an index into the data bitmap and data region.
type Dnum uint32

const (
	ROOTINUM Inum = 0

	// NULLBLK marks an unused slot in an inode's block-pointer array.
	NULLBLK int32 = -1
)

type FileType uint32

const (
	REGFILE FileType = 0
	DIR     FileType = 1
)

func (t FileType) String() string {
	switch t {
	case REGFILE:
		return "file"
	case DIR:
		return "dir"
	default:
		return "unknown"
	}
}
