// Package bootsector decodes the FAT32 BIOS Parameter Block fields needed to
// locate the FAT tables and the root directory of a volume.
//
// Decoding is a pure structural extraction. It performs no I/O, keeps no
// state between calls and does not check signatures or field consistency.
// See package validation for opt-in geometry checks.
package bootsector

import (
	"errors"
	"fmt"
	"github.com/bgrewell/fat-kit/pkg/consts"
	"github.com/bgrewell/fat-kit/pkg/encoding"
)

var (
	// ErrBufferTooSmall is returned by Decode when fewer than 512 bytes are supplied.
	ErrBufferTooSmall = errors.New("boot sector buffer too small")

	// ErrReservedCluster is returned when a data offset is requested for cluster 0 or 1.
	ErrReservedCluster = errors.New("cluster number is reserved")
)

// BootSector holds the FAT32 geometry fields read from a boot sector. It is a
// plain value; it keeps no reference to the buffer it was decoded from.
type BootSector struct {
	// Logical sector size in bytes (BPB_BytsPerSec, offset 11).
	BytesPerSector uint16 `json:"bytes_per_sector"`
	// Sectors per allocation unit (BPB_SecPerClus, offset 13).
	SectorsPerCluster uint8 `json:"sectors_per_cluster"`
	// Sectors preceding the first FAT (BPB_RsvdSecCnt, offset 14).
	ReservedSectors uint16 `json:"reserved_sectors"`
	// Number of FAT copies (BPB_NumFATs, offset 16).
	NumFATs uint8 `json:"num_fats"`
	// Size of one FAT in sectors (BPB_FATSz32, offset 36).
	SectorsPerFAT uint32 `json:"sectors_per_fat"`
	// First cluster of the root directory (BPB_RootClus, offset 44).
	RootDirFirstCluster uint32 `json:"root_dir_first_cluster"`
}

// Decode extracts a BootSector from the first 512 bytes of data. All
// multi-byte fields are little-endian. The only failure is a buffer shorter
// than 512 bytes, in which case the zero BootSector is returned alongside an
// error wrapping ErrBufferTooSmall. data is neither modified nor retained.
func Decode(data []byte) (BootSector, error) {
	if len(data) < consts.FAT32_BOOT_SECTOR_SIZE {
		return BootSector{}, fmt.Errorf("%w: got %d bytes, need %d",
			ErrBufferTooSmall, len(data), consts.FAT32_BOOT_SECTOR_SIZE)
	}

	const (
		bps  = consts.BPB_BYTES_PER_SECTOR_OFFSET
		spc  = consts.BPB_SECTORS_PER_CLUSTER_OFFSET
		rsvd = consts.BPB_RESERVED_SECTORS_OFFSET
		nfat = consts.BPB_NUM_FATS_OFFSET
		spf  = consts.BPB_SECTORS_PER_FAT_OFFSET
		root = consts.BPB_ROOT_CLUSTER_OFFSET
	)

	return BootSector{
		BytesPerSector:      encoding.Uint16LE([2]byte(data[bps : bps+2])),
		SectorsPerCluster:   data[spc],
		ReservedSectors:     encoding.Uint16LE([2]byte(data[rsvd : rsvd+2])),
		NumFATs:             data[nfat],
		SectorsPerFAT:       encoding.Uint32LE([4]byte(data[spf : spf+4])),
		RootDirFirstCluster: encoding.Uint32LE([4]byte(data[root : root+4])),
	}, nil
}

// ClusterSize returns the size of a single cluster in bytes.
func (b BootSector) ClusterSize() uint32 {
	return uint32(b.BytesPerSector) * uint32(b.SectorsPerCluster)
}

// FATSize returns the size of one FAT copy in bytes.
func (b BootSector) FATSize() int64 {
	return int64(b.SectorsPerFAT) * int64(b.BytesPerSector)
}

// FATOffset returns the byte offset, relative to the start of the volume, of
// FAT copy index. It does not check index against NumFATs.
func (b BootSector) FATOffset(index uint8) int64 {
	sector := int64(b.ReservedSectors) + int64(index)*int64(b.SectorsPerFAT)
	return sector * int64(b.BytesPerSector)
}

// FirstDataSector returns the first sector of the data region (cluster 2).
func (b BootSector) FirstDataSector() uint64 {
	return uint64(b.ReservedSectors) + uint64(b.NumFATs)*uint64(b.SectorsPerFAT)
}

// ClusterOffset returns the byte offset, relative to the start of the volume,
// of a data cluster.
func (b BootSector) ClusterOffset(cluster uint32) (int64, error) {
	if cluster < consts.FAT32_RESERVED_CLUSTERS {
		return 0, fmt.Errorf("%w: %d", ErrReservedCluster, cluster)
	}
	sector := b.FirstDataSector() + uint64(cluster-consts.FAT32_RESERVED_CLUSTERS)*uint64(b.SectorsPerCluster)
	return int64(sector * uint64(b.BytesPerSector)), nil
}

// RootDirOffset returns the byte offset of the root directory's first cluster.
func (b BootSector) RootDirOffset() (int64, error) {
	return b.ClusterOffset(b.RootDirFirstCluster)
}

func (b BootSector) String() string {
	return fmt.Sprintf("FAT32 boot sector: %d bytes/sector, %d sectors/cluster, %d reserved, %d FATs x %d sectors, root cluster %d",
		b.BytesPerSector, b.SectorsPerCluster, b.ReservedSectors, b.NumFATs, b.SectorsPerFAT, b.RootDirFirstCluster)
}

// --- info.ImageObject ---

func (b BootSector) Type() string {
	return "Boot Sector"
}

func (b BootSector) Name() string {
	return "FAT32 Boot Sector"
}

func (b BootSector) Description() string {
	return "BIOS Parameter Block describing the volume geometry"
}

func (b BootSector) Properties() map[string]interface{} {
	return map[string]interface{}{
		"BytesPerSector":      b.BytesPerSector,
		"SectorsPerCluster":   b.SectorsPerCluster,
		"ReservedSectors":     b.ReservedSectors,
		"NumFATs":             b.NumFATs,
		"SectorsPerFAT":       b.SectorsPerFAT,
		"RootDirFirstCluster": b.RootDirFirstCluster,
	}
}

// Offset is always zero; the boot sector is the first sector of the volume.
func (b BootSector) Offset() int64 {
	return 0
}

func (b BootSector) Size() int64 {
	return consts.FAT32_BOOT_SECTOR_SIZE
}
