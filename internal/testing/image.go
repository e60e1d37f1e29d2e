package testing

import (
	"github.com/bgrewell/fat-kit/pkg/consts"
	"github.com/bgrewell/fat-kit/pkg/encoding"
)

// Geometry is the set of BPB values written into a synthetic boot sector.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	SectorsPerFAT     uint32
	RootCluster       uint32
}

// SampleGeometry returns a small but well-formed FAT32 geometry:
// 512 bytes/sector, 8 sectors/cluster, 32 reserved sectors, 2 FATs of 16
// sectors and the root directory at cluster 2.
func SampleGeometry() Geometry {
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 8,
		ReservedSectors:   32,
		NumFATs:           2,
		SectorsPerFAT:     16,
		RootCluster:       2,
	}
}

// BootSectorBytes returns a zero-filled 512-byte sector with only the six
// geometry fields set.
func BootSectorBytes(g Geometry) []byte {
	sector := make([]byte, consts.FAT32_BOOT_SECTOR_SIZE)
	PutGeometry(sector, g)
	return sector
}

// PutGeometry writes the geometry fields of g into sector at their BPB offsets.
// sector must be at least 48 bytes long.
func PutGeometry(sector []byte, g Geometry) {
	bps := encoding.PutUint16LE(g.BytesPerSector)
	copy(sector[consts.BPB_BYTES_PER_SECTOR_OFFSET:], bps[:])
	sector[consts.BPB_SECTORS_PER_CLUSTER_OFFSET] = g.SectorsPerCluster
	rsvd := encoding.PutUint16LE(g.ReservedSectors)
	copy(sector[consts.BPB_RESERVED_SECTORS_OFFSET:], rsvd[:])
	sector[consts.BPB_NUM_FATS_OFFSET] = g.NumFATs
	spf := encoding.PutUint32LE(g.SectorsPerFAT)
	copy(sector[consts.BPB_SECTORS_PER_FAT_OFFSET:], spf[:])
	root := encoding.PutUint32LE(g.RootCluster)
	copy(sector[consts.BPB_ROOT_CLUSTER_OFFSET:], root[:])
}

// FATPatternByte is the byte stored at position pos of FAT copy index in
// images built by VolumeImage.
func FATPatternByte(index int, pos int) byte {
	return byte(index*31 + pos)
}

// VolumeImage builds an in-memory volume for g: the boot sector, the rest of
// the reserved area, every FAT copy filled with FATPatternByte and one data
// cluster. The whole image is shifted by lead bytes of 0xEE to emulate a
// partition that does not start at offset zero.
func VolumeImage(g Geometry, lead int) []byte {
	bps := int(g.BytesPerSector)
	fatSize := int(g.SectorsPerFAT) * bps
	dataStart := (int(g.ReservedSectors) + int(g.NumFATs)*int(g.SectorsPerFAT)) * bps
	total := dataStart + int(g.SectorsPerCluster)*bps
	if total < consts.FAT32_BOOT_SECTOR_SIZE {
		total = consts.FAT32_BOOT_SECTOR_SIZE
	}

	img := make([]byte, lead+total)
	for i := 0; i < lead; i++ {
		img[i] = 0xEE
	}
	vol := img[lead:]
	PutGeometry(vol, g)

	for f := 0; f < int(g.NumFATs); f++ {
		start := (int(g.ReservedSectors) + f*int(g.SectorsPerFAT)) * bps
		for pos := 0; pos < fatSize; pos++ {
			vol[start+pos] = FATPatternByte(f, pos)
		}
	}
	return img
}
