// Package validation holds advisory consistency checks for decoded FAT32 boot
// sectors. Decoding never calls into this package; tools decide what to do
// with the findings.
package validation

import (
	"errors"
	"fmt"
	"github.com/bgrewell/fat-kit/pkg/bootsector"
	"github.com/bgrewell/fat-kit/pkg/consts"
	"math/bits"
)

var (
	ErrSectorSize        = errors.New("bytes per sector is not 512, 1024, 2048 or 4096")
	ErrSectorsPerCluster = errors.New("sectors per cluster is not a nonzero power of two")
	ErrNoReservedSectors = errors.New("reserved sector count is zero")
	ErrNoFATs            = errors.New("FAT count is zero")
	ErrEmptyFAT          = errors.New("sectors per FAT is zero")
	ErrRootCluster       = errors.New("root directory cluster is reserved")
)

// ValidSectorSize reports whether size is one of the sector sizes FAT allows.
func ValidSectorSize(size uint16) bool {
	return size >= consts.FAT_MIN_SECTOR_SIZE &&
		size <= consts.FAT_MAX_SECTOR_SIZE &&
		bits.OnesCount16(size) == 1
}

// ValidSectorsPerCluster reports whether n is a nonzero power of two.
func ValidSectorsPerCluster(n uint8) bool {
	return bits.OnesCount8(n) == 1
}

// Geometry returns every inconsistency found in bs. A nil result means the
// geometry looks usable; it says nothing about the rest of the volume.
func Geometry(bs bootsector.BootSector) []error {
	var findings []error

	if !ValidSectorSize(bs.BytesPerSector) {
		findings = append(findings, fmt.Errorf("%w: %d", ErrSectorSize, bs.BytesPerSector))
	}
	if !ValidSectorsPerCluster(bs.SectorsPerCluster) {
		findings = append(findings, fmt.Errorf("%w: %d", ErrSectorsPerCluster, bs.SectorsPerCluster))
	}
	if bs.ReservedSectors == 0 {
		findings = append(findings, ErrNoReservedSectors)
	}
	if bs.NumFATs == 0 {
		findings = append(findings, ErrNoFATs)
	}
	if bs.SectorsPerFAT == 0 {
		findings = append(findings, ErrEmptyFAT)
	}
	if bs.RootDirFirstCluster < consts.FAT32_RESERVED_CLUSTERS {
		findings = append(findings, fmt.Errorf("%w: %d", ErrRootCluster, bs.RootDirFirstCluster))
	}

	return findings
}
