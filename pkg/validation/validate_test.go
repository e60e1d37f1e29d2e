package validation

import (
	"github.com/bgrewell/fat-kit/pkg/bootsector"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValidSectorSize(t *testing.T) {
	for _, size := range []uint16{512, 1024, 2048, 4096} {
		require.True(t, ValidSectorSize(size), "size %d", size)
	}
	for _, size := range []uint16{0, 1, 256, 513, 768, 3000, 8192, 0xFFFF} {
		require.False(t, ValidSectorSize(size), "size %d", size)
	}
}

func TestValidSectorsPerCluster(t *testing.T) {
	for _, n := range []uint8{1, 2, 4, 8, 16, 32, 64, 128} {
		require.True(t, ValidSectorsPerCluster(n), "n %d", n)
	}
	for _, n := range []uint8{0, 3, 6, 12, 255} {
		require.False(t, ValidSectorsPerCluster(n), "n %d", n)
	}
}

func TestGeometry(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		bs := bootsector.BootSector{
			BytesPerSector:      512,
			SectorsPerCluster:   8,
			ReservedSectors:     32,
			NumFATs:             2,
			SectorsPerFAT:       16,
			RootDirFirstCluster: 2,
		}
		require.Empty(t, Geometry(bs))
	})

	t.Run("zeroed sector", func(t *testing.T) {
		findings := Geometry(bootsector.BootSector{})
		require.Len(t, findings, 6)
		require.ErrorIs(t, findings[0], ErrSectorSize)
		require.ErrorIs(t, findings[1], ErrSectorsPerCluster)
		require.ErrorIs(t, findings[2], ErrNoReservedSectors)
		require.ErrorIs(t, findings[3], ErrNoFATs)
		require.ErrorIs(t, findings[4], ErrEmptyFAT)
		require.ErrorIs(t, findings[5], ErrRootCluster)
	})

	t.Run("single finding", func(t *testing.T) {
		bs := bootsector.BootSector{
			BytesPerSector:      4096,
			SectorsPerCluster:   3,
			ReservedSectors:     1,
			NumFATs:             1,
			SectorsPerFAT:       1,
			RootDirFirstCluster: 9,
		}
		findings := Geometry(bs)
		require.Len(t, findings, 1)
		require.ErrorIs(t, findings[0], ErrSectorsPerCluster)
		require.Contains(t, findings[0].Error(), ": 3")
	})
}
