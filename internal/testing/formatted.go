package testing

import (
	"fmt"
	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"io"
	"path/filepath"
)

// FormattedImageSize is the size of the image built by FormattedImage. It is
// below 260MiB, so mkfs picks one sector per cluster.
const FormattedImageSize = 10 * 1024 * 1024

// FormattedGeometry is the geometry go-diskfs writes for FormattedImageSize:
// 512 bytes/sector, 32 reserved sectors, 2 FATs, root at cluster 2 and one
// FAT sector per 128 data clusters.
func FormattedGeometry() Geometry {
	totalSectors := uint32(FormattedImageSize / 512)
	return Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   32,
		NumFATs:           2,
		SectorsPerFAT:     (totalSectors - 32) / 128,
		RootCluster:       2,
	}
}

// FormattedImage creates name inside dir and formats it as a whole-disk FAT32
// volume with go-diskfs. It returns the path of the image.
func FormattedImage(dir string, name string) (string, error) {
	path := filepath.Join(dir, name)
	d, err := diskfs.Create(path, FormattedImageSize, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return "", fmt.Errorf("failed to create disk image: %w", err)
	}
	if c, ok := any(d.File).(io.Closer); ok {
		defer c.Close()
	}

	spec := disk.FilesystemSpec{Partition: 0, FSType: filesystem.TypeFat32}
	if _, err := d.CreateFilesystem(spec); err != nil {
		return "", fmt.Errorf("failed to format FAT32 filesystem: %w", err)
	}
	return path, nil
}
