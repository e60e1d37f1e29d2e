// Package volume reads the boot sector of a FAT32 volume out of an image and
// exposes the regions it describes.
package volume

import (
	"errors"
	"fmt"
	"github.com/bgrewell/fat-kit/pkg/bootsector"
	"github.com/bgrewell/fat-kit/pkg/consts"
	"github.com/bgrewell/fat-kit/pkg/info"
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/bgrewell/fat-kit/pkg/option"
	"io"
	"os"
	"path/filepath"
)

// extractChunkSize is how much of a FAT is copied between progress updates.
const extractChunkSize = 64 * 1024

var ErrNoSuchFAT = errors.New("FAT index out of range")

// Volume is a FAT32 volume backed by an io.ReaderAt.
type Volume struct {
	reader     io.ReaderAt
	options    *option.OpenOptions
	logger     *logging.Logger
	bootSector bootsector.BootSector
	layout     *info.Layout
}

// Open reads and decodes the boot sector found at options.Offset. A nil
// options value is treated as option.DefaultOpenOptions().
func Open(reader io.ReaderAt, options *option.OpenOptions) (*Volume, error) {
	if options == nil {
		options = option.DefaultOpenOptions()
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reader == nil {
		return nil, errors.New("no image reader provided")
	}
	if options.Offset < 0 {
		return nil, fmt.Errorf("invalid volume offset %d", options.Offset)
	}

	v := &Volume{
		reader:  reader,
		options: options,
		logger:  logger.WithName("volume"),
	}

	if err := v.readBootSector(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Volume) readBootSector() error {
	offset := v.options.Offset
	v.logger.Trace("Reading boot sector", "offset", offset)

	var buf [consts.FAT32_BOOT_SECTOR_SIZE]byte
	n, err := v.reader.ReadAt(buf[:], offset)
	if err != nil && !(errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
		return fmt.Errorf("failed to read boot sector at offset %d: %w", offset, err)
	}

	// A truncated image yields fewer bytes than a sector; the decoder reports it.
	bs, err := bootsector.Decode(buf[:n])
	if err != nil {
		v.logger.Error(err, "Failed to decode boot sector", "offset", offset, "read", n)
		return fmt.Errorf("failed to decode boot sector at offset %d: %w", offset, err)
	}

	v.bootSector = bs
	v.layout = info.NewLayout(bs, offset)
	v.logger.Debug("Decoded boot sector",
		"bytes_per_sector", bs.BytesPerSector,
		"sectors_per_cluster", bs.SectorsPerCluster,
		"reserved_sectors", bs.ReservedSectors,
		"num_fats", bs.NumFATs,
		"sectors_per_fat", bs.SectorsPerFAT,
		"root_dir_first_cluster", bs.RootDirFirstCluster,
	)
	return nil
}

// BootSector returns the decoded boot sector.
func (v *Volume) BootSector() bootsector.BootSector {
	return v.bootSector
}

// Layout returns the region map of the volume with offsets relative to the image.
func (v *Volume) Layout() *info.Layout {
	return v.layout
}

// FATReader returns a reader over FAT copy index.
func (v *Volume) FATReader(index uint8) (*io.SectionReader, error) {
	if index >= v.bootSector.NumFATs {
		return nil, fmt.Errorf("%w: %d (volume has %d)", ErrNoSuchFAT, index, v.bootSector.NumFATs)
	}
	offset := v.options.Offset + v.bootSector.FATOffset(index)
	return io.NewSectionReader(v.reader, offset, v.bootSector.FATSize()), nil
}

// ExtractFATs writes every FAT copy to outputDir as fat<N>.bin.
func (v *Volume) ExtractFATs(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	total := int(v.bootSector.NumFATs)
	for i := 0; i < total; i++ {
		name := fmt.Sprintf("fat%d.bin", i)
		if err := v.extractFAT(uint8(i), filepath.Join(outputDir, name), i+1, total); err != nil {
			return err
		}
	}

	v.logger.Info("Extracted FAT copies", "count", total, "output", outputDir)
	return nil
}

func (v *Volume) extractFAT(index uint8, outputPath string, fileNumber int, fileCount int) error {
	section, err := v.FATReader(index)
	if err != nil {
		return err
	}
	size := section.Size()
	v.logger.Debug("Extracting FAT", "index", index, "offset", v.options.Offset+v.bootSector.FATOffset(index), "size", size, "output", outputPath)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer out.Close()

	progress := v.options.ExtractionProgressCallback
	name := filepath.Base(outputPath)
	if progress != nil {
		progress(name, 0, size, fileNumber, fileCount)
	}

	var written int64
	for written < size {
		chunk := min(int64(extractChunkSize), size-written)
		n, err := io.CopyN(out, section, chunk)
		written += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			out.Close()
			if rmErr := os.Remove(outputPath); rmErr != nil {
				v.logger.Error(rmErr, "Failed to remove partial FAT copy", "output", outputPath)
			}
			return fmt.Errorf("failed to extract FAT #%d (%d of %d bytes): %w", index, written, size, err)
		}
		if progress != nil {
			progress(name, written, size, fileNumber, fileCount)
		}
	}

	return out.Close()
}

// Close closes the underlying reader if it is an io.Closer.
func (v *Volume) Close() error {
	if c, ok := v.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (v *Volume) String() string {
	return fmt.Sprintf("%s (volume offset %d)", v.bootSector.String(), v.options.Offset)
}
