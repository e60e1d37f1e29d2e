package fat

import (
	"fmt"
	"github.com/bgrewell/fat-kit/pkg/bootsector"
	"github.com/bgrewell/fat-kit/pkg/info"
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/bgrewell/fat-kit/pkg/option"
	"github.com/bgrewell/fat-kit/pkg/volume"
	"os"
)

// Open opens an existing FAT32 image file and decodes its boot sector
func Open(location string, opts ...option.OpenOption) (Image, error) {
	// Set default options
	options := option.DefaultOpenOptions()

	// Apply options
	for _, opt := range opts {
		opt(options)
	}
	if options.Logger == nil {
		options.Logger = logging.DefaultLogger()
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	v, err := volume.Open(f, options)
	if err != nil {
		f.Close()
		return nil, err
	}
	options.Logger.Debug("Opened FAT32 image", "location", location, "offset", options.Offset)
	return v, nil
}

// Image represents an opened FAT32 volume image
type Image interface {
	BootSector() bootsector.BootSector
	Layout() *info.Layout
	ExtractFATs(outputLocation string) error
	Close() error
	String() string
}
