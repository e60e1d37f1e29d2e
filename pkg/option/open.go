package option

import (
	"github.com/bgrewell/fat-kit/pkg/logging"
)

type ExtractionProgressCallback func(
	currentFilename string,
	bytesTransferred int64,
	totalBytes int64,
	currentFileNumber int,
	totalFileCount int,
)

type OpenOptions struct {
	// Byte offset of the volume's boot sector within the image, e.g. the start of a partition.
	Offset                     int64
	ExtractionProgressCallback ExtractionProgressCallback
	Logger                     *logging.Logger
}

type OpenOption func(*OpenOptions)

// DefaultOpenOptions returns options that read the boot sector at offset zero and discard logs.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		Offset: 0,
		Logger: logging.DefaultLogger(),
	}
}

// WithExtractionProgress sets a progress callback function that will be called with progress updates.
// Parameters:
// - currentFilename: The name of the file currently being written.
// - bytesTransferred: The number of bytes written so far for the current file.
// - totalBytes: The total number of bytes to be written for the current file.
// - currentFileNumber: The index of the current file being processed, starting at 1.
// - totalFileCount: The total number of files to be processed.
func WithExtractionProgress(callback ExtractionProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		o.ExtractionProgressCallback = callback
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}

// WithOffset sets where the FAT32 volume starts within the image file.
func WithOffset(offset int64) OpenOption {
	return func(o *OpenOptions) {
		o.Offset = offset
	}
}
