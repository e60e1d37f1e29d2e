package main

import (
	"flag"
	"fmt"
	"github.com/bgrewell/fat-kit"
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/bgrewell/fat-kit/pkg/option"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
	"os"
	"time"
)

var (
	version = "dev"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// CreateProgressCallback returns a progress callback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner) option.ExtractionProgressCallback {
	return func(
		currentFilename string,
		bytesTransferred int64,
		totalBytes int64,
		currentFileNumber int,
		totalFileCount int,
	) {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width = 80
		}

		percent := 100.0
		if totalBytes > 0 {
			percent = float64(bytesTransferred) / float64(totalBytes) * 100
		}

		fixedPart := fmt.Sprintf(" [%d/%d] ", currentFileNumber, totalFileCount)
		suffixPart := fmt.Sprintf(" - %.2f%%", percent)

		availableSpace := width - len(fixedPart) - len(suffixPart) - 6
		if availableSpace < 10 {
			availableSpace = 10
		}

		message := fmt.Sprintf("%s%s%s", fixedPart, truncateString(currentFilename, availableSpace), suffixPart)
		spinner.Message(message)
	}
}

// InitializeSpinner sets up and starts the yacspin spinner.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}

	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}

	return spinner, nil
}

func main() {
	// Logging level flags
	debug := flag.Bool("v", false, "Enable verbose (debug) logging")
	trace := flag.Bool("vv", false, "Enable trace logging")

	// Volume location
	offset := flag.Int64("offset", 0, "Byte offset of the FAT32 volume within the image")

	// Output directory
	outputDir := flag.String("o", "./extracted", "Output directory for extracted FAT copies")

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("fatextract v" + version)
		fmt.Println("Usage: fatextract [options] <path-to-image>")
		fmt.Println("  -v               Enable verbose (debug) logging")
		fmt.Println("  -vv              Enable trace logging")
		fmt.Println("  -offset <bytes>  Byte offset of the FAT32 volume (default 0)")
		fmt.Println("  -o <directory>   Output directory (default './extracted')")
		os.Exit(1)
	}
	imagePath := flag.Arg(0)

	opts := []option.OpenOption{option.WithOffset(*offset)}
	if *debug || *trace {
		level := logging.LEVEL_DEBUG
		if *trace {
			level = logging.LEVEL_TRACE
		}
		opts = append(opts, option.WithLogger(logging.NewLogger(logging.NewSimpleLogger(os.Stderr, level, true))))
	}

	spinner, err := InitializeSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
		fmt.Fprintf(os.Stderr, "Progress updates will be disabled.\n")
	} else {
		opts = append(opts, option.WithExtractionProgress(CreateProgressCallback(spinner)))
	}

	img, err := fat.Open(imagePath, opts...)
	if err != nil {
		if spinner != nil {
			spinner.StopFailMessage(fmt.Sprintf("Failed to open image: %v", err))
			spinner.StopFail()
		} else {
			fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		}
		os.Exit(1)
	}
	defer img.Close()

	if err := img.ExtractFATs(*outputDir); err != nil {
		if spinner != nil {
			spinner.StopFailMessage(fmt.Sprintf("Failed to extract FAT copies: %v", err))
			spinner.StopFail()
		} else {
			fmt.Fprintf(os.Stderr, "Failed to extract FAT copies: %v\n", err)
		}
		img.Close()
		os.Exit(1)
	}

	msg := fmt.Sprintf(" %d FAT copies extracted successfully to %s!", img.BootSector().NumFATs, *outputDir)
	if spinner != nil {
		spinner.StopMessage(msg)
		spinner.Stop()
	} else {
		fmt.Println(msg)
	}
}
