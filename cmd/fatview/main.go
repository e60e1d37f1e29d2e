package main

import (
	"encoding/json"
	"fmt"
	"github.com/bgrewell/fat-kit"
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/bgrewell/fat-kit/pkg/option"
	"github.com/bgrewell/fat-kit/pkg/validation"
	"github.com/bgrewell/usage"
	"github.com/fatih/color"
	"os"
	"strconv"
)

// parseOffset accepts decimal or 0x-prefixed hex byte offsets. An empty
// value means the volume starts at the beginning of the image.
func parseOffset(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	offset, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", value, err)
	}
	if offset < 0 {
		return 0, fmt.Errorf("invalid offset %q: must not be negative", value)
	}
	return offset, nil
}

// logLevel maps -v and -vv onto logging levels; -vv wins.
func logLevel(verbose, trace bool) int {
	switch {
	case trace:
		return logging.LEVEL_TRACE
	case verbose:
		return logging.LEVEL_DEBUG
	}
	return logging.LEVEL_INFO
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("fatview"),
		usage.WithApplicationDescription("fatview decodes the boot sector of a FAT32 image and prints the volume geometry and layout."),
	)
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging", "", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Enable trace logging", "", nil)
	offsetOpt := u.AddStringOption("o", "offset", "0", "Byte offset of the FAT32 volume within the image (decimal or 0x hex)", "", nil)
	asJSON := u.AddBooleanOption("j", "json", false, "Print the layout as JSON", "", nil)
	hex := u.AddBooleanOption("x", "hex", false, "Print offsets in hexadecimal", "", nil)
	noColor := u.AddBooleanOption("nc", "no-color", false, "Disable colored output", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the FAT32 image (or whole disk image)", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the image file <image-path> must be provided"))
		os.Exit(1)
	}

	offset, err := parseOffset(*offsetOpt)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	useColor := !*noColor && !*asJSON
	if !useColor {
		color.NoColor = true
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logLevel(*verbose, *trace), useColor))

	img, err := fat.Open(*path, option.WithOffset(offset), option.WithLogger(logger))
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer img.Close()

	bs := img.BootSector()
	findings := validation.Geometry(bs)

	if *asJSON {
		out := struct {
			Layout   json.RawMessage `json:"layout"`
			Warnings []string        `json:"warnings"`
		}{
			Layout:   json.RawMessage(img.Layout().PrettyJSON()),
			Warnings: make([]string, 0, len(findings)),
		}
		for _, f := range findings {
			out.Warnings = append(out.Warnings, f.Error())
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			u.PrintError(err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Println(title("=== FAT32 Boot Sector ==="))
	fmt.Printf("  Bytes per sector:       %d\n", bs.BytesPerSector)
	fmt.Printf("  Sectors per cluster:    %d (%d bytes)\n", bs.SectorsPerCluster, bs.ClusterSize())
	fmt.Printf("  Reserved sectors:       %d\n", bs.ReservedSectors)
	fmt.Printf("  Number of FATs:         %d\n", bs.NumFATs)
	fmt.Printf("  Sectors per FAT:        %d\n", bs.SectorsPerFAT)
	fmt.Printf("  Root directory cluster: %d\n", bs.RootDirFirstCluster)

	// Decoding succeeded either way; these are only hints that the sector may not be FAT32.
	if len(findings) > 0 {
		warn := color.New(color.FgYellow).SprintFunc()
		fmt.Println()
		for _, f := range findings {
			fmt.Printf("%s %v\n", warn("[WARNING]"), f)
		}
	}

	img.Layout().Fprint(os.Stdout, useColor, *hex)
}
