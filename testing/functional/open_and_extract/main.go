package main

import (
	"crypto/md5"
	"fmt"
	"github.com/bgrewell/fat-kit"
	"github.com/bgrewell/fat-kit/pkg/logging"
	"github.com/bgrewell/fat-kit/pkg/option"
	"github.com/bgrewell/usage"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

func generateFileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("open_and_extract"),
		usage.WithApplicationDescription("open_and_extract is a functional testing application that is part of fat-kit and is designed to verify that the boot sector decoding and FAT extraction logic of fat-kit is working as expected against a real FAT32 image."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	rm := u.AddBooleanOption("rm", "remove-test-files", true, "Remove the extracted files after running the tests", "", nil)
	input := u.AddArgument(1, "input", "The input FAT32 image to run the tests against", "")
	offsetArg := u.AddArgument(2, "offset", "Byte offset of the volume within the image", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input image <input> must be provided"))
		os.Exit(1)
	}

	var offset int64
	if offsetArg != nil && *offsetArg != "" {
		var err error
		if offset, err = strconv.ParseInt(*offsetArg, 0, 64); err != nil {
			u.PrintError(fmt.Errorf("invalid offset: %w", err))
			os.Exit(1)
		}
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_TRACE, true))
	i, err := fat.Open(*input,
		option.WithOffset(offset),
		option.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to open image: %s\n", err)
		os.Exit(1)
	}
	defer i.Close()

	outDir, err := os.MkdirTemp("", "open_and_extract_test_*")
	if err != nil {
		fmt.Printf("Failed to create temporary directory: %s\n", err)
		os.Exit(1)
	}
	if *rm {
		defer os.RemoveAll(outDir)
	} else {
		fmt.Printf("Output directory: %s\n", outDir)
	}

	if err = i.ExtractFATs(outDir); err != nil {
		fmt.Printf("Failed to extract FAT copies: %s\n", err)
		os.Exit(1)
	}

	bs := i.BootSector()
	if bs.NumFATs == 0 {
		fmt.Println("Volume reports no FAT copies")
		os.Exit(1)
	}

	// Every copy must have the advertised size and, on a healthy volume, identical contents.
	var firstHash string
	for idx := 0; idx < int(bs.NumFATs); idx++ {
		path := filepath.Join(outDir, fmt.Sprintf("fat%d.bin", idx))
		st, err := os.Stat(path)
		if err != nil {
			fmt.Printf("Missing extracted FAT #%d: %s\n", idx, err)
			os.Exit(1)
		}
		if st.Size() != bs.FATSize() {
			fmt.Printf("FAT #%d has %d bytes, expected %d\n", idx, st.Size(), bs.FATSize())
			os.Exit(1)
		}

		hash, err := generateFileMD5(path)
		if err != nil {
			fmt.Printf("Failed to generate MD5 hash for FAT #%d: %s\n", idx, err)
			os.Exit(1)
		}
		if idx == 0 {
			firstHash = hash
		} else if hash != firstHash {
			fmt.Printf("FAT #%d does not mirror FAT #0:\n  FAT #0: %s\n  FAT #%d: %s\n", idx, firstHash, idx, hash)
			os.Exit(1)
		}
	}

	fmt.Printf("OK: %s\n", i.String())
}
