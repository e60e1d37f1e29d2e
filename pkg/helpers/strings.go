package helpers

import "fmt"

// FormatBytes converts a size in bytes to a fixed-width human-readable string.
func FormatBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%8.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%8.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%8.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%8d B ", size) // Ensures 'B' aligns with KB/MB/GB
	}
}
