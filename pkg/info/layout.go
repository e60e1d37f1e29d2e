package info

import (
	"encoding/json"
	"fmt"
	"github.com/bgrewell/fat-kit/pkg/bootsector"
	"github.com/bgrewell/fat-kit/pkg/consts"
	"github.com/bgrewell/fat-kit/pkg/helpers"
	"github.com/fatih/color"
	"io"
	"slices"
)

const (
	CATEGORY_BOOT_SECTOR   = "Boot Sector"
	CATEGORY_RESERVED_AREA = "Reserved Area"
	CATEGORY_FAT           = "FAT"
	CATEGORY_DATA_REGION   = "Data Region"
	CATEGORY_ROOT_DIR      = "Root Directory"
)

// Region is a contiguous byte range of the volume image.
type Region struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
	Start    int64  `json:"offset"`
	Length   int64  `json:"length"`
}

func (r *Region) Type() string {
	return r.Category
}

func (r *Region) Name() string {
	return r.Detail
}

func (r *Region) Description() string {
	return fmt.Sprintf("%s at byte %d", r.Detail, r.Start)
}

func (r *Region) Properties() map[string]interface{} {
	return map[string]interface{}{
		"Offset": r.Start,
		"Length": r.Length,
	}
}

func (r *Region) Offset() int64 {
	return r.Start
}

func (r *Region) Size() int64 {
	return r.Length
}

// Layout describes where the on-disk structures of a FAT32 volume live. All
// offsets are absolute within the image, i.e. they include VolumeOffset.
type Layout struct {
	VolumeOffset int64                 `json:"volume_offset"`
	BootSector   bootsector.BootSector `json:"boot_sector"`
	Regions      []*Region             `json:"regions"`
}

// NewLayout derives the region map of the volume described by bs, which starts
// at byte base of the image. The data region length is unknown from the
// decoded fields so it is reported with a zero length.
func NewLayout(bs bootsector.BootSector, base int64) *Layout {
	l := &Layout{
		VolumeOffset: base,
		BootSector:   bs,
		Regions:      make([]*Region, 0, int(bs.NumFATs)+4),
	}

	bps := int64(bs.BytesPerSector)
	l.AddRegion(CATEGORY_BOOT_SECTOR, "BIOS Parameter Block", base, consts.FAT32_BOOT_SECTOR_SIZE)
	l.AddRegion(CATEGORY_RESERVED_AREA, fmt.Sprintf("%d reserved sectors", bs.ReservedSectors),
		base, int64(bs.ReservedSectors)*bps)

	for i := 0; i < int(bs.NumFATs); i++ {
		l.AddRegion(CATEGORY_FAT, fmt.Sprintf("FAT #%d", i), base+bs.FATOffset(uint8(i)), bs.FATSize())
	}

	l.AddRegion(CATEGORY_DATA_REGION, "Cluster 2 onwards", base+int64(bs.FirstDataSector())*bps, 0)

	if rootOffset, err := bs.RootDirOffset(); err == nil {
		l.AddRegion(CATEGORY_ROOT_DIR, fmt.Sprintf("Root directory (cluster %d)", bs.RootDirFirstCluster),
			base+rootOffset, int64(bs.ClusterSize()))
	}

	return l
}

// AddRegion appends a new Region and keeps the list sorted by offset. Regions
// that share an offset keep their insertion order.
func (l *Layout) AddRegion(category string, detail string, offset int64, length int64) {
	l.Regions = append(l.Regions, &Region{
		Category: category,
		Detail:   detail,
		Start:    offset,
		Length:   length,
	})

	slices.SortStableFunc(l.Regions, func(a, b *Region) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
}

// Objects returns every region as an ImageObject, in offset order.
func (l *Layout) Objects() []ImageObject {
	objects := make([]ImageObject, 0, len(l.Regions))
	for _, r := range l.Regions {
		objects = append(objects, r)
	}
	return objects
}

// PrettyJSON returns a pretty-printed JSON representation of the layout.
func (l *Layout) PrettyJSON() string {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON: %v", err)
	}
	return string(data)
}

// Fprint writes the layout details in the order they occur in the image.
// - `useColor` controls whether colored output is used.
// - `useHexOffset` prints offsets in hexadecimal if true.
func (l *Layout) Fprint(w io.Writer, useColor bool, useHexOffset bool) {
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }

	colorMap := map[string]func(a ...interface{}) string{
		CATEGORY_BOOT_SECTOR:   color.New(color.FgBlue, color.Bold).SprintFunc(),
		CATEGORY_RESERVED_AREA: color.New(color.FgMagenta, color.Bold).SprintFunc(),
		CATEGORY_FAT:           color.New(color.FgYellow, color.Bold).SprintFunc(),
		CATEGORY_DATA_REGION:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		CATEGORY_ROOT_DIR:      color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
	offsetColor := color.New(color.FgGreen).SprintFunc()
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()

	if !useColor {
		for key := range colorMap {
			colorMap[key] = plain
		}
		offsetColor = plain
		headerColor = plain
	}

	fmt.Fprintln(w, headerColor("\n=== FAT32 Layout ==="))

	offsetWidth := 14
	categoryWidth := 16
	if useHexOffset {
		offsetWidth = 18
	}

	for _, obj := range l.Objects() {
		offsetStr := fmt.Sprintf("Offset: %*d", offsetWidth-8, obj.Offset())
		if useHexOffset {
			offsetStr = fmt.Sprintf("Offset: %#*x", offsetWidth-8, obj.Offset())
		}

		colorize, ok := colorMap[obj.Type()]
		if !ok {
			colorize = plain
		}

		fmt.Fprintf(w, "[%s] [%s] [%s] %s\n",
			offsetColor(offsetStr),
			colorize(fmt.Sprintf("%-*s", categoryWidth, obj.Type())),
			helpers.FormatBytes(obj.Size()),
			obj.Name(),
		)
	}

	fmt.Fprintln(w, headerColor("=============================="))
}
