package consts

const (
	// FAT32 boot sector size. Every field the decoder reads lives within it.
	FAT32_BOOT_SECTOR_SIZE = 512

	// Number of cluster numbers reserved at the start of the FAT (FAT[0] and FAT[1]).
	FAT32_RESERVED_CLUSTERS = 2

	// BIOS Parameter Block field offsets used by the decoder.
	//  | 11-12 BPB_BytsPerSec
	//  | 13    BPB_SecPerClus
	//  | 14-15 BPB_RsvdSecCnt
	//  | 16    BPB_NumFATs
	//  | 36-39 BPB_FATSz32
	//  | 44-47 BPB_RootClus
	BPB_BYTES_PER_SECTOR_OFFSET    = 11
	BPB_SECTORS_PER_CLUSTER_OFFSET = 13
	BPB_RESERVED_SECTORS_OFFSET    = 14
	BPB_NUM_FATS_OFFSET            = 16
	BPB_SECTORS_PER_FAT_OFFSET     = 36
	BPB_ROOT_CLUSTER_OFFSET        = 44

	// Sector sizes allowed by the FAT specification.
	FAT_MIN_SECTOR_SIZE = 512
	FAT_MAX_SECTOR_SIZE = 4096
)
