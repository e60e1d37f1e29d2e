package bootsector

import (
	fattest "github.com/bgrewell/fat-kit/internal/testing"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// sampleSector builds the reference sector: 512 bytes/sector, 8 sectors per
// cluster, 32 reserved sectors, 2 FATs of 16 sectors, root at cluster 2.
func sampleSector() []byte {
	data := make([]byte, 512)
	data[11] = 0x00
	data[12] = 0x02
	data[13] = 0x08
	data[14] = 0x20
	data[15] = 0x00
	data[16] = 0x02
	copy(data[36:40], []byte{0x10, 0x00, 0x00, 0x00})
	copy(data[44:48], []byte{0x02, 0x00, 0x00, 0x00})
	return data
}

func fieldByte(i int) bool {
	return (i >= 11 && i <= 16) || (i >= 36 && i <= 39) || (i >= 44 && i <= 47)
}

func TestDecode_KnownSector(t *testing.T) {
	bs, err := Decode(sampleSector())
	require.NoError(t, err)

	require.Equal(t, uint16(512), bs.BytesPerSector)
	require.Equal(t, uint8(8), bs.SectorsPerCluster)
	require.Equal(t, uint16(32), bs.ReservedSectors)
	require.Equal(t, uint8(2), bs.NumFATs)
	require.Equal(t, uint32(16), bs.SectorsPerFAT)
	require.Equal(t, uint32(2), bs.RootDirFirstCluster)
}

func TestDecode_MatchesFixtureBuilder(t *testing.T) {
	g := fattest.SampleGeometry()
	bs, err := Decode(fattest.BootSectorBytes(g))
	require.NoError(t, err)
	require.Equal(t, BootSector{
		BytesPerSector:      g.BytesPerSector,
		SectorsPerCluster:   g.SectorsPerCluster,
		ReservedSectors:     g.ReservedSectors,
		NumFATs:             g.NumFATs,
		SectorsPerFAT:       g.SectorsPerFAT,
		RootDirFirstCluster: g.RootCluster,
	}, bs)
	require.Equal(t, sampleSector(), fattest.BootSectorBytes(g))
}

func TestDecode_Length(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"nil", -1, true},
		{"empty", 0, true},
		{"one byte", 1, true},
		{"covers all fields", 48, true},
		{"half sector", 256, true},
		{"one short", 511, true},
		{"exact", 512, false},
		{"larger read", 4096, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []byte
			if tt.length >= 0 {
				data = make([]byte, tt.length)
				// Content must not matter for the length guard.
				for i := range data {
					data[i] = 0xA5
				}
			}
			bs, err := Decode(data)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBufferTooSmall)
				require.Equal(t, BootSector{}, bs, "no partial descriptor on failure")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecode_ErrorMentionsLength(t *testing.T) {
	_, err := Decode(make([]byte, 100))
	require.Error(t, err)
	require.Contains(t, err.Error(), "got 100 bytes")
}

func TestDecode_ExactBoundary(t *testing.T) {
	full := sampleSector()

	bs, err := Decode(full[:512])
	require.NoError(t, err)
	require.Equal(t, uint16(512), bs.BytesPerSector)

	_, err = Decode(full[:511])
	require.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestDecode_IgnoresOtherBytes(t *testing.T) {
	want, err := Decode(sampleSector())
	require.NoError(t, err)

	for _, fill := range []byte{0x00, 0xFF, 0x5A} {
		for i := 0; i < 512; i++ {
			if fieldByte(i) {
				continue
			}
			data := sampleSector()
			data[i] = fill ^ 0xC3
			got, err := Decode(data)
			require.NoError(t, err)
			require.Equalf(t, want, got, "byte %d changed the descriptor", i)
		}
	}

	t.Run("all other bytes at once", func(t *testing.T) {
		data := sampleSector()
		for i := range data {
			if !fieldByte(i) {
				data[i] = 0xFF
			}
		}
		// FAT32 signature and jump instruction present or not, nothing changes.
		data[0], data[1], data[2] = 0xEB, 0x58, 0x90
		data[510], data[511] = 0x55, 0xAA
		got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestDecode_Deterministic(t *testing.T) {
	data := sampleSector()
	first, err := Decode(data)
	require.NoError(t, err)
	second, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.True(t, first == second)
}

func TestDecode_DoesNotMutateInput(t *testing.T) {
	data := sampleSector()
	snapshot := append([]byte(nil), data...)
	_, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, snapshot, data)
}

func TestDecode_DoesNotRetainInput(t *testing.T) {
	data := sampleSector()
	bs, err := Decode(data)
	require.NoError(t, err)
	for i := range data {
		data[i] = 0xFF
	}
	require.Equal(t, uint16(512), bs.BytesPerSector)
	require.Equal(t, uint32(2), bs.RootDirFirstCluster)
}

func TestDecode_LittleEndian(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		bytes  []byte
		check  func(t *testing.T, bs BootSector)
	}{
		{
			name:   "bytes per sector",
			offset: 11,
			bytes:  []byte{0x34, 0x12},
			check: func(t *testing.T, bs BootSector) {
				require.Equal(t, uint16(0x1234), bs.BytesPerSector)
			},
		},
		{
			name:   "reserved sectors",
			offset: 14,
			bytes:  []byte{0xCD, 0xAB},
			check: func(t *testing.T, bs BootSector) {
				require.Equal(t, uint16(0xABCD), bs.ReservedSectors)
			},
		},
		{
			name:   "sectors per fat",
			offset: 36,
			bytes:  []byte{0x78, 0x56, 0x34, 0x12},
			check: func(t *testing.T, bs BootSector) {
				require.Equal(t, uint32(0x12345678), bs.SectorsPerFAT)
			},
		},
		{
			name:   "root cluster",
			offset: 44,
			bytes:  []byte{0xEF, 0xBE, 0xAD, 0xDE},
			check: func(t *testing.T, bs BootSector) {
				require.Equal(t, uint32(0xDEADBEEF), bs.RootDirFirstCluster)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, 512)
			copy(data[tt.offset:], tt.bytes)
			bs, err := Decode(data)
			require.NoError(t, err)
			tt.check(t, bs)
		})
	}
}

func TestDecode_NoValidation(t *testing.T) {
	// An all-zero sector is not a usable volume, but extraction still succeeds.
	bs, err := Decode(make([]byte, 512))
	require.NoError(t, err)
	require.Equal(t, BootSector{}, bs)

	// Values that a validator would reject are passed through verbatim.
	g := fattest.Geometry{
		BytesPerSector:    0xFFFF,
		SectorsPerCluster: 3,
		ReservedSectors:   0,
		NumFATs:           0,
		SectorsPerFAT:     0xFFFFFFFF,
		RootCluster:       0,
	}
	bs, err = Decode(fattest.BootSectorBytes(g))
	require.NoError(t, err)
	require.Equal(t, uint16(0xFFFF), bs.BytesPerSector)
	require.Equal(t, uint8(3), bs.SectorsPerCluster)
	require.Equal(t, uint32(0xFFFFFFFF), bs.SectorsPerFAT)
}

func TestDecode_Concurrent(t *testing.T) {
	data := sampleSector()
	want, err := Decode(data)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]BootSector, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Decode(data)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestBootSector_Geometry(t *testing.T) {
	bs, err := Decode(sampleSector())
	require.NoError(t, err)

	require.Equal(t, uint32(4096), bs.ClusterSize())
	require.Equal(t, int64(8192), bs.FATSize())
	require.Equal(t, int64(16384), bs.FATOffset(0))
	require.Equal(t, int64(24576), bs.FATOffset(1))
	require.Equal(t, uint64(64), bs.FirstDataSector())

	root, err := bs.RootDirOffset()
	require.NoError(t, err)
	require.Equal(t, int64(32768), root)

	off, err := bs.ClusterOffset(5)
	require.NoError(t, err)
	require.Equal(t, int64(32768+3*4096), off)

	t.Run("reserved clusters", func(t *testing.T) {
		for _, c := range []uint32{0, 1} {
			_, err := bs.ClusterOffset(c)
			require.ErrorIs(t, err, ErrReservedCluster)
		}
	})

	t.Run("large values do not overflow", func(t *testing.T) {
		big := BootSector{
			BytesPerSector:    4096,
			SectorsPerCluster: 128,
			ReservedSectors:   0xFFFF,
			NumFATs:           2,
			SectorsPerFAT:     0x00FFFFFF,
		}
		require.Equal(t, uint32(4096*128), big.ClusterSize())
		require.Equal(t, int64(0xFFFF+0x00FFFFFF)*4096, big.FATOffset(1))
	})
}

func TestBootSector_ImageObject(t *testing.T) {
	bs, err := Decode(sampleSector())
	require.NoError(t, err)

	require.Equal(t, "Boot Sector", bs.Type())
	require.Equal(t, int64(0), bs.Offset())
	require.Equal(t, int64(512), bs.Size())
	props := bs.Properties()
	require.Equal(t, uint16(512), props["BytesPerSector"])
	require.Equal(t, uint32(2), props["RootDirFirstCluster"])
	require.Contains(t, bs.String(), "512 bytes/sector")
	require.Contains(t, bs.String(), "root cluster 2")
}

func BenchmarkDecode(b *testing.B) {
	data := sampleSector()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
