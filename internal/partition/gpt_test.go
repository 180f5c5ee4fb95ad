package partition

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/imagegen"
	"github.com/sscafiti/corescan/internal/source"
)

func buildGPTHeader(numPartitions, entrySize uint32, withValidCRC bool) []byte {
	hdr := make([]byte, sectorSize)
	copy(hdr[0:8], gptSignature)
	binary.LittleEndian.PutUint32(hdr[12:16], 92) // HeaderSize
	binary.LittleEndian.PutUint32(hdr[80:84], numPartitions)
	binary.LittleEndian.PutUint32(hdr[84:88], entrySize)

	if withValidCRC {
		scratch := make([]byte, 92)
		copy(scratch, hdr[:92])
		for i := 16; i < 20; i++ {
			scratch[i] = 0
		}
		binary.LittleEndian.PutUint32(hdr[16:20], crc32.ChecksumIEEE(scratch))
	}
	return hdr
}

func TestDecodeGPTPresent(t *testing.T) {
	b := imagegen.NewBuilder()
	b.Zeros(sectorSize) // LBA 0, protective MBR, unused here
	b.Bytes(buildGPTHeader(128, 128, false))

	table, err := DecodeGPT(source.NewMemory(b.Build()))
	require.NoError(t, err)
	require.Equal(t, GPTKind, table.Kind)
	assert.Equal(t, uint32(128), table.GPT.EntryCount)
	assert.Equal(t, uint32(128), table.GPT.EntrySize)
}

func TestDecodeGPTAbsent(t *testing.T) {
	b := imagegen.NewBuilder()
	b.Zeros(sectorSize * 2)

	table, err := DecodeGPT(source.NewMemory(b.Build()))
	require.NoError(t, err)
	assert.Equal(t, None, table.Kind)
}

func TestDecodeGPTDetailHeaderCRC(t *testing.T) {
	b := imagegen.NewBuilder()
	b.Zeros(sectorSize)
	b.Bytes(buildGPTHeader(0, 0, true))

	detail, ok, err := DecodeGPTDetail(source.NewMemory(b.Build()))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, detail.HeaderCRCValid)
}
