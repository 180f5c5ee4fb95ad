package partition

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/imagegen"
	"github.com/sscafiti/corescan/internal/source"
)

func mbrEntryBytes(status, typeCode byte, startLBA, sectorCount uint32) []byte {
	raw := make([]byte, mbrEntrySize)
	raw[0] = status
	raw[4] = typeCode
	binary.LittleEndian.PutUint32(raw[8:12], startLBA)
	binary.LittleEndian.PutUint32(raw[12:16], sectorCount)
	return raw
}

func buildMBRImage(entries [4][]byte) []byte {
	b := imagegen.NewBuilder()
	b.Zeros(mbrEntryTableBase)
	for _, e := range entries {
		if e == nil {
			e = make([]byte, mbrEntrySize)
		}
		b.Bytes(e)
	}
	sig := make([]byte, 2)
	binary.LittleEndian.PutUint16(sig, 0xAA55)
	b.Bytes(sig)
	b.PadTo(mbrSize)
	return b.Build()
}

func TestDecodeMBRValidTable(t *testing.T) {
	var entries [4][]byte
	entries[0] = mbrEntryBytes(0x80, 0x07, 2048, 204800)
	img := buildMBRImage(entries)

	table, err := DecodeMBR(source.NewMemory(img))
	require.NoError(t, err)
	require.Equal(t, MBRKind, table.Kind)
	require.Len(t, table.Entries, 1)

	e := table.Entries[0]
	assert.Equal(t, 1, e.Index)
	assert.True(t, e.Bootable)
	assert.Equal(t, byte(0x07), e.TypeCode)
	assert.Equal(t, uint32(2048), e.StartLBA)
	assert.Equal(t, uint32(204800), e.SectorCount)
	assert.Equal(t, uint64(100), e.SizeMiB())
}

func TestDecodeMBRMissingSignature(t *testing.T) {
	b := imagegen.NewBuilder()
	b.Zeros(mbrSize)
	img := b.Build()

	table, err := DecodeMBR(source.NewMemory(img))
	require.NoError(t, err)
	assert.Equal(t, None, table.Kind)
	assert.False(t, table.Present())
}

func TestDecodeMBRSkipsEmptyEntries(t *testing.T) {
	var entries [4][]byte
	entries[1] = mbrEntryBytes(0x00, 0x83, 1024, 51200)
	img := buildMBRImage(entries)

	table, err := DecodeMBR(source.NewMemory(img))
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, 2, table.Entries[0].Index)
	assert.False(t, table.Entries[0].Bootable)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MBR", MBRKind.String())
	assert.Equal(t, "GPT", GPTKind.String())
	assert.Equal(t, "none", None.String())
}
