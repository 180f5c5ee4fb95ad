package imagegen

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestMergeFilesConcatenatesContent(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.bin", bytes.Repeat([]byte{0xAA}, 200))
	b := writeTempFile(t, dir, "b.bin", bytes.Repeat([]byte{0xBB}, 300))

	var out bytes.Buffer
	written, err := MergeFiles(&out, []string{a, b}, Options{Gap: GapRange{Min: 8, Max: 16}, BlockSize: 64})
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), written)

	data := out.Bytes()
	assert.True(t, bytes.Contains(data, bytes.Repeat([]byte{0xAA}, 200)))
	assert.True(t, bytes.Contains(data, bytes.Repeat([]byte{0xBB}, 300)))

	aIdx := bytes.Index(data, bytes.Repeat([]byte{0xAA}, 200))
	bIdx := bytes.Index(data, bytes.Repeat([]byte{0xBB}, 300))
	assert.Less(t, aIdx, bIdx)
}

func TestMergeFilesRejectsInvalidGapRange(t *testing.T) {
	var out bytes.Buffer
	_, err := MergeFiles(&out, nil, Options{Gap: GapRange{Min: 0, Max: 10}})
	assert.Error(t, err)

	_, err = MergeFiles(&out, nil, Options{Gap: GapRange{Min: 10, Max: 5}})
	assert.Error(t, err)
}

func TestMergeFilesToPathExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "one.bin", bytes.Repeat([]byte{0x01}, 64))
	writeTempFile(t, dir, "two.bin", bytes.Repeat([]byte{0x02}, 64))

	outPath := filepath.Join(t.TempDir(), "image.bin")
	written, err := MergeFilesToPath(outPath, []string{dir}, Options{Gap: GapRange{Min: 4, Max: 4}, BlockSize: 32})
	require.NoError(t, err)
	assert.Greater(t, written, int64(128))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, written, info.Size())
}
