package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasSaneValues(t *testing.T) {
	d := Default()
	assert.Equal(t, 1, d.ChunkSizeMiB)
	assert.Equal(t, 50, d.MaxCarveMiB)
	assert.Equal(t, 4096, d.BlockSize)
	assert.True(t, d.EnableFilter)
	assert.Equal(t, "info", d.LogLevel)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corescan.ini")
	content := "chunk_size_mib = 4\nmax_carve_mib = 200\nstrict_carving = true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, d.ChunkSizeMiB)
	assert.Equal(t, 200, d.MaxCarveMiB)
	assert.True(t, d.StrictCarving)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}
