package carver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

func TestCarveWithFooter(t *testing.T) {
	sig, ok := sigcatalog.Get("PDF")
	require.True(t, ok)

	data := append([]byte{}, sig.Header...)
	data = append(data, bytes.Repeat([]byte("x"), 1100)...)
	data = append(data, []byte("%%EOF")...)
	data = append(data, []byte("trailing garbage that must not be carved")...)

	src := source.NewMemory(data)
	carved, err := Carve(src, sig, 0, 0)
	require.NoError(t, err)

	expectedEnd := uint64(len(sig.Header) + 1100 + len("%%EOF"))
	assert.Equal(t, expectedEnd, carved.PayloadLength)
	assert.True(t, bytes.HasSuffix(carved.Payload, []byte("%%EOF")))
}

func TestCarveHeuristicJPEG(t *testing.T) {
	sig, ok := sigcatalog.Get("JPEG")
	require.True(t, ok)

	data := append([]byte{}, sig.Header...)
	data = append(data, bytes.Repeat([]byte{0x01}, 600)...)
	data = append(data, 0xFF, 0xD9) // EOI
	data = append(data, 0xDE, 0xAD, 0xBE, 0xEF)

	src := source.NewMemory(data)
	carved, err := Carve(src, sig, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)-4), carved.PayloadLength)
}

func TestCarveZeroRunFallback(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	// Fill the first zeroRunBlock-sized block entirely with non-zero bytes
	// so the fallback doesn't trigger there, then append one block of all
	// zeros to trigger it exactly on the second block boundary.
	data := append([]byte{}, sig.Header...)
	data = append(data, bytes.Repeat([]byte{0x42}, zeroRunBlock-len(sig.Header))...)
	data = append(data, make([]byte, zeroRunBlock)...)

	src := source.NewMemory(data)
	carved, err := Carve(src, sig, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), carved.PayloadLength)
}

func TestCarveTooSmallRejected(t *testing.T) {
	sig, ok := sigcatalog.Get("GIF")
	require.True(t, ok)

	data := append([]byte{}, sig.Header...)
	data = append(data, 0x00, 0x3B) // footer immediately after header

	src := source.NewMemory(data)
	_, err := Carve(src, sig, 0, 0)
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestCarveRespectsMaxSize(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	data := append([]byte{}, sig.Header...)
	data = append(data, bytes.Repeat([]byte{0x11}, 10000)...)

	src := source.NewMemory(data)
	carved, err := Carve(src, sig, 0, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), carved.PayloadLength)
}
