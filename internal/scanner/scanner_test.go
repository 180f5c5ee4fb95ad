package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/imagegen"
	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

func TestScanFindsSingleDetection(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	b := imagegen.NewBuilder()
	b.Zeros(100)
	headerOff := b.Bytes(sig.Header)
	b.Zeros(1000)

	detections, err := Scan(source.NewMemory(b.Build()), Config{
		SelectedTypes: []string{"BMP"},
		ChunkSize:     256,
	}, nil)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "BMP", detections[0].Signature)
	assert.Equal(t, headerOff, detections[0].Offset)
}

func TestScanDetectsAcrossChunkBoundary(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	b := imagegen.NewBuilder()
	// place the header so it straddles a 256-byte chunk boundary
	b.Zeros(255)
	headerOff := b.Bytes(sig.Header)
	b.Zeros(1000)

	detections, err := Scan(source.NewMemory(b.Build()), Config{
		SelectedTypes: []string{"BMP"},
		ChunkSize:     256,
	}, nil)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, headerOff, detections[0].Offset)
}

func TestScanNoDuplicateDetections(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	b := imagegen.NewBuilder()
	b.Zeros(50)
	b.Bytes(sig.Header)
	b.Zeros(2000)

	detections, err := Scan(source.NewMemory(b.Build()), Config{
		SelectedTypes: []string{"BMP"},
		ChunkSize:     128,
	}, nil)
	require.NoError(t, err)
	assert.Len(t, detections, 1)
}

func TestScanEmptySourceReturnsNil(t *testing.T) {
	detections, err := Scan(source.NewMemory(nil), Config{SelectedTypes: []string{"BMP"}}, nil)
	require.NoError(t, err)
	assert.Nil(t, detections)
}

func TestScanRespectsSelectedTypes(t *testing.T) {
	bmp, _ := sigcatalog.Get("BMP")
	png, _ := sigcatalog.Get("PNG")

	b := imagegen.NewBuilder()
	b.Bytes(bmp.Header)
	b.Zeros(10)
	b.Bytes(png.Header)
	b.Zeros(1000)

	detections, err := Scan(source.NewMemory(b.Build()), Config{
		SelectedTypes: []string{"PNG"},
		ChunkSize:     256,
	}, nil)
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "PNG", detections[0].Signature)
}
