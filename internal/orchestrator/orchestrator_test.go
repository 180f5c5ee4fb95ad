package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/imagegen"
	"github.com/sscafiti/corescan/internal/scanner"
	"github.com/sscafiti/corescan/internal/sigcatalog"
	"github.com/sscafiti/corescan/internal/source"
)

func TestAnalyzeFindsAndSizesDetections(t *testing.T) {
	sig, ok := sigcatalog.Get("BMP")
	require.True(t, ok)

	b := imagegen.NewBuilder()
	b.Zeros(512)
	headerOff := b.Bytes(sig.Header)
	b.Bytes(make([]byte, 2000)) // non-zero-run fallback wouldn't trigger; leave as zeros to force zero-run end
	b.Zeros(4096)

	src := source.NewMemory(b.Build())

	result, err := Analyze(src, Options{
		ScanConfig: scanner.Config{SelectedTypes: []string{"BMP"}, ChunkSize: 256},
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Cancelled)
	require.Len(t, result.Detections, 1)
	assert.Equal(t, headerOff, result.Detections[0].Offset)
	assert.Greater(t, result.Detections[0].CarvedLength, uint64(0))
}

func TestAnalyzeCancellationStopsEarly(t *testing.T) {
	src := source.NewMemory(make([]byte, 1<<20))

	result, err := Analyze(src, Options{
		ScanConfig: scanner.Config{SelectedTypes: []string{"BMP"}},
	}, func(percent float64) bool {
		return false
	})
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
}

func TestAnalyzeEmptySource(t *testing.T) {
	src := source.NewMemory(nil)

	result, err := Analyze(src, Options{
		ScanConfig: scanner.Config{SelectedTypes: []string{"BMP"}},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Detections)
}
