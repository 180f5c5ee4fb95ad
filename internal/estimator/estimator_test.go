package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sscafiti/corescan/internal/source"
)

func TestEstimateEmptySource(t *testing.T) {
	score, err := Estimate(source.NewMemory(nil), 0)
	require.NoError(t, err)
	assert.Equal(t, float64(0), score)
}

func TestEstimateAllValidBlocks(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = byte(i)
	}
	data := append(append([]byte{}, block...), block...)

	score, err := Estimate(source.NewMemory(data), 64)
	require.NoError(t, err)
	assert.Equal(t, float64(100), score)
}

func TestEstimateMixedBlocks(t *testing.T) {
	valid := make([]byte, 64)
	for i := range valid {
		valid[i] = byte(i)
	}
	zero := make([]byte, 64)

	data := append(append([]byte{}, valid...), zero...)
	score, err := Estimate(source.NewMemory(data), 64)
	require.NoError(t, err)
	assert.Equal(t, float64(50), score)
}
