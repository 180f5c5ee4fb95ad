package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderLayout(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, uint64(0), b.Offset())

	off1 := b.Bytes([]byte{0x01, 0x02, 0x03})
	assert.Equal(t, uint64(0), off1)
	assert.Equal(t, uint64(3), b.Offset())

	off2 := b.Zeros(5)
	assert.Equal(t, uint64(3), off2)
	assert.Equal(t, uint64(8), b.Offset())

	b.PadTo(16)
	assert.Equal(t, uint64(16), b.Offset())

	// PadTo is a no-op when already past the target.
	b.PadTo(10)
	assert.Equal(t, uint64(16), b.Offset())

	out := b.Build()
	assert.Len(t, out, 16)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, out[:3])
	assert.Equal(t, byte(0), out[15])
}
