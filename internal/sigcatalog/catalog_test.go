package sigcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	sig, ok := Get("PNG")
	require.True(t, ok)
	assert.Equal(t, "PNG", sig.Name)
	assert.Equal(t, ".png", sig.Extension)

	_, ok = Get("NOT_A_FORMAT")
	assert.False(t, ok)
}

func TestAllMatchesNames(t *testing.T) {
	names := Names()
	all := All()
	assert.Len(t, all, len(names))

	seen := make(map[string]bool)
	for _, s := range all {
		seen[s.Name] = true
	}
	for _, n := range names {
		assert.True(t, seen[n], "Names() entry %q missing from All()", n)
	}
}

func TestMaxHeaderLen(t *testing.T) {
	full := MaxHeaderLen(nil)
	assert.GreaterOrEqual(t, full, len(b(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)))

	narrowed := MaxHeaderLen([]string{"BMP"})
	sig, _ := Get("BMP")
	assert.Equal(t, len(sig.Header), narrowed)

	assert.Equal(t, 0, MaxHeaderLen([]string{"NOT_A_FORMAT"}))
}

func TestResolveDropsUnknownNames(t *testing.T) {
	sigs := resolve([]string{"PNG", "NOT_A_FORMAT"})
	require.Len(t, sigs, 1)
	assert.Equal(t, "PNG", sigs[0].Name)
}
