package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDOrder(t *testing.T) {
	a := ID()
	time.Sleep(2 * time.Millisecond)
	b := ID()
	assert.Len(t, a, 26)
	assert.Less(t, a[:10], b[:10])
	assert.Regexp(t, `^[0-9a-hjkmnp-tv-z]+$`, a)
}

func TestSecureLinkValue(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		v, err := SecureLinkValue()
		require.NoError(t, err)
		assert.Len(t, v, 32)
		seen[v] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
