package pkguid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomNodeRange(t *testing.T) {
	for range 50 {
		node, err := randomNode()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, node, int64(0))
		assert.LessOrEqual(t, node, int64(1023))
	}
}

func TestSnowflakeIncreasing(t *testing.T) {
	gen, err := NewSnowflake(RandomNode)
	require.NoError(t, err)

	prev := gen.Generate()
	assert.Positive(t, prev)
	for range 1000 {
		next := gen.Generate()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestSnowflakeRejectsInvalidNode(t *testing.T) {
	_, err := NewSnowflake(4096)
	assert.Error(t, err)

	gen, err := NewSnowflake(7)
	require.NoError(t, err)
	assert.NotZero(t, gen.Generate())
}
