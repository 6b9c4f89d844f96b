package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyPal/exprtree/lib/pipeline"
)

func counting(calls *int) ParseFunc {
	return func(expr string) (*pipeline.Result, error) {
		*calls++
		return pipeline.Run(expr)
	}
}

func TestResultCache(t *testing.T) {
	calls := 0
	c, err := New(2, counting(&calls))
	require.NoError(t, err)

	first, hit, err := c.Parse("1+2")
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.Parse("1+2")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	_, hit, err = c.Parse("1+$")
	assert.Error(t, err)
	assert.False(t, hit)
	_, hit, err = c.Parse("1+$")
	assert.Error(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())

	// Adding a third entry evicts the least recently used one.
	_, _, err = c.Parse("3")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, hit, _ = c.Parse("1+2")
	assert.False(t, hit)
}

func TestResultCacheDisabled(t *testing.T) {
	calls := 0
	c, err := New(0, counting(&calls))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, hit, err := c.Parse("4*5")
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, c.Len())
}
