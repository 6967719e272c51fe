package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	v, err := s.Get("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set("k", "v1"))
	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.Set("k", "v2"))
	v, _ = s.Get("k")
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Delete("k"))
	v, err = s.Get("k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestPrefixStoreIsolation(t *testing.T) {
	inner := NewMemoryStore()
	a := NewPrefixStore(inner, "chat:1:")
	b := NewPrefixStore(inner, "chat:2:")

	require.NoError(t, a.Set("history", "alpha"))
	require.NoError(t, b.Set("history", "beta"))

	v, err := a.Get("history")
	require.NoError(t, err)
	assert.Equal(t, "alpha", v)

	v, err = b.Get("history")
	require.NoError(t, err)
	assert.Equal(t, "beta", v)

	require.NoError(t, a.Delete("history"))
	v, _ = a.Get("history")
	assert.Empty(t, v)
	v, _ = b.Get("history")
	assert.Equal(t, "beta", v)
}
