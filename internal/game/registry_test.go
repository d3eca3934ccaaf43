// internal/game/registry_test.go
package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Codes())

	l, err := r.Create([]string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, l.Code, codeLength)

	got, ok := r.Get(l.Code)
	require.True(t, ok)
	assert.Same(t, l, got)
	assert.Equal(t, []string{l.Code}, r.Codes())

	_, ok = r.Get("NOSUCH")
	assert.False(t, ok)
}

func TestRegistryRemoveClosesBroadcast(t *testing.T) {
	r := NewRegistry()
	l, err := r.Create([]string{"a"})
	require.NoError(t, err)

	ch, cancel := l.Notify().Subscribe()
	defer cancel()

	assert.True(t, r.Remove(l.Code))
	assert.False(t, r.Remove(l.Code), "second remove reports missing")

	_, open := <-ch
	assert.False(t, open, "removal must disconnect subscribers")
	_, ok := r.Get(l.Code)
	assert.False(t, ok)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(codeLength)
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeCharset, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90, "codes should be close to unique")
}
