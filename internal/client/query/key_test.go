package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_EqualByValue(t *testing.T) {
	a := Key{"user", map[string]any{"id": 1, "tab": "x"}}
	b := Key{"user", map[string]any{"tab": "x", "id": 1}}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(Key{"user", map[string]any{"id": 2, "tab": "x"}}))
	assert.False(t, Key{"1"}.Equal(Key{1}))
}

func TestKey_HasPrefix(t *testing.T) {
	k := Key{"user", 7, "posts"}

	assert.True(t, k.HasPrefix(Key{"user"}))
	assert.True(t, k.HasPrefix(Key{"user", 7}))
	assert.True(t, k.HasPrefix(Key{}))
	assert.False(t, k.HasPrefix(Key{"user", 8}))
	assert.False(t, k.HasPrefix(Key{"user", 7, "posts", "x"}))
}

func TestKey_UnencodableFallsBack(t *testing.T) {
	k := Key{func() {}}
	assert.NotEmpty(t, k.Hash())
}
