package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestParse(t *testing.T) {
	registry := DefaultRegistry()

	t.Run("NilInput", func(t *testing.T) {
		scopes, err := registry.Parse(nil)
		assert.NoError(t, err)
		assert.Nil(t, scopes, "omitted scope should parse to no scopes")
	})

	t.Run("EmptyInput", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr(""))
		assert.ErrorIs(t, err, ErrEmptyScopes)
		assert.Nil(t, scopes)
	})

	t.Run("BlankInput", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr(" "))
		assert.ErrorIs(t, err, ErrBlankScopes)
		assert.Nil(t, scopes)
	})

	t.Run("MultipleBlankTokens", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("   "))
		assert.ErrorIs(t, err, ErrBlankScopes)
		assert.Nil(t, scopes)
	})

	t.Run("SingleScope", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("basic"))
		assert.NoError(t, err)
		assert.Equal(t, Scopes{"basic"}, scopes)
	})

	t.Run("MultipleScopes", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("basic read write"))
		assert.NoError(t, err)
		assert.Len(t, scopes, 3)
		assert.True(t, scopes.Contains("basic"))
		assert.True(t, scopes.Contains("read"))
		assert.True(t, scopes.Contains("write"))
	})

	t.Run("ExtraWhitespace", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("  basic   read "))
		assert.NoError(t, err)
		assert.Equal(t, Scopes{"basic", "read"}, scopes)
	})

	t.Run("UnknownScope", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("basic unknown"))
		assert.ErrorIs(t, err, ErrInvalidScope)
		assert.Nil(t, scopes)
	})

	t.Run("DuplicateScope", func(t *testing.T) {
		scopes, err := registry.Parse(strPtr("basic basic"))
		assert.ErrorIs(t, err, ErrDuplicateScope)
		assert.Nil(t, scopes)
	})
}

func TestIsValid(t *testing.T) {
	registry := NewRegistry("openid", "profile")

	assert.True(t, registry.IsValid("openid"))
	assert.True(t, registry.IsValid("profile"))
	assert.False(t, registry.IsValid("email"))
	assert.False(t, registry.IsValid(""))
}

func TestScopesString(t *testing.T) {
	assert.Equal(t, "basic read", Scopes{"basic", "read"}.String())
	assert.Equal(t, "basic", Scopes{"basic"}.String())
	assert.Equal(t, "", Scopes{}.String())
}
