package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("preserves first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, DedupeAndTrim([]string{"a", "b", "a", "c"}))
	})

	t.Run("drops blanks and trims", func(t *testing.T) {
		assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "}))
	})

	t.Run("nil input yields empty slice", func(t *testing.T) {
		assert.Empty(t, DedupeAndTrim(nil))
		assert.NotNil(t, DedupeAndTrim(nil))
	})
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"profile", "openid"}, SplitFields("  profile\topenid profile\n"))
	assert.Empty(t, SplitFields("   "))
}

func TestKeepAllowed(t *testing.T) {
	assert.Equal(t, []string{"profile", "openid"}, KeepAllowed([]string{"secret", "profile", "openid"}, []string{"openid", "profile"}))
	assert.Empty(t, KeepAllowed([]string{"secret"}, []string{"profile"}))
}

func TestContainsAll(t *testing.T) {
	assert.True(t, ContainsAll([]string{"a", "b", "c"}, []string{"c", "a"}))
	assert.True(t, ContainsAll([]string{"a"}, nil))
	assert.False(t, ContainsAll([]string{"a"}, []string{"a", "b"}))
}
