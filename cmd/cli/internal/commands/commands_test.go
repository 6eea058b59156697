package commands

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "Asha", truncate("Asha", 22))
	})

	t.Run("long strings are shortened with an ellipsis", func(t *testing.T) {
		got := truncate(strings.Repeat("x", 30), 22)
		assert.Equal(t, strings.Repeat("x", 19)+"...", got)
	})

	t.Run("multi-byte names are never split mid-rune", func(t *testing.T) {
		got := truncate(strings.Repeat("é", 30), 22)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("é", 19)+"...", got)
	})
}
