package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "River Stories", expected: "river-stories"},
		{name: "diacritics", input: "Kōrero o te Wā!", expected: "korero-o-te-wa"},
		{name: "punctuation runs", input: "  Grandma's -- garden  ", expected: "grandma-s-garden"},
		{name: "digits", input: "1985 Flood", expected: "1985-flood"},
		{name: "empty", input: "", expected: Fallback},
		{name: "symbols only", input: "!!! ???", expected: Fallback},
		{name: "non latin", input: "故事", expected: Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMake_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	out := Make(long)
	assert.LessOrEqual(t, len(out), MaxLength)
	assert.False(t, strings.HasSuffix(out, "-"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "river-stories-2", WithSuffix("river-stories", 2))
}
