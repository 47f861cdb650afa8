// Package slug turns titles into URL path segments.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title has no usable characters.
const Fallback = "untitled"

// MaxLength bounds the base slug before any numeric suffix.
const MaxLength = 80

// Make lowercases s, strips diacritics and joins runs of letters and digits
// with single hyphens: "Kōrero o te Wā!" becomes "korero-o-te-wa".
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	out := b.String()
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	if out == "" {
		return Fallback
	}
	return out
}

// WithSuffix returns base-n, used to resolve collisions.
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}
