// internal/posts/extract.go
// Hashtag and mention tokenization. The same rule runs on every create so
// extraction stays deterministic: a marker (# or @) starts a token only at
// the beginning of the body or after a non-token rune, the token body is
// Unicode letters, digits and underscores, and results are case-folded to
// lowercase. Hashtag duplicates are preserved; the upsert collapses them.

package posts

import (
	"strings"
	"unicode"
)

// ExtractTags returns the hashtags and mentions referenced in a post body.
func ExtractTags(body string) (hashtags []string, mentions []string) {
	runes := []rune(body)

	for i := 0; i < len(runes); i++ {
		marker := runes[i]
		if marker != '#' && marker != '@' {
			continue
		}
		if i > 0 && isTokenRune(runes[i-1]) {
			// Mid-word marker, e.g. "a#b" or an email address.
			continue
		}

		start := i + 1
		end := start
		for end < len(runes) && isTokenRune(runes[end]) {
			end++
		}
		if end == start {
			continue
		}

		token := strings.ToLower(string(runes[start:end]))
		if marker == '#' {
			hashtags = append(hashtags, token)
		} else {
			mentions = append(mentions, token)
		}
		i = end - 1
	}

	return hashtags, mentions
}

// UniqueMentions collapses duplicate mentions, preserving first-seen order.
func UniqueMentions(mentions []string) []string {
	seen := make(map[string]bool, len(mentions))
	var out []string
	for _, m := range mentions {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
