// internal/posts/extract_test.go

package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		hashtags []string
		mentions []string
	}{
		{
			name:     "case folding preserves hashtag duplicates",
			body:     "hello #World #world @Bob",
			hashtags: []string{"world", "world"},
			mentions: []string{"bob"},
		},
		{
			name:     "marker at start of body",
			body:     "#go is nice",
			hashtags: []string{"go"},
		},
		{
			name: "mid-word marker ignored",
			body: "a#b and user@example.com",
		},
		{
			name:     "after punctuation counts as boundary",
			body:     "nice,#art (@alice)",
			hashtags: []string{"art"},
			mentions: []string{"alice"},
		},
		{
			name:     "digits and underscores in token",
			body:     "#web_3 @user_42",
			hashtags: []string{"web_3"},
			mentions: []string{"user_42"},
		},
		{
			name:     "token ends at punctuation",
			body:     "#go! @bob.",
			hashtags: []string{"go"},
			mentions: []string{"bob"},
		},
		{
			name: "bare markers yield nothing",
			body: "# @ ##",
		},
		{
			name:     "unicode letters",
			body:     "#café @ñandú",
			hashtags: []string{"café"},
			mentions: []string{"ñandú"},
		},
		{
			name: "empty body",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashtags, mentions := ExtractTags(tt.body)
			assert.Equal(t, tt.hashtags, hashtags)
			assert.Equal(t, tt.mentions, mentions)
		})
	}
}

func TestUniqueMentions(t *testing.T) {
	got := UniqueMentions([]string{"bob", "alice", "bob", "carol", "alice"})
	assert.Equal(t, []string{"bob", "alice", "carol"}, got)

	assert.Nil(t, UniqueMentions(nil))
}
