// internal/search/models.go

package search

import (
	"time"

	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

// Search types
const (
	TypeAll      = "all"
	TypePosts    = "posts"
	TypeUsers    = "users"
	TypeHashtags = "hashtags"
)

// UserResult is the public profile projection returned by user search,
// including whether the viewer already follows the account.
type UserResult struct {
	ID          int64   `json:"id" db:"id"`
	Handle      string  `json:"handle" db:"handle"`
	DisplayName string  `json:"display_name" db:"display_name"`
	Bio         *string `json:"bio,omitempty" db:"bio"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`
	Verified    bool    `json:"verified" db:"verified"`
	Followers   int     `json:"follower_count" db:"follower_count"`
	Following   bool    `json:"following" db:"following"`
}

// HashtagResult is one hashtag with its usage count.
type HashtagResult struct {
	Name       string    `json:"name" db:"name"`
	UsageCount int       `json:"usage_count" db:"usage_count"`
	LastUsedAt time.Time `json:"last_used_at" db:"last_used_at"`
}

// Results carries the category slices for one search page. Categories
// the caller did not ask for stay empty rather than null.
type Results struct {
	Posts    []*posts.Post   `json:"posts"`
	Users    []UserResult    `json:"users"`
	Hashtags []HashtagResult `json:"hashtags"`
	Query    string          `json:"query"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
}
