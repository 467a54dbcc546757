// internal/posts/models.go
package posts

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Post types
const (
	TypePost   = "post"
	TypeReply  = "reply"
	TypeRepost = "repost"
	TypeQuote  = "quote"
)

// Visibility values
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

type Post struct {
	ID           int64          `json:"id" db:"id"`
	UserID       int64          `json:"user_id" db:"user_id"`
	Body         string         `json:"body" db:"body"`
	Type         string         `json:"type" db:"type"`
	ParentID     *int64         `json:"parent_id,omitempty" db:"parent_id"`
	QuotedPostID *int64         `json:"quoted_post_id,omitempty" db:"quoted_post_id"`
	MediaJSON    []byte         `json:"-" db:"media"`
	PollJSON     []byte         `json:"-" db:"poll"`
	Hashtags     pq.StringArray `json:"hashtags" db:"hashtags"`
	Mentions     pq.StringArray `json:"mentions" db:"mentions"`
	Visibility   string         `json:"visibility" db:"visibility"`
	Location     *string        `json:"location,omitempty" db:"location"`

	LikeCount     int `json:"like_count" db:"like_count"`
	RepostCount   int `json:"repost_count" db:"repost_count"`
	ReplyCount    int `json:"reply_count" db:"reply_count"`
	BookmarkCount int `json:"bookmark_count" db:"bookmark_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields
	Author *AuthorInfo `json:"author,omitempty"`
	Media  []MediaRef  `json:"media"`
	Poll   *Poll       `json:"poll,omitempty"`
}

// MediaRef is one stored media attachment
type MediaRef struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Position int    `json:"position"`
}

// Poll is an optional poll payload attached to a post
type Poll struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// AuthorInfo is the public profile projection joined onto posts
type AuthorInfo struct {
	ID          int64   `json:"id"`
	Handle      string  `json:"handle"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Verified    bool    `json:"verified"`
}

// DecodeMedia parses the stored media JSON, falling back to an empty list
// when the payload is missing or malformed.
func (p *Post) DecodeMedia() {
	p.Media = []MediaRef{}
	if len(p.MediaJSON) == 0 {
		return
	}
	var media []MediaRef
	if err := json.Unmarshal(p.MediaJSON, &media); err != nil {
		return
	}
	p.Media = media
}

// DecodePoll parses the stored poll JSON, falling back to nil when the
// payload is missing or malformed.
func (p *Post) DecodePoll() {
	p.Poll = nil
	if len(p.PollJSON) == 0 {
		return
	}
	var poll Poll
	if err := json.Unmarshal(p.PollJSON, &poll); err != nil {
		return
	}
	if poll.Question == "" && len(poll.Options) == 0 {
		return
	}
	p.Poll = &poll
}

type CreatePostRequest struct {
	Body         string   `json:"body"`
	Type         string   `json:"type"`
	ParentID     *int64   `json:"parent_id,omitempty"`
	QuotedPostID *int64   `json:"quoted_post_id,omitempty"`
	MediaURLs    []string `json:"media_urls,omitempty"`
	Visibility   string   `json:"visibility"`
	Location     *string  `json:"location,omitempty"`
	Poll         *Poll    `json:"poll,omitempty"`
}

type UpdatePostRequest struct {
	Body       string  `json:"body,omitempty"`
	Visibility string  `json:"visibility,omitempty"`
	Location   *string `json:"location,omitempty"`
}
