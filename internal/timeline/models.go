// internal/timeline/models.go

package timeline

import (
	"github.com/yourspacelabs/yourspace-backend/internal/interactions"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

// Feed types
const (
	FeedHome      = "home"
	FeedFollowing = "following"
	FeedExplore   = "explore"
	FeedTrending  = "trending"
)

// FeedPost is a post enriched with the viewer's own interaction flags.
// Flags are always present: absent interactions read as false, never null.
type FeedPost struct {
	*posts.Post
	Viewer interactions.Flags `json:"viewer"`
}

// FeedResponse is one page of an assembled timeline
type FeedResponse struct {
	Posts    []FeedPost `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	HasMore  bool       `json:"has_more"`
}
