// internal/interactions/models.go

package interactions

import (
	"time"
)

// Interaction types
const (
	TypeLike     = "like"
	TypeRepost   = "repost"
	TypeBookmark = "bookmark"
)

// Actions
const (
	ActionToggle = "toggle"
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Interaction is one (post, user, type) ledger row. The tuple carries a
// unique constraint; it is what makes toggles idempotent.
type Interaction struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SetInteractionRequest struct {
	Type   string `json:"type" validate:"required,oneof=like repost bookmark"`
	Action string `json:"action" validate:"omitempty,oneof=toggle add remove"`
}

// Result reports whether the interaction is now present and the counter
// delta that was applied.
type Result struct {
	Active bool `json:"active"`
	Delta  int  `json:"delta"`
}

// Flags are the viewer's own interaction states for one post
type Flags struct {
	Liked      bool `json:"liked"`
	Reposted   bool `json:"reposted"`
	Bookmarked bool `json:"bookmarked"`
}
