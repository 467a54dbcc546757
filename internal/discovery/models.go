// internal/discovery/models.go

package discovery

import "time"

// Swipe actions
const (
	ActionLike = "like"
	ActionSkip = "skip"
)

// Candidate is one artist card in the discovery deck.
type Candidate struct {
	UserID        int64   `json:"user_id" db:"user_id"`
	Handle        string  `json:"handle" db:"handle"`
	DisplayName   string  `json:"display_name" db:"display_name"`
	Bio           *string `json:"bio,omitempty" db:"bio"`
	AvatarURL     *string `json:"avatar_url,omitempty" db:"avatar_url"`
	BannerURL     *string `json:"banner_url,omitempty" db:"banner_url"`
	FollowerCount int     `json:"follower_count" db:"follower_count"`
	PostCount     int     `json:"post_count" db:"post_count"`
	Verified      bool    `json:"verified" db:"verified"`
}

type Swipe struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TargetID  int64     `json:"target_id" db:"target_id"`
	Action    string    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Connection is a mutual like between two artists.
type Connection struct {
	ID        int64     `json:"id" db:"id"`
	UserAID   int64     `json:"user_a_id" db:"user_a_id"`
	UserBID   int64     `json:"user_b_id" db:"user_b_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Other *Candidate `json:"other,omitempty"`
}

type SwipeRequest struct {
	TargetID int64  `json:"target_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=like skip"`
}

// SwipeResult reports whether the swipe completed a mutual like.
type SwipeResult struct {
	Action    string      `json:"action"`
	Connected bool        `json:"connected"`
	Connection *Connection `json:"connection,omitempty"`
}
