// internal/profiles/models.go

package profiles

import "time"

// Profile is the full public projection of a user account.
type Profile struct {
	ID             int64     `json:"id" db:"id"`
	Handle         string    `json:"handle" db:"handle"`
	DisplayName    string    `json:"display_name" db:"display_name"`
	Bio            *string   `json:"bio,omitempty" db:"bio"`
	AvatarURL      *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	BannerURL      *string   `json:"banner_url,omitempty" db:"banner_url"`
	Location       *string   `json:"location,omitempty" db:"location"`
	Website        *string   `json:"website,omitempty" db:"website"`
	FollowerCount  int       `json:"follower_count" db:"follower_count"`
	FollowingCount int       `json:"following_count" db:"following_count"`
	PostCount      int       `json:"post_count" db:"post_count"`
	Verified       bool      `json:"verified" db:"verified"`
	Reputation     int       `json:"reputation" db:"reputation"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	// Set only when a viewer is known.
	Following *bool `json:"following,omitempty" db:"-"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=64"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website     *string `json:"website,omitempty" validate:"omitempty,max=200"`
}

// FollowResult reports the state after a follow or unfollow call.
type FollowResult struct {
	Following bool `json:"following"`
	Changed   bool `json:"changed"`
}
