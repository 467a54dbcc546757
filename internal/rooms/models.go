// internal/rooms/models.go

package rooms

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Theme is a free-form styling payload stored as JSON.
type Theme map[string]interface{}

func (t Theme) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *Theme) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("rooms: theme column is not bytes")
	}
	return json.Unmarshal(b, t)
}

type Room struct {
	ID          int64     `json:"id" db:"id"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Visibility  string    `json:"visibility" db:"visibility"`
	Theme       Theme     `json:"theme,omitempty" db:"theme"`
	VisitCount  int       `json:"visit_count" db:"visit_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	OwnerHandle string `json:"owner_handle,omitempty" db:"owner_handle"`
}

// Placement holds an asset's transform inside the room.
type Placement struct {
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
}

func (p Placement) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Placement) Scan(src interface{}) error {
	if src == nil {
		*p = Placement{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("rooms: placement column is not bytes")
	}
	return json.Unmarshal(b, p)
}

type Asset struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    int64     `json:"room_id" db:"room_id"`
	Name      string    `json:"name" db:"name"`
	AssetURL  string    `json:"asset_url" db:"asset_url"`
	AssetType string    `json:"asset_type" db:"asset_type"`
	Placement Placement `json:"placement" db:"placement"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Visit is one viewing session. VisitorID is nil for anonymous visitors.
type Visit struct {
	ID        int64      `json:"id" db:"id"`
	RoomID    int64      `json:"room_id" db:"room_id"`
	VisitorID *int64     `json:"visitor_id,omitempty" db:"visitor_id"`
	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	DurationS *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`
}

type CreateRoomRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Visibility  string  `json:"visibility" validate:"omitempty,oneof=public private"`
	Theme       Theme   `json:"theme,omitempty"`
}

type UpdateRoomRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Visibility  *string `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	Theme       Theme   `json:"theme,omitempty"`
}

type PlaceAssetRequest struct {
	Name      string    `json:"name" validate:"required,max=100"`
	AssetURL  string    `json:"asset_url" validate:"required,max=500"`
	Placement Placement `json:"placement"`
}

type UpdateAssetRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	Placement *Placement `json:"placement,omitempty"`
}

// VisitStats summarizes a room's visit analytics for its owner.
type VisitStats struct {
	TotalVisits     int     `json:"total_visits" db:"total_visits"`
	UniqueVisitors  int     `json:"unique_visitors" db:"unique_visitors"`
	AnonymousVisits int     `json:"anonymous_visits" db:"anonymous_visits"`
	AvgDurationS    float64 `json:"avg_duration_seconds" db:"avg_duration_seconds"`
}
