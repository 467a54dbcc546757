// internal/notifications/models.go

package notifications

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// NotificationType represents different notification types
type NotificationType string

const (
	TypeLike    NotificationType = "like"
	TypeRepost  NotificationType = "repost"
	TypeFollow  NotificationType = "follow"
	TypeMention NotificationType = "mention"
	TypeReply   NotificationType = "reply"
	TypeQuote   NotificationType = "quote"
	TypeMessage NotificationType = "message"
)

// Notification is a row appended as a side effect of another mutation.
// Clients never create one directly.
type Notification struct {
	ID             int64            `json:"id" db:"id"`
	UserID         int64            `json:"user_id" db:"user_id"`
	Type           NotificationType `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Body           string           `json:"body,omitempty" db:"body"`
	ActorID        *int64           `json:"actor_id,omitempty" db:"actor_id"`
	PostID         *int64           `json:"post_id,omitempty" db:"post_id"`
	ConversationID *int64           `json:"conversation_id,omitempty" db:"conversation_id"`
	Data           NotificationData `json:"data,omitempty" db:"data"`
	IsRead         bool             `json:"is_read" db:"is_read"`
	ReadAt         *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`

	// Joined field
	Actor *Actor `json:"actor,omitempty"`
}

// Actor is the public projection of the user who triggered the notification
type Actor struct {
	ID          int64   `json:"id"`
	Handle      string  `json:"handle"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// NotificationData carries free-form metadata
type NotificationData map[string]interface{}

// Scan implements sql.Scanner
func (nd *NotificationData) Scan(value interface{}) error {
	if value == nil {
		*nd = make(NotificationData)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, nd)
}

// Value implements driver.Valuer
func (nd NotificationData) Value() (driver.Value, error) {
	if nd == nil {
		return "{}", nil
	}
	return json.Marshal(nd)
}

// Preferences gates the optional delivery channels per user
type Preferences struct {
	UserID       int64 `json:"user_id" db:"user_id"`
	EmailEnabled bool  `json:"email_enabled" db:"email_enabled"`
	SMSEnabled   bool  `json:"sms_enabled" db:"sms_enabled"`
}

// Contact is what the delivery channels need to reach a user
type Contact struct {
	Email *string `db:"email"`
	Phone *string `db:"phone"`
}

// ListResponse is a newest-first page of notifications
type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	HasMore       bool            `json:"has_more"`
	NextCursor    *int64          `json:"next_cursor,omitempty"`
}
