// internal/messaging/models.go

package messaging

import "time"

// Conversation is a chat thread. Direct conversations have exactly two
// members and a normalized pair key; group conversations have neither.
type Conversation struct {
	ID            int64     `json:"id" db:"id"`
	IsGroup       bool      `json:"is_group" db:"is_group"`
	PairKey       *string   `json:"-" db:"pair_key"`
	Title         *string   `json:"title,omitempty" db:"title"`
	LastMessageID *int64    `json:"last_message_id,omitempty" db:"last_message_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields
	LastMessage *Message  `json:"last_message,omitempty"`
	Members     []Member  `json:"members,omitempty"`
	UnreadCount int       `json:"unread_count"`
}

// Member is one participant's view of a conversation.
type Member struct {
	UserID      int64   `json:"user_id" db:"user_id"`
	Handle      string  `json:"handle" db:"handle"`
	DisplayName string  `json:"display_name" db:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversation_id" db:"conversation_id"`
	SenderID       int64     `json:"sender_id" db:"sender_id"`
	Body           string    `json:"body" db:"body"`
	MediaURL       *string   `json:"media_url,omitempty" db:"media_url"`
	Edited         bool      `json:"edited" db:"edited"`
	ReadAt         *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	SenderHandle string `json:"sender_handle,omitempty" db:"sender_handle"`
}

type SendMessageRequest struct {
	Body     string  `json:"body" validate:"required,max=4000"`
	MediaURL *string `json:"media_url,omitempty"`
}

type CreateConversationRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
	HasMore       bool           `json:"has_more"`
}

type MessageListResponse struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}
