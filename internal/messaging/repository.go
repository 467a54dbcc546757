// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
)

type Repository interface {
	// FindOrCreateDirect resolves the direct conversation for a user pair,
	// creating it when absent. Concurrent callers converge on one row.
	FindOrCreateDirect(ctx context.Context, userA, userB int64) (*Conversation, error)

	GetConversation(ctx context.Context, conversationID int64) (*Conversation, error)
	IsMember(ctx context.Context, conversationID, userID int64) (bool, error)
	GetMembers(ctx context.Context, conversationID int64) ([]Member, error)
	GetUserConversations(ctx context.Context, userID int64, limit, offset int) ([]Conversation, error)

	InsertMessage(ctx context.Context, msg *Message) error
	GetMessages(ctx context.Context, conversationID int64, limit, offset int) ([]Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, userID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// PairKey normalizes a direct-conversation user pair into its unique key.
// Order of arguments never changes the key.
func PairKey(userA, userB int64) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

func (r *postgresRepository) FindOrCreateDirect(ctx context.Context, userA, userB int64) (*Conversation, error) {
	key := PairKey(userA, userB)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The no-op DO UPDATE makes RETURNING yield the existing row when a
	// concurrent insert won the race.
	var conv Conversation
	err = tx.GetContext(ctx, &conv, `
		INSERT INTO conversations (is_group, pair_key, created_at, updated_at)
		VALUES (false, $1, NOW(), NOW())
		ON CONFLICT (pair_key) DO UPDATE SET pair_key = EXCLUDED.pair_key
		RETURNING id, is_group, pair_key, title, last_message_id, created_at, updated_at`,
		key)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation_members (conversation_id, user_id, joined_at)
		VALUES ($1, $2, NOW()), ($1, $3, NOW())
		ON CONFLICT (conversation_id, user_id) DO NOTHING`,
		conv.ID, userA, userB)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, conversationID int64) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT id, is_group, pair_key, title, last_message_id, created_at, updated_at
		FROM conversations WHERE id = $1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *postgresRepository) IsMember(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM conversation_members
			WHERE conversation_id = $1 AND user_id = $2
		)`, conversationID, userID)
	return exists, err
}

func (r *postgresRepository) GetMembers(ctx context.Context, conversationID int64) ([]Member, error) {
	var members []Member
	err := r.db.SelectContext(ctx, &members, `
		SELECT u.id AS user_id, u.handle, u.display_name, u.avatar_url
		FROM conversation_members cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.conversation_id = $1
		ORDER BY cm.joined_at`, conversationID)
	return members, err
}

func (r *postgresRepository) GetUserConversations(ctx context.Context, userID int64, limit, offset int) ([]Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.is_group, c.pair_key, c.title, c.last_message_id,
		       c.created_at, c.updated_at,
		       m.id, m.conversation_id, m.sender_id, m.body, m.media_url,
		       m.edited, m.read_at, m.created_at,
		       (SELECT COUNT(*) FROM messages um
		        WHERE um.conversation_id = c.id
		          AND um.sender_id != $1 AND um.read_at IS NULL) AS unread
		FROM conversations c
		JOIN conversation_members cm ON cm.conversation_id = c.id AND cm.user_id = $1
		LEFT JOIN messages m ON m.id = c.last_message_id
		ORDER BY c.updated_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var conv Conversation
		var msgID, msgConvID, msgSenderID sql.NullInt64
		var msgBody sql.NullString
		var msgMedia sql.NullString
		var msgEdited sql.NullBool
		var msgReadAt sql.NullTime
		var msgCreatedAt sql.NullTime

		err := rows.Scan(
			&conv.ID, &conv.IsGroup, &conv.PairKey, &conv.Title, &conv.LastMessageID,
			&conv.CreatedAt, &conv.UpdatedAt,
			&msgID, &msgConvID, &msgSenderID, &msgBody, &msgMedia,
			&msgEdited, &msgReadAt, &msgCreatedAt,
			&conv.UnreadCount,
		)
		if err != nil {
			return nil, err
		}

		if msgID.Valid {
			last := &Message{
				ID:             msgID.Int64,
				ConversationID: msgConvID.Int64,
				SenderID:       msgSenderID.Int64,
				Body:           msgBody.String,
				Edited:         msgEdited.Bool,
				CreatedAt:      msgCreatedAt.Time,
			}
			if msgMedia.Valid {
				last.MediaURL = &msgMedia.String
			}
			if msgReadAt.Valid {
				t := msgReadAt.Time
				last.ReadAt = &t
			}
			conv.LastMessage = last
		}

		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

func (r *postgresRepository) InsertMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, msg, `
		INSERT INTO messages (conversation_id, sender_id, body, media_url, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, conversation_id, sender_id, body, media_url, edited, read_at, created_at`,
		msg.ConversationID, msg.SenderID, msg.Body, msg.MediaURL)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET last_message_id = $1, updated_at = NOW()
		WHERE id = $2`,
		msg.ID, msg.ConversationID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) GetMessages(ctx context.Context, conversationID int64, limit, offset int) ([]Message, error) {
	var messages []Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT m.id, m.conversation_id, m.sender_id, m.body, m.media_url,
		       m.edited, m.read_at, m.created_at,
		       u.handle AS sender_handle
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2 OFFSET $3`, conversationID, limit, offset)
	return messages, err
}

func (r *postgresRepository) MarkMessagesRead(ctx context.Context, conversationID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = NOW()
		WHERE conversation_id = $1 AND sender_id != $2 AND read_at IS NULL`,
		conversationID, userID)
	return err
}
