// internal/notifications/repository.go

package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetUserNotifications(ctx context.Context, userID int64, limit int, cursorID *int64) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error

	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpdatePreferences(ctx context.Context, prefs *Preferences) error
	GetContact(ctx context.Context, userID int64) (*Contact, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateNotification(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, body, actor_id, post_id,
		                           conversation_id, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, NOW())
		RETURNING id, created_at`

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Body, n.ActorID, n.PostID, n.ConversationID, dataJSON,
	).Scan(&n.ID, &n.CreatedAt)
}

// GetUserNotifications pages newest-first; cursorID, when present, bounds
// results to rows strictly older than the cursor row.
func (r *postgresRepository) GetUserNotifications(ctx context.Context, userID int64, limit int, cursorID *int64) ([]*Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.type, n.title, n.body, n.actor_id, n.post_id,
		       n.conversation_id, n.data, n.is_read, n.read_at, n.created_at,
		       u.handle, u.display_name, u.avatar_url
		FROM notifications n
		LEFT JOIN users u ON n.actor_id = u.id
		WHERE n.user_id = $1`

	args := []interface{}{userID}
	if cursorID != nil {
		query += " AND n.id < $2"
		args = append(args, *cursorID)
	}
	query += fmt.Sprintf(" ORDER BY n.id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		var n Notification
		var dataJSON []byte
		var handle, displayName sql.NullString
		var avatarURL *string

		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.ActorID, &n.PostID,
			&n.ConversationID, &dataJSON, &n.IsRead, &n.ReadAt, &n.CreatedAt,
			&handle, &displayName, &avatarURL,
		)
		if err != nil {
			return nil, err
		}

		if dataJSON != nil {
			json.Unmarshal(dataJSON, &n.Data)
		}

		if n.ActorID != nil && handle.Valid {
			n.Actor = &Actor{
				ID:          *n.ActorID,
				Handle:      handle.String,
				DisplayName: displayName.String,
				AvatarURL:   avatarURL,
			}
		}

		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

func (r *postgresRepository) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	query := `
		UPDATE notifications SET is_read = true, read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, notificationID, userID)
	return err
}

func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `
		UPDATE notifications SET is_read = true, read_at = NOW()
		WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *postgresRepository) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	var prefs Preferences
	query := `SELECT user_id, email_enabled, sms_enabled FROM notification_preferences WHERE user_id = $1`

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err == sql.ErrNoRows {
		// Default: in-app only.
		return &Preferences{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *postgresRepository) UpdatePreferences(ctx context.Context, prefs *Preferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, sms_enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET email_enabled = EXCLUDED.email_enabled, sms_enabled = EXCLUDED.sms_enabled`
	_, err := r.db.ExecContext(ctx, query, prefs.UserID, prefs.EmailEnabled, prefs.SMSEnabled)
	return err
}

func (r *postgresRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	var contact Contact
	query := `SELECT email, phone FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &contact, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
