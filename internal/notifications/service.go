// internal/notifications/service.go
// Notification dispatcher: a pure side-effect appender. Notify enqueues the
// insert on the best-effort task queue and returns immediately; the caller's
// primary operation never learns about a delivery failure. Reads are the
// usual synchronous repository path.

package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/tasks"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
)

// Service is the notification contract other features depend on
type Service interface {
	// Notify appends a notification asynchronously, at most once.
	Notify(n *Notification)

	List(ctx context.Context, userID int64, limit int, cursorID *int64) (*ListResponse, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpdatePreferences(ctx context.Context, prefs *Preferences) error
}

// Config toggles the optional delivery channels
type Config struct {
	EnableEmail bool
	EnableSMS   bool
}

type service struct {
	repo   Repository
	queue  *tasks.Queue
	hub    *realtime.Hub
	email  EmailSender
	sms    SMSSender
	config *Config
}

// NewService creates a notification service. email and sms may be nil when
// the corresponding channel is disabled.
func NewService(repo Repository, queue *tasks.Queue, hub *realtime.Hub, email EmailSender, sms SMSSender, config *Config) Service {
	return &service{
		repo:   repo,
		queue:  queue,
		hub:    hub,
		email:  email,
		sms:    sms,
		config: config,
	}
}

func (s *service) Notify(n *Notification) {
	s.queue.Enqueue("notification", func(ctx context.Context) error {
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			return fmt.Errorf("%w: notification insert: %v", apperr.ErrUpstream, err)
		}

		s.hub.Publish(realtime.UserStream(realtime.StreamNotifications, n.UserID), n)
		s.deliverChannels(ctx, n)
		return nil
	})
}

// deliverChannels pushes the notification over email/SMS when enabled both
// globally and in the recipient's preferences. Failures are logged only.
func (s *service) deliverChannels(ctx context.Context, n *Notification) {
	if (!s.config.EnableEmail || s.email == nil) && (!s.config.EnableSMS || s.sms == nil) {
		return
	}

	prefs, err := s.repo.GetPreferences(ctx, n.UserID)
	if err != nil {
		log.Printf("notifications: failed to load preferences for %d: %v", n.UserID, err)
		return
	}

	contact, err := s.repo.GetContact(ctx, n.UserID)
	if err != nil || contact == nil {
		log.Printf("notifications: failed to load contact for %d: %v", n.UserID, err)
		return
	}

	if s.config.EnableEmail && s.email != nil && prefs.EmailEnabled && contact.Email != nil {
		if err := s.email.SendEmail(ctx, *contact.Email, n.Title, n.Body); err != nil {
			log.Printf("notifications: email delivery failed for %d: %v", n.UserID, err)
		}
	}

	if s.config.EnableSMS && s.sms != nil && prefs.SMSEnabled && contact.Phone != nil {
		if err := s.sms.SendSMS(ctx, *contact.Phone, n.Title); err != nil {
			log.Printf("notifications: SMS delivery failed for %d: %v", n.UserID, err)
		}
	}
}

func (s *service) List(ctx context.Context, userID int64, limit int, cursorID *int64) (*ListResponse, error) {
	notifications, err := s.repo.GetUserNotifications(ctx, userID, limit, cursorID)
	if err != nil {
		return nil, apperr.Storagef("failed to load notifications: %v", err)
	}

	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, apperr.Storagef("failed to count unread: %v", err)
	}

	resp := &ListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		HasMore:       len(notifications) == limit,
	}
	if resp.HasMore && len(notifications) > 0 {
		last := notifications[len(notifications)-1].ID
		resp.NextCursor = &last
	}

	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID, userID int64) error {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return apperr.Storagef("failed to mark notification read: %v", err)
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return apperr.Storagef("failed to mark notifications read: %v", err)
	}
	return nil
}

func (s *service) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, apperr.Storagef("failed to load preferences: %v", err)
	}
	return prefs, nil
}

func (s *service) UpdatePreferences(ctx context.Context, prefs *Preferences) error {
	if err := s.repo.UpdatePreferences(ctx, prefs); err != nil {
		return apperr.Storagef("failed to update preferences: %v", err)
	}
	return nil
}
