// internal/messaging/service.go

package messaging

import (
	"context"
	"fmt"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
)

type Service interface {
	// StartConversation resolves the direct conversation with the given
	// user, creating it on first contact.
	StartConversation(ctx context.Context, userID, otherUserID int64) (*Conversation, error)

	ListConversations(ctx context.Context, userID int64, limit, offset int) (*ConversationListResponse, error)
	GetMessages(ctx context.Context, conversationID, userID int64, limit, offset int) (*MessageListResponse, error)
	SendMessage(ctx context.Context, conversationID, senderID int64, senderHandle string, req *SendMessageRequest) (*Message, error)
	MarkRead(ctx context.Context, conversationID, userID int64) error
}

type service struct {
	repo     Repository
	notifier notifications.Service
	hub      *realtime.Hub
}

func NewService(repo Repository, notifier notifications.Service, hub *realtime.Hub) Service {
	return &service{repo: repo, notifier: notifier, hub: hub}
}

func (s *service) StartConversation(ctx context.Context, userID, otherUserID int64) (*Conversation, error) {
	if userID == otherUserID {
		return nil, apperr.Validationf("cannot start a conversation with yourself")
	}

	conv, err := s.repo.FindOrCreateDirect(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation: %w", err)
	}

	members, err := s.repo.GetMembers(ctx, conv.ID)
	if err == nil {
		conv.Members = members
	}

	return conv, nil
}

func (s *service) ListConversations(ctx context.Context, userID int64, limit, offset int) (*ConversationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	conversations, err := s.repo.GetUserConversations(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []Conversation{}
	}

	return &ConversationListResponse{
		Conversations: conversations,
		HasMore:       len(conversations) == limit,
	}, nil
}

func (s *service) GetMessages(ctx context.Context, conversationID, userID int64, limit, offset int) (*MessageListResponse, error) {
	if err := s.requireMember(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.GetMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}

	return &MessageListResponse{
		Messages: messages,
		HasMore:  len(messages) == limit,
	}, nil
}

func (s *service) SendMessage(ctx context.Context, conversationID, senderID int64, senderHandle string, req *SendMessageRequest) (*Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if err := s.requireMember(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           req.Body,
		MediaURL:       req.MediaURL,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	msg.SenderHandle = senderHandle

	// Recipient side effects are best effort; the message itself is
	// already durable.
	members, err := s.repo.GetMembers(ctx, conversationID)
	if err == nil {
		for _, m := range members {
			if m.UserID == senderID {
				continue
			}
			s.hub.Publish(realtime.UserStream(realtime.StreamMessages, m.UserID), msg)
			s.notifier.Notify(&notifications.Notification{
				UserID:         m.UserID,
				Type:           notifications.TypeMessage,
				Title:          fmt.Sprintf("@%s sent you a message", senderHandle),
				ActorID:        &senderID,
				ConversationID: &conversationID,
			})
		}
	}

	return msg, nil
}

func (s *service) MarkRead(ctx context.Context, conversationID, userID int64) error {
	if err := s.requireMember(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.repo.MarkMessagesRead(ctx, conversationID, userID)
}

func (s *service) requireMember(ctx context.Context, conversationID, userID int64) error {
	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return err
	}
	member, err := s.repo.IsMember(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.ErrForbidden
	}
	return nil
}
