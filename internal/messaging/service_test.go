// internal/messaging/service_test.go

package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
)

type fakeRepo struct {
	nextID        int64
	conversations map[string]*Conversation // by pair key
	byID          map[int64]*Conversation
	members       map[int64][]Member
	messages      map[int64][]Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		conversations: make(map[string]*Conversation),
		byID:          make(map[int64]*Conversation),
		members:       make(map[int64][]Member),
		messages:      make(map[int64][]Message),
	}
}

func (f *fakeRepo) FindOrCreateDirect(_ context.Context, userA, userB int64) (*Conversation, error) {
	key := PairKey(userA, userB)
	if conv, ok := f.conversations[key]; ok {
		return conv, nil
	}
	f.nextID++
	conv := &Conversation{ID: f.nextID, PairKey: &key}
	f.conversations[key] = conv
	f.byID[conv.ID] = conv
	f.members[conv.ID] = []Member{{UserID: userA}, {UserID: userB}}
	return conv, nil
}

func (f *fakeRepo) GetConversation(_ context.Context, id int64) (*Conversation, error) {
	conv, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return conv, nil
}

func (f *fakeRepo) IsMember(_ context.Context, conversationID, userID int64) (bool, error) {
	for _, m := range f.members[conversationID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetMembers(_ context.Context, conversationID int64) ([]Member, error) {
	return f.members[conversationID], nil
}

func (f *fakeRepo) GetUserConversations(_ context.Context, userID int64, limit, offset int) ([]Conversation, error) {
	var out []Conversation
	for _, conv := range f.byID {
		for _, m := range f.members[conv.ID] {
			if m.UserID == userID {
				out = append(out, *conv)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertMessage(_ context.Context, msg *Message) error {
	f.nextID++
	msg.ID = f.nextID
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], *msg)
	conv := f.byID[msg.ConversationID]
	conv.LastMessageID = &msg.ID
	return nil
}

func (f *fakeRepo) GetMessages(_ context.Context, conversationID int64, limit, offset int) ([]Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeRepo) MarkMessagesRead(_ context.Context, conversationID, userID int64) error {
	return nil
}

type fakeNotifier struct {
	sent []*notifications.Notification
}

func (f *fakeNotifier) Notify(n *notifications.Notification) { f.sent = append(f.sent, n) }
func (f *fakeNotifier) List(context.Context, int64, int, *int64) (*notifications.ListResponse, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkRead(context.Context, int64, int64) error { return nil }
func (f *fakeNotifier) MarkAllRead(context.Context, int64) error     { return nil }
func (f *fakeNotifier) GetPreferences(context.Context, int64) (*notifications.Preferences, error) {
	return nil, nil
}
func (f *fakeNotifier) UpdatePreferences(context.Context, *notifications.Preferences) error {
	return nil
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey(1, 2), PairKey(2, 1))
	assert.Equal(t, "1:2", PairKey(2, 1))
	assert.NotEqual(t, PairKey(1, 2), PairKey(1, 3))
}

func TestStartConversationConvergesOnOneThread(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{}, realtime.NewHub())
	ctx := context.Background()

	first, err := svc.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	// Same pair from the other side resolves to the same conversation.
	second, err := svc.StartConversation(ctx, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byID, 1)
}

func TestStartConversationWithSelfRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{}, realtime.NewHub())

	_, err := svc.StartConversation(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{}, realtime.NewHub())
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID, 99, "mallory", &SendMessageRequest{Body: "hi"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, repo.messages[conv.ID])
}

func TestSendMessageNotifiesRecipientOnly(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, realtime.NewHub())
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, conv.ID, 1, "alice", &SendMessageRequest{Body: "hey"})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(2), notifier.sent[0].UserID)
	assert.Equal(t, notifications.TypeMessage, notifier.sent[0].Type)
}

func TestSendMessageUpdatesLastMessagePointer(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{}, realtime.NewHub())
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, conv.ID, 1, "alice", &SendMessageRequest{Body: "hey"})
	require.NoError(t, err)

	require.NotNil(t, repo.byID[conv.ID].LastMessageID)
	assert.Equal(t, msg.ID, *repo.byID[conv.ID].LastMessageID)
}

func TestGetMessagesRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{}, realtime.NewHub())
	ctx := context.Background()

	conv, err := svc.StartConversation(ctx, 1, 2)
	require.NoError(t, err)

	_, err = svc.GetMessages(ctx, conv.ID, 99, 0, 0)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUnknownConversationIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{}, realtime.NewHub())

	_, err := svc.GetMessages(context.Background(), 123, 1, 0, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
