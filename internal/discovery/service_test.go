// internal/discovery/service_test.go

package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

type swipeKey struct {
	userID   int64
	targetID int64
}

type fakeRepo struct {
	candidates []Candidate
	popular    []Candidate

	swipes      map[swipeKey]string
	connections []Connection
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{swipes: make(map[swipeKey]string)}
}

func (f *fakeRepo) GetCandidates(_ context.Context, viewerID int64, limit int) ([]Candidate, error) {
	return f.candidates, nil
}

func (f *fakeRepo) GetPopularArtists(_ context.Context, limit int) ([]Candidate, error) {
	return f.popular, nil
}

func (f *fakeRepo) RecordSwipe(_ context.Context, swipe *Swipe) error {
	f.nextID++
	swipe.ID = f.nextID
	f.swipes[swipeKey{swipe.UserID, swipe.TargetID}] = swipe.Action
	return nil
}

func (f *fakeRepo) HasLiked(_ context.Context, userID, targetID int64) (bool, error) {
	return f.swipes[swipeKey{userID, targetID}] == ActionLike, nil
}

func (f *fakeRepo) CreateConnection(_ context.Context, userAID, userBID int64) (*Connection, error) {
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}
	for i := range f.connections {
		if f.connections[i].UserAID == userAID && f.connections[i].UserBID == userBID {
			return &f.connections[i], nil
		}
	}
	f.nextID++
	conn := Connection{ID: f.nextID, UserAID: userAID, UserBID: userBID}
	f.connections = append(f.connections, conn)
	return &conn, nil
}

func (f *fakeRepo) GetConnections(_ context.Context, userID int64, limit, offset int) ([]Connection, error) {
	return f.connections, nil
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

func TestAnonymousDeckFallsBackToPopular(t *testing.T) {
	repo := newFakeRepo()
	repo.popular = []Candidate{{UserID: 1}, {UserID: 2}}
	repo.candidates = []Candidate{{UserID: 3}}
	svc := NewService(repo, &fakeNotifier{})

	deck, err := svc.GetDeck(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Len(t, deck, 2)
}

func TestAuthenticatedDeckExcludesSwiped(t *testing.T) {
	repo := newFakeRepo()
	repo.candidates = []Candidate{{UserID: 3}}
	svc := NewService(repo, &fakeNotifier{})

	viewer := int64(1)
	deck, err := svc.GetDeck(context.Background(), &viewer, 10)
	require.NoError(t, err)
	require.Len(t, deck, 1)
	assert.Equal(t, int64(3), deck[0].UserID)
}

func TestSelfSwipeRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.Swipe(context.Background(), 1, "alice", &SwipeRequest{TargetID: 1, Action: ActionLike})
	assert.Error(t, err)
}

func TestOneSidedLikeDoesNotConnect(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	result, err := svc.Swipe(context.Background(), 1, "alice", &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)

	assert.False(t, result.Connected)
	assert.Empty(t, repo.connections)
	assert.Empty(t, notifier.sent)
}

func TestMutualLikeCreatesConnectionAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 2, "bob", &SwipeRequest{TargetID: 1, Action: ActionLike})
	require.NoError(t, err)

	result, err := svc.Swipe(ctx, 1, "alice", &SwipeRequest{TargetID: 2, Action: ActionLike})
	require.NoError(t, err)

	assert.True(t, result.Connected)
	require.NotNil(t, result.Connection)
	require.Len(t, repo.connections, 1)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(2), notifier.sent[0].UserID)
}

func TestSkipNeverConnects(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})
	ctx := context.Background()

	_, err := svc.Swipe(ctx, 2, "bob", &SwipeRequest{TargetID: 1, Action: ActionLike})
	require.NoError(t, err)

	result, err := svc.Swipe(ctx, 1, "alice", &SwipeRequest{TargetID: 2, Action: ActionSkip})
	require.NoError(t, err)
	assert.False(t, result.Connected)
	assert.Empty(t, repo.connections)
}
