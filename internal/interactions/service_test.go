// internal/interactions/service_test.go

package interactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

type ledgerKey struct {
	postID int64
	userID int64
	typ    string
}

type fakeRepo struct {
	rows     map[ledgerKey]bool
	counters map[int64]map[string]int
	authors  map[int64]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:     make(map[ledgerKey]bool),
		counters: make(map[int64]map[string]int),
		authors:  map[int64]int64{1: 100},
	}
}

func (f *fakeRepo) AddInteraction(_ context.Context, postID, userID int64, typ string) (bool, error) {
	key := ledgerKey{postID, userID, typ}
	if f.rows[key] {
		return false, nil
	}
	f.rows[key] = true
	return true, nil
}

func (f *fakeRepo) RemoveInteraction(_ context.Context, postID, userID int64, typ string) (bool, error) {
	key := ledgerKey{postID, userID, typ}
	if !f.rows[key] {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeRepo) Exists(_ context.Context, postID, userID int64, typ string) (bool, error) {
	return f.rows[ledgerKey{postID, userID, typ}], nil
}

func (f *fakeRepo) ApplyCounterDelta(_ context.Context, postID int64, typ string, delta int) error {
	if f.counters[postID] == nil {
		f.counters[postID] = make(map[string]int)
	}
	next := f.counters[postID][typ] + delta
	if next < 0 {
		next = 0
	}
	f.counters[postID][typ] = next
	return nil
}

func (f *fakeRepo) GetPostAuthor(_ context.Context, postID int64) (int64, error) {
	return f.authors[postID], nil
}

func (f *fakeRepo) GetBookmarkedPosts(_ context.Context, userID int64, limit, offset int) ([]int64, error) {
	var ids []int64
	for key := range f.rows {
		if key.userID == userID && key.typ == TypeBookmark {
			ids = append(ids, key.postID)
		}
	}
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakeNotifier struct {
	sent []*notifications.Notification
}

func (f *fakeNotifier) Notify(n *notifications.Notification) { f.sent = append(f.sent, n) }
func (f *fakeNotifier) List(context.Context, int64, int, *int64) (*notifications.ListResponse, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkRead(context.Context, int64, int64) error    { return nil }
func (f *fakeNotifier) MarkAllRead(context.Context, int64) error        { return nil }
func (f *fakeNotifier) GetPreferences(context.Context, int64) (*notifications.Preferences, error) {
	return nil, nil
}
func (f *fakeNotifier) UpdatePreferences(context.Context, *notifications.Preferences) error {
	return nil
}

func TestToggleIsIdempotentPerState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})
	ctx := context.Background()

	first, err := svc.SetInteraction(ctx, 42, 1, TypeLike, ActionToggle, "alice")
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, 1, first.Delta)
	assert.Equal(t, 1, repo.counters[1][TypeLike])

	second, err := svc.SetInteraction(ctx, 42, 1, TypeLike, ActionToggle, "alice")
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, -1, second.Delta)
	assert.Equal(t, 0, repo.counters[1][TypeLike])
}

func TestAddIsUniquePerTuple(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})
	ctx := context.Background()

	first, err := svc.SetInteraction(ctx, 42, 1, TypeBookmark, ActionAdd, "alice")
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, 1, first.Delta)

	// Replayed add: no second row, no counter bump, still active.
	second, err := svc.SetInteraction(ctx, 42, 1, TypeBookmark, ActionAdd, "alice")
	require.NoError(t, err)
	assert.True(t, second.Active)
	assert.Equal(t, 0, second.Delta)
	assert.Equal(t, 1, repo.counters[1][TypeBookmark])
}

func TestRemoveMissingRowIsNoop(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})

	result, err := svc.SetInteraction(context.Background(), 42, 1, TypeRepost, ActionRemove, "alice")
	require.NoError(t, err)
	assert.False(t, result.Active)
	assert.Equal(t, 0, result.Delta)
	assert.Equal(t, 0, repo.counters[1][TypeRepost])
}

func TestCounterNeverGoesNegative(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SetInteraction(ctx, 42, 1, TypeLike, ActionRemove, "alice")
		require.NoError(t, err)
	}
	assert.Equal(t, 0, repo.counters[1][TypeLike])
}

func TestLikeNotifiesAuthorOnce(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	_, err := svc.SetInteraction(ctx, 42, 1, TypeLike, ActionAdd, "alice")
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(100), notifier.sent[0].UserID)
	assert.Equal(t, notifications.TypeLike, notifier.sent[0].Type)

	// Replay produces no second notification.
	_, err = svc.SetInteraction(ctx, 42, 1, TypeLike, ActionAdd, "alice")
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	_, err := svc.SetInteraction(context.Background(), 100, 1, TypeLike, ActionAdd, "author")
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestBookmarkAndRepostNeverNotify(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	_, err := svc.SetInteraction(ctx, 42, 1, TypeBookmark, ActionAdd, "alice")
	require.NoError(t, err)
	_, err = svc.SetInteraction(ctx, 42, 1, TypeRepost, ActionAdd, "alice")
	require.NoError(t, err)

	assert.Empty(t, notifier.sent)
}

func TestUnknownPostIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeNotifier{})

	_, err := svc.SetInteraction(context.Background(), 42, 999, TypeLike, ActionToggle, "alice")
	assert.Error(t, err)
}

func TestInvalidTypeRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.SetInteraction(context.Background(), 42, 1, "sparkle", ActionToggle, "alice")
	assert.Error(t, err)
}
