// internal/profiles/service_test.go

package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

type followPair struct {
	follower  int64
	following int64
}

type fakeRepo struct {
	profiles map[int64]*Profile
	follows  map[followPair]bool
}

func newFakeRepo(userIDs ...int64) *fakeRepo {
	f := &fakeRepo{
		profiles: make(map[int64]*Profile),
		follows:  make(map[followPair]bool),
	}
	for _, id := range userIDs {
		f.profiles[id] = &Profile{ID: id}
	}
	return f
}

func (f *fakeRepo) GetProfileByID(_ context.Context, userID int64) (*Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) GetProfileByHandle(_ context.Context, handle string) (*Profile, error) {
	for _, p := range f.profiles {
		if p.Handle == handle {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeRepo) UpdateProfile(_ context.Context, userID int64, req *UpdateProfileRequest) error {
	p, ok := f.profiles[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	return nil
}

func (f *fakeRepo) UpdateAvatarURL(_ context.Context, userID int64, url string) error {
	f.profiles[userID].AvatarURL = &url
	return nil
}

func (f *fakeRepo) UpdateBannerURL(_ context.Context, userID int64, url string) error {
	f.profiles[userID].BannerURL = &url
	return nil
}

func (f *fakeRepo) CreateFollow(_ context.Context, followerID, followingID int64) (bool, error) {
	pair := followPair{followerID, followingID}
	if f.follows[pair] {
		return false, nil
	}
	f.follows[pair] = true
	return true, nil
}

func (f *fakeRepo) DeleteFollow(_ context.Context, followerID, followingID int64) (bool, error) {
	pair := followPair{followerID, followingID}
	if !f.follows[pair] {
		return false, nil
	}
	delete(f.follows, pair)
	return true, nil
}

func (f *fakeRepo) IsFollowing(_ context.Context, followerID, followingID int64) (bool, error) {
	return f.follows[followPair{followerID, followingID}], nil
}

func (f *fakeRepo) AdjustFollowCounts(_ context.Context, followerID, followingID int64, delta int) error {
	follower := f.profiles[followerID]
	following := f.profiles[followingID]
	follower.FollowingCount += delta
	following.FollowerCount += delta
	if follower.FollowingCount < 0 {
		follower.FollowingCount = 0
	}
	if following.FollowerCount < 0 {
		following.FollowerCount = 0
	}
	return nil
}

func (f *fakeRepo) GetFollowers(_ context.Context, userID int64, limit, offset int) ([]Profile, error) {
	return nil, nil
}

func (f *fakeRepo) GetFollowing(_ context.Context, userID int64, limit, offset int) ([]Profile, error) {
	return nil, nil
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

func TestSelfFollowRejected(t *testing.T) {
	repo := newFakeRepo(1)
	svc := NewService(repo, nil, &fakeNotifier{})

	_, err := svc.Follow(context.Background(), 1, "alice", 1)
	assert.Error(t, err)
	assert.Empty(t, repo.follows)
}

func TestFollowUpdatesCountsAndNotifies(t *testing.T) {
	repo := newFakeRepo(1, 2)
	notifier := &fakeNotifier{}
	svc := NewService(repo, nil, notifier)

	result, err := svc.Follow(context.Background(), 1, "alice", 2)
	require.NoError(t, err)

	assert.True(t, result.Following)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, repo.profiles[1].FollowingCount)
	assert.Equal(t, 1, repo.profiles[2].FollowerCount)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(2), notifier.sent[0].UserID)
	assert.Equal(t, notifications.TypeFollow, notifier.sent[0].Type)
}

func TestFollowReplayIsIdempotent(t *testing.T) {
	repo := newFakeRepo(1, 2)
	notifier := &fakeNotifier{}
	svc := NewService(repo, nil, notifier)
	ctx := context.Background()

	_, err := svc.Follow(ctx, 1, "alice", 2)
	require.NoError(t, err)

	replay, err := svc.Follow(ctx, 1, "alice", 2)
	require.NoError(t, err)

	assert.True(t, replay.Following)
	assert.False(t, replay.Changed)
	// No double count, no second notification.
	assert.Equal(t, 1, repo.profiles[2].FollowerCount)
	assert.Len(t, notifier.sent, 1)
}

func TestFollowUnknownUserIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(1), nil, &fakeNotifier{})

	_, err := svc.Follow(context.Background(), 1, "alice", 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUnfollowReversesCounts(t *testing.T) {
	repo := newFakeRepo(1, 2)
	svc := NewService(repo, nil, &fakeNotifier{})
	ctx := context.Background()

	_, err := svc.Follow(ctx, 1, "alice", 2)
	require.NoError(t, err)

	result, err := svc.Unfollow(ctx, 1, 2)
	require.NoError(t, err)

	assert.False(t, result.Following)
	assert.True(t, result.Changed)
	assert.Equal(t, 0, repo.profiles[1].FollowingCount)
	assert.Equal(t, 0, repo.profiles[2].FollowerCount)
}

func TestUnfollowWithoutFollowIsNoop(t *testing.T) {
	repo := newFakeRepo(1, 2)
	svc := NewService(repo, nil, &fakeNotifier{})

	result, err := svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, 0, repo.profiles[2].FollowerCount)
}

func TestProfileCarriesViewerFollowState(t *testing.T) {
	repo := newFakeRepo(1, 2)
	svc := NewService(repo, nil, &fakeNotifier{})
	ctx := context.Background()

	_, err := svc.Follow(ctx, 1, "alice", 2)
	require.NoError(t, err)

	viewer := int64(1)
	profile, err := svc.GetProfile(ctx, &viewer, 2)
	require.NoError(t, err)
	require.NotNil(t, profile.Following)
	assert.True(t, *profile.Following)

	// Anonymous viewers get no follow-state field at all.
	anon, err := svc.GetProfile(ctx, nil, 2)
	require.NoError(t, err)
	assert.Nil(t, anon.Following)
}
