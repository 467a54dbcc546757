// internal/timeline/service_test.go

package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/config"
	"github.com/yourspacelabs/yourspace-backend/internal/interactions"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

type fakeRepo struct {
	followed []*posts.Post
	public   []*posts.Post
	trending []*posts.Post
	flags    map[int64]interactions.Flags

	followedViewer int64
	trendingSince  time.Time
	flagsRequested bool
}

func (f *fakeRepo) GetFollowedFeed(_ context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	f.followedViewer = viewerID
	return page(f.followed, limit, offset), nil
}

func (f *fakeRepo) GetPublicFeed(_ context.Context, limit, offset int) ([]*posts.Post, error) {
	return page(f.public, limit, offset), nil
}

func (f *fakeRepo) GetTrendingFeed(_ context.Context, since time.Time, limit, offset int) ([]*posts.Post, error) {
	f.trendingSince = since
	return page(f.trending, limit, offset), nil
}

func (f *fakeRepo) GetViewerFlags(_ context.Context, viewerID int64, postIDs []int64) (map[int64]interactions.Flags, error) {
	f.flagsRequested = true
	return f.flags, nil
}

func page(items []*posts.Post, limit, offset int) []*posts.Post {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func makePosts(authorID int64, n int) []*posts.Post {
	out := make([]*posts.Post, n)
	for i := range out {
		out[i] = &posts.Post{ID: int64(i + 1), UserID: authorID}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		TrendingWindow:  7 * 24 * time.Hour,
	}
}

func TestHomeFeedUsesFollowedSetForViewer(t *testing.T) {
	repo := &fakeRepo{followed: makePosts(2, 3), public: makePosts(3, 5)}
	svc := NewService(repo, testConfig())

	viewer := int64(1)
	resp, err := svc.GetFeed(context.Background(), &viewer, FeedHome, 0, 20)
	require.NoError(t, err)

	assert.Equal(t, viewer, repo.followedViewer)
	assert.Len(t, resp.Posts, 3)
	assert.False(t, resp.HasMore)
}

func TestFollowingFeedUsesFollowedSetForViewer(t *testing.T) {
	repo := &fakeRepo{followed: makePosts(2, 3), public: makePosts(3, 5)}
	svc := NewService(repo, testConfig())

	viewer := int64(1)
	resp, err := svc.GetFeed(context.Background(), &viewer, FeedFollowing, 0, 20)
	require.NoError(t, err)

	// Same selection as home: followed authors plus self.
	assert.Equal(t, viewer, repo.followedViewer)
	assert.Len(t, resp.Posts, 3)
}

func TestAnonymousFollowingDegradesToPublicFeed(t *testing.T) {
	repo := &fakeRepo{followed: makePosts(2, 3), public: makePosts(3, 5)}
	svc := NewService(repo, testConfig())

	resp, err := svc.GetFeed(context.Background(), nil, FeedFollowing, 0, 20)
	require.NoError(t, err)

	assert.Len(t, resp.Posts, 5)
	assert.Zero(t, repo.followedViewer)
}

func TestAnonymousHomeDegradesToPublicFeed(t *testing.T) {
	repo := &fakeRepo{followed: makePosts(2, 3), public: makePosts(3, 5)}
	svc := NewService(repo, testConfig())

	resp, err := svc.GetFeed(context.Background(), nil, FeedHome, 0, 20)
	require.NoError(t, err)

	// Public candidate set, not the followed one.
	assert.Len(t, resp.Posts, 5)
	assert.Zero(t, repo.followedViewer)
}

func TestExploreIsPublicEvenForViewer(t *testing.T) {
	repo := &fakeRepo{followed: makePosts(2, 3), public: makePosts(3, 5)}
	svc := NewService(repo, testConfig())

	viewer := int64(1)
	resp, err := svc.GetFeed(context.Background(), &viewer, FeedExplore, 0, 20)
	require.NoError(t, err)

	assert.Len(t, resp.Posts, 5)
	assert.Zero(t, repo.followedViewer)
}

func TestTrendingUsesRecencyWindow(t *testing.T) {
	repo := &fakeRepo{trending: makePosts(2, 2)}
	svc := NewService(repo, testConfig())

	before := time.Now().Add(-7 * 24 * time.Hour)
	_, err := svc.GetFeed(context.Background(), nil, FeedTrending, 0, 20)
	require.NoError(t, err)

	assert.WithinDuration(t, before, repo.trendingSince, time.Minute)
}

func TestPaginationBoundary(t *testing.T) {
	// 21 posts, page size 20: first page is full and promises more,
	// second page has the remaining 1 and does not.
	repo := &fakeRepo{public: makePosts(3, 21)}
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, nil, FeedExplore, 0, 20)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 20)
	assert.True(t, first.HasMore)

	second, err := svc.GetFeed(ctx, nil, FeedExplore, 1, 20)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 1)
	assert.False(t, second.HasMore)

	third, err := svc.GetFeed(ctx, nil, FeedExplore, 2, 20)
	require.NoError(t, err)
	assert.Empty(t, third.Posts)
	assert.False(t, third.HasMore)
}

func TestExactlyFullLastPageStillPromisesMore(t *testing.T) {
	// The heuristic over-promises when the total is a multiple of the
	// page size; the next page simply comes back empty.
	repo := &fakeRepo{public: makePosts(3, 20)}
	svc := NewService(repo, testConfig())

	resp, err := svc.GetFeed(context.Background(), nil, FeedExplore, 0, 20)
	require.NoError(t, err)
	assert.True(t, resp.HasMore)
}

func TestViewerFlagsAttached(t *testing.T) {
	repo := &fakeRepo{
		public: makePosts(3, 2),
		flags: map[int64]interactions.Flags{
			1: {Liked: true, Bookmarked: true},
		},
	}
	svc := NewService(repo, testConfig())

	viewer := int64(9)
	resp, err := svc.GetFeed(context.Background(), &viewer, FeedExplore, 0, 20)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)

	assert.True(t, resp.Posts[0].Viewer.Liked)
	assert.True(t, resp.Posts[0].Viewer.Bookmarked)
	assert.False(t, resp.Posts[0].Viewer.Reposted)

	// Absent interactions read as false, never null.
	assert.False(t, resp.Posts[1].Viewer.Liked)
}

func TestAnonymousViewerGetsZeroFlagsWithoutLookup(t *testing.T) {
	repo := &fakeRepo{public: makePosts(3, 2)}
	svc := NewService(repo, testConfig())

	resp, err := svc.GetFeed(context.Background(), nil, FeedExplore, 0, 20)
	require.NoError(t, err)

	assert.False(t, repo.flagsRequested)
	assert.False(t, resp.Posts[0].Viewer.Liked)
}

func TestUnknownFeedTypeRejected(t *testing.T) {
	svc := NewService(&fakeRepo{}, testConfig())

	_, err := svc.GetFeed(context.Background(), nil, "algorithmic", 0, 20)
	assert.Error(t, err)
}

func TestPageSizeClampedToMax(t *testing.T) {
	repo := &fakeRepo{public: makePosts(3, 150)}
	svc := NewService(repo, testConfig())

	resp, err := svc.GetFeed(context.Background(), nil, FeedExplore, 0, 500)
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 100)
	assert.Equal(t, 100, resp.PageSize)
}
