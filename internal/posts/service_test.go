// internal/posts/service_test.go

package posts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/tasks"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
)

type fakeRepo struct {
	nextID     int64
	posts      map[int64]*Post
	hashtags   map[string]int
	handles    map[string]int64
	replyBumps map[int64]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:      make(map[int64]*Post),
		hashtags:   make(map[string]int),
		handles:    make(map[string]int64),
		replyBumps: make(map[int64]int),
	}
}

func (f *fakeRepo) CreatePost(_ context.Context, post *Post) error {
	f.nextID++
	post.ID = f.nextID
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakeRepo) GetPostByID(_ context.Context, postID int64) (*Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakeRepo) UpdatePost(_ context.Context, postID int64, update *UpdatePostRequest) error {
	post := f.posts[postID]
	if update.Body != "" {
		post.Body = update.Body
	}
	if update.Visibility != "" {
		post.Visibility = update.Visibility
	}
	return nil
}

func (f *fakeRepo) DeletePost(_ context.Context, postID int64) error {
	delete(f.posts, postID)
	return nil
}


func (f *fakeRepo) IncrementReplyCount(_ context.Context, postID int64, delta int) error {
	f.replyBumps[postID] += delta
	return nil
}

func (f *fakeRepo) UpsertHashtag(_ context.Context, name string) error {
	f.hashtags[name]++
	return nil
}

func (f *fakeRepo) ResolveHandles(_ context.Context, handles []string) (map[string]int64, error) {
	resolved := make(map[string]int64)
	for _, h := range handles {
		if id, ok := f.handles[h]; ok {
			resolved[h] = id
		}
	}
	return resolved, nil
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

func newTestService(repo Repository, notifier notifications.Service) (*Service, *tasks.Queue) {
	q := tasks.NewQueue(16)
	svc := NewService(repo, nil, q, notifier, realtime.NewHub(), &Config{
		MaxPostLength: 280,
		MaxPostMedia:  4,
	})
	return svc, q
}

func drain(q *tasks.Queue) {
	go q.Run()
	q.Stop()
}

func TestCreatePostExtractsTags(t *testing.T) {
	repo := newFakeRepo()
	svc, q := newTestService(repo, &fakeNotifier{})

	post, err := svc.CreatePost(context.Background(), 1, "alice", &CreatePostRequest{
		Body:       "shipping #Art with @bob",
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"art"}, []string(post.Hashtags))
	assert.Equal(t, []string{"bob"}, []string(post.Mentions))

	drain(q)
	assert.Equal(t, 1, repo.hashtags["art"])
}

func TestCreatePostBodyLengthEnforced(t *testing.T) {
	svc, _ := newTestService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.CreatePost(context.Background(), 1, "alice", &CreatePostRequest{
		Body:       strings.Repeat("x", 281),
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	assert.Error(t, err)
}

func TestMentionNotificationSkipsSelfAndUnknown(t *testing.T) {
	repo := newFakeRepo()
	repo.handles["alice"] = 1
	repo.handles["bob"] = 2
	notifier := &fakeNotifier{}
	svc, q := newTestService(repo, notifier)

	// alice mentions herself, bob, and a handle that resolves to no one.
	_, err := svc.CreatePost(context.Background(), 1, "alice", &CreatePostRequest{
		Body:       "hey @alice @bob @ghost",
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	drain(q)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(2), notifier.sent[0].UserID)
	assert.Equal(t, notifications.TypeMention, notifier.sent[0].Type)
}

func TestReplyBumpsParentCount(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	parent, err := svc.CreatePost(ctx, 1, "alice", &CreatePostRequest{
		Body:       "original",
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, 2, "bob", &CreatePostRequest{
		Body:       "a reply",
		Type:       TypeReply,
		ParentID:   &parent.ID,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.replyBumps[parent.ID])
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 1, "alice", &CreatePostRequest{
		Body:       "mine",
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, post.ID, 2, &UpdatePostRequest{Body: "hijack"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, "mine", repo.posts[post.ID].Body)
}

func TestDeleteByNonOwnerForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo, &fakeNotifier{})
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 1, "alice", &CreatePostRequest{
		Body:       "mine",
		Type:       TypePost,
		Visibility: VisibilityPublic,
	})
	require.NoError(t, err)

	err = svc.DeletePost(ctx, post.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Contains(t, repo.posts, post.ID)

	require.NoError(t, svc.DeletePost(ctx, post.ID, 1))
	assert.NotContains(t, repo.posts, post.ID)
}
