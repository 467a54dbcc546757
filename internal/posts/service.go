// internal/posts/service.go
// Post store accessor. createPost persists media first (one bad attachment
// is skipped, never fatal), writes the post row, then fans out the
// best-effort side effects: hashtag upserts and mention notifications.

package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"unicode/utf8"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/storage"
	"github.com/yourspacelabs/yourspace-backend/internal/common/tasks"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
	"github.com/yourspacelabs/yourspace-backend/internal/realtime"
)

// Config bounds post creation
type Config struct {
	MaxPostLength int
	MaxPostMedia  int
}

type Service struct {
	repo     Repository
	uploader *storage.Uploader
	queue    *tasks.Queue
	notifier notifications.Service
	hub      *realtime.Hub
	config   *Config
}

func NewService(repo Repository, uploader *storage.Uploader, queue *tasks.Queue, notifier notifications.Service, hub *realtime.Hub, config *Config) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		queue:    queue,
		notifier: notifier,
		hub:      hub,
		config:   config,
	}
}

func (s *Service) CreatePost(ctx context.Context, userID int64, actorHandle string, req *CreatePostRequest) (*Post, error) {
	if err := s.validateCreatePost(req); err != nil {
		return nil, err
	}

	hashtags, mentions := ExtractTags(req.Body)

	post := &Post{
		UserID:       userID,
		Body:         req.Body,
		Type:         req.Type,
		ParentID:     req.ParentID,
		QuotedPostID: req.QuotedPostID,
		Hashtags:     hashtags,
		Mentions:     mentions,
		Visibility:   req.Visibility,
		Location:     req.Location,
	}

	if len(req.MediaURLs) > 0 {
		media := make([]MediaRef, len(req.MediaURLs))
		for i, url := range req.MediaURLs {
			media[i] = MediaRef{URL: url, Type: storage.MediaType(url), Position: i}
		}
		mediaJSON, err := json.Marshal(media)
		if err != nil {
			return nil, apperr.Storagef("failed to encode media: %v", err)
		}
		post.MediaJSON = mediaJSON
	}

	if req.Poll != nil {
		pollJSON, err := json.Marshal(req.Poll)
		if err != nil {
			return nil, apperr.Storagef("failed to encode poll: %v", err)
		}
		post.PollJSON = pollJSON
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, apperr.Storagef("failed to create post: %v", err)
	}

	if post.Type == TypeReply && post.ParentID != nil {
		if err := s.repo.IncrementReplyCount(ctx, *post.ParentID, 1); err != nil {
			log.Printf("posts: failed to bump reply count on %d: %v", *post.ParentID, err)
		}
	}

	s.fanOutSideEffects(post, actorHandle)

	created, err := s.repo.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, apperr.Storagef("failed to load created post: %v", err)
	}

	if created.Visibility == VisibilityPublic {
		s.hub.Publish(realtime.StreamPosts, created)
	}

	return created, nil
}

// fanOutSideEffects runs hashtag upserts and mention notifications on the
// best-effort queue; none of them can fail the creation that already
// succeeded.
func (s *Service) fanOutSideEffects(post *Post, actorHandle string) {
	hashtags := []string(post.Hashtags)
	mentions := UniqueMentions(post.Mentions)
	postID := post.ID
	authorID := post.UserID

	s.queue.Enqueue("post-hashtags", func(ctx context.Context) error {
		for _, tag := range hashtags {
			if err := s.repo.UpsertHashtag(ctx, tag); err != nil {
				return fmt.Errorf("%w: hashtag upsert %q: %v", apperr.ErrUpstream, tag, err)
			}
		}
		return nil
	})

	if len(mentions) > 0 {
		s.queue.Enqueue("post-mentions", func(ctx context.Context) error {
			resolved, err := s.repo.ResolveHandles(ctx, mentions)
			if err != nil {
				return fmt.Errorf("%w: mention resolution: %v", apperr.ErrUpstream, err)
			}

			// Unknown handles are simply absent; self-mentions are skipped.
			for _, userID := range resolved {
				if userID == authorID {
					continue
				}
				s.notifier.Notify(&notifications.Notification{
					UserID:  userID,
					Type:    notifications.TypeMention,
					Title:   fmt.Sprintf("@%s mentioned you", actorHandle),
					ActorID: &authorID,
					PostID:  &postID,
				})
			}
			return nil
		})
	}
}

func (s *Service) GetPost(ctx context.Context, postID int64) (*Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, apperr.Storagef("failed to load post: %v", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %d", apperr.ErrNotFound, postID)
	}
	return post, nil
}

func (s *Service) UpdatePost(ctx context.Context, postID, userID int64, req *UpdatePostRequest) (*Post, error) {
	if err := s.requireOwner(ctx, postID, userID); err != nil {
		return nil, err
	}

	if req.Body != "" && utf8.RuneCountInString(req.Body) > s.config.MaxPostLength {
		return nil, apperr.Validationf("body exceeds %d characters", s.config.MaxPostLength)
	}
	if req.Visibility != "" && !validVisibility(req.Visibility) {
		return nil, apperr.Validationf("invalid visibility %q", req.Visibility)
	}

	if err := s.repo.UpdatePost(ctx, postID, req); err != nil {
		return nil, apperr.Storagef("failed to update post: %v", err)
	}

	return s.GetPost(ctx, postID)
}

func (s *Service) DeletePost(ctx context.Context, postID, userID int64) error {
	if err := s.requireOwner(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return apperr.Storagef("failed to delete post: %v", err)
	}
	return nil
}

// UploadMedia stores one attachment and returns its public URL
func (s *Service) UploadMedia(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.uploader.UploadFile("posts", file, header)
}

func (s *Service) requireOwner(ctx context.Context, postID, userID int64) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return apperr.Storagef("failed to load post: %v", err)
	}
	if post == nil {
		return fmt.Errorf("%w: post %d", apperr.ErrNotFound, postID)
	}
	if post.UserID != userID {
		return fmt.Errorf("%w: not the owner of post %d", apperr.ErrForbidden, postID)
	}
	return nil
}

func (s *Service) validateCreatePost(req *CreatePostRequest) error {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return apperr.Validationf("post body cannot be empty")
	}
	if utf8.RuneCountInString(req.Body) > s.config.MaxPostLength {
		return apperr.Validationf("body exceeds %d characters", s.config.MaxPostLength)
	}

	if req.Type == "" {
		req.Type = TypePost
	}
	switch req.Type {
	case TypePost, TypeRepost:
	case TypeReply:
		if req.ParentID == nil {
			return apperr.Validationf("reply requires a parent post")
		}
	case TypeQuote:
		if req.QuotedPostID == nil {
			return apperr.Validationf("quote requires a quoted post")
		}
	default:
		return apperr.Validationf("invalid post type %q", req.Type)
	}

	if req.Visibility == "" {
		req.Visibility = VisibilityPublic
	}
	if !validVisibility(req.Visibility) {
		return apperr.Validationf("invalid visibility %q", req.Visibility)
	}

	if len(req.MediaURLs) > s.config.MaxPostMedia {
		return apperr.Validationf("maximum %d media files allowed per post", s.config.MaxPostMedia)
	}

	if req.Poll != nil && (req.Poll.Question == "" || len(req.Poll.Options) < 2) {
		return apperr.Validationf("poll requires a question and at least two options")
	}

	return nil
}

func validVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityFollowers || v == VisibilityPrivate
}
