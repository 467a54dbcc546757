// internal/interactions/service.go
// Interaction ledger. The ledger row is the source of truth: the counter
// delta is derived from whether the insert/delete actually changed a row,
// so replaying a request after a partial failure never double-counts, and
// the counter update itself is a single atomic increment.

package interactions

import (
	"context"
	"fmt"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

type Service struct {
	repo     Repository
	notifier notifications.Service
}

func NewService(repo Repository, notifier notifications.Service) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// SetInteraction applies toggle/add/remove semantics for one
// (user, post, type) tuple and keeps the post's denormalized counter in
// step. add on an existing row and remove on a missing row are no-ops.
func (s *Service) SetInteraction(ctx context.Context, userID, postID int64, interactionType, action string, actorHandle string) (*Result, error) {
	if !validType(interactionType) {
		return nil, apperr.Validationf("invalid interaction type %q", interactionType)
	}
	if action == "" {
		action = ActionToggle
	}

	authorID, err := s.repo.GetPostAuthor(ctx, postID)
	if err != nil {
		return nil, apperr.Storagef("failed to load post: %v", err)
	}
	if authorID == 0 {
		return nil, fmt.Errorf("%w: post %d", apperr.ErrNotFound, postID)
	}

	var created, removed bool
	switch action {
	case ActionToggle:
		exists, err := s.repo.Exists(ctx, postID, userID, interactionType)
		if err != nil {
			return nil, apperr.Storagef("failed to check interaction: %v", err)
		}
		if exists {
			removed, err = s.repo.RemoveInteraction(ctx, postID, userID, interactionType)
		} else {
			created, err = s.repo.AddInteraction(ctx, postID, userID, interactionType)
		}
		if err != nil {
			return nil, apperr.Storagef("failed to toggle interaction: %v", err)
		}

	case ActionAdd:
		created, err = s.repo.AddInteraction(ctx, postID, userID, interactionType)
		if err != nil {
			return nil, apperr.Storagef("failed to add interaction: %v", err)
		}

	case ActionRemove:
		removed, err = s.repo.RemoveInteraction(ctx, postID, userID, interactionType)
		if err != nil {
			return nil, apperr.Storagef("failed to remove interaction: %v", err)
		}

	default:
		return nil, apperr.Validationf("invalid action %q", action)
	}

	delta := 0
	if created {
		delta = 1
	} else if removed {
		delta = -1
	}

	if delta != 0 {
		if err := s.repo.ApplyCounterDelta(ctx, postID, interactionType, delta); err != nil {
			return nil, apperr.Storagef("failed to update counter: %v", err)
		}
	}

	// Only a newly created like notifies, and never for self-interaction.
	if created && interactionType == TypeLike && authorID != userID {
		s.notifier.Notify(&notifications.Notification{
			UserID:  authorID,
			Type:    notifications.TypeLike,
			Title:   fmt.Sprintf("@%s liked your post", actorHandle),
			ActorID: &userID,
			PostID:  &postID,
		})
	}

	active := created || (!removed && delta == 0 && action != ActionRemove && s.isActiveAfterNoop(ctx, postID, userID, interactionType, action))

	return &Result{Active: active, Delta: delta}, nil
}

// isActiveAfterNoop resolves the final state for no-op adds (row already
// present) without guessing.
func (s *Service) isActiveAfterNoop(ctx context.Context, postID, userID int64, interactionType, action string) bool {
	if action != ActionAdd {
		return false
	}
	exists, err := s.repo.Exists(ctx, postID, userID, interactionType)
	if err != nil {
		return false
	}
	return exists
}

// GetBookmarks pages the viewer's bookmarked post IDs, newest first
func (s *Service) GetBookmarks(ctx context.Context, userID int64, page, pageSize int) ([]int64, bool, error) {
	offset := page * pageSize
	postIDs, err := s.repo.GetBookmarkedPosts(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, false, apperr.Storagef("failed to load bookmarks: %v", err)
	}
	return postIDs, len(postIDs) == pageSize, nil
}

func validType(t string) bool {
	return t == TypeLike || t == TypeRepost || t == TypeBookmark
}
