// internal/discovery/service.go

package discovery

import (
	"context"
	"fmt"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

const defaultDeckSize = 10

type Service interface {
	// GetDeck returns the next batch of artist cards. Anonymous viewers
	// get the popularity deck instead of a personalized one.
	GetDeck(ctx context.Context, viewerID *int64, limit int) ([]Candidate, error)

	Swipe(ctx context.Context, userID int64, userHandle string, req *SwipeRequest) (*SwipeResult, error)
	GetConnections(ctx context.Context, userID int64, limit, offset int) ([]Connection, error)
}

type service struct {
	repo     Repository
	notifier notifications.Service
}

func NewService(repo Repository, notifier notifications.Service) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) GetDeck(ctx context.Context, viewerID *int64, limit int) ([]Candidate, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultDeckSize
	}

	var (
		candidates []Candidate
		err        error
	)
	if viewerID == nil {
		candidates, err = s.repo.GetPopularArtists(ctx, limit)
	} else {
		candidates, err = s.repo.GetCandidates(ctx, *viewerID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("building discovery deck: %w", err)
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return candidates, nil
}

func (s *service) Swipe(ctx context.Context, userID int64, userHandle string, req *SwipeRequest) (*SwipeResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if req.TargetID == userID {
		return nil, apperr.Validationf("cannot swipe on yourself")
	}

	swipe := &Swipe{UserID: userID, TargetID: req.TargetID, Action: req.Action}
	if err := s.repo.RecordSwipe(ctx, swipe); err != nil {
		return nil, fmt.Errorf("recording swipe: %w", err)
	}

	result := &SwipeResult{Action: req.Action}
	if req.Action != ActionLike {
		return result, nil
	}

	mutual, err := s.repo.HasLiked(ctx, req.TargetID, userID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return result, nil
	}

	conn, err := s.repo.CreateConnection(ctx, userID, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("creating connection: %w", err)
	}
	result.Connected = true
	result.Connection = conn

	s.notifier.Notify(&notifications.Notification{
		UserID:  req.TargetID,
		Type:    notifications.TypeFollow,
		Title:   fmt.Sprintf("You connected with @%s", userHandle),
		ActorID: &userID,
	})

	return result, nil
}

func (s *service) GetConnections(ctx context.Context, userID int64, limit, offset int) ([]Connection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	connections, err := s.repo.GetConnections(ctx, userID, limit, offset)
	if connections == nil {
		connections = []Connection{}
	}
	return connections, err
}
