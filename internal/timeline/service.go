// internal/timeline/service.go

package timeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/config"
	"github.com/yourspacelabs/yourspace-backend/internal/interactions"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

type Service interface {
	// GetFeed returns one page of the requested feed. viewerID is nil for
	// anonymous callers, who get the public feed regardless of feed type.
	GetFeed(ctx context.Context, viewerID *int64, feedType string, page, pageSize int) (*FeedResponse, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func validFeedType(feedType string) bool {
	switch feedType {
	case FeedHome, FeedFollowing, FeedExplore, FeedTrending:
		return true
	}
	return false
}

func (s *service) GetFeed(ctx context.Context, viewerID *int64, feedType string, page, pageSize int) (*FeedResponse, error) {
	if !validFeedType(feedType) {
		return nil, apperr.Validationf("unknown feed type: %s", feedType)
	}
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	viewerLabel := "anonymous"
	if viewerID != nil {
		viewerLabel = "authenticated"
	}
	feedRequestsTotal.WithLabelValues(feedType, viewerLabel).Inc()

	start := time.Now()
	defer func() {
		feedQueryDuration.WithLabelValues(feedType).Observe(time.Since(start).Seconds())
	}()

	offset := page * pageSize

	var (
		items []*posts.Post
		err   error
	)
	switch {
	case feedType == FeedTrending:
		since := time.Now().Add(-s.cfg.TrendingWindow)
		items, err = s.repo.GetTrendingFeed(ctx, since, pageSize, offset)
	case viewerID != nil && (feedType == FeedHome || feedType == FeedFollowing):
		items, err = s.repo.GetFollowedFeed(ctx, *viewerID, pageSize, offset)
	default:
		// Explore, and any feed for anonymous viewers, is the public firehose.
		items, err = s.repo.GetPublicFeed(ctx, pageSize, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", feedType, err)
	}

	feedPosts, err := s.decorate(ctx, viewerID, items)
	if err != nil {
		return nil, err
	}

	feedPageSize.Observe(float64(len(feedPosts)))

	return &FeedResponse{
		Posts:    feedPosts,
		Page:     page,
		PageSize: pageSize,
		HasMore:  len(feedPosts) == pageSize,
	}, nil
}

// decorate attaches the viewer's interaction flags to each post. Anonymous
// viewers get zero-valued flags.
func (s *service) decorate(ctx context.Context, viewerID *int64, items []*posts.Post) ([]FeedPost, error) {
	feedPosts := make([]FeedPost, 0, len(items))

	var flags map[int64]interactions.Flags
	if viewerID != nil && len(items) > 0 {
		ids := make([]int64, 0, len(items))
		for _, p := range items {
			ids = append(ids, p.ID)
		}
		var err error
		flags, err = s.repo.GetViewerFlags(ctx, *viewerID, ids)
		if err != nil {
			// Flags are decoration; serve the page without them.
			log.Printf("timeline: failed to load viewer flags: %v", err)
			flags = nil
		}
	}

	for _, p := range items {
		fp := FeedPost{Post: p}
		if flags != nil {
			fp.Viewer = flags[p.ID]
		}
		feedPosts = append(feedPosts, fp)
	}

	return feedPosts, nil
}
