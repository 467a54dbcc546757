// internal/search/service.go

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/tasks"
	"github.com/yourspacelabs/yourspace-backend/internal/config"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

const (
	trendingCacheKey = "search:trending_hashtags"
	trendingLimit    = 10
)

type Service interface {
	// Search runs the requested category sub-searches for one page.
	// viewerID is nil for anonymous viewers.
	Search(ctx context.Context, viewerID *int64, query, searchType string, page, pageSize int) (*Results, error)

	// TrendingHashtags returns the current most-used hashtags, served
	// from Redis when the cache is warm.
	TrendingHashtags(ctx context.Context) ([]HashtagResult, error)
}

type service struct {
	repo  Repository
	redis *redis.Client
	queue *tasks.Queue
	cfg   *config.Config
}

func NewService(repo Repository, redisClient *redis.Client, queue *tasks.Queue, cfg *config.Config) Service {
	return &service{repo: repo, redis: redisClient, queue: queue, cfg: cfg}
}

func validSearchType(searchType string) bool {
	switch searchType {
	case TypeAll, TypePosts, TypeUsers, TypeHashtags:
		return true
	}
	return false
}

func (s *service) Search(ctx context.Context, viewerID *int64, query, searchType string, page, pageSize int) (*Results, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, apperr.Validationf("search query must not be empty")
	}
	if searchType == "" {
		searchType = TypeAll
	}
	if !validSearchType(searchType) {
		return nil, apperr.Validationf("unknown search type: %s", searchType)
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

	offset := page * pageSize

	results := &Results{
		Posts:    []*posts.Post{},
		Users:    []UserResult{},
		Hashtags: []HashtagResult{},
		Query:    query,
		Page:     page,
		PageSize: pageSize,
	}

	// Each category searches independently; one category failing does
	// not blank the others.
	if searchType == TypeAll || searchType == TypePosts {
		found, err := s.repo.SearchPosts(ctx, query, pageSize, offset)
		if err != nil {
			log.Printf("search: posts sub-search failed: %v", err)
		} else if found != nil {
			results.Posts = found
		}
	}

	if searchType == TypeAll || searchType == TypeUsers {
		found, err := s.repo.SearchUsers(ctx, viewerID, query, pageSize, offset)
		if err != nil {
			log.Printf("search: users sub-search failed: %v", err)
		} else if found != nil {
			results.Users = found
		}
	}

	if searchType == TypeAll || searchType == TypeHashtags {
		found, err := s.repo.SearchHashtags(ctx, query, pageSize, offset)
		if err != nil {
			log.Printf("search: hashtags sub-search failed: %v", err)
		} else if found != nil {
			results.Hashtags = found
		}
	}

	// hasMore is a heuristic: any category returning a full page means
	// another page may exist for it.
	results.HasMore = len(results.Posts) == pageSize ||
		len(results.Users) == pageSize ||
		len(results.Hashtags) == pageSize

	if viewerID != nil {
		uid := *viewerID
		s.queue.Enqueue("search_history", func(ctx context.Context) error {
			return s.repo.InsertSearchHistory(ctx, uid, query, searchType)
		})
	}

	return results, nil
}

func (s *service) TrendingHashtags(ctx context.Context) ([]HashtagResult, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, trendingCacheKey).Result()
		if err == nil {
			var tags []HashtagResult
			if err := json.Unmarshal([]byte(cached), &tags); err == nil {
				return tags, nil
			}
		}
	}

	tags, err := s.repo.TrendingHashtags(ctx, trendingLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching trending hashtags: %w", err)
	}
	if tags == nil {
		tags = []HashtagResult{}
	}

	if s.redis != nil {
		if payload, err := json.Marshal(tags); err == nil {
			if err := s.redis.Set(ctx, trendingCacheKey, payload, s.cfg.TrendingCacheTTL).Err(); err != nil {
				log.Printf("search: failed to cache trending hashtags: %v", err)
			}
		}
	}

	return tags, nil
}
