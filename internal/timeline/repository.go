// internal/timeline/repository.go

package timeline

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yourspacelabs/yourspace-backend/internal/interactions"
	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

type Repository interface {
	// GetFollowedFeed selects public posts authored by accounts the viewer
	// follows plus the viewer's own, newest first.
	GetFollowedFeed(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error)

	// GetPublicFeed selects all public posts, newest first.
	GetPublicFeed(ctx context.Context, limit, offset int) ([]*posts.Post, error)

	// GetTrendingFeed selects recent public posts ordered by engagement.
	GetTrendingFeed(ctx context.Context, since time.Time, limit, offset int) ([]*posts.Post, error)

	// GetViewerFlags resolves the viewer's interaction flags for a post set.
	GetViewerFlags(ctx context.Context, viewerID int64, postIDs []int64) (map[int64]interactions.Flags, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const feedColumns = `
	p.id, p.user_id, p.body, p.type, p.parent_id, p.quoted_post_id,
	p.media, p.poll, p.hashtags, p.mentions, p.visibility, p.location,
	p.like_count, p.repost_count, p.reply_count, p.bookmark_count,
	p.created_at, p.updated_at,
	u.handle, u.display_name, u.avatar_url, u.verified`

func (r *postgresRepository) GetFollowedFeed(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.visibility = 'public'
		  AND (p.user_id = $1 OR p.user_id IN (
		      SELECT following_id FROM follows WHERE follower_id = $1))
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.scanFeed(ctx, query, viewerID, limit, offset)
}

func (r *postgresRepository) GetPublicFeed(ctx context.Context, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.visibility = 'public'
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`

	return r.scanFeed(ctx, query, limit, offset)
}

func (r *postgresRepository) GetTrendingFeed(ctx context.Context, since time.Time, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + feedColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.visibility = 'public' AND p.created_at >= $1
		ORDER BY p.like_count + p.repost_count DESC, p.created_at DESC
		LIMIT $2 OFFSET $3`

	return r.scanFeed(ctx, query, since, limit, offset)
}

func (r *postgresRepository) scanFeed(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*posts.Post
	for rows.Next() {
		post := &posts.Post{Author: &posts.AuthorInfo{}}
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Body, &post.Type, &post.ParentID, &post.QuotedPostID,
			&post.MediaJSON, &post.PollJSON, &post.Hashtags, &post.Mentions,
			&post.Visibility, &post.Location,
			&post.LikeCount, &post.RepostCount, &post.ReplyCount, &post.BookmarkCount,
			&post.CreatedAt, &post.UpdatedAt,
			&post.Author.Handle, &post.Author.DisplayName, &post.Author.AvatarURL, &post.Author.Verified,
		)
		if err != nil {
			// Skip rows that fail to scan instead of failing the page.
			continue
		}

		post.Author.ID = post.UserID
		post.DecodeMedia()
		post.DecodePoll()

		result = append(result, post)
	}

	return result, rows.Err()
}

func (r *postgresRepository) GetViewerFlags(ctx context.Context, viewerID int64, postIDs []int64) (map[int64]interactions.Flags, error) {
	flags := make(map[int64]interactions.Flags, len(postIDs))
	if len(postIDs) == 0 {
		return flags, nil
	}

	query := `
		SELECT post_id, type FROM interactions
		WHERE user_id = $1 AND post_id = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, viewerID, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var interactionType string
		if err := rows.Scan(&postID, &interactionType); err != nil {
			return nil, err
		}

		f := flags[postID]
		switch interactionType {
		case interactions.TypeLike:
			f.Liked = true
		case interactions.TypeRepost:
			f.Reposted = true
		case interactions.TypeBookmark:
			f.Bookmarked = true
		}
		flags[postID] = f
	}

	return flags, rows.Err()
}
