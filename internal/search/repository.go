// internal/search/repository.go

package search

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourspacelabs/yourspace-backend/internal/posts"
)

type Repository interface {
	SearchPosts(ctx context.Context, query string, limit, offset int) ([]*posts.Post, error)
	SearchUsers(ctx context.Context, viewerID *int64, query string, limit, offset int) ([]UserResult, error)
	SearchHashtags(ctx context.Context, query string, limit, offset int) ([]HashtagResult, error)
	TrendingHashtags(ctx context.Context, limit int) ([]HashtagResult, error)
	InsertSearchHistory(ctx context.Context, userID int64, query, searchType string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*posts.Post, error) {
	sqlQuery := `
		SELECT p.id, p.user_id, p.body, p.type, p.parent_id, p.quoted_post_id,
		       p.media, p.poll, p.hashtags, p.mentions, p.visibility, p.location,
		       p.like_count, p.repost_count, p.reply_count, p.bookmark_count,
		       p.created_at, p.updated_at,
		       u.handle, u.display_name, u.avatar_url, u.verified
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.visibility = 'public'
		  AND (p.body ILIKE '%' || $1 || '%' OR $1 = ANY(p.hashtags))
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, sqlQuery, query, limit, offset)
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
			continue
		}
		post.Author.ID = post.UserID
		post.DecodeMedia()
		post.DecodePoll()
		result = append(result, post)
	}

	return result, rows.Err()
}

func (r *postgresRepository) SearchUsers(ctx context.Context, viewerID *int64, query string, limit, offset int) ([]UserResult, error) {
	// viewer id 0 never matches a follows row, so anonymous viewers get
	// following=false across the board.
	var viewer int64
	if viewerID != nil {
		viewer = *viewerID
	}

	sqlQuery := `
		SELECT u.id, u.handle, u.display_name, u.bio, u.avatar_url, u.verified,
		       u.follower_count,
		       EXISTS (
		           SELECT 1 FROM follows f
		           WHERE f.follower_id = $1 AND f.following_id = u.id
		       ) AS following
		FROM users u
		WHERE u.handle ILIKE '%' || $2 || '%'
		   OR u.display_name ILIKE '%' || $2 || '%'
		   OR u.bio ILIKE '%' || $2 || '%'
		ORDER BY u.follower_count DESC, u.id
		LIMIT $3 OFFSET $4`

	var users []UserResult
	err := r.db.SelectContext(ctx, &users, sqlQuery, viewer, query, limit, offset)
	return users, err
}

func (r *postgresRepository) SearchHashtags(ctx context.Context, query string, limit, offset int) ([]HashtagResult, error) {
	sqlQuery := `
		SELECT name, usage_count, last_used_at
		FROM hashtags
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY usage_count DESC, name
		LIMIT $2 OFFSET $3`

	var tags []HashtagResult
	err := r.db.SelectContext(ctx, &tags, sqlQuery, query, limit, offset)
	return tags, err
}

func (r *postgresRepository) TrendingHashtags(ctx context.Context, limit int) ([]HashtagResult, error) {
	sqlQuery := `
		SELECT name, usage_count, last_used_at
		FROM hashtags
		ORDER BY usage_count DESC, last_used_at DESC
		LIMIT $1`

	var tags []HashtagResult
	err := r.db.SelectContext(ctx, &tags, sqlQuery, limit)
	return tags, err
}

func (r *postgresRepository) InsertSearchHistory(ctx context.Context, userID int64, query, searchType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_history (user_id, query, search_type, created_at)
		VALUES ($1, $2, $3, NOW())`,
		userID, query, searchType)
	return err
}
