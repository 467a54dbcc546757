// internal/posts/repository.go

package posts

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, postID int64) (*Post, error)
	UpdatePost(ctx context.Context, postID int64, update *UpdatePostRequest) error
	DeletePost(ctx context.Context, postID int64) error
	IncrementReplyCount(ctx context.Context, postID int64, delta int) error

	UpsertHashtag(ctx context.Context, name string) error
	ResolveHandles(ctx context.Context, handles []string) (map[string]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (user_id, body, type, parent_id, quoted_post_id, media, poll,
		                   hashtags, mentions, visibility, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.Body, post.Type, post.ParentID, post.QuotedPostID,
		post.MediaJSON, post.PollJSON,
		pq.Array([]string(post.Hashtags)), pq.Array([]string(post.Mentions)),
		post.Visibility, post.Location,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	return err
}

func (r *postgresRepository) GetPostByID(ctx context.Context, postID int64) (*Post, error) {
	query := `
		SELECT p.id, p.user_id, p.body, p.type, p.parent_id, p.quoted_post_id,
		       p.media, p.poll, p.hashtags, p.mentions, p.visibility, p.location,
		       p.like_count, p.repost_count, p.reply_count, p.bookmark_count,
		       p.created_at, p.updated_at,
		       u.handle, u.display_name, u.avatar_url, u.verified
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1`

	post := &Post{Author: &AuthorInfo{}}
	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.UserID, &post.Body, &post.Type, &post.ParentID, &post.QuotedPostID,
		&post.MediaJSON, &post.PollJSON, &post.Hashtags, &post.Mentions,
		&post.Visibility, &post.Location,
		&post.LikeCount, &post.RepostCount, &post.ReplyCount, &post.BookmarkCount,
		&post.CreatedAt, &post.UpdatedAt,
		&post.Author.Handle, &post.Author.DisplayName, &post.Author.AvatarURL, &post.Author.Verified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post.Author.ID = post.UserID
	post.DecodeMedia()
	post.DecodePoll()

	return post, nil
}

func (r *postgresRepository) UpdatePost(ctx context.Context, postID int64, update *UpdatePostRequest) error {
	var setClauses []string
	var args []interface{}
	argCount := 1

	if update.Body != "" {
		setClauses = append(setClauses, fmt.Sprintf("body = $%d", argCount))
		args = append(args, update.Body)
		argCount++
	}

	if update.Visibility != "" {
		setClauses = append(setClauses, fmt.Sprintf("visibility = $%d", argCount))
		args = append(args, update.Visibility)
		argCount++
	}

	if update.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argCount))
		args = append(args, *update.Location)
		argCount++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, postID)

	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argCount)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresRepository) DeletePost(ctx context.Context, postID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, "DELETE FROM interactions WHERE post_id = $1", postID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", postID); err != nil {
		return err
	}

	return tx.Commit()
}

// IncrementReplyCount applies a single atomic delta so concurrent replies
// never lose updates; the counter is clamped at zero.
func (r *postgresRepository) IncrementReplyCount(ctx context.Context, postID int64, delta int) error {
	query := `UPDATE posts SET reply_count = GREATEST(reply_count + $2, 0) WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, postID, delta)
	return err
}

// UpsertHashtag merges duplicate hashtag names on the case-folded unique key,
// bumping usage and refreshing last_used_at.
func (r *postgresRepository) UpsertHashtag(ctx context.Context, name string) error {
	query := `
		INSERT INTO hashtags (name, usage_count, first_used_at, last_used_at)
		VALUES ($1, 1, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET usage_count = hashtags.usage_count + 1, last_used_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, name)
	return err
}

// ResolveHandles maps known handles to user IDs; unknown handles are absent
// from the result, not errors.
func (r *postgresRepository) ResolveHandles(ctx context.Context, handles []string) (map[string]int64, error) {
	resolved := make(map[string]int64, len(handles))
	if len(handles) == 0 {
		return resolved, nil
	}

	query := `SELECT id, handle FROM users WHERE handle = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(handles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var handle string
		if err := rows.Scan(&id, &handle); err != nil {
			return nil, err
		}
		resolved[handle] = id
	}

	return resolved, rows.Err()
}
