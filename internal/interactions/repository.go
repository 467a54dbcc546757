// internal/interactions/repository.go

package interactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// AddInteraction inserts the ledger row; returns false when it already
	// existed (the insert was a no-op).
	AddInteraction(ctx context.Context, postID, userID int64, interactionType string) (bool, error)

	// RemoveInteraction deletes the ledger row; returns false when there was
	// nothing to delete.
	RemoveInteraction(ctx context.Context, postID, userID int64, interactionType string) (bool, error)

	Exists(ctx context.Context, postID, userID int64, interactionType string) (bool, error)

	// ApplyCounterDelta issues a single atomic increment on the post's
	// denormalized counter, clamped at zero.
	ApplyCounterDelta(ctx context.Context, postID int64, interactionType string, delta int) error

	GetPostAuthor(ctx context.Context, postID int64) (int64, error)
	GetBookmarkedPosts(ctx context.Context, userID int64, limit, offset int) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AddInteraction(ctx context.Context, postID, userID int64, interactionType string) (bool, error) {
	query := `
		INSERT INTO interactions (post_id, user_id, type, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (post_id, user_id, type) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, postID, userID, interactionType)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *postgresRepository) RemoveInteraction(ctx context.Context, postID, userID int64, interactionType string) (bool, error) {
	query := `DELETE FROM interactions WHERE post_id = $1 AND user_id = $2 AND type = $3`

	res, err := r.db.ExecContext(ctx, query, postID, userID, interactionType)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *postgresRepository) Exists(ctx context.Context, postID, userID int64, interactionType string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM interactions WHERE post_id = $1 AND user_id = $2 AND type = $3)`
	err := r.db.QueryRowContext(ctx, query, postID, userID, interactionType).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) ApplyCounterDelta(ctx context.Context, postID int64, interactionType string, delta int) error {
	column, ok := counterColumns[interactionType]
	if !ok {
		return fmt.Errorf("no counter column for interaction type %q", interactionType)
	}

	query := fmt.Sprintf(`UPDATE posts SET %s = GREATEST(%s + $2, 0) WHERE id = $1`, column, column)
	_, err := r.db.ExecContext(ctx, query, postID, delta)
	return err
}

// counterColumns maps ledger types onto posts columns. The map is the only
// source of column names interpolated into SQL.
var counterColumns = map[string]string{
	TypeLike:     "like_count",
	TypeRepost:   "repost_count",
	TypeBookmark: "bookmark_count",
}

func (r *postgresRepository) GetPostAuthor(ctx context.Context, postID int64) (int64, error) {
	var authorID int64
	query := `SELECT user_id FROM posts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, postID).Scan(&authorID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return authorID, err
}

func (r *postgresRepository) GetBookmarkedPosts(ctx context.Context, userID int64, limit, offset int) ([]int64, error) {
	query := `
		SELECT post_id FROM interactions
		WHERE user_id = $1 AND type = 'bookmark'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		postIDs = append(postIDs, id)
	}

	return postIDs, rows.Err()
}
