// internal/profiles/repository.go

package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
)

type Repository interface {
	GetProfileByID(ctx context.Context, userID int64) (*Profile, error)
	GetProfileByHandle(ctx context.Context, handle string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error
	UpdateAvatarURL(ctx context.Context, userID int64, url string) error
	UpdateBannerURL(ctx context.Context, userID int64, url string) error

	// CreateFollow inserts the pair and reports whether a new row was
	// written. Replays are absorbed by the unique pair constraint.
	CreateFollow(ctx context.Context, followerID, followingID int64) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID int64) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	AdjustFollowCounts(ctx context.Context, followerID, followingID int64, delta int) error

	GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]Profile, error)
	GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]Profile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, handle, display_name, bio, avatar_url, banner_url, location, website,
	follower_count, following_count, post_count, verified, reputation, created_at`

func (r *postgresRepository) GetProfileByID(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT `+profileColumns+` FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *postgresRepository) GetProfileByHandle(ctx context.Context, handle string) (*Profile, error) {
	var profile Profile
	err := r.db.GetContext(ctx, &profile,
		`SELECT `+profileColumns+` FROM users WHERE handle = $1`, handle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	var clauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.DisplayName != nil {
		add("display_name", *req.DisplayName)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Website != nil {
		add("website", *req.Website)
	}
	if len(clauses) == 0 {
		return nil
	}

	clauses = append(clauses, "updated_at = NOW()")
	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(clauses, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	return err
}

func (r *postgresRepository) UpdateBannerURL(ctx context.Context, userID int64, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET banner_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	return err
}

func (r *postgresRepository) CreateFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *postgresRepository) DeleteFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *postgresRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)`, followerID, followingID)
	return exists, err
}

// AdjustFollowCounts moves both denormalized counters in one statement so a
// partial update cannot leave them skewed. Counts never go below zero.
func (r *postgresRepository) AdjustFollowCounts(ctx context.Context, followerID, followingID int64, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			following_count = CASE WHEN id = $1 THEN GREATEST(following_count + $3, 0) ELSE following_count END,
			follower_count  = CASE WHEN id = $2 THEN GREATEST(follower_count + $3, 0) ELSE follower_count END
		WHERE id IN ($1, $2)`,
		followerID, followingID, delta)
	return err
}

func (r *postgresRepository) GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]Profile, error) {
	var profiles []Profile
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT `+prefixed("u")+`
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return profiles, err
}

func (r *postgresRepository) GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]Profile, error) {
	var profiles []Profile
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT `+prefixed("u")+`
		FROM users u
		JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return profiles, err
}

func prefixed(alias string) string {
	return alias + `.id, ` + alias + `.handle, ` + alias + `.display_name, ` +
		alias + `.bio, ` + alias + `.avatar_url, ` + alias + `.banner_url, ` +
		alias + `.location, ` + alias + `.website, ` + alias + `.follower_count, ` +
		alias + `.following_count, ` + alias + `.post_count, ` + alias + `.verified, ` +
		alias + `.reputation, ` + alias + `.created_at`
}
