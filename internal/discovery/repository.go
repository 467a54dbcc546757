// internal/discovery/repository.go

package discovery

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// GetCandidates returns artists the viewer has not swiped on yet,
	// most-followed first.
	GetCandidates(ctx context.Context, viewerID int64, limit int) ([]Candidate, error)

	// GetPopularArtists is the anonymous deck: no swipe history to
	// exclude, just the most-followed public artists.
	GetPopularArtists(ctx context.Context, limit int) ([]Candidate, error)

	// RecordSwipe upserts the viewer's verdict; re-swiping the same
	// target overwrites the previous action.
	RecordSwipe(ctx context.Context, swipe *Swipe) error

	HasLiked(ctx context.Context, userID, targetID int64) (bool, error)
	CreateConnection(ctx context.Context, userAID, userBID int64) (*Connection, error)
	GetConnections(ctx context.Context, userID int64, limit, offset int) ([]Connection, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const candidateColumns = `
	u.id AS user_id, u.handle, u.display_name, u.bio, u.avatar_url,
	u.banner_url, u.follower_count, u.post_count, u.verified`

func (r *postgresRepository) GetCandidates(ctx context.Context, viewerID int64, limit int) ([]Candidate, error) {
	var candidates []Candidate
	err := r.db.SelectContext(ctx, &candidates, `
		SELECT `+candidateColumns+`
		FROM users u
		WHERE u.id != $1
		  AND NOT EXISTS (
		      SELECT 1 FROM discovery_swipes s
		      WHERE s.user_id = $1 AND s.target_id = u.id)
		ORDER BY u.follower_count DESC, u.id
		LIMIT $2`, viewerID, limit)
	return candidates, err
}

func (r *postgresRepository) GetPopularArtists(ctx context.Context, limit int) ([]Candidate, error) {
	var candidates []Candidate
	err := r.db.SelectContext(ctx, &candidates, `
		SELECT `+candidateColumns+`
		FROM users u
		ORDER BY u.follower_count DESC, u.id
		LIMIT $1`, limit)
	return candidates, err
}

func (r *postgresRepository) RecordSwipe(ctx context.Context, swipe *Swipe) error {
	return r.db.GetContext(ctx, swipe, `
		INSERT INTO discovery_swipes (user_id, target_id, action, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, target_id)
		DO UPDATE SET action = EXCLUDED.action, created_at = NOW()
		RETURNING id, user_id, target_id, action, created_at`,
		swipe.UserID, swipe.TargetID, swipe.Action)
}

func (r *postgresRepository) HasLiked(ctx context.Context, userID, targetID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM discovery_swipes
			WHERE user_id = $1 AND target_id = $2 AND action = 'like'
		)`, userID, targetID)
	return exists, err
}

func (r *postgresRepository) CreateConnection(ctx context.Context, userAID, userBID int64) (*Connection, error) {
	// Normalized pair ordering keeps the unique constraint symmetric.
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}

	var conn Connection
	err := r.db.GetContext(ctx, &conn, `
		INSERT INTO discovery_connections (user_a_id, user_b_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_a_id, user_b_id)
		DO UPDATE SET user_a_id = EXCLUDED.user_a_id
		RETURNING id, user_a_id, user_b_id, created_at`,
		userAID, userBID)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *postgresRepository) GetConnections(ctx context.Context, userID int64, limit, offset int) ([]Connection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.user_a_id, c.user_b_id, c.created_at,
		       `+candidateColumns+`
		FROM discovery_connections c
		JOIN users u ON u.id = CASE WHEN c.user_a_id = $1 THEN c.user_b_id ELSE c.user_a_id END
		WHERE c.user_a_id = $1 OR c.user_b_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []Connection
	for rows.Next() {
		var conn Connection
		other := &Candidate{}
		err := rows.Scan(
			&conn.ID, &conn.UserAID, &conn.UserBID, &conn.CreatedAt,
			&other.UserID, &other.Handle, &other.DisplayName, &other.Bio,
			&other.AvatarURL, &other.BannerURL, &other.FollowerCount,
			&other.PostCount, &other.Verified,
		)
		if err != nil {
			return nil, err
		}
		conn.Other = other
		connections = append(connections, conn)
	}

	return connections, rows.Err()
}
