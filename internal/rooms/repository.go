// internal/rooms/repository.go

package rooms

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
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, roomID int64) (*Room, error)
	GetUserRooms(ctx context.Context, ownerID int64, limit, offset int) ([]Room, error)
	GetPublicRooms(ctx context.Context, limit, offset int) ([]Room, error)
	UpdateRoom(ctx context.Context, roomID int64, req *UpdateRoomRequest) error
	DeleteRoom(ctx context.Context, roomID int64) error

	CountAssets(ctx context.Context, roomID int64) (int, error)
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, assetID int64) (*Asset, error)
	GetRoomAssets(ctx context.Context, roomID int64) ([]Asset, error)
	UpdateAsset(ctx context.Context, assetID int64, req *UpdateAssetRequest) error
	DeleteAsset(ctx context.Context, assetID int64) error

	CreateVisit(ctx context.Context, visit *Visit) error
	EndVisit(ctx context.Context, visitID int64) (*Visit, error)
	IncrementVisitCount(ctx context.Context, roomID int64) error
	GetVisitStats(ctx context.Context, roomID int64) (*VisitStats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.GetContext(ctx, room, `
		INSERT INTO rooms (owner_id, name, description, visibility, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, owner_id, name, description, visibility, theme, visit_count, created_at, updated_at`,
		room.OwnerID, room.Name, room.Description, room.Visibility, room.Theme)
}

func (r *postgresRepository) GetRoom(ctx context.Context, roomID int64) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `
		SELECT r.id, r.owner_id, r.name, r.description, r.visibility, r.theme,
		       r.visit_count, r.created_at, r.updated_at,
		       u.handle AS owner_handle
		FROM rooms r
		JOIN users u ON u.id = r.owner_id
		WHERE r.id = $1`, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *postgresRepository) GetUserRooms(ctx context.Context, ownerID int64, limit, offset int) ([]Room, error) {
	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, `
		SELECT id, owner_id, name, description, visibility, theme,
		       visit_count, created_at, updated_at
		FROM rooms
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	return rooms, err
}

func (r *postgresRepository) GetPublicRooms(ctx context.Context, limit, offset int) ([]Room, error) {
	var rooms []Room
	err := r.db.SelectContext(ctx, &rooms, `
		SELECT r.id, r.owner_id, r.name, r.description, r.visibility, r.theme,
		       r.visit_count, r.created_at, r.updated_at,
		       u.handle AS owner_handle
		FROM rooms r
		JOIN users u ON u.id = r.owner_id
		WHERE r.visibility = 'public'
		ORDER BY r.visit_count DESC, r.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return rooms, err
}

func (r *postgresRepository) UpdateRoom(ctx context.Context, roomID int64, req *UpdateRoomRequest) error {
	var clauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Visibility != nil {
		add("visibility", *req.Visibility)
	}
	if req.Theme != nil {
		add("theme", req.Theme)
	}
	if len(clauses) == 0 {
		return nil
	}

	clauses = append(clauses, "updated_at = NOW()")
	args = append(args, roomID)
	query := fmt.Sprintf("UPDATE rooms SET %s WHERE id = $%d",
		strings.Join(clauses, ", "), len(args))

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresRepository) DeleteRoom(ctx context.Context, roomID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_assets WHERE room_id = $1`, roomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM room_visits WHERE room_id = $1`, roomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) CountAssets(ctx context.Context, roomID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM room_assets WHERE room_id = $1`, roomID)
	return count, err
}

func (r *postgresRepository) CreateAsset(ctx context.Context, asset *Asset) error {
	return r.db.GetContext(ctx, asset, `
		INSERT INTO room_assets (room_id, name, asset_url, asset_type, placement, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, room_id, name, asset_url, asset_type, placement, created_at, updated_at`,
		asset.RoomID, asset.Name, asset.AssetURL, asset.AssetType, asset.Placement)
}

func (r *postgresRepository) GetAsset(ctx context.Context, assetID int64) (*Asset, error) {
	var asset Asset
	err := r.db.GetContext(ctx, &asset, `
		SELECT id, room_id, name, asset_url, asset_type, placement, created_at, updated_at
		FROM room_assets WHERE id = $1`, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *postgresRepository) GetRoomAssets(ctx context.Context, roomID int64) ([]Asset, error) {
	var assets []Asset
	err := r.db.SelectContext(ctx, &assets, `
		SELECT id, room_id, name, asset_url, asset_type, placement, created_at, updated_at
		FROM room_assets
		WHERE room_id = $1
		ORDER BY created_at`, roomID)
	return assets, err
}

func (r *postgresRepository) UpdateAsset(ctx context.Context, assetID int64, req *UpdateAssetRequest) error {
	var clauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Placement != nil {
		add("placement", *req.Placement)
	}
	if len(clauses) == 0 {
		return nil
	}

	clauses = append(clauses, "updated_at = NOW()")
	args = append(args, assetID)
	query := fmt.Sprintf("UPDATE room_assets SET %s WHERE id = $%d",
		strings.Join(clauses, ", "), len(args))

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *postgresRepository) DeleteAsset(ctx context.Context, assetID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM room_assets WHERE id = $1`, assetID)
	return err
}

func (r *postgresRepository) CreateVisit(ctx context.Context, visit *Visit) error {
	return r.db.GetContext(ctx, visit, `
		INSERT INTO room_visits (room_id, visitor_id, started_at)
		VALUES ($1, $2, NOW())
		RETURNING id, room_id, visitor_id, started_at, ended_at, duration_seconds`,
		visit.RoomID, visit.VisitorID)
}

func (r *postgresRepository) EndVisit(ctx context.Context, visitID int64) (*Visit, error) {
	var visit Visit
	err := r.db.GetContext(ctx, &visit, `
		UPDATE room_visits
		SET ended_at = NOW(),
		    duration_seconds = EXTRACT(EPOCH FROM (NOW() - started_at))::int
		WHERE id = $1 AND ended_at IS NULL
		RETURNING id, room_id, visitor_id, started_at, ended_at, duration_seconds`,
		visitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *postgresRepository) IncrementVisitCount(ctx context.Context, roomID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET visit_count = visit_count + 1 WHERE id = $1`, roomID)
	return err
}

func (r *postgresRepository) GetVisitStats(ctx context.Context, roomID int64) (*VisitStats, error) {
	var stats VisitStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_visits,
		       COUNT(DISTINCT visitor_id) AS unique_visitors,
		       COUNT(*) FILTER (WHERE visitor_id IS NULL) AS anonymous_visits,
		       COALESCE(AVG(duration_seconds), 0) AS avg_duration_seconds
		FROM room_visits
		WHERE room_id = $1`, roomID)
	return &stats, err
}
