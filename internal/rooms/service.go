// internal/rooms/service.go

package rooms

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/storage"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
	"github.com/yourspacelabs/yourspace-backend/internal/config"
)

type Service interface {
	CreateRoom(ctx context.Context, ownerID int64, req *CreateRoomRequest) (*Room, error)
	GetRoom(ctx context.Context, viewerID *int64, roomID int64) (*Room, error)
	ListUserRooms(ctx context.Context, ownerID int64, limit, offset int) ([]Room, error)
	ListPublicRooms(ctx context.Context, limit, offset int) ([]Room, error)
	UpdateRoom(ctx context.Context, userID, roomID int64, req *UpdateRoomRequest) (*Room, error)
	DeleteRoom(ctx context.Context, userID, roomID int64) error

	PlaceAsset(ctx context.Context, userID, roomID int64, req *PlaceAssetRequest) (*Asset, error)
	ListAssets(ctx context.Context, viewerID *int64, roomID int64) ([]Asset, error)
	UpdateAsset(ctx context.Context, userID, assetID int64, req *UpdateAssetRequest) (*Asset, error)
	RemoveAsset(ctx context.Context, userID, assetID int64) error

	// StartVisit records a viewing session. Anonymous visitors are
	// accepted for public rooms.
	StartVisit(ctx context.Context, visitorID *int64, roomID int64) (*Visit, error)
	EndVisit(ctx context.Context, visitorID *int64, visitID int64) (*Visit, error)
	GetVisitStats(ctx context.Context, userID, roomID int64) (*VisitStats, error)
	LiveVisitors(ctx context.Context, roomID int64) (int64, error)
}

type service struct {
	repo  Repository
	redis *redis.Client
	cfg   *config.Config
}

func NewService(repo Repository, redisClient *redis.Client, cfg *config.Config) Service {
	return &service{repo: repo, redis: redisClient, cfg: cfg}
}

func (s *service) CreateRoom(ctx context.Context, ownerID int64, req *CreateRoomRequest) (*Room, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	room := &Room{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		Theme:       req.Theme,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}
	return room, nil
}

func (s *service) GetRoom(ctx context.Context, viewerID *int64, roomID int64) (*Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireViewable(room, viewerID); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *service) ListUserRooms(ctx context.Context, ownerID int64, limit, offset int) ([]Room, error) {
	limit, offset = clampPage(limit, offset)
	rooms, err := s.repo.GetUserRooms(ctx, ownerID, limit, offset)
	if rooms == nil {
		rooms = []Room{}
	}
	return rooms, err
}

func (s *service) ListPublicRooms(ctx context.Context, limit, offset int) ([]Room, error) {
	limit, offset = clampPage(limit, offset)
	rooms, err := s.repo.GetPublicRooms(ctx, limit, offset)
	if rooms == nil {
		rooms = []Room{}
	}
	return rooms, err
}

func (s *service) UpdateRoom(ctx context.Context, userID, roomID int64, req *UpdateRoomRequest) (*Room, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if err := s.requireOwner(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoom(ctx, roomID, req); err != nil {
		return nil, err
	}
	return s.repo.GetRoom(ctx, roomID)
}

func (s *service) DeleteRoom(ctx context.Context, userID, roomID int64) error {
	if err := s.requireOwner(ctx, userID, roomID); err != nil {
		return err
	}
	return s.repo.DeleteRoom(ctx, roomID)
}

func (s *service) PlaceAsset(ctx context.Context, userID, roomID int64, req *PlaceAssetRequest) (*Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if err := s.requireOwner(ctx, userID, roomID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountAssets(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if count >= s.cfg.MaxRoomAssets {
		return nil, apperr.Validationf("room asset limit reached (%d)", s.cfg.MaxRoomAssets)
	}

	asset := &Asset{
		RoomID:    roomID,
		Name:      req.Name,
		AssetURL:  req.AssetURL,
		AssetType: storage.MediaType(req.AssetURL),
		Placement: req.Placement,
	}
	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		return nil, fmt.Errorf("placing asset: %w", err)
	}
	return asset, nil
}

func (s *service) ListAssets(ctx context.Context, viewerID *int64, roomID int64) ([]Asset, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireViewable(room, viewerID); err != nil {
		return nil, err
	}

	assets, err := s.repo.GetRoomAssets(ctx, roomID)
	if assets == nil {
		assets = []Asset{}
	}
	return assets, err
}

func (s *service) UpdateAsset(ctx context.Context, userID, assetID int64, req *UpdateAssetRequest) (*Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}

	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, userID, asset.RoomID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAsset(ctx, assetID, req); err != nil {
		return nil, err
	}
	return s.repo.GetAsset(ctx, assetID)
}

func (s *service) RemoveAsset(ctx context.Context, userID, assetID int64) error {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, userID, asset.RoomID); err != nil {
		return err
	}
	return s.repo.DeleteAsset(ctx, assetID)
}

func (s *service) StartVisit(ctx context.Context, visitorID *int64, roomID int64) (*Visit, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireViewable(room, visitorID); err != nil {
		return nil, err
	}

	visit := &Visit{RoomID: roomID, VisitorID: visitorID}
	if err := s.repo.CreateVisit(ctx, visit); err != nil {
		return nil, fmt.Errorf("recording visit: %w", err)
	}

	// Counter and presence are analytics, not part of the visit contract.
	if err := s.repo.IncrementVisitCount(ctx, roomID); err != nil {
		log.Printf("rooms: failed to bump visit count for room %d: %v", roomID, err)
	}
	s.trackPresence(ctx, roomID, visit.ID, true)

	return visit, nil
}

func (s *service) EndVisit(ctx context.Context, visitorID *int64, visitID int64) (*Visit, error) {
	visit, err := s.repo.EndVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}

	// An authenticated caller may only close their own visit. Anonymous
	// visits carry no identity to check against.
	if visit.VisitorID != nil && (visitorID == nil || *visitorID != *visit.VisitorID) {
		return nil, apperr.ErrForbidden
	}

	s.trackPresence(ctx, visit.RoomID, visit.ID, false)
	return visit, nil
}

func (s *service) GetVisitStats(ctx context.Context, userID, roomID int64) (*VisitStats, error) {
	if err := s.requireOwner(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return s.repo.GetVisitStats(ctx, roomID)
}

func (s *service) LiveVisitors(ctx context.Context, roomID int64) (int64, error) {
	if s.redis == nil {
		return 0, nil
	}
	return s.redis.SCard(ctx, presenceKey(roomID)).Result()
}

func (s *service) trackPresence(ctx context.Context, roomID, visitID int64, entering bool) {
	if s.redis == nil {
		return
	}

	key := presenceKey(roomID)
	var err error
	if entering {
		// The set expires on its own so a crashed client cannot pin a
		// room's live count forever.
		pipe := s.redis.Pipeline()
		pipe.SAdd(ctx, key, visitID)
		pipe.Expire(ctx, key, s.cfg.VisitSessionTTL)
		_, err = pipe.Exec(ctx)
	} else {
		err = s.redis.SRem(ctx, key, visitID).Err()
	}
	if err != nil {
		log.Printf("rooms: presence update failed for room %d: %v", roomID, err)
	}
}

func presenceKey(roomID int64) string {
	return fmt.Sprintf("rooms:presence:%d", roomID)
}

func (s *service) requireOwner(ctx context.Context, userID, roomID int64) error {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != userID {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *service) requireViewable(room *Room, viewerID *int64) error {
	if room.Visibility == VisibilityPublic {
		return nil
	}
	if viewerID == nil {
		return apperr.ErrUnauthenticated
	}
	if *viewerID != room.OwnerID {
		return apperr.ErrForbidden
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
