// internal/rooms/service_test.go

package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/config"
)

type fakeRepo struct {
	nextID int64
	rooms  map[int64]*Room
	assets map[int64]*Asset
	visits map[int64]*Visit

	updates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms:  make(map[int64]*Room),
		assets: make(map[int64]*Asset),
		visits: make(map[int64]*Visit),
	}
}

func (f *fakeRepo) CreateRoom(_ context.Context, room *Room) error {
	f.nextID++
	room.ID = f.nextID
	room.CreatedAt = time.Now()
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRepo) GetRoom(_ context.Context, roomID int64) (*Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRepo) GetUserRooms(_ context.Context, ownerID int64, limit, offset int) ([]Room, error) {
	var out []Room
	for _, r := range f.rooms {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetPublicRooms(_ context.Context, limit, offset int) ([]Room, error) {
	var out []Room
	for _, r := range f.rooms {
		if r.Visibility == VisibilityPublic {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRoom(_ context.Context, roomID int64, req *UpdateRoomRequest) error {
	f.updates++
	room := f.rooms[roomID]
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Visibility != nil {
		room.Visibility = *req.Visibility
	}
	return nil
}

func (f *fakeRepo) DeleteRoom(_ context.Context, roomID int64) error {
	delete(f.rooms, roomID)
	return nil
}

func (f *fakeRepo) CountAssets(_ context.Context, roomID int64) (int, error) {
	count := 0
	for _, a := range f.assets {
		if a.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateAsset(_ context.Context, asset *Asset) error {
	f.nextID++
	asset.ID = f.nextID
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeRepo) GetAsset(_ context.Context, assetID int64) (*Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *asset
	return &copied, nil
}

func (f *fakeRepo) GetRoomAssets(_ context.Context, roomID int64) ([]Asset, error) {
	var out []Asset
	for _, a := range f.assets {
		if a.RoomID == roomID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateAsset(_ context.Context, assetID int64, req *UpdateAssetRequest) error {
	f.updates++
	if req.Name != nil {
		f.assets[assetID].Name = *req.Name
	}
	return nil
}

func (f *fakeRepo) DeleteAsset(_ context.Context, assetID int64) error {
	delete(f.assets, assetID)
	return nil
}

func (f *fakeRepo) CreateVisit(_ context.Context, visit *Visit) error {
	f.nextID++
	visit.ID = f.nextID
	visit.StartedAt = time.Now()
	f.visits[visit.ID] = visit
	return nil
}

func (f *fakeRepo) EndVisit(_ context.Context, visitID int64) (*Visit, error) {
	visit, ok := f.visits[visitID]
	if !ok || visit.EndedAt != nil {
		return nil, apperr.ErrNotFound
	}
	now := time.Now()
	visit.EndedAt = &now
	duration := int(now.Sub(visit.StartedAt).Seconds())
	visit.DurationS = &duration
	copied := *visit
	return &copied, nil
}

func (f *fakeRepo) IncrementVisitCount(_ context.Context, roomID int64) error {
	f.rooms[roomID].VisitCount++
	return nil
}

func (f *fakeRepo) GetVisitStats(_ context.Context, roomID int64) (*VisitStats, error) {
	return &VisitStats{}, nil
}

func testConfig() *config.Config {
	return &config.Config{MaxRoomAssets: 2}
}

func setupRoom(t *testing.T, svc Service, ownerID int64, visibility string) *Room {
	t.Helper()
	room, err := svc.CreateRoom(context.Background(), ownerID, &CreateRoomRequest{
		Name:       "studio",
		Visibility: visibility,
	})
	require.NoError(t, err)
	return room
}

func TestAnonymousVisitToPublicRoomSucceeds(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)

	visit, err := svc.StartVisit(context.Background(), nil, room.ID)
	require.NoError(t, err)
	assert.Nil(t, visit.VisitorID)
	assert.Equal(t, 1, repo.rooms[room.ID].VisitCount)
}

func TestAnonymousVisitToPrivateRoomRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPrivate)

	_, err := svc.StartVisit(context.Background(), nil, room.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Equal(t, 0, repo.rooms[room.ID].VisitCount)
}

func TestPrivateRoomVisibleToOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPrivate)
	ctx := context.Background()

	owner := int64(1)
	_, err := svc.GetRoom(ctx, &owner, room.ID)
	assert.NoError(t, err)

	stranger := int64(2)
	_, err = svc.GetRoom(ctx, &stranger, room.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestNonOwnerUpdateForbiddenWithoutMutation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)

	name := "hijacked"
	_, err := svc.UpdateRoom(context.Background(), 2, room.ID, &UpdateRoomRequest{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, "studio", repo.rooms[room.ID].Name)
	assert.Zero(t, repo.updates)
}

func TestNonOwnerCannotPlaceAssets(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)

	_, err := svc.PlaceAsset(context.Background(), 2, room.ID, &PlaceAssetRequest{
		Name:     "chair",
		AssetURL: "https://cdn.example.com/chair.glb",
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, repo.assets)
}

func TestAssetLimitEnforced(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.PlaceAsset(ctx, 1, room.ID, &PlaceAssetRequest{
			Name:     "chair",
			AssetURL: "https://cdn.example.com/chair.glb",
		})
		require.NoError(t, err)
	}

	_, err := svc.PlaceAsset(ctx, 1, room.ID, &PlaceAssetRequest{
		Name:     "one too many",
		AssetURL: "https://cdn.example.com/lamp.glb",
	})
	assert.Error(t, err)
}

func TestEndVisitStampsDuration(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)
	ctx := context.Background()

	visitor := int64(5)
	visit, err := svc.StartVisit(ctx, &visitor, room.ID)
	require.NoError(t, err)

	ended, err := svc.EndVisit(ctx, &visitor, visit.ID)
	require.NoError(t, err)
	assert.NotNil(t, ended.EndedAt)
	assert.NotNil(t, ended.DurationS)
}

func TestEndVisitOfAnotherUserForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)
	ctx := context.Background()

	visitor := int64(5)
	visit, err := svc.StartVisit(ctx, &visitor, room.ID)
	require.NoError(t, err)

	other := int64(6)
	_, err = svc.EndVisit(ctx, &other, visit.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestVisitStatsOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig())
	room := setupRoom(t, svc, 1, VisibilityPublic)
	ctx := context.Background()

	_, err := svc.GetVisitStats(ctx, 1, room.ID)
	assert.NoError(t, err)

	_, err = svc.GetVisitStats(ctx, 2, room.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
