// internal/profiles/service.go

package profiles

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/storage"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
	"github.com/yourspacelabs/yourspace-backend/internal/notifications"
)

type Service interface {
	GetProfile(ctx context.Context, viewerID *int64, userID int64) (*Profile, error)
	GetProfileByHandle(ctx context.Context, viewerID *int64, handle string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	UploadBanner(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)

	Follow(ctx context.Context, followerID int64, followerHandle string, followingID int64) (*FollowResult, error)
	Unfollow(ctx context.Context, followerID, followingID int64) (*FollowResult, error)
	GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]Profile, error)
	GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]Profile, error)
}

type service struct {
	repo     Repository
	uploader *storage.Uploader
	notifier notifications.Service
}

func NewService(repo Repository, uploader *storage.Uploader, notifier notifications.Service) Service {
	return &service{repo: repo, uploader: uploader, notifier: notifier}
}

func (s *service) GetProfile(ctx context.Context, viewerID *int64, userID int64) (*Profile, error) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withFollowState(ctx, viewerID, profile)
}

func (s *service) GetProfileByHandle(ctx context.Context, viewerID *int64, handle string) (*Profile, error) {
	profile, err := s.repo.GetProfileByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.withFollowState(ctx, viewerID, profile)
}

func (s *service) withFollowState(ctx context.Context, viewerID *int64, profile *Profile) (*Profile, error) {
	if viewerID == nil || *viewerID == profile.ID {
		return profile, nil
	}
	following, err := s.repo.IsFollowing(ctx, *viewerID, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Following = &following
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperr.Validationf("%v", err)
	}
	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.repo.GetProfileByID(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.uploader.UploadFile("avatars", file, header)
	if err != nil {
		return "", apperr.Storagef("uploading avatar: %v", err)
	}
	if err := s.repo.UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *service) UploadBanner(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.uploader.UploadFile("banners", file, header)
	if err != nil {
		return "", apperr.Storagef("uploading banner: %v", err)
	}
	if err := s.repo.UpdateBannerURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *service) Follow(ctx context.Context, followerID int64, followerHandle string, followingID int64) (*FollowResult, error) {
	if followerID == followingID {
		return nil, apperr.Validationf("cannot follow yourself")
	}
	if _, err := s.repo.GetProfileByID(ctx, followingID); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}

	// Replayed follows change nothing: no count bump, no second
	// notification.
	if created {
		if err := s.repo.AdjustFollowCounts(ctx, followerID, followingID, 1); err != nil {
			return nil, err
		}
		s.notifier.Notify(&notifications.Notification{
			UserID:  followingID,
			Type:    notifications.TypeFollow,
			Title:   fmt.Sprintf("@%s followed you", followerHandle),
			ActorID: &followerID,
		})
	}

	return &FollowResult{Following: true, Changed: created}, nil
}

func (s *service) Unfollow(ctx context.Context, followerID, followingID int64) (*FollowResult, error) {
	if followerID == followingID {
		return nil, apperr.Validationf("cannot unfollow yourself")
	}

	removed, err := s.repo.DeleteFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if removed {
		if err := s.repo.AdjustFollowCounts(ctx, followerID, followingID, -1); err != nil {
			return nil, err
		}
	}

	return &FollowResult{Following: false, Changed: removed}, nil
}

func (s *service) GetFollowers(ctx context.Context, userID int64, limit, offset int) ([]Profile, error) {
	profiles, err := s.repo.GetFollowers(ctx, userID, limit, offset)
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, err
}

func (s *service) GetFollowing(ctx context.Context, userID int64, limit, offset int) ([]Profile, error) {
	profiles, err := s.repo.GetFollowing(ctx, userID, limit, offset)
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, err
}
