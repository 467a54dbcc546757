// internal/profiles/handlers.go

package profiles

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "unauthenticated", "Authentication required", http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), nil, userID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	var viewerID *int64
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	idStr := chi.URLParam(r, "id")
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		// Fall back to handle lookup for /users/{handle}/profile style calls.
		profile, err := h.service.GetProfileByHandle(r.Context(), viewerID, idStr)
		if err != nil {
			utils.ErrorFrom(w, err)
			return
		}
		utils.SuccessResponse(w, profile, http.StatusOK)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), viewerID, userID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "avatar", h.service.UploadAvatar)
}

func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, "banner", h.service.UploadBanner)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, field string,
	upload func(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)) {

	userID, _ := auth.GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "validation_error", "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Missing "+field+" file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := upload(r.Context(), userID, file, header)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]string{"url": url}, http.StatusOK)
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	handle, _ := auth.GetHandleFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid user id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Follow(r.Context(), userID, handle, targetID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid user id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Unfollow(r.Context(), userID, targetID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.listFollowEdges(w, r, h.service.GetFollowers)
}

func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.listFollowEdges(w, r, h.service.GetFollowing)
}

func (h *Handler) listFollowEdges(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, userID int64, limit, offset int) ([]Profile, error)) {

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid user id", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	profiles, err := list(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"users": profiles}, http.StatusOK)
}
