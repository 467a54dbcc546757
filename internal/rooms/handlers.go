// internal/rooms/handlers.go

package rooms

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func viewerFrom(r *http.Request) *int64 {
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id, err == nil
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, room, http.StatusCreated)
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	room, err := h.service.GetRoom(r.Context(), viewerFrom(r), roomID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, room, http.StatusOK)
}

func (h *Handler) ListMyRooms(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	limit, offset := pageParams(r)

	rooms, err := h.service.ListUserRooms(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"rooms": rooms}, http.StatusOK)
}

func (h *Handler) ListPublicRooms(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	rooms, err := h.service.ListPublicRooms(r.Context(), limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"rooms": rooms}, http.StatusOK)
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), userID, roomID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, room, http.StatusOK)
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteRoom(r.Context(), userID, roomID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "Room deleted", http.StatusOK)
}

func (h *Handler) PlaceAsset(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	var req PlaceAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	asset, err := h.service.PlaceAsset(r.Context(), userID, roomID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, asset, http.StatusCreated)
}

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	assets, err := h.service.ListAssets(r.Context(), viewerFrom(r), roomID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"assets": assets}, http.StatusOK)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	assetID, ok := pathID(r, "assetID")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid asset id", http.StatusBadRequest)
		return
	}

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	asset, err := h.service.UpdateAsset(r.Context(), userID, assetID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, asset, http.StatusOK)
}

func (h *Handler) RemoveAsset(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	assetID, ok := pathID(r, "assetID")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid asset id", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveAsset(r.Context(), userID, assetID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "Asset removed", http.StatusOK)
}

// StartVisit tolerates anonymous callers; public rooms track their visits
// without an identity.
func (h *Handler) StartVisit(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	visit, err := h.service.StartVisit(r.Context(), viewerFrom(r), roomID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, visit, http.StatusCreated)
}

func (h *Handler) EndVisit(w http.ResponseWriter, r *http.Request) {
	visitID, ok := pathID(r, "visitID")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid visit id", http.StatusBadRequest)
		return
	}

	visit, err := h.service.EndVisit(r.Context(), viewerFrom(r), visitID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, visit, http.StatusOK)
}

func (h *Handler) GetVisitStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	stats, err := h.service.GetVisitStats(r.Context(), userID, roomID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, stats, http.StatusOK)
}

func (h *Handler) LiveVisitors(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, "validation_error", "Invalid room id", http.StatusBadRequest)
		return
	}

	count, err := h.service.LiveVisitors(r.Context(), roomID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]int64{"live_visitors": count}, http.StatusOK)
}
