// internal/interactions/handlers.go

package interactions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SetInteraction(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	handle, _ := auth.GetHandleFromContext(r.Context())

	vars := mux.Vars(r)
	postID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req SetInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.SetInteraction(r.Context(), userID, postID, req.Type, req.Action, handle)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	page := 0
	pageSize := 20
	if p := r.URL.Query().Get("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val >= 0 {
			page = val
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			pageSize = val
		}
	}

	postIDs, hasMore, err := h.service.GetBookmarks(r.Context(), userID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"post_ids": postIDs,
		"has_more": hasMore,
	}, http.StatusOK)
}
