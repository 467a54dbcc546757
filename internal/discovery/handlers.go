// internal/discovery/handlers.go

package discovery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetDeck tolerates anonymous viewers.
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	var viewerID *int64
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	deck, err := h.service.GetDeck(r.Context(), viewerID, limit)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"artists": deck}, http.StatusOK)
}

func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	handle, _ := auth.GetHandleFromContext(r.Context())

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Swipe(r.Context(), userID, handle, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) GetConnections(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	connections, err := h.service.GetConnections(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"connections": connections}, http.StatusOK)
}
