// internal/timeline/handlers.go

package timeline

import (
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

// GetFeed serves GET /feeds/{type}. Anonymous callers are allowed; they
// receive the public feed for every feed type.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	feedType := mux.Vars(r)["type"]

	var viewerID *int64
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	page := queryInt(r, "page", 0)
	pageSize := queryInt(r, "page_size", 0)

	feed, err := h.service.GetFeed(r.Context(), viewerID, feedType, page, pageSize)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, feed, http.StatusOK)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
