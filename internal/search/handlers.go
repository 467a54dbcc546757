// internal/search/handlers.go

package search

import (
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

// Search serves GET /search?q=...&type=...&page=...&page_size=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var viewerID *int64
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	q := r.URL.Query()
	query := q.Get("q")
	searchType := q.Get("type")
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	results, err := h.service.Search(r.Context(), viewerID, query, searchType, page, pageSize)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, results, http.StatusOK)
}

// TrendingHashtags serves GET /search/trending
func (h *Handler) TrendingHashtags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.TrendingHashtags(r.Context())
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{"hashtags": tags}, http.StatusOK)
}
