// internal/notifications/handlers.go

package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	var cursor *int64
	if c := r.URL.Query().Get("cursor"); c != "" {
		if val, err := strconv.ParseInt(c, 10, 64); err == nil {
			cursor = &val
		}
	}

	resp, err := h.service.List(r.Context(), userID, limit, cursor)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	notificationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID, userID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "Notification marked as read", http.StatusOK)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "All notifications marked as read", http.StatusOK)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, prefs, http.StatusOK)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}
	prefs.UserID = userID

	if err := h.service.UpdatePreferences(r.Context(), &prefs); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, prefs, http.StatusOK)
}
