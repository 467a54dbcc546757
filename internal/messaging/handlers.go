// internal/messaging/handlers.go

package messaging

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

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	conv, err := h.service.StartConversation(r.Context(), userID, req.UserID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, conv, http.StatusCreated)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.service.ListConversations(r.Context(), userID, limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid conversation id", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.service.GetMessages(r.Context(), conversationID, userID, limit, offset)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	handle, _ := auth.GetHandleFromContext(r.Context())

	conversationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid conversation id", http.StatusBadRequest)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), conversationID, userID, handle, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, msg, http.StatusCreated)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid conversation id", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), conversationID, userID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "Messages marked as read", http.StatusOK)
}
