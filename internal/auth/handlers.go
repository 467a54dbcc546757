// internal/auth/handlers.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var req GoogleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GoogleAuth(r.Context(), &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

// Me returns the identity resolved from the bearer token
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())
	handle, _ := GetHandleFromContext(r.Context())

	utils.SuccessResponse(w, Identity{UserID: userID, Handle: handle}, http.StatusOK)
}
