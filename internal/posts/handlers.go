// internal/posts/handlers.go
package posts

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

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

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	handle, _ := auth.GetHandleFromContext(r.Context())

	err := r.ParseMultipartForm(10 << 20) // 10 MB max
	if err != nil && err != http.ErrNotMultipart {
		utils.ErrorResponse(w, "validation_error", "Failed to parse form", http.StatusBadRequest)
		return
	}

	var req CreatePostRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		req.Body = r.FormValue("body")
		req.Type = r.FormValue("type")
		req.Visibility = r.FormValue("visibility")
		if loc := r.FormValue("location"); loc != "" {
			req.Location = &loc
		}

		// A failed individual upload is logged and skipped; the post is
		// still created with whatever attachments made it through.
		if r.MultipartForm != nil && r.MultipartForm.File != nil {
			for _, fileHeader := range r.MultipartForm.File["media"] {
				file, err := fileHeader.Open()
				if err != nil {
					log.Printf("posts: failed to open attachment %s: %v", fileHeader.Filename, err)
					continue
				}

				url, err := h.service.UploadMedia(file, fileHeader)
				file.Close()
				if err != nil {
					log.Printf("posts: failed to upload attachment %s: %v", fileHeader.Filename, err)
					continue
				}
				req.MediaURLs = append(req.MediaURLs, url)
			}
		}
	}

	post, err := h.service.CreatePost(r.Context(), userID, handle, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, post, http.StatusCreated)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	postID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), postID, userID, &req)
	if err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	postID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "validation_error", "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		utils.ErrorFrom(w, err)
		return
	}

	utils.MessageResponse(w, "Post deleted successfully", http.StatusOK)
}
