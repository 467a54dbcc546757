// internal/profiles/routes.go

package profiles

import (
	"github.com/go-chi/chi/v5"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Profile viewing tolerates anonymous viewers
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalAuthenticate)

		r.Get("/api/v1/users/{id}/profile", handler.GetUserProfile)
		r.Get("/api/v1/users/{id}/followers", handler.GetFollowers)
		r.Get("/api/v1/users/{id}/following", handler.GetFollowing)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/api/v1/profile", handler.GetMyProfile)
		r.Put("/api/v1/profile", handler.UpdateProfile)
		r.Post("/api/v1/profile/avatar", handler.UploadAvatar)
		r.Post("/api/v1/profile/banner", handler.UploadBanner)

		r.Post("/api/v1/users/{id}/follow", handler.Follow)
		r.Delete("/api/v1/users/{id}/follow", handler.Unfollow)
	})
}
