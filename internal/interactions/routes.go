// internal/interactions/routes.go

package interactions

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/posts/{id}/interactions", handler.SetInteraction).Methods("POST")
	api.HandleFunc("/bookmarks", handler.GetBookmarks).Methods("GET")
}
