// internal/search/routes.go

package search

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.OptionalAuthenticate)
	api.HandleFunc("/search", handler.Search).Methods("GET")
	api.HandleFunc("/search/trending", handler.TrendingHashtags).Methods("GET")
}
