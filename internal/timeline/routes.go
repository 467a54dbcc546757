// internal/timeline/routes.go

package timeline

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.OptionalAuthenticate)
	api.HandleFunc("/feeds/{type}", handler.GetFeed).Methods("GET")
}
