// internal/notifications/routes.go

package notifications

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/notifications", handler.List).Methods("GET")
	api.HandleFunc("/notifications/read-all", handler.MarkAllRead).Methods("POST")
	api.HandleFunc("/notifications/{id}/read", handler.MarkRead).Methods("POST")
	api.HandleFunc("/notifications/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/notifications/preferences", handler.UpdatePreferences).Methods("PUT")
}
