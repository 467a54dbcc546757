// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/conversations", handler.StartConversation).Methods("POST")
	api.HandleFunc("/conversations", handler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", handler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/read", handler.MarkRead).Methods("POST")
}
