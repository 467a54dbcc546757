// internal/posts/routes.go
package posts

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Reading a single post tolerates anonymous viewers
	public := router.PathPrefix("/api/v1").Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/posts/{id}", handler.GetPost).Methods("GET")

	// Mutations require an identity
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/posts", handler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/{id}", handler.UpdatePost).Methods("PUT")
	api.HandleFunc("/posts/{id}", handler.DeletePost).Methods("DELETE")
}
