// internal/discovery/routes.go

package discovery

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// The deck is browsable without an identity
	public := router.PathPrefix("/api/v1").Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/discover", handler.GetDeck).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/discover/swipe", handler.Swipe).Methods("POST")
	api.HandleFunc("/discover/connections", handler.GetConnections).Methods("GET")
}
