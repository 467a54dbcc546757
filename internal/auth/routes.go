// internal/auth/routes.go

package auth

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/signup", handler.Signup).Methods("POST")
	api.HandleFunc("/login", handler.Login).Methods("POST")
	api.HandleFunc("/google", handler.GoogleAuth).Methods("POST")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	me := router.PathPrefix("/api/v1/auth").Subrouter()
	me.Use(middleware.Authenticate)
	me.HandleFunc("/me", handler.Me).Methods("GET")
}
