// internal/rooms/routes.go

package rooms

import (
	"github.com/gorilla/mux"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// Public rooms are browsable and visitable without an identity
	public := router.PathPrefix("/api/v1").Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/rooms", handler.ListPublicRooms).Methods("GET")
	public.HandleFunc("/rooms/{id}", handler.GetRoom).Methods("GET")
	public.HandleFunc("/rooms/{id}/assets", handler.ListAssets).Methods("GET")
	public.HandleFunc("/rooms/{id}/live", handler.LiveVisitors).Methods("GET")
	public.HandleFunc("/rooms/{id}/visits", handler.StartVisit).Methods("POST")
	public.HandleFunc("/rooms/visits/{visitID}/end", handler.EndVisit).Methods("POST")

	// Mutations require the owner's identity
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/rooms", handler.CreateRoom).Methods("POST")
	api.HandleFunc("/me/rooms", handler.ListMyRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", handler.UpdateRoom).Methods("PUT")
	api.HandleFunc("/rooms/{id}", handler.DeleteRoom).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/assets", handler.PlaceAsset).Methods("POST")
	api.HandleFunc("/rooms/assets/{assetID}", handler.UpdateAsset).Methods("PUT")
	api.HandleFunc("/rooms/assets/{assetID}", handler.RemoveAsset).Methods("DELETE")
	api.HandleFunc("/rooms/{id}/stats", handler.GetVisitStats).Methods("GET")
}
