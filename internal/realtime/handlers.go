// internal/realtime/handlers.go

package realtime

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/yourspacelabs/yourspace-backend/internal/auth"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Subscribe upgrades the connection and subscribes it to the streams the
// caller may see: the public posts stream for everyone, plus the caller's
// own notification and message streams when authenticated.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	streams := []string{StreamPosts}
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		streams = append(streams,
			UserStream(StreamNotifications, userID),
			UserStream(StreamMessages, userID),
		)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.ErrorResponse(w, "upstream_error", "Failed to upgrade connection", http.StatusInternalServerError)
		return
	}

	NewClient(h.hub, conn, streams).Start()
}

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	ws := router.PathPrefix("/api/v1").Subrouter()
	ws.Use(authMiddleware.OptionalAuthenticate)
	ws.HandleFunc("/realtime", handler.Subscribe).Methods("GET")
}
