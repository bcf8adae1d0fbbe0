package handlers

import (
	"net/http"

	"roadweave-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // public blog, any origin may watch
	},
}

// WebSocketHandler attaches public blog viewers to the live content stream
type WebSocketHandler struct {
	hub           *services.BlogHub
	publicService *services.PublicService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.BlogHub, publicService *services.PublicService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, publicService: publicService}
}

// HandleWebSocket handles GET /ws?token={public_token}
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	trip, err := h.publicService.ResolveTrip(r.Context(), token)
	if err != nil {
		respondError(w, "not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(trip.ID, conn)
	defer h.hub.Unregister(trip.ID, conn)

	// viewers only listen; reads just detect disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Int64("trip_id", trip.ID).Msg("WebSocket error")
			}
			break
		}
	}
}
