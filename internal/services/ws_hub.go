package services

import (
	"encoding/json"
	"sync"

	"roadweave-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message on the public blog stream
type WSMessage struct {
	Type    string      `json:"type"`
	Viewers int         `json:"viewers,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BlogHub fans new content pieces out to the public viewers of each trip.
// Viewers are keyed by trip, so one hub serves every blog.
type BlogHub struct {
	mu      sync.RWMutex
	viewers map[int64]map[*websocket.Conn]bool
}

// NewBlogHub creates a new blog hub
func NewBlogHub() *BlogHub {
	return &BlogHub{
		viewers: make(map[int64]map[*websocket.Conn]bool),
	}
}

// Register adds a viewer connection to a trip's audience
func (h *BlogHub) Register(tripID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if h.viewers[tripID] == nil {
		h.viewers[tripID] = make(map[*websocket.Conn]bool)
	}
	h.viewers[tripID][conn] = true
	count := len(h.viewers[tripID])
	h.mu.Unlock()

	log.Info().Int64("trip_id", tripID).Int("viewers", count).Msg("Blog viewer connected")

	h.broadcast(tripID, WSMessage{Type: "viewer_count", Viewers: count})
}

// Unregister removes a viewer connection from a trip's audience
func (h *BlogHub) Unregister(tripID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if conns, ok := h.viewers[tripID]; ok {
		if conns[conn] {
			conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.viewers, tripID)
		}
	}
	count := len(h.viewers[tripID])
	h.mu.Unlock()

	log.Info().Int64("trip_id", tripID).Int("viewers", count).Msg("Blog viewer disconnected")

	h.broadcast(tripID, WSMessage{Type: "viewer_count", Viewers: count})
}

// ViewerCount returns how many connections are watching a trip
func (h *BlogHub) ViewerCount(tripID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[tripID])
}

// BroadcastContentPiece pushes a freshly generated piece to every viewer of
// the trip. Send failures drop the offending connection.
func (h *BlogHub) BroadcastContentPiece(tripID int64, piece *models.ContentPiece) {
	h.broadcast(tripID, WSMessage{Type: "content_piece", Data: piece})
}

func (h *BlogHub) broadcast(tripID int64, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", tripID).Msg("Failed to marshal broadcast message")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.viewers[tripID]))
	for conn := range h.viewers[tripID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	var stale []*websocket.Conn
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			stale = append(stale, conn)
		}
	}

	for _, conn := range stale {
		h.Unregister(tripID, conn)
	}
}
