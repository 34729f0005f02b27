package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"backend/models"
)

type WSClient struct {
	Conn *websocket.Conn
}

// RealtimeHub fans ledger updates out to connected dashboard clients.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastDayUpdate pushes the updated record for date to every client.
func (h *RealtimeHub) BroadcastDayUpdate(date string, day models.DayRecord) {
	msg, _ := json.Marshal(map[string]any{
		"kind": "day.updated",
		"date": date,
		"day":  day,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
