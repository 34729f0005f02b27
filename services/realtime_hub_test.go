package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"backend/models"
)

// wsPair upgrades one connection through a throwaway server and hands back
// both ends.
func wsPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- c
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return <-conns, client
}

func TestHubBroadcastsDayUpdates(t *testing.T) {
	server, client := wsPair(t)

	hub := NewRealtimeHub()
	cl := &WSClient{Conn: server}
	hub.Register(cl)

	hub.BroadcastDayUpdate("2026-03-14", models.DayRecord{
		Calories: 250,
		Items:    []models.FoodItem{{Name: "Sandwich", Calories: 250}},
	})

	var msg struct {
		Kind string           `json:"kind"`
		Date string           `json:"date"`
		Day  models.DayRecord `json:"day"`
	}
	if err := client.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Kind != "day.updated" || msg.Date != "2026-03-14" || msg.Day.Calories != 250 {
		t.Fatalf("unexpected broadcast: %+v", msg)
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	server, _ := wsPair(t)

	hub := NewRealtimeHub()
	cl := &WSClient{Conn: server}
	hub.Register(cl)

	// The ping writer and the read loop may both observe a dead peer and
	// tear the client down; the second call must be harmless.
	hub.Unregister(cl)
	hub.Unregister(cl)

	hub.BroadcastDayUpdate("2026-03-14", models.DayRecord{})
}
