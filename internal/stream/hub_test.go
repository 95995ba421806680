package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/gardenledger/internal/event"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(hub.Handler())
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	bus := event.NewMemoryBus()
	hub := NewHub(bus)
	defer hub.Close()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	require.NoError(t, bus.Publish(context.Background(), event.NewPlantEvent(event.PlantSeeded, 1, "alice")))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt event.Event
	require.NoError(t, json.Unmarshal(payload, &evt))
	assert.Equal(t, event.PlantSeeded, evt.Type)
	assert.Equal(t, event.EventSchemaVersion, evt.Version)
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	bus := event.NewMemoryBus()
	hub := NewHub(bus)
	defer hub.Close()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not dropped after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubCloseDisconnectsAll(t *testing.T) {
	bus := event.NewMemoryBus()
	hub := NewHub(bus)

	_, cleanup := dialHub(t, hub)
	defer cleanup()
	waitForClients(t, hub, 1)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())
}
