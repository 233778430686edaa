package integration

import (
	"testing"
	"time"

	"github.com/driftline/driftchat/internal/chat"
	"github.com/driftline/driftchat/internal/server"
	"github.com/driftline/driftchat/test/testhelpers"
)

func TestHubShutdownClosesClients(t *testing.T) {
	server.SetConfig(&server.Config{
		AllowedOrigins: []string{"http://localhost:8080"},
	})
	t.Cleanup(func() { server.SetConfig(nil) })

	hub := chat.NewHub(chat.HubConfig{})
	go hub.Run()

	ts := testhelpers.CreateTestServer(server.SetupRoutes(hub))
	t.Cleanup(ts.Close)

	conn := testhelpers.MustConnect(t, testhelpers.WebSocketURL(ts))
	testhelpers.Join(t, conn, "alice")
	testhelpers.WaitForEvent(t, conn, chat.EventMessageHistory)

	if err := hub.Shutdown(2 * time.Second); err != nil {
		t.Fatalf("Hub shutdown failed: %v", err)
	}

	// The server side closed the connection, so reads must fail promptly.
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	hub := chat.NewHub(chat.HubConfig{})
	go hub.Run()

	if err := hub.Shutdown(time.Second); err != nil {
		t.Fatalf("First shutdown failed: %v", err)
	}
	if err := hub.Shutdown(time.Second); err != nil {
		t.Fatalf("Second shutdown failed: %v", err)
	}
}
