// Package server wires HTTP handlers into a ServeMux for the Driftchat
// application via routing helpers.
package server

import (
	"net/http"

	"github.com/driftline/driftchat/internal/chat"
)

// SetupRoutes configures and returns an HTTP ServeMux with all application
// routes: the health check and the WebSocket endpoint bound to the hub.
func SetupRoutes(hub *chat.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/ws", WebSocketHandler(hub))
	return mux
}
