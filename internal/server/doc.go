// Package server implements the HTTP and WebSocket transport for Driftchat.
//
// It upgrades connections, runs the per-client read/write pumps, enforces
// origin and rate-limit policy, and forwards decoded events to the chat hub.
// The implementation is organized into specialized files for configuration,
// clients, routing, and HTTP handlers.
package server
