// Package testhelpers provides common utilities and helper functions for
// testing the Driftchat server.
//
// It contains reusable helpers shared across unit and integration tests:
// creating test servers, dialing WebSocket connections, and exchanging chat
// protocol envelopes with assertion support.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftline/driftchat/internal/chat"
)

// CreateTestServer creates a test HTTP server with the given handler.
// It returns a running httptest.Server that should be closed after use.
func CreateTestServer(handler http.Handler) *httptest.Server {
	return httptest.NewServer(handler)
}

// WebSocketURL converts a test server's base URL into its ws:// endpoint.
func WebSocketURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// MakeRequest creates and executes an HTTP request, returning the response.
// It includes a 5-second timeout and fails the test if the request cannot be
// created or executed successfully.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// AssertStatusCode checks if the HTTP response has the expected status code.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// ConnectWebSocket creates a WebSocket connection to the specified URL with
// an origin header matching the default allowed origin.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	headers.Set("Origin", "http://localhost:8080")

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// MustConnect dials the WebSocket endpoint and fails the test on error. The
// connection is closed automatically at test cleanup.
func MustConnect(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, err := ConnectWebSocket(url)
	if err != nil {
		t.Fatalf("Failed to connect WebSocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendEnvelope marshals and sends one inbound envelope.
func SendEnvelope(t *testing.T, conn *websocket.Conn, in chat.Inbound) {
	t.Helper()
	if err := conn.WriteJSON(in); err != nil {
		t.Fatalf("Failed to send %s envelope: %v", in.Type, err)
	}
}

// Join sends a user_join envelope for the given display name.
func Join(t *testing.T, conn *websocket.Conn, name string) {
	t.Helper()
	SendEnvelope(t, conn, chat.Inbound{Type: chat.OpUserJoin, Name: name})
}

// WaitForEvent reads envelopes until one of the wanted type arrives, skipping
// any others, and fails the test after a 2-second deadline.
func WaitForEvent(t *testing.T, conn *websocket.Conn, eventType string) chat.Outbound {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}
		var env chat.Outbound
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("Timed out waiting for %s event: %v", eventType, err)
		}
		if env.Type == eventType {
			return env
		}
	}
}

// ExpectNoEvent asserts that no envelope of the given type arrives within the
// window. Envelopes of other types are ignored.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, eventType string, within time.Duration) {
	t.Helper()

	deadline := time.Now().Add(within)
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}
		var env chat.Outbound
		if err := conn.ReadJSON(&env); err != nil {
			return // deadline reached without the unwanted event
		}
		if env.Type == eventType {
			t.Fatalf("Received unexpected %s event: %s", eventType, string(env.Data))
		}
	}
}

// DecodePayload unmarshals an envelope's data into target.
func DecodePayload(t *testing.T, env chat.Outbound, target any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, target); err != nil {
		t.Fatalf("Failed to decode %s payload: %v", env.Type, err)
	}
}

// CloseWebSocket gracefully closes a WebSocket connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}
