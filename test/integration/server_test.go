package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftline/driftchat/test/testhelpers"
)

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp := testhelpers.MakeRequest(t, http.MethodGet, ts.URL+"/")
	defer func() { _ = resp.Body.Close() }()

	testhelpers.AssertStatusCode(t, resp, http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if !strings.Contains(string(body), "running") {
		t.Errorf("Expected health message, got %q", string(body))
	}
}

func TestWebSocketEndpointRejectsPost(t *testing.T) {
	ts := startTestServer(t)

	resp := testhelpers.MakeRequest(t, http.MethodPost, ts.URL+"/ws")
	defer func() { _ = resp.Body.Close() }()

	testhelpers.AssertStatusCode(t, resp, http.StatusMethodNotAllowed)
}

func TestWebSocketRejectsDisallowedOrigin(t *testing.T) {
	ts := startTestServer(t)

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", "http://evil.example")

	conn, resp, err := dialer.Dial(testhelpers.WebSocketURL(ts), headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
		t.Fatal("Expected handshake to fail for disallowed origin")
	}
}

func TestWebSocketRejectsMissingOrigin(t *testing.T) {
	ts := startTestServer(t)

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	conn, resp, err := dialer.Dial(testhelpers.WebSocketURL(ts), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
		t.Fatal("Expected handshake to fail without an origin header")
	}
}
