package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "zomatour/internal/errors"
	"zomatour/internal/shared/testutil"
	ws "zomatour/internal/websocket"
	"zomatour/pkg/contracts/events"
)

func newTestWebSocketServer(t *testing.T, allowed []string) (*ws.Hub, *httptest.Server) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := ws.NewHub(ws.Options{}, logger)
	hub.Start()
	t.Cleanup(hub.Stop)

	h := NewWebSocketHandler(hub, allowed, 0, 0, logger, apierrors.NewErrorHandler(logger, false))
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/metrics", h.Metrics)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return hub, server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func TestWebSocketHandler_Broadcast(t *testing.T) {
	hub, server := newTestWebSocketServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"connect"`)

	hub.Broadcast(string(events.MessageTypeDatasetReloaded), events.DatasetReloaded{})
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"dataset_reloaded"`)

	rec := httptest.NewRecorder()
	server.Config.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `"active_clients":1`)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	_, server := newTestWebSocketServer(t, []string{"https://dashboard.example.com"})

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"no origin", "", true},
		{"allowed origin", "https://dashboard.example.com", true},
		{"same host", server.URL, true},
		{"foreign origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server), header)
			if tt.allowed {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
