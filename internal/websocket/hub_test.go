package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zomatour/internal/shared/testutil"
	"zomatour/pkg/contracts/domain"
	"zomatour/pkg/contracts/events"
)

type decodedMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Status   string               `json:"status"`
		ClientID string               `json:"client_id"`
		Stats    domain.CleaningStats `json:"stats"`
	} `json:"data"`
}

func decode(t *testing.T, data []byte) decodedMessage {
	t.Helper()
	var msg decodedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(Options{}, logger)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 60*time.Second, opts.PongWait)
	assert.Equal(t, 54*time.Second, opts.PingPeriod)
	assert.Equal(t, 64, opts.SendBuffer)

	opts = Options{PingPeriod: time.Minute, PongWait: 10 * time.Second}.withDefaults()
	assert.Equal(t, 9*time.Second, opts.PingPeriod)
}

func TestHub_StartStop(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	hub := NewHub(Options{}, logger)

	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()

	assert.True(t, handler.ContainsMessage("Hub shutting down"))
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newTestHub(t)
	conn := NewMockConnection()
	client := NewClient(hub, conn, "trace-1", nil)

	hub.Register(client)
	go client.WritePump()

	require.Eventually(t, func() bool { return len(conn.GetWrittenMessages()) == 1 }, time.Second, 5*time.Millisecond)
	connected := decode(t, conn.GetWrittenMessages()[0].Data)
	assert.Equal(t, string(events.MessageTypeConnect), connected.Type)
	assert.Equal(t, "connected", connected.Data.Status)
	assert.Equal(t, client.ID(), connected.Data.ClientID)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(string(events.MessageTypeDatasetReloaded), events.DatasetReloaded{
		Stats: domain.CleaningStats{RowsRead: 11, RowsKept: 8},
	})

	require.Eventually(t, func() bool { return len(conn.GetWrittenMessages()) == 2 }, time.Second, 5*time.Millisecond)
	msg := conn.GetWrittenMessages()[1]
	assert.Equal(t, websocket.TextMessage, msg.Type)
	reloaded := decode(t, msg.Data)
	assert.Equal(t, "dataset_reloaded", reloaded.Type)
	assert.Equal(t, 8, reloaded.Data.Stats.RowsKept)
	assert.NotEmpty(t, reloaded.ID)

	assert.Equal(t, int64(1), hub.Metrics()["total_connections"])
	assert.Eventually(t, func() bool { return hub.Metrics()["broadcasts"] == int64(1) }, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub := newTestHub(t)
	conn := NewMockConnection()
	client := NewClient(hub, conn, "", nil)

	hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Metrics()["active_connections"] == int64(0) }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(Options{}, logger)
	hub.Start()

	conn := NewMockConnection()
	client := NewClient(hub, conn, "", nil)
	hub.Register(client)
	go client.WritePump()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())
	assert.Eventually(t, conn.IsClosed, time.Second, 5*time.Millisecond)

	// Registering after Stop must not block
	hub.Register(NewClient(hub, NewMockConnection(), "", nil))
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(Options{}, logger)

	// Nothing drains the queue: 64 messages fit, the rest are dropped
	for i := 0; i < 100; i++ {
		hub.Broadcast("dataset_reloaded", nil)
	}
	assert.Equal(t, int64(36), hub.Metrics()["dropped_messages"])
}

func TestServeWS(t *testing.T) {
	hub := newTestHub(t)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ServeWS(hub, conn, "trace-ws", nil)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "connect", decode(t, data).Type)

	hub.Broadcast(string(events.MessageTypeDatasetReloaded), events.DatasetReloaded{
		Stats: domain.CleaningStats{RowsKept: 3},
	})
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	msg := decode(t, data)
	assert.Equal(t, "dataset_reloaded", msg.Type)
	assert.Equal(t, 3, msg.Data.Stats.RowsKept)
}
