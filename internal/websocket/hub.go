package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"zomatour/internal/infrastructure"
	"zomatour/pkg/contracts/events"
)

// Options tunes the hub and its clients
type Options struct {
	// PingPeriod must be shorter than PongWait
	PingPeriod time.Duration
	PongWait   time.Duration
	// SendBuffer is the per-client outbound queue length
	SendBuffer int
}

// DefaultOptions returns the options used when a field is left zero
func DefaultOptions() Options {
	return Options{
		PingPeriod: 54 * time.Second,
		PongWait:   60 * time.Second,
		SendBuffer: 64,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = d.SendBuffer
	}
	return o
}

// Hub maintains the set of active clients and broadcasts dashboard events to them
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	// Outbound messages queued for every client
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu      sync.RWMutex
	opts    Options
	metrics *Metrics
	logger  *slog.Logger

	// Control
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub instance
func NewHub(opts Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		opts:       opts.withDefaults(),
		metrics:    NewMetrics(),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.Run()
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.metrics.RecordConnection()

			ctx := clientContext(client)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.sendConnected(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			if !ok {
				continue
			}
			h.metrics.RecordDisconnection()

			h.logger.InfoContext(clientContext(client), "Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// deliver queues message on every client, dropping clients whose queue is full
func (h *Hub) deliver(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent, dropped := 0, 0
	for client := range h.clients {
		select {
		case client.send <- message:
			sent++
		default:
			dropped++
			close(client.send)
			delete(h.clients, client)
			h.logger.WarnContext(clientContext(client), "Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
	h.metrics.RecordBroadcast(len(message), sent, dropped)

	h.logger.Debug("Broadcast delivered",
		slog.Int("clients", sent),
		slog.Int("dropped", dropped),
		slog.Int("message_size", len(message)))
}

func (h *Hub) sendConnected(ctx context.Context, client *Client) {
	payload, err := encode(events.MessageTypeConnect, map[string]interface{}{
		"status":    "connected",
		"client_id": client.id,
	}, client.traceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling connection message", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- payload:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

// Broadcast sends an event to every connected client. It never blocks: the
// message is dropped when the hub queue is full.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := encode(events.MessageType(messageType), data, "")
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", messageType))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.metrics.RecordDroppedMessage()
		h.logger.Warn("Broadcast queue full, message dropped",
			slog.String("message_type", messageType))
	}
}

func encode(messageType events.MessageType, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      messageType,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	})
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Metrics returns the hub counters
func (h *Hub) Metrics() map[string]interface{} {
	snap := h.metrics.Snapshot()
	snap["active_clients"] = h.ClientCount()
	return snap
}

// Stop closes every client and waits for the hub loop to exit
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func clientContext(c *Client) context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}
