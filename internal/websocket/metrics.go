package websocket

import (
	"sync"
	"time"
)

// Metrics tracks hub activity
type Metrics struct {
	mu sync.RWMutex

	TotalConnections  int64
	ActiveConnections int64
	MaxConcurrent     int64

	Broadcasts      int64
	MessagesSent    int64
	BytesSent       int64
	DroppedMessages int64

	startedAt time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{startedAt: time.Now()}
}

// RecordConnection records a new connection
func (m *Metrics) RecordConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalConnections++
	m.ActiveConnections++
	if m.ActiveConnections > m.MaxConcurrent {
		m.MaxConcurrent = m.ActiveConnections
	}
}

// RecordDisconnection records a disconnection
func (m *Metrics) RecordDisconnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ActiveConnections > 0 {
		m.ActiveConnections--
	}
}

// RecordBroadcast records one broadcast delivered to sent clients
func (m *Metrics) RecordBroadcast(size int, sent, dropped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Broadcasts++
	m.MessagesSent += int64(sent)
	m.BytesSent += int64(size * sent)
	m.DroppedMessages += int64(dropped)
}

// RecordDroppedMessage records a message that never reached the hub loop
func (m *Metrics) RecordDroppedMessage() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DroppedMessages++
}

// Snapshot returns the current values
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_connections":  m.TotalConnections,
		"active_connections": m.ActiveConnections,
		"max_concurrent":     m.MaxConcurrent,
		"broadcasts":         m.Broadcasts,
		"messages_sent":      m.MessagesSent,
		"bytes_sent":         m.BytesSent,
		"dropped_messages":   m.DroppedMessages,
		"uptime_seconds":     time.Since(m.startedAt).Seconds(),
	}
}
