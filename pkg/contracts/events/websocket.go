// Package events contains the WebSocket message contracts of the dashboard.
package events

import (
	"time"

	"zomatour/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Dataset messages
	MessageTypeDatasetReloaded MessageType = "dataset_reloaded"
	MessageTypeDatasetFailed   MessageType = "dataset_failed"

	// Connection messages
	MessageTypeConnect MessageType = "connect"
	MessageTypeError   MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetReloaded is the payload of a dataset_reloaded message
type DatasetReloaded struct {
	Stats domain.CleaningStats `json:"stats"`
}

// DatasetFailed is the payload of a dataset_failed message
type DatasetFailed struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}
