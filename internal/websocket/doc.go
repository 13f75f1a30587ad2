// Package websocket pushes dashboard events to open browser pages.
//
// A Hub owns the connected clients and fans every broadcast out to them.
// Each Client runs a read pump, which only handles pongs and close frames,
// and a write pump that forwards queued messages and sends pings. Messages
// are events.WebSocketMessage values encoded as JSON; the dashboard sends
// dataset_reloaded after every successful reload so pages can refresh.
package websocket
