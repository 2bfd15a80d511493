// Package websocket provides WebSocket transport for the Science Around the
// Board game.
//
// The websocket package implements:
//   - Real-time state broadcasting to session spectators
//   - Session-aware WebSocket connections
//   - Per-command event delivery alongside state snapshots
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup. All session/client
// bookkeeping happens on the hub's Run goroutine; broadcasts are routed
// through its channel.
//
// Message Protocol:
//
// Messages are JSON-encoded and flow one way, server to client. A
// "state_update" message carries the full game state; a "command_result"
// message additionally carries the event log records the command produced,
// so clients can animate money movements and quiz outcomes without diffing
// snapshots. Clients do not send game commands over the socket; commands go
// through the REST API, which broadcasts the result here.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=ab12cd34) when establishing the connection.
// Updates are broadcast only to clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Connection Lifecycle:
//
// 1. Client connects with session ID
// 2. Connection registered with hub
// 3. Client receives state updates as commands are applied
// 4. Disconnection triggers cleanup
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive messages
// simultaneously without blocking each other.
package websocket
