// Package api provides HTTP REST API handlers for the Science Around the
// Board game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Rule set listing, loading, and saving
//   - Dataset upload (plaintext or encrypted) and topic discovery
//   - Question image upload and serving
//   - Event log retrieval and CSV export
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (dataset, topic, module, players, rules, seed)
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/command - Apply a game command
//   - GET /api/sessions/{id}/log - Get the event log as JSON
//   - GET /api/sessions/{id}/log.csv - Download the event log as CSV
//
// Rule Sets:
//   - GET /api/configs - List available rule sets
//   - POST /api/configs - Save a rule set
//   - GET /api/configs/{name} - Get a specific rule set
//
// Datasets and Images:
//   - GET /api/datasets - List available datasets
//   - POST /api/datasets - Upload a dataset (name, text, optional passphrase)
//   - GET /api/datasets/{name}/topics - List big topics and modules
//   - POST /api/images/{name} - Upload a question image (raw body)
//   - GET /images/{name} - Serve an uploaded question image
//
// Request/Response Format:
//
// All endpoints accept and return JSON except image upload (raw bytes) and
// the CSV export (text/csv attachment).
//
// Commands are sent as POST with JSON body:
//
//	{
//	  "type": "roll|answer|buy|skip|start_exam|decline|accept_challenge|pay_full_fee|next|quit_exam|acknowledge|upgrade|liquidate|apply_for_grant|buy_chaos_token|use_chaos_token",
//	  "option": 0,       // answer index for answer commands
//	  "tile_id": 12      // target tile for liquidate/use_chaos_token
//	}
//
// The command response carries the updated game state, the stage the game
// moved to, and the event log records the command produced. The same payload
// is broadcast to WebSocket clients watching the session.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
