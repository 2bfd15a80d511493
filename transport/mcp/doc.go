// Package mcp provides a Model Context Protocol interface for the quiz board game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - A thin proxy that forwards every call to the REST API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Start a new game from a question dataset
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - game_state: Get the board, players, stage, and active question
//   - command: Submit a player action (roll, answer, buy, ...)
//   - export_log: Download the session event log as CSV
//   - list_configs: List available rule set presets
//   - list_datasets: List available question datasets
//   - list_topics: List the big topics and modules in a dataset
//   - game_instructions: Get comprehensive game instructions
//
// Proxy Design:
//
// The client holds no game state of its own. Every tool call maps to one or
// two REST requests against the API server, so MCP agents and browser
// clients always observe the same session. Responses are rendered as plain
// text summaries: an agent reads the "Legal commands" line from game_state
// to decide which command types the current stage accepts.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Play full games autonomously through the command tool
//   - Inspect board ownership and plan purchases
//   - Read question prompts and submit zero-based answer indexes
//   - Manage multiple concurrent game sessions
//   - Export event logs for post-game analysis
package mcp
