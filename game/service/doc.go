// Package service provides the business logic layer for the Science Around
// the Board game.
//
// The service package implements:
//   - Multi-session game management
//   - Rule set loading and management
//   - Dataset loading, topic discovery, and question image storage
//   - Command processing and event log retrieval
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// RulesManager manages rule set loading and validation.
// DatasetManager manages TSV question datasets and question images.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, rule and dataset management,
// and business logic orchestration. Each session maintains its own game engine
// instance with independent state: creating a session selects a dataset and a
// topic/module slice, builds the board from the resulting question set, and
// seats the players.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	rulesMgr := config.NewManager("configs")
//	datasetMgr := dataset.NewManager("datasets")
//	gameService := service.NewGameService(sessionMgr, rulesMgr, datasetMgr)
//
//	// Create a new session
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{
//		Dataset: "microbiology",
//		Topic:   "Microbiology",
//		Players: 2,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Apply commands
//	result, err := gameService.ApplyCommand(ctx, info.ID, engine.Command{Type: engine.CmdRoll})
//
// Session Management:
//
// Sessions are identified by unique short IDs and maintain independent game
// state. Multiple sessions can run concurrently with different rule sets and
// datasets. Sessions track creation time, last access time, and a full
// per-transaction event log for analytics and CSV export.
package service
