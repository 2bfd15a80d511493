// Package session provides session management for the Science Around the
// Board game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - File-based persistence with full state restore
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// SessionPersistence is the storage interface; FilePersistence implements it
// over per-session JSON files.
//
// Session Identifiers:
//
// Sessions use short 8-character hex IDs (the first group of a v4 UUID) for
// easy reference. Lookups are case-insensitive.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Persistence:
//
// A persisted session file carries everything needed to resume play: the
// rules in force, the full game state including board ownership, the mishap
// pool, and the complete event log. Loading rebuilds the engine and replays
// the log, so a restored session exports the same CSV it would have before
// the restart.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Restore sessions from a previous run
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	// Register a session built by the service layer
//	sess, err := manager.Create("", newSession)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve an existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// The manager provides cleanup methods for removing stale sessions and
// freeing resources.
package session
