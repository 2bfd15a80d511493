package session

import (
	"time"

	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/eventlog"
	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON structure for persisted sessions. Rules
// are stored inline rather than by preset name, so a session created from a
// since-edited or deleted preset still restores exactly as it was played.
type PersistedSessionData struct {
	ID             string               `json:"id"`
	Dataset        string               `json:"dataset"`
	Topic          string               `json:"topic,omitempty"`
	Module         string               `json:"module,omitempty"`
	Rules          *engine.Rules        `json:"rules"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	Events         []eventlog.Record    `json:"events,omitempty"`
	Mishaps        []questionset.Mishap `json:"mishaps,omitempty"`
}
