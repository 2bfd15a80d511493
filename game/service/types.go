package service

import (
	"time"

	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/eventlog"
)

// SessionInfo provides information about a game session.
type SessionInfo struct {
	ID             string            `json:"id"`
	Dataset        string            `json:"dataset"`
	Topic          string            `json:"topic,omitempty"`
	Module         string            `json:"module,omitempty"`
	RulesName      string            `json:"rules_name"`
	Players        int               `json:"players"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// CommandResult contains the outcome of one applied command: the new state
// snapshot plus the log events the command emitted.
type CommandResult struct {
	GameState *engine.GameState `json:"game_state"`
	Stage     engine.Stage      `json:"stage"`
	Feedback  string            `json:"feedback,omitempty"`
	Events    []eventlog.Record `json:"events,omitempty"`
}

// CreateSessionRequest carries the knobs for a new game.
type CreateSessionRequest struct {
	Dataset string `json:"dataset"`
	Topic   string `json:"topic,omitempty"`  // big topic filter, empty for all
	Module  string `json:"module,omitempty"` // module filter, empty for all
	Players int    `json:"players"`
	Rules   string `json:"rules,omitempty"` // rule set name, empty for default
	Seed    *int64 `json:"seed,omitempty"`  // fixed RNG seed for replayable games
}

// RulesInfo provides information about a rule set preset.
type RulesInfo struct {
	Filename      string    `json:"filename"`
	RulesID       string    `json:"rules_id"` // The identifier to use for session creation
	Name          string    `json:"name"`     // Display name
	Description   string    `json:"description"`
	StartingMoney int       `json:"starting_money"`
	RentCurve     []float64 `json:"rent_curve"`
}

// DatasetInfo provides information about a question dataset.
type DatasetInfo struct {
	Filename  string   `json:"filename"`
	DatasetID string   `json:"dataset_id"` // The identifier to use for session creation
	Rows      int      `json:"rows"`
	Topics    []string `json:"topics,omitempty"`
}

// TopicInfo is one big topic in a dataset with its modules.
type TopicInfo struct {
	BigTopic string   `json:"big_topic"`
	Modules  []string `json:"modules,omitempty"`
}
