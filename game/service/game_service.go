package service

import (
	"context"
	"time"

	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/eventlog"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// GameService defines all game-related operations.
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	ApplyCommand(ctx context.Context, sessionID string, cmd engine.Command) (*CommandResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetEventLog(ctx context.Context, sessionID string) ([]eventlog.Record, error)
	ExportEventLogCSV(ctx context.Context, sessionID string) ([]byte, error)

	// Rule sets
	ListRules(ctx context.Context) ([]*RulesInfo, error)
	LoadRules(ctx context.Context, name string) (*engine.Rules, error)
	SaveRules(ctx context.Context, name string, rules *engine.Rules) error

	// Datasets
	ListDatasets(ctx context.Context) ([]*DatasetInfo, error)
	ListTopics(ctx context.Context, dataset string) ([]TopicInfo, error)
	StoreDataset(ctx context.Context, name, text, passphrase string) error
	StoreImage(ctx context.Context, filename string, data []byte) error
	Image(ctx context.Context, filename string) ([]byte, bool)
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id string, sess *Session) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// RulesManager handles rule set loading.
type RulesManager interface {
	LoadRules(name string) (*engine.Rules, error)
	ListRules() ([]*RulesInfo, error)
	GetDefault() *engine.Rules
	SaveRules(name string, rules *engine.Rules) error
}

// DatasetManager handles question dataset access.
type DatasetManager interface {
	Load(name string) ([]tsv.Row, error)
	List() ([]*DatasetInfo, error)
	Topics(name string) ([]TopicInfo, error)
	Store(name, text, passphrase string) error
	StoreImage(filename string, data []byte) error
	Image(filename string) ([]byte, bool)
	ResolveImage(image string) string
}

// Session represents an active game session.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Rules          *engine.Rules
	Dataset        string
	Topic          string
	Module         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Info builds the API view of a session.
func (s *Session) Info() *SessionInfo {
	return &SessionInfo{
		ID:             s.ID,
		Dataset:        s.Dataset,
		Topic:          s.Topic,
		Module:         s.Module,
		RulesName:      s.Rules.Name,
		Players:        len(s.Engine.GetState().Players),
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		GameState:      s.Engine.GetState(),
	}
}
