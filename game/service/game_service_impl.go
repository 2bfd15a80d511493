package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/eventlog"
	"github.com/scienceboard/scienceboard/game/questionset"
)

var (
	ErrNoSuchDataset = errors.New("dataset not available")
	ErrEmptyBoard    = errors.New("selection produced no playable board")
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	sessions SessionManager
	rules    RulesManager
	datasets DatasetManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance.
func NewGameService(sessions SessionManager, rules RulesManager, datasets DatasetManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		rules:    rules,
		datasets: datasets,
	}
}

// CreateSession builds a board from the requested dataset selection and
// starts a new game on it.
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.resolveRules(req.Rules)
	if err != nil {
		return nil, err
	}

	rows, err := s.datasets.Load(req.Dataset)
	if err != nil {
		available, listErr := s.datasets.List()
		if listErr == nil && len(available) > 0 {
			var ids []string
			for _, info := range available {
				ids = append(ids, info.DatasetID)
			}
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrNoSuchDataset, req.Dataset, ids)
		}
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDataset, req.Dataset)
	}

	qs := questionset.Build(rows, questionset.Filter{BigTopic: req.Topic, Module: req.Module})
	tiles := board.Build(qs, rules.Pricing)
	if len(tiles) == 0 {
		return nil, ErrEmptyBoard
	}
	s.resolveImages(tiles)

	players := req.Players
	if players == 0 {
		players = 1
	}

	opts := []engine.Option{engine.WithMishaps(questionset.Mishaps(rows))}
	if req.Seed != nil {
		opts = append(opts, engine.WithRand(engine.NewRand(*req.Seed)))
	}

	eng, err := engine.NewEngine(tiles, players, rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	// Let the session manager generate the ID.
	sess, err := s.sessions.Create("", &Session{
		Engine:  eng,
		Rules:   rules,
		Dataset: req.Dataset,
		Topic:   req.Topic,
		Module:  req.Module,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess.Info(), nil
}

// resolveImages rewrites question image references into URLs clients can
// fetch, so the board ships ready to render.
func (s *gameServiceImpl) resolveImages(tiles []board.Tile) {
	for i := range tiles {
		for j := range tiles[i].Questions {
			tiles[i].Questions[j].Image = s.datasets.ResolveImage(tiles[i].Questions[j].Image)
		}
		for j := range tiles[i].Quiz {
			tiles[i].Quiz[j].Image = s.datasets.ResolveImage(tiles[i].Quiz[j].Image)
		}
	}
}

func (s *gameServiceImpl) resolveRules(name string) (*engine.Rules, error) {
	if name == "" {
		return s.rules.GetDefault(), nil
	}
	rules, err := s.rules.LoadRules(name)
	if err != nil {
		available, listErr := s.rules.ListRules()
		if listErr == nil && len(available) > 0 {
			var ids []string
			for _, info := range available {
				ids = append(ids, info.RulesID)
			}
			return nil, fmt.Errorf("rule set %q not found (available: %v)", name, ids)
		}
		return nil, fmt.Errorf("failed to load rule set %s: %w", name, err)
	}
	return rules, nil
}

// GetSession retrieves session information.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Info(), nil
}

// ListSessions returns all active sessions.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sess.Info())
	}
	return result, nil
}

// DeleteSession removes a session.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// ApplyCommand executes a player command on a session. The result carries
// the new state and only the log events this command produced.
func (s *gameServiceImpl) ApplyCommand(ctx context.Context, sessionID string, cmd engine.Command) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	logBefore := sess.Engine.EventLog().Len()
	if err := sess.Engine.Apply(cmd); err != nil {
		return nil, err
	}

	// Auto-save after every applied command
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after command: %v\n", sessionID, err)
	}

	state := sess.Engine.GetState()
	records := sess.Engine.EventLog().Records()
	return &CommandResult{
		GameState: state,
		Stage:     state.Stage,
		Feedback:  state.Feedback,
		Events:    records[logBefore:],
	}, nil
}

// GetGameState retrieves the current game state.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetEventLog returns the full transaction log of a session.
func (s *gameServiceImpl) GetEventLog(ctx context.Context, sessionID string) ([]eventlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return sess.Engine.EventLog().Records(), nil
}

// ExportEventLogCSV renders the transaction log as a CSV document for the
// teacher's post-game review.
func (s *gameServiceImpl) ExportEventLogCSV(ctx context.Context, sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	var buf bytes.Buffer
	if err := sess.Engine.EventLog().WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("failed to render event log: %w", err)
	}
	return buf.Bytes(), nil
}

// ListRules returns available rule set presets.
func (s *gameServiceImpl) ListRules(ctx context.Context) ([]*RulesInfo, error) {
	return s.rules.ListRules()
}

// LoadRules loads a specific rule set.
func (s *gameServiceImpl) LoadRules(ctx context.Context, name string) (*engine.Rules, error) {
	return s.rules.LoadRules(name)
}

// SaveRules saves a rule set preset to disk.
func (s *gameServiceImpl) SaveRules(ctx context.Context, name string, rules *engine.Rules) error {
	return s.rules.SaveRules(name, rules)
}

// ListDatasets returns available question datasets.
func (s *gameServiceImpl) ListDatasets(ctx context.Context) ([]*DatasetInfo, error) {
	return s.datasets.List()
}

// ListTopics returns the big topics and modules in a dataset.
func (s *gameServiceImpl) ListTopics(ctx context.Context, dataset string) ([]TopicInfo, error) {
	return s.datasets.Topics(dataset)
}

// StoreDataset validates and saves an uploaded dataset.
func (s *gameServiceImpl) StoreDataset(ctx context.Context, name, text, passphrase string) error {
	return s.datasets.Store(name, text, passphrase)
}

// StoreImage keeps an uploaded question image.
func (s *gameServiceImpl) StoreImage(ctx context.Context, filename string, data []byte) error {
	return s.datasets.StoreImage(filename, data)
}

// Image returns an uploaded question image.
func (s *gameServiceImpl) Image(ctx context.Context, filename string) ([]byte, bool) {
	return s.datasets.Image(filename)
}
