package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/service"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, sess *service.Session) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	sess.ID = id
	sess.CreatedAt = time.Now()
	sess.LastAccessedAt = time.Now()
	m.sessions[id] = sess
	return sess, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	m.saves++
	return nil
}

// MockRulesManager implements service.RulesManager for testing
type MockRulesManager struct {
	rules map[string]*engine.Rules
}

func NewMockRulesManager() *MockRulesManager {
	classic := engine.DefaultRules()
	legacy := engine.DefaultRules()
	legacy.Name = "Legacy"
	legacy.RentCurve = []float64{1, 1.5, 2, 3, 5}
	return &MockRulesManager{
		rules: map[string]*engine.Rules{
			"classic": classic,
			"legacy":  legacy,
		},
	}
}

func (m *MockRulesManager) LoadRules(name string) (*engine.Rules, error) {
	if rules, exists := m.rules[name]; exists {
		return rules, nil
	}
	return nil, errors.New("rule set not found")
}

func (m *MockRulesManager) ListRules() ([]*service.RulesInfo, error) {
	var infos []*service.RulesInfo
	for id, rules := range m.rules {
		infos = append(infos, &service.RulesInfo{
			Filename:      id + ".json",
			RulesID:       id,
			Name:          rules.Name,
			StartingMoney: rules.StartingMoney,
			RentCurve:     rules.RentCurve,
		})
	}
	return infos, nil
}

func (m *MockRulesManager) GetDefault() *engine.Rules {
	return m.rules["classic"]
}

func (m *MockRulesManager) SaveRules(name string, rules *engine.Rules) error {
	m.rules[name] = rules
	return nil
}

// MockDatasetManager implements service.DatasetManager for testing
type MockDatasetManager struct {
	datasets map[string][]tsv.Row
	images   map[string][]byte
}

const mockTSV = "type\tbigTopic\tmodule\ttheme\tsubtheme\tquestion\toption1\toption2\tcorrectIndex\texplanation\n" +
	"property\tMicro\tIntro\tBacteria\tCocci\tWhich shape is a coccus?\tSphere\tRod\t1\tSpheres.\n" +
	"property\tMicro\tIntro\tBacteria\tBacilli\tWhich shape is a bacillus?\tRod\tSphere\t1\tRods.\n" +
	"milestone\tMicro\tIntro\tBacteria\t\tGram-positive walls are thick?\tYes\tNo\t1\tThick peptidoglycan.\n"

func NewMockDatasetManager() *MockDatasetManager {
	return &MockDatasetManager{
		datasets: map[string][]tsv.Row{
			"micro": tsv.Parse(mockTSV),
		},
		images: make(map[string][]byte),
	}
}

func (m *MockDatasetManager) Load(name string) ([]tsv.Row, error) {
	if rows, exists := m.datasets[name]; exists {
		return rows, nil
	}
	return nil, errors.New("dataset not found")
}

func (m *MockDatasetManager) List() ([]*service.DatasetInfo, error) {
	var infos []*service.DatasetInfo
	for id, rows := range m.datasets {
		infos = append(infos, &service.DatasetInfo{
			Filename:  id + ".tsv",
			DatasetID: id,
			Rows:      len(rows),
		})
	}
	return infos, nil
}

func (m *MockDatasetManager) Topics(name string) ([]service.TopicInfo, error) {
	if _, exists := m.datasets[name]; !exists {
		return nil, errors.New("dataset not found")
	}
	return []service.TopicInfo{{BigTopic: "Micro", Modules: []string{"Intro"}}}, nil
}

func (m *MockDatasetManager) Store(name, text, passphrase string) error {
	rows := tsv.Parse(text)
	if len(rows) == 0 {
		return errors.New("invalid dataset")
	}
	m.datasets[name] = rows
	return nil
}

func (m *MockDatasetManager) StoreImage(filename string, data []byte) error {
	m.images[filename] = data
	return nil
}

func (m *MockDatasetManager) Image(filename string) ([]byte, bool) {
	data, ok := m.images[filename]
	return data, ok
}

func (m *MockDatasetManager) ResolveImage(image string) string {
	return image
}

func newTestService() (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockRulesManager(), NewMockDatasetManager()), sessions
}

func seed(v int64) *int64 { return &v }

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{
		Dataset: "micro",
		Players: 2,
		Seed:    seed(1),
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if info.ID == "" {
		t.Error("expected a generated session ID")
	}
	if info.Dataset != "micro" {
		t.Errorf("expected dataset micro, got %s", info.Dataset)
	}
	if info.RulesName != "Classic" {
		t.Errorf("expected default Classic rules, got %s", info.RulesName)
	}
	if info.GameState == nil || len(info.GameState.Players) != 2 {
		t.Fatal("expected a state with 2 players")
	}
	if info.GameState.Stage != engine.StageIdle {
		t.Errorf("new games start idle, got %s", info.GameState.Stage)
	}
	// One theme side: START + 8 interior + 3 corners.
	if len(info.GameState.Board) != 12 {
		t.Errorf("expected a 12-tile sparse board, got %d", len(info.GameState.Board))
	}
}

func TestCreateSessionUnknownDataset(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), service.CreateSessionRequest{
		Dataset: "nope",
		Players: 1,
	})
	if err == nil {
		t.Fatal("expected error for unknown dataset")
	}
	if !strings.Contains(err.Error(), "micro") {
		t.Errorf("error should name available datasets, got: %v", err)
	}
}

func TestCreateSessionUnknownRules(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSession(context.Background(), service.CreateSessionRequest{
		Dataset: "micro",
		Players: 1,
		Rules:   "tournament",
	})
	if err == nil {
		t.Fatal("expected error for unknown rule set")
	}
	if !strings.Contains(err.Error(), "classic") {
		t.Errorf("error should name available rule sets, got: %v", err)
	}
}

func TestCreateSessionDefaultsToOnePlayer(t *testing.T) {
	svc, _ := newTestService()

	info, err := svc.CreateSession(context.Background(), service.CreateSessionRequest{Dataset: "micro"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.Players != 1 {
		t.Errorf("expected 1 player by default, got %d", info.Players)
	}
	if info.GameState.Players[0].Name != "Candidate" {
		t.Errorf("solo player should be Candidate, got %s", info.GameState.Players[0].Name)
	}
}

func TestGetListDeleteSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, service.CreateSessionRequest{Dataset: "micro", Players: 1})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := svc.GetSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected session %s, got %s", created.ID, got.ID)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 session, got %d (err %v)", len(list), err)
	}

	if err := svc.DeleteSession(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, created.ID); err == nil {
		t.Error("expected error for deleted session")
	}
}

func TestApplyCommand(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, service.CreateSessionRequest{
		Dataset: "micro",
		Players: 2,
		Seed:    seed(3),
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.ApplyCommand(ctx, created.ID, engine.Command{Type: engine.CmdRoll})
	if err != nil {
		t.Fatalf("ApplyCommand failed: %v", err)
	}
	if result.GameState == nil {
		t.Fatal("expected a state snapshot")
	}
	if result.Stage == engine.StageIdle {
		t.Error("rolling should move to an interaction stage")
	}
	if len(result.Events) == 0 {
		t.Error("a roll should emit log events")
	}
	for _, ev := range result.Events {
		if ev.EventType == "" {
			t.Error("events must carry a type")
		}
	}
	if sessions.saves == 0 {
		t.Error("applied commands should auto-save the session")
	}
}

func TestApplyCommandRejectsInvalid(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, service.CreateSessionRequest{Dataset: "micro", Players: 1, Seed: seed(1)})

	if _, err := svc.ApplyCommand(ctx, created.ID, engine.Command{Type: engine.CmdBuy}); err == nil {
		t.Error("expected buy in idle to be rejected")
	}
	if _, err := svc.ApplyCommand(ctx, "missing", engine.Command{Type: engine.CmdRoll}); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestEventLogAndCSVExport(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateSession(ctx, service.CreateSessionRequest{Dataset: "micro", Players: 1, Seed: seed(9)})
	if _, err := svc.ApplyCommand(ctx, created.ID, engine.Command{Type: engine.CmdRoll}); err != nil {
		t.Fatalf("roll failed: %v", err)
	}

	records, err := svc.GetEventLog(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEventLog failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected log records after a roll")
	}

	data, err := svc.ExportEventLogCSV(ctx, created.ID)
	if err != nil {
		t.Fatalf("ExportEventLogCSV failed: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "eventType,") {
		t.Errorf("CSV should start with the header, got %q", text[:min(len(text), 40)])
	}
	if !strings.Contains(text, "ROLL") {
		t.Error("CSV should contain the roll event")
	}
}

func TestRulesAndDatasetPassthrough(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rules, err := svc.ListRules(ctx)
	if err != nil || len(rules) != 2 {
		t.Errorf("expected 2 rule sets, got %d (err %v)", len(rules), err)
	}

	loaded, err := svc.LoadRules(ctx, "legacy")
	if err != nil || loaded.RentCurve[1] != 1.5 {
		t.Errorf("expected legacy rules, got %+v (err %v)", loaded, err)
	}

	datasets, err := svc.ListDatasets(ctx)
	if err != nil || len(datasets) != 1 {
		t.Errorf("expected 1 dataset, got %d (err %v)", len(datasets), err)
	}

	topics, err := svc.ListTopics(ctx, "micro")
	if err != nil || len(topics) != 1 || topics[0].BigTopic != "Micro" {
		t.Errorf("unexpected topics: %+v (err %v)", topics, err)
	}

	if err := svc.StoreDataset(ctx, "extra", mockTSV, ""); err != nil {
		t.Errorf("StoreDataset failed: %v", err)
	}
	datasets, _ = svc.ListDatasets(ctx)
	if len(datasets) != 2 {
		t.Errorf("expected 2 datasets after upload, got %d", len(datasets))
	}

	if err := svc.StoreImage(ctx, "x.png", []byte{1}); err != nil {
		t.Errorf("StoreImage failed: %v", err)
	}
	if _, ok := svc.Image(ctx, "x.png"); !ok {
		t.Error("expected stored image to be retrievable")
	}
}
