package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/service"
	"github.com/scienceboard/scienceboard/game/tsv"
)

func testTiles() []board.Tile {
	answer := 0
	question := tsv.Question{
		Prompt:  "Which microscope resolves viruses?",
		Options: []string{"Electron", "Light", "Dissecting"},
		Answer:  &answer,
	}
	return []board.Tile{
		{ID: 0, Type: board.Milestone, Name: "Milestone", Sub: "START", IsStart: true, Owner: board.Unowned(), Price: 500, BaseRent: 250, Quiz: []tsv.Question{question}},
		{ID: 1, Type: board.Property, Name: "Bacteria", Group: "Bacteria", Sub: "Cocci", Owner: board.Unowned(), Price: 100, BaseRent: 20, HouseCost: 100, CastleCost: 200, Questions: []tsv.Question{question}},
		{ID: 2, Type: board.Property, Name: "Bacteria", Group: "Bacteria", Sub: "Cocci", Owner: board.Unowned(), Price: 100, BaseRent: 20, HouseCost: 100, CastleCost: 200, Questions: []tsv.Question{question}},
		{ID: 3, Type: board.SequencingCore, Name: "Core Facility", Owner: board.Unowned(), Price: 200, BaseRent: 120, Questions: []tsv.Question{question}},
		{ID: 4, Type: board.Chance, Name: "Lab Mishap", Owner: board.Unowned()},
		{ID: 5, Type: board.Milestone, Name: "Bacteria", Owner: board.Unowned(), Price: 500, BaseRent: 250, Quiz: []tsv.Question{question}},
	}
}

func newTestSession(t *testing.T, players int) *service.Session {
	t.Helper()
	rules := engine.DefaultRules()
	eng, err := engine.NewEngine(testTiles(), players, rules, engine.WithRand(engine.NewRand(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return &service.Session{
		Engine:  eng,
		Rules:   rules,
		Dataset: "micro",
		Topic:   "Microbiology",
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", newTestSession(t, 2))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.CreatedAt.IsZero() || session.LastAccessedAt.IsZero() {
			t.Error("Expected timestamps to be stamped on create")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", newTestSession(t, 1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID == "" {
			t.Error("Expected auto-generated session ID")
		}
		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", newTestSession(t, 1))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", newTestSession(t, 1))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("nil session", func(t *testing.T) {
		_, err := manager.Create("nil-test", nil)
		if err != ErrNilSession {
			t.Errorf("Expected ErrNilSession, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()

	created, _ := manager.Create("get-test", newTestSession(t, 2))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()

	manager.Create("delete-test", newTestSession(t, 1))

	t.Run("delete existing session", func(t *testing.T) {
		err := manager.Delete("delete-test")
		if err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		_, err = manager.Get("delete-test")
		if err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		err := manager.Delete("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", newTestSession(t, 1))
		err := manager.Delete("CASE-TEST")
		if err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		_, err = manager.Get("case-test")
		if err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()

	session1, _ := manager.Create("list-1", newTestSession(t, 1))
	session2, _ := manager.Create("list-2", newTestSession(t, 2))
	session3, _ := manager.Create("list-3", newTestSession(t, 3))

	sessions := manager.List()

	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}

	foundSessions := make(map[string]bool)
	for _, s := range sessions {
		foundSessions[s.ID] = true
	}

	for _, s := range []*service.Session{session1, session2, session3} {
		if !foundSessions[s.ID] {
			t.Errorf("Session %s not found in list", s.ID)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()

	active, _ := manager.Create("active", newTestSession(t, 1))
	expired, _ := manager.Create("expired", newTestSession(t, 1))

	// Simulate expired session
	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	deleted := manager.CleanupExpiredSessions(1 * time.Hour)

	if deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}

	_, err := manager.Get("expired")
	if err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}

	_, err = manager.Get("active")
	if err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()

	session, _ := manager.Create("access-test", newTestSession(t, 1))
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	err := manager.UpdateLastAccessed("access-test")
	if err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("concurrent-%d", id)
			_, err := manager.Create(sessionID, newTestSession(t, 1))
			if err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() != 100 {
		t.Errorf("Expected 100 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()

	session1, _ := manager.Create("iso-1", newTestSession(t, 1))
	session2, _ := manager.Create("iso-2", newTestSession(t, 1))

	// Advance session 1 only
	if err := session1.Engine.Apply(engine.Command{Type: engine.CmdRoll}); err != nil {
		t.Fatalf("Roll failed: %v", err)
	}

	if session2.Engine.GetState().TotalTurns != 0 {
		t.Error("Session 2 should not be affected by session 1 commands")
	}
	if session1.Engine.GetState().TotalTurns != 1 {
		t.Error("Session 1 should have advanced")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", newTestSession(t, 1))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character ID, got %d", len(session.ID))
		}
	}
}
