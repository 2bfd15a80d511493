package engine

import (
	"testing"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// scriptRand replays a fixed list of values; Shuffle is the identity so exam
// sheets come out in pool order.
type scriptRand struct {
	values []int
	i      int
}

func (r *scriptRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

func (r *scriptRand) Shuffle(n int, swap func(i, j int)) {}

func testQuestion(prompt string) tsv.Question {
	ans := 0
	return tsv.Question{
		Prompt:      prompt,
		Options:     []string{"right answer", "wrong answer", "also wrong"},
		Answer:      &ans,
		Explanation: "because science",
	}
}

// testBoard is a 12-tile ring: START milestone, three tier-1 properties, a
// sequencing core, three tier-2 properties, a chance tile, and three more
// milestone corners.
func testBoard() []board.Tile {
	qs := []tsv.Question{testQuestion("q1"), testQuestion("q2")}
	quiz := []tsv.Question{testQuestion("exam q")}

	tiles := make([]board.Tile, 0, 12)
	tiles = append(tiles, board.Tile{
		ID: 0, Type: board.Milestone, Name: "Genomics Milestone", Sub: "START", IsStart: true,
		Owner: board.Unowned(), Price: 500, BaseRent: 250, Quiz: quiz,
	})
	for i := 1; i <= 3; i++ {
		tiles = append(tiles, board.Tile{
			ID: i, Type: board.Property, Name: "Microbiology", Group: "Microbiology", Sub: "Bacteria",
			Owner: board.Unowned(), Price: 100, BaseRent: 20, HouseCost: 100, CastleCost: 200, Questions: qs,
		})
	}
	tiles = append(tiles, board.Tile{
		ID: 4, Type: board.SequencingCore, Name: "Sequencing Core",
		Owner: board.Unowned(), Price: 200, BaseRent: 120, Questions: qs,
	})
	for i := 5; i <= 7; i++ {
		tiles = append(tiles, board.Tile{
			ID: i, Type: board.Property, Name: "Microbiology", Group: "Microbiology", Sub: "Viruses",
			Owner: board.Unowned(), Price: 160, BaseRent: 32, HouseCost: 160, CastleCost: 320, Questions: qs,
		})
	}
	tiles = append(tiles, board.Tile{ID: 8, Type: board.Chance, Name: "Lab Mishap", Owner: board.Unowned()})
	for i := 9; i <= 11; i++ {
		tiles = append(tiles, board.Tile{
			ID: i, Type: board.Milestone, Name: "Milestone",
			Owner: board.Unowned(), Price: 500, BaseRent: 250, Quiz: quiz,
		})
	}
	return tiles
}

func newTestEngine(t *testing.T, players int, rng Rand) *GameEngine {
	t.Helper()
	if rng == nil {
		rng = &scriptRand{}
	}
	e, err := NewEngine(testBoard(), players, DefaultRules(), WithRand(rng))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

// landOn teleports the current player and resolves the tile, bypassing dice.
func landOn(t *testing.T, e *GameEngine, tileID int) {
	t.Helper()
	e.state.CurrentPlayer().Position = tileID
	if err := e.resolveLanding(); err != nil {
		t.Fatalf("resolveLanding on tile %d failed: %v", tileID, err)
	}
}

func apply(t *testing.T, e *GameEngine, cmd Command) {
	t.Helper()
	if err := e.Apply(cmd); err != nil {
		t.Fatalf("Apply(%s) failed: %v", cmd.Type, err)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	s := e.GetState()

	if s.Stage != StageIdle {
		t.Errorf("expected stage idle, got %s", s.Stage)
	}
	if len(s.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(s.Players))
	}
	if s.Players[0].Name != "Red Team" || s.Players[1].Name != "Blue Team" {
		t.Errorf("unexpected player names: %s, %s", s.Players[0].Name, s.Players[1].Name)
	}
	for _, p := range s.Players {
		if p.Money != 2500 {
			t.Errorf("player %s should start with 2500, got %d", p.Name, p.Money)
		}
		if p.Position != 0 {
			t.Errorf("player %s should start at tile 0, got %d", p.Name, p.Position)
		}
	}
}

func TestNewEngineSoloPlayerIsCandidate(t *testing.T) {
	e := newTestEngine(t, 1, nil)
	if got := e.GetState().Players[0].Name; got != "Candidate" {
		t.Errorf("solo player should be named Candidate, got %q", got)
	}
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, 2, DefaultRules()); err == nil {
		t.Error("expected error for empty board")
	}
	if _, err := NewEngine(testBoard(), 0, DefaultRules()); err == nil {
		t.Error("expected error for zero players")
	}
	if _, err := NewEngine(testBoard(), 5, DefaultRules()); err == nil {
		t.Error("expected error for too many players")
	}
	bad := DefaultRules()
	bad.RentCurve = []float64{1, 2}
	if _, err := NewEngine(testBoard(), 2, bad); err == nil {
		t.Error("expected error for invalid rules")
	}
}

func TestRollMovesPlayerAndResolvesTile(t *testing.T) {
	// Dice scripted to 1 and 2: player moves from 0 to tile 3, an unowned
	// property, so a question opens.
	rng := &scriptRand{values: []int{0, 1, 0}}
	e := newTestEngine(t, 2, rng)

	apply(t, e, Command{Type: CmdRoll})
	s := e.GetState()

	if got := s.Players[0].Position; got != 3 {
		t.Errorf("expected position 3, got %d", got)
	}
	if s.Stage != StageQuestion {
		t.Errorf("expected question stage, got %s", s.Stage)
	}
	if s.Prompt == nil || s.Prompt.Question == nil {
		t.Fatal("expected a question prompt")
	}
	if s.TotalTurns != 1 {
		t.Errorf("expected total turns 1, got %d", s.TotalTurns)
	}
}

func TestRollOnlyInIdle(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	landOn(t, e, 1)
	if err := e.Apply(Command{Type: CmdRoll}); err == nil {
		t.Error("expected roll during a question to be rejected")
	}
}

func TestPassGoBonus(t *testing.T) {
	// From tile 10, dice 3+4 wrap past START to tile 5.
	rng := &scriptRand{values: []int{2, 3, 0}}
	e := newTestEngine(t, 2, rng)
	e.state.Players[0].Position = 10

	apply(t, e, Command{Type: CmdRoll})
	p := e.GetState().Players[0]

	if p.Position != 5 {
		t.Errorf("expected position 5 after wrap, got %d", p.Position)
	}
	// 2500 + 200 pass-go bonus, nothing charged yet on the question stage.
	if p.Money != 2700 {
		t.Errorf("expected 2700 after pass-go bonus, got %d", p.Money)
	}
}

func TestAcquisitionCorrectAnswerThenBuy(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	landOn(t, e, 1)

	apply(t, e, Command{Type: CmdAnswer, Option: 0})
	if e.state.Stage != StageDecision {
		t.Fatalf("expected decision stage after correct answer, got %s", e.state.Stage)
	}

	apply(t, e, Command{Type: CmdBuy})
	s := e.GetState()
	tile, _ := e.tile(1)

	if !tile.Owner.IsPlayer(0) {
		t.Error("tile should belong to player 0 after purchase")
	}
	if s.Players[0].Money != 2400 {
		t.Errorf("expected 2400 after buying a $100 tile, got %d", s.Players[0].Money)
	}
	if s.Turn != 1 {
		t.Errorf("buying should pass the turn, got turn %d", s.Turn)
	}
	if s.Stage != StageIdle {
		t.Errorf("expected idle for the next player, got %s", s.Stage)
	}
}

func TestAcquisitionWrongAnswerCostsPenalty(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	landOn(t, e, 1)

	apply(t, e, Command{Type: CmdAnswer, Option: 1})
	s := e.GetState()

	if s.Stage != StageFeedback {
		t.Fatalf("expected feedback stage, got %s", s.Stage)
	}
	if s.Players[0].Money != 2480 {
		t.Errorf("expected 2480 after $20 penalty, got %d", s.Players[0].Money)
	}
	tile, _ := e.tile(1)
	if tile.Owner.IsOwned() {
		t.Error("tile must stay unowned after a wrong answer")
	}

	apply(t, e, Command{Type: CmdAcknowledge})
	if s.Turn != 1 {
		t.Errorf("acknowledging feedback should pass the turn, got %d", s.Turn)
	}
}

func TestSkipPassesTurnWithoutPurchase(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	landOn(t, e, 1)
	apply(t, e, Command{Type: CmdAnswer, Option: 0})
	apply(t, e, Command{Type: CmdSkip})

	tile, _ := e.tile(1)
	if tile.Owner.IsOwned() {
		t.Error("tile should stay unowned after skipping")
	}
	if e.state.Turn != 1 {
		t.Errorf("skip should pass the turn, got %d", e.state.Turn)
	}
}

func TestBuyRequiresFunds(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Players[0].Money = 50
	landOn(t, e, 1)
	apply(t, e, Command{Type: CmdAnswer, Option: 0})

	if err := e.Apply(Command{Type: CmdBuy}); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if e.state.Stage != StageDecision {
		t.Errorf("failed buy should leave the decision open, got %s", e.state.Stage)
	}
}

func TestOwnTileIsAFriendlyStop(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Board[1].Owner = board.PlayerOwner(0)
	landOn(t, e, 1)

	if e.state.Stage != StageMessage {
		t.Fatalf("expected message stage on own tile, got %s", e.state.Stage)
	}
	apply(t, e, Command{Type: CmdAcknowledge})

	// The notice dismisses back to idle without passing the turn.
	if e.state.Turn != 0 {
		t.Errorf("own-tile stop must not pass the turn, got turn %d", e.state.Turn)
	}
	if e.state.Stage != StageIdle {
		t.Errorf("expected idle, got %s", e.state.Stage)
	}
}

func TestRentDefenseCorrectHalvesFee(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Board[1].Owner = board.PlayerOwner(1)
	landOn(t, e, 1)

	if e.state.Stage != StageRentDefense {
		t.Fatalf("expected rent defense, got %s", e.state.Stage)
	}
	// Split group at level 0: rent = floor(20 * 0.5) = 10, halved to 5.
	if e.state.Prompt.Rent != 10 {
		t.Fatalf("expected rent 10, got %d", e.state.Prompt.Rent)
	}

	apply(t, e, Command{Type: CmdAnswer, Option: 0})
	if e.state.Players[0].Money != 2495 {
		t.Errorf("payer should be at 2495, got %d", e.state.Players[0].Money)
	}
	if e.state.Players[1].Money != 2505 {
		t.Errorf("owner should be credited to 2505, got %d", e.state.Players[1].Money)
	}
}

func TestRentDefenseWrongPaysFullFee(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Board[1].Owner = board.PlayerOwner(1)
	landOn(t, e, 1)

	apply(t, e, Command{Type: CmdAnswer, Option: 2})
	if e.state.Players[0].Money != 2490 {
		t.Errorf("payer should be at 2490 after full $10 fee, got %d", e.state.Players[0].Money)
	}
	if e.state.Players[1].Money != 2510 {
		t.Errorf("owner should be at 2510, got %d", e.state.Players[1].Money)
	}
}

func TestRivalTilesAbsorbFees(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Board[1].Owner = board.RivalOwner()
	landOn(t, e, 1)

	apply(t, e, Command{Type: CmdAnswer, Option: 2})
	if e.state.Players[0].Money != 2490 {
		t.Errorf("payer should still be charged, got %d", e.state.Players[0].Money)
	}
	if e.state.Players[1].Money != 2500 {
		t.Errorf("nobody should be credited for rival tiles, got %d", e.state.Players[1].Money)
	}
}

func TestCoreChargesFlatFee(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	e.state.Board[4].Owner = board.PlayerOwner(1)
	landOn(t, e, 4)

	// Cores ignore the multiplier curve entirely.
	if e.state.Prompt.Rent != 120 {
		t.Errorf("expected flat core fee 120, got %d", e.state.Prompt.Rent)
	}
}

func TestMishapAppliesEffectAndPassesTurn(t *testing.T) {
	rng := &scriptRand{values: []int{0}}
	e := newTestEngine(t, 2, rng)
	landOn(t, e, 8)

	s := e.GetState()
	if s.Stage != StageMishap {
		t.Fatalf("expected mishap stage, got %s", s.Stage)
	}
	// fallbackMishaps[0] is a penalty entry.
	if s.Players[0].Money != 2400 {
		t.Errorf("expected 2400 after $100 mishap, got %d", s.Players[0].Money)
	}
	if s.Prompt == nil || s.Prompt.Fact == "" {
		t.Error("mishap prompt should carry a fun fact")
	}

	apply(t, e, Command{Type: CmdAcknowledge})
	if s.Turn != 1 {
		t.Errorf("mishap acknowledgement should pass the turn, got %d", s.Turn)
	}
}

func TestDatasetMishapPoolPreferred(t *testing.T) {
	rng := &scriptRand{values: []int{0}}
	e, err := NewEngine(testBoard(), 2, DefaultRules(), WithRand(rng),
		WithMishaps([]questionset.Mishap{{Message: "Grant windfall! (+$50)", Fact: "nice"}}))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	landOn(t, e, 8)

	if e.state.Players[0].Money != 2550 {
		t.Errorf("expected +50 bonus from dataset mishap, got %d", e.state.Players[0].Money)
	}
}

func TestEventLogRecordsTransactions(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	landOn(t, e, 1)
	apply(t, e, Command{Type: CmdAnswer, Option: 0})
	apply(t, e, Command{Type: CmdBuy})

	recs := e.EventLog().Records()
	if len(recs) < 2 {
		t.Fatalf("expected at least 2 log records, got %d", len(recs))
	}
	last := recs[len(recs)-1]
	if last.EventType != "PURCHASE" {
		t.Errorf("expected PURCHASE event, got %s", last.EventType)
	}
	if last.MoneyBefore != 2500 || last.MoneyAfter != 2400 {
		t.Errorf("expected 2500 -> 2400, got %d -> %d", last.MoneyBefore, last.MoneyAfter)
	}
}

func TestSetStateRejectsNil(t *testing.T) {
	e := newTestEngine(t, 2, nil)
	if err := e.SetState(nil); err == nil {
		t.Error("expected error for nil state")
	}
	if err := e.SetState(&GameState{}); err == nil {
		t.Error("expected error for empty state")
	}
}
