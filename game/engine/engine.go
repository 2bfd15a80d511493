package engine

import (
	"errors"
	"fmt"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/eventlog"
	"github.com/scienceboard/scienceboard/game/questionset"
)

// Sentinel errors returned by Apply. Transport layers map these to client
// error codes.
var (
	ErrWrongStage        = errors.New("command not valid in current stage")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInDebt            = errors.New("player is in debt")
	ErrInvalidTile       = errors.New("invalid tile for this action")
	ErrNoQuestions       = errors.New("no questions available")
	ErrNoChaosTokens     = errors.New("no chaos tokens held")
	ErrTokensLocked      = errors.New("chaos tokens unlock after every milestone is claimed")
	ErrGameOver          = errors.New("game is over")
)

// Engine provides the main interface for game operations. All mutation goes
// through Apply, which validates a Command against the current stage and
// either advances the state or returns an error leaving it untouched.
type Engine interface {
	GetState() *GameState
	SetState(state *GameState) error
	Apply(cmd Command) error
	Rules() *Rules
	EventLog() *eventlog.Log

	// Read helpers for clients.
	IsGameOver() bool
	RentOn(tileID int) (int, error)
	UpgradeCost(tileID int) (int, error)
	CanBuyChaosToken() bool
}

// GameEngine implements the Engine interface.
type GameEngine struct {
	state   *GameState
	rules   *Rules
	rng     Rand
	log     *eventlog.Log
	mishaps []questionset.Mishap
}

// Option customizes a new engine.
type Option func(*GameEngine)

// WithRand injects a randomness source, typically a seeded one for replays
// and tests.
func WithRand(rng Rand) Option {
	return func(e *GameEngine) { e.rng = rng }
}

// WithMishaps sets the lab mishap pool drawn on chance tiles. Without it the
// built-in pool is used.
func WithMishaps(mishaps []questionset.Mishap) Option {
	return func(e *GameEngine) { e.mishaps = mishaps }
}

// NewEngine creates an engine for the given board and player count.
func NewEngine(tiles []board.Tile, playerCount int, rules *Rules, opts ...Option) (*GameEngine, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("engine: board cannot be empty")
	}
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, fmt.Errorf("engine: player count must be between %d and %d, got %d",
			MinPlayers, MaxPlayers, playerCount)
	}

	e := &GameEngine{
		rules: rules,
		log:   eventlog.New(),
		state: &GameState{
			Board:   tiles,
			Players: newPlayers(playerCount, rules.StartingMoney),
			Stage:   StageIdle,
			Dice:    make([]int, rules.DiceCount),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newDefaultRand()
	}
	return e, nil
}

// GetState returns the current game state.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state (used for persistence loading).
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Players) == 0 || len(state.Board) == 0 {
		return fmt.Errorf("state must have players and a board")
	}
	e.state = state
	return nil
}

// Rules returns the active rule set.
func (e *GameEngine) Rules() *Rules {
	return e.rules
}

// EventLog returns the transaction log for this game.
func (e *GameEngine) EventLog() *eventlog.Log {
	return e.log
}

// Mishaps returns the active mishap pool (empty when the built-in pool is in
// use). Persistence stores it so reloaded games keep their dataset's pool.
func (e *GameEngine) Mishaps() []questionset.Mishap {
	return e.mishaps
}

// IsGameOver reports whether someone has won.
func (e *GameEngine) IsGameOver() bool {
	return e.state.Stage == StageWon
}

// Apply validates and executes one player command.
func (e *GameEngine) Apply(cmd Command) error {
	if e.state.Stage == StageWon {
		return ErrGameOver
	}

	switch cmd.Type {
	case CmdRoll:
		return e.roll()
	case CmdAnswer:
		return e.answer(cmd.Option)
	case CmdBuy:
		return e.buy()
	case CmdSkip:
		return e.skip()
	case CmdStartExam:
		return e.startMilestoneExam()
	case CmdDecline:
		return e.decline()
	case CmdAcceptChallenge:
		return e.acceptChallenge()
	case CmdPayFullFee:
		return e.payFullFee()
	case CmdNext:
		return e.examNext()
	case CmdQuitExam:
		return e.quitExam()
	case CmdAcknowledge:
		return e.acknowledge()
	case CmdUpgrade:
		return e.upgrade(cmd.TileID)
	case CmdLiquidate:
		return e.liquidate(cmd.TileID)
	case CmdApplyForGrant:
		return e.applyForGrant()
	case CmdBuyChaosToken:
		return e.buyChaosToken()
	case CmdUseChaosToken:
		return e.useChaosToken(cmd.TileID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}

// acknowledge dismisses the current notice. Informational messages return to
// idle for the same player; outcome screens pass the turn.
func (e *GameEngine) acknowledge() error {
	switch e.state.Stage {
	case StageMessage:
		e.state.Stage = StageIdle
		e.state.Prompt = nil
		return nil
	case StageFeedback, StageMishap, StageGrantResult:
		e.passTurn()
		return nil
	default:
		return fmt.Errorf("%w: acknowledge in %s", ErrWrongStage, e.state.Stage)
	}
}

// passTurn ends the current player's turn. A player who finished the turn in
// debt does not hand the dice over; they are routed into debt resolution
// first and the turn only passes once they are solvent again.
func (e *GameEngine) passTurn() {
	s := e.state
	s.Prompt = nil
	s.Exam = nil
	s.Feedback = ""

	if s.CurrentPlayer().Money < 0 {
		e.enterDebtResolution()
		return
	}

	s.Turn = (s.Turn + 1) % len(s.Players)
	s.Stage = StageIdle
}

// enterDebtResolution routes an insolvent player to liquidation when their
// assets can cover the shortfall, or to the emergency grant when they cannot.
func (e *GameEngine) enterDebtResolution() {
	s := e.state
	p := s.CurrentPlayer()

	assets := 0
	hasAsset := false
	for _, t := range s.Board {
		if t.Owner.IsPlayer(p.ID) {
			hasAsset = true
			assets += assetValue(t)
		}
	}

	if hasAsset && p.Money+assets >= 0 {
		s.Stage = StageLiquidation
		s.Feedback = e.rules.Messages.DebtNotice
		return
	}
	s.Stage = StageGrantIntro
	s.Feedback = e.rules.Messages.DebtNotice
}

// checkWin marks the game won if the given player holds every milestone and
// has never taken the emergency grant.
func (e *GameEngine) checkWin(playerID int) bool {
	s := e.state
	if s.Players[playerID].HasBailedOut {
		return false
	}
	milestones := board.Milestones(s.Board)
	if len(milestones) == 0 {
		return false
	}
	for _, t := range milestones {
		if !t.Owner.IsPlayer(playerID) {
			return false
		}
	}
	s.Stage = StageWon
	s.Winner = &s.Players[playerID].ID
	s.Feedback = fmt.Sprintf(e.rules.Messages.Victory, s.Players[playerID].Name)
	e.record(eventlog.Record{
		EventType:   "GAME_WON",
		PlayerIndex: playerID,
		PlayerName:  s.Players[playerID].Name,
		Action:      "victory",
		Notes:       "all milestones unified",
	})
	return true
}

func (e *GameEngine) tile(id int) (*board.Tile, error) {
	for i := range e.state.Board {
		if e.state.Board[i].ID == id {
			return &e.state.Board[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no tile %d", ErrInvalidTile, id)
}

// record appends an event with the turn counter filled in.
func (e *GameEngine) record(rec eventlog.Record) {
	rec.Turn = e.state.TotalTurns
	e.log.Append(rec)
}

// transact moves money and logs the transaction. Negative amounts debit the
// player; balances may go negative, which passTurn later resolves.
func (e *GameEngine) transact(playerID, amount int, eventType, action string, t *board.Tile, correct *bool, notes string) {
	p := &e.state.Players[playerID]
	before := p.Money
	p.Money += amount
	rec := eventlog.Record{
		EventType:   eventType,
		PlayerIndex: playerID,
		PlayerName:  p.Name,
		Action:      action,
		Amount:      amount,
		MoneyBefore: before,
		MoneyAfter:  p.Money,
		Correct:     correct,
		Notes:       notes,
	}
	if t != nil {
		rec.TileID = t.ID
		rec.TileName = t.Name
	}
	e.record(rec)
}
