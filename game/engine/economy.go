package engine

import (
	"fmt"
	"math"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/eventlog"
)

// buy completes an acquisition after a correct answer. Buying ends the turn.
func (e *GameEngine) buy() error {
	s := e.state
	if s.Stage != StageDecision {
		return fmt.Errorf("%w: buy in %s", ErrWrongStage, s.Stage)
	}
	p := s.CurrentPlayer()
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}
	if p.Money < t.Price {
		return ErrInsufficientFunds
	}

	e.transact(p.ID, -t.Price, "PURCHASE", "bought tile", t, nil, "")
	t.Owner = board.PlayerOwner(p.ID)
	e.passTurn()
	return nil
}

// skip declines the purchase and passes the turn.
func (e *GameEngine) skip() error {
	if e.state.Stage != StageDecision {
		return fmt.Errorf("%w: skip in %s", ErrWrongStage, e.state.Stage)
	}
	e.passTurn()
	return nil
}

// UpgradeCost returns what the next build level on the tile's sub-group
// would cost, without checking affordability.
func (e *GameEngine) UpgradeCost(tileID int) (int, error) {
	t, err := e.tile(tileID)
	if err != nil {
		return 0, err
	}
	next, err := e.nextLevel(t)
	if err != nil {
		return 0, err
	}
	if next == MaxLevel {
		return t.CastleCost, nil
	}
	return t.HouseCost, nil
}

// nextLevel computes the even-build target level for a sub-group. The whole
// run levels together, so a group knocked uneven (a takeover resets the
// stolen tile to level 0) blocks further building until it is evened out
// again, by downgrades or by losing the levels entirely.
func (e *GameEngine) nextLevel(t *board.Tile) (int, error) {
	if t.Type != board.Property {
		return 0, fmt.Errorf("%w: only properties can be upgraded", ErrInvalidTile)
	}
	group := board.SubgroupTiles(e.state.Board, *t)
	lowest, highest := group[0].Level, group[0].Level
	for _, gt := range group {
		if gt.Level < lowest {
			lowest = gt.Level
		}
		if gt.Level > highest {
			highest = gt.Level
		}
	}
	if lowest != highest {
		return 0, fmt.Errorf("%w: sub-group levels must be evened out before building", ErrInvalidTile)
	}
	if lowest >= MaxLevel {
		return 0, fmt.Errorf("%w: sub-group already at maximum level", ErrInvalidTile)
	}
	return lowest + 1, nil
}

// upgrade raises the build level across a fully owned sub-group. Upgrading
// keeps the turn with the player.
func (e *GameEngine) upgrade(tileID int) error {
	s := e.state
	if s.Stage != StageIdle {
		return fmt.Errorf("%w: upgrade in %s", ErrWrongStage, s.Stage)
	}
	p := s.CurrentPlayer()
	t, err := e.tile(tileID)
	if err != nil {
		return err
	}
	if !board.OwnsFullSubgroup(s.Board, *t, board.PlayerOwner(p.ID)) {
		return fmt.Errorf("%w: whole sub-group must be owned to build", ErrInvalidTile)
	}
	next, err := e.nextLevel(t)
	if err != nil {
		return err
	}
	cost := t.HouseCost
	kind := "lab module"
	if next == MaxLevel {
		cost = t.CastleCost
		kind = "flagship institute"
	}
	if p.Money < cost {
		return ErrInsufficientFunds
	}

	e.transact(p.ID, -cost, "UPGRADE", fmt.Sprintf("built %s (level %d)", kind, next), t, nil, "")
	for i := range s.Board {
		gt := &s.Board[i]
		if gt.Type == board.Property && gt.Group == t.Group && gt.Sub == t.Sub && gt.Level < next {
			gt.Level = next
		}
	}
	return nil
}

// assetValue is the total a tile can recover through liquidation: half the
// deed price plus half of every build level sunk into it.
func assetValue(t board.Tile) int {
	return int(math.Floor(float64(t.Price+t.Level*t.HouseCost) * 0.5))
}

// liquidate sells one asset during debt resolution. Built-up properties are
// downgraded one level across the sub-group before the deed itself can be
// sold. Once the player is solvent the turn passes.
func (e *GameEngine) liquidate(tileID int) error {
	s := e.state
	if s.Stage != StageLiquidation {
		return fmt.Errorf("%w: liquidate in %s", ErrWrongStage, s.Stage)
	}
	p := s.CurrentPlayer()
	t, err := e.tile(tileID)
	if err != nil {
		return err
	}
	if !t.Owner.IsPlayer(p.ID) {
		return fmt.Errorf("%w: you can only liquidate your own assets", ErrInvalidTile)
	}

	if t.Level > 0 {
		group := board.SubgroupTiles(s.Board, *t)
		refund := int(math.Floor(float64(t.HouseCost)*0.5)) * len(group)
		e.transact(p.ID, refund, "LIQUIDATION", "downgraded sub-group", t, nil, "")
		for i := range s.Board {
			gt := &s.Board[i]
			if gt.Type == board.Property && gt.Group == t.Group && gt.Sub == t.Sub && gt.Level > 0 {
				gt.Level--
			}
		}
	} else {
		refund := int(math.Floor(float64(t.Price) * 0.5))
		e.transact(p.ID, refund, "LIQUIDATION", "sold tile", t, nil, "")
		t.Owner = board.Unowned()
		t.Level = 0
	}

	if p.Money >= 0 {
		e.passTurn()
		return nil
	}

	// Out of assets with debt remaining: fall through to the grant.
	for _, bt := range s.Board {
		if bt.Owner.IsPlayer(p.ID) {
			return nil
		}
	}
	s.Stage = StageGrantIntro
	return nil
}

// CanBuyChaosToken reports whether the token market is open: every
// milestone must be claimed before takeovers begin.
func (e *GameEngine) CanBuyChaosToken() bool {
	milestones := board.Milestones(e.state.Board)
	if len(milestones) == 0 {
		return false
	}
	for _, t := range milestones {
		if !t.Owner.IsOwned() {
			return false
		}
	}
	return true
}

// buyChaosToken purchases a takeover token. Buying keeps the turn.
func (e *GameEngine) buyChaosToken() error {
	s := e.state
	if s.Stage != StageIdle {
		return fmt.Errorf("%w: buy_chaos_token in %s", ErrWrongStage, s.Stage)
	}
	if !e.CanBuyChaosToken() {
		return ErrTokensLocked
	}
	p := s.CurrentPlayer()
	if p.Money < e.rules.ChaosTokenPrice {
		return ErrInsufficientFunds
	}
	e.transact(p.ID, -e.rules.ChaosTokenPrice, "CHAOS_TOKEN", "bought token", nil, nil, "")
	p.ChaosTokens++
	return nil
}

// useChaosToken opens a hostile takeover of another owner's property. The
// token is not consumed until the question is answered.
func (e *GameEngine) useChaosToken(tileID int) error {
	s := e.state
	if s.Stage != StageIdle {
		return fmt.Errorf("%w: use_chaos_token in %s", ErrWrongStage, s.Stage)
	}
	p := s.CurrentPlayer()
	if p.ChaosTokens <= 0 {
		return ErrNoChaosTokens
	}
	t, err := e.tile(tileID)
	if err != nil {
		return err
	}
	if t.Type != board.Property || !t.Owner.IsOwned() || t.Owner.IsPlayer(p.ID) {
		return fmt.Errorf("%w: takeover target must be a property held by someone else", ErrInvalidTile)
	}

	q := takeoverQuestionBank[e.rng.Intn(len(takeoverQuestionBank))]
	s.Stage = StageChaosQuestion
	s.Prompt = &ActivePrompt{TileID: t.ID, Question: &q, Owner: t.Owner}
	return nil
}

// answerChaos resolves the takeover question. The token is spent either way.
// A correct answer buys the tile at half price (the owner is compensated
// unless it is the rival lab); a wrong one costs a penalty fee.
func (e *GameEngine) answerChaos(option int) error {
	s := e.state
	p := s.CurrentPlayer()
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}
	p.ChaosTokens--

	if isCorrect(s.Prompt.Question, option) {
		cost := int(math.Floor(float64(t.Price) * 0.5))
		if p.Money < cost {
			correct := true
			e.record(eventlog.Record{
				EventType:   "CHAOS_TAKEOVER",
				PlayerIndex: p.ID,
				PlayerName:  p.Name,
				Action:      "takeover aborted",
				TileID:      t.ID,
				TileName:    t.Name,
				Correct:     &correct,
				Notes:       "insufficient funds",
			})
			s.Stage = StageFeedback
			s.Feedback = "Correct, but you cannot fund the takeover. The token is spent."
			return nil
		}
		correct := true
		e.settleFee(p.ID, t, cost, "CHAOS_TAKEOVER", &correct)
		t.Owner = board.PlayerOwner(p.ID)
		t.Level = 0
		s.Stage = StageFeedback
		s.Feedback = fmt.Sprintf("Takeover complete! %s changes hands for $%d.", t.Name, cost)
		return nil
	}

	penalty := int(math.Floor(float64(t.BaseRent) * 0.5))
	if penalty < 20 {
		penalty = 20
	}
	wrong := false
	e.transact(p.ID, -penalty, "CHAOS_TAKEOVER", "takeover failed", t, &wrong, "")
	s.Stage = StageFeedback
	s.Feedback = fmt.Sprintf("Takeover failed. Legal fees of $%d and the token is spent.", penalty)
	return nil
}
