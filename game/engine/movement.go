package engine

import (
	"fmt"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/eventlog"
)

// AdvancePosition moves a token steps tiles forward on a ring of boardLen
// tiles and reports whether the token passed or landed on the start tile.
// It is a pure function so clients can animate the hop sequence themselves.
func AdvancePosition(start, steps, boardLen int) (end int, passedGo bool) {
	end = (start + steps) % boardLen
	passedGo = start+steps >= boardLen
	return end, passedGo
}

// roll throws the dice, advances the current player, and resolves the
// landing tile.
func (e *GameEngine) roll() error {
	s := e.state
	if s.Stage != StageIdle {
		return fmt.Errorf("%w: roll in %s", ErrWrongStage, s.Stage)
	}
	p := s.CurrentPlayer()
	if p.Money < 0 {
		return ErrInDebt
	}

	steps := 0
	for i := range s.Dice {
		s.Dice[i] = e.rng.Intn(e.rules.DiceSides) + 1
		steps += s.Dice[i]
	}
	s.TotalTurns++

	end, passedGo := AdvancePosition(p.Position, steps, len(s.Board))
	from := p.Position
	p.Position = end

	e.record(eventlog.Record{
		EventType:   "ROLL",
		PlayerIndex: p.ID,
		PlayerName:  p.Name,
		Action:      fmt.Sprintf("rolled %d", steps),
		Notes:       fmt.Sprintf("moved %d -> %d", from, end),
	})

	if passedGo {
		e.transact(p.ID, e.rules.PassGoBonus, "PASS_GO", "grant renewal", nil, nil,
			fmt.Sprintf(e.rules.Messages.PassGo, e.rules.PassGoBonus))
	}

	return e.resolveLanding()
}

// resolveLanding inspects the tile under the current player and sets the
// stage for whatever interaction it triggers.
func (e *GameEngine) resolveLanding() error {
	s := e.state
	p := s.CurrentPlayer()
	t, err := e.tile(p.Position)
	if err != nil {
		return err
	}

	// Own tile first: a friendly stop, not an event. Acknowledging it keeps
	// the turn with the same player.
	if t.Owner.IsPlayer(p.ID) {
		s.Stage = StageMessage
		s.Prompt = &ActivePrompt{TileID: t.ID, Owner: t.Owner, Message: e.rules.Messages.OwnTile}
		return nil
	}

	switch t.Type {
	case board.Milestone:
		if !t.Owner.IsOwned() {
			if p.Money < t.Price {
				s.Stage = StageFeedback
				s.Feedback = e.rules.Messages.InsufficientFunds
				return nil
			}
			s.Stage = StageMilestoneIntro
			s.Prompt = &ActivePrompt{TileID: t.ID, Owner: t.Owner}
			return nil
		}
		s.Stage = StageChallengeIntro
		s.Prompt = &ActivePrompt{TileID: t.ID, Owner: t.Owner, Rent: t.BaseRent}
		return nil

	case board.Chance:
		e.triggerMishap(t)
		return nil
	}

	// Property or sequencing core.
	if len(t.Questions) == 0 {
		s.Stage = StageFeedback
		s.Feedback = "Event triggered."
		return nil
	}
	q := t.Questions[e.rng.Intn(len(t.Questions))]

	if t.Owner.IsOwned() {
		rent := e.rentFor(t)
		s.Stage = StageRentDefense
		s.Prompt = &ActivePrompt{TileID: t.ID, Question: &q, Rent: rent, Owner: t.Owner}
		return nil
	}

	s.Stage = StageQuestion
	s.Prompt = &ActivePrompt{TileID: t.ID, Question: &q, Owner: t.Owner}
	return nil
}

// triggerMishap draws a lab mishap and applies its money effect immediately;
// the stage then waits for an acknowledgement before passing the turn.
func (e *GameEngine) triggerMishap(t *board.Tile) {
	pool := e.mishaps
	if len(pool) == 0 {
		pool = fallbackMishaps
	}
	m := pool[e.rng.Intn(len(pool))]
	p := e.state.CurrentPlayer()

	amount := -e.rules.MishapPenalty
	if mishapIsPositive(m.Message) {
		amount = e.rules.MishapBonus
	}
	e.transact(p.ID, amount, "LAB_MISHAP", "mishap", t, nil, m.Message)

	e.state.Stage = StageMishap
	e.state.Prompt = &ActivePrompt{TileID: t.ID, Message: m.Message, Fact: m.Fact}
}
