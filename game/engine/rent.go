package engine

import (
	"fmt"
	"math"

	"github.com/scienceboard/scienceboard/game/board"
)

// rentMultiplier returns the multiplier applied to a property's base rent.
// A subtheme group split between owners earns at the reduced split rate; a
// fully held group earns on the rent curve at the group's build level.
func (e *GameEngine) rentMultiplier(t *board.Tile) float64 {
	if !t.Owner.IsOwned() {
		return 0
	}
	group := board.SubgroupTiles(e.state.Board, *t)
	for _, gt := range group {
		if gt.Owner != t.Owner {
			return e.rules.SplitGroupMultiplier
		}
	}
	level := t.Level
	if level > MaxLevel {
		level = MaxLevel
	}
	return e.rules.RentCurve[level]
}

// rentFor computes the fee due on landing. Sequencing cores charge a flat
// fee that ignores build levels and group ownership.
func (e *GameEngine) rentFor(t *board.Tile) int {
	if t.Type == board.SequencingCore {
		return t.BaseRent
	}
	return int(math.Floor(float64(t.BaseRent) * e.rentMultiplier(t)))
}

// RentOn returns the fee a visitor would currently owe on the given tile.
func (e *GameEngine) RentOn(tileID int) (int, error) {
	t, err := e.tile(tileID)
	if err != nil {
		return 0, err
	}
	if t.Type != board.Property && t.Type != board.SequencingCore {
		return 0, fmt.Errorf("%w: tile %d charges no rent", ErrInvalidTile, tileID)
	}
	return e.rentFor(t), nil
}
