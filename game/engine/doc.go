// Package engine implements the turn loop and economy of Science Around the
// Board.
//
// The engine package covers the game mechanics:
//   - Dice rolls, token movement, and landing resolution
//   - Acquisition questions, rent defense, and milestone exams
//   - The upgrade economy, debt resolution, and the emergency grant
//   - Chaos token takeovers and the victory condition
//
// Core Types:
//
// The Engine interface defines the contract for game operations, implemented
// by GameEngine. All mutation flows through Apply, which takes a Command and
// validates it against the current Stage, so transports stay thin and every
// legal transition lives in one place. GameState is the full serializable
// state; Rules carries the tunable economy loaded from JSON presets.
//
// Usage:
//
//	tiles := board.Build(qs, rules.Pricing)
//	eng, err := engine.NewEngine(tiles, 2, rules, engine.WithRand(engine.NewRand(seed)))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = eng.Apply(engine.Command{Type: engine.CmdRoll})
//	state := eng.GetState()
//
// Randomness is injected through the Rand interface, so a seeded source
// replays a game move for move.
package engine
