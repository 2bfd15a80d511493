// Package config provides rule set management for Science Around the Board.
//
// The config package handles:
//   - Loading rule sets from JSON files
//   - Rule set validation and verification
//   - Default rule set management
//   - Rule set discovery and listing
//
// Rule Set Format:
//
// Rule sets are stored as JSON files in the configs directory. Each preset
// defines the game economy:
//   - Starting money, pass-go bonus, and question penalty
//   - Tile pricing (property tiers, cores, milestones) and base rents
//   - The rent multiplier curve and the split-group rate
//   - Exam sizes, pass targets, and the mistake budget
//   - Chaos token pricing and the emergency grant bonus
//
// A preset only needs to state what it changes; omitted fields keep the
// classic defaults.
//
// Available Rule Sets:
//
//   - classic: the standard economy with the 1/3/6/10/20 rent curve
//   - legacy: the gentler 1/1.5/2/3/5 curve from early playtests
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific rule set
//	rules, err := manager.LoadRules("legacy")
//
//	// Get the default rule set
//	defaults := manager.GetDefault()
//
//	// List available rule sets
//	infos, err := manager.ListRules()
package config
