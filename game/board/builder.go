// Package board expands a question set into the fixed Monopoly-style 36-tile
// loop and carries the tile/ownership types shared across the engine.
//
// Geometry: 4 corner milestones, each side interior running 3 sub-theme-1
// properties, one sequencing core, 3 sub-theme-2 properties, one Lab Mishap
// chance tile. The start corner (tile 0) is the milestone that closes the
// loop for side 4, so walking forward from START crosses side 1's interior
// before reaching side 1's own corner.
package board

import (
	"math"

	"github.com/scienceboard/scienceboard/game/questionset"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// Side hue pairs: light/dark per price tier, bottom/left/top/right.
var sideHues = [4][2]string{
	{"#F5F5F5", "#CFD8DC"}, // greys
	{"#E3F2FD", "#90CAF9"}, // blues
	{"#E8F5E9", "#A5D6A7"}, // greens
	{"#FFF3E0", "#FFCC80"}, // oranges
}

const (
	coreColor   = "#b0bec5"
	mishapColor = "#ffab91"
	mishapName  = "Lab Mishap"
)

// Build expands a question set into the ordered tile loop. The result is
// deterministic: no randomness is involved, and calling Build twice on the
// same inputs yields identical tile sequences.
//
// A nil side contributes no interior tiles (a board built from a sparse
// dataset is shorter than 36 tiles); the four corners are always present.
func Build(qs *questionset.QuestionSet, pricing Pricing) []Tile {
	if qs == nil {
		qs = &questionset.QuestionSet{Core: questionset.Core{Name: questionset.DefaultCoreName}}
	}

	var defs []tileDef

	// Tile 0 is START: the corner that closes the loop for side 4.
	defs = append(defs, milestoneDef(qs.Sides[3], pricing, true))

	for i := 0; i < 4; i++ {
		defs = append(defs, sideInterior(qs.Sides[i], sideHues[i], qs.Core, pricing)...)
		if i < 3 {
			defs = append(defs, milestoneDef(qs.Sides[i], pricing, false))
		}
	}

	tiles := make([]Tile, len(defs))
	for id, def := range defs {
		tiles[id] = finishTile(def, id, pricing)
	}
	return tiles
}

type tileDef struct {
	Type        TileType
	Name        string
	Color       string
	Group       string
	Sub         string
	Questions   []tsv.Question
	Quiz        []tsv.Question
	Price       int
	FixedAmount int
	IsStart     bool
}

func milestoneDef(side *questionset.Side, pricing Pricing, isStart bool) tileDef {
	def := tileDef{
		Type:  Milestone,
		Name:  "Milestone",
		Price: pricing.MilestonePrice,
	}
	if side != nil {
		def.Name = side.Name
		def.Quiz = side.Quiz
	}
	if isStart {
		def.Sub = "START"
		def.IsStart = true
	}
	return def
}

func sideInterior(side *questionset.Side, hues [2]string, core questionset.Core, pricing Pricing) []tileDef {
	if side == nil {
		return nil
	}

	coreLabel := core.Name
	if coreLabel == "" {
		coreLabel = side.Name + " Core"
	}

	property := func(sub questionset.SubTheme, price int, hue string) tileDef {
		return tileDef{
			Type:      Property,
			Name:      side.Name,
			Group:     side.Name,
			Sub:       sub.Name,
			Color:     hue,
			Price:     price,
			Questions: sub.Questions,
		}
	}

	defs := make([]tileDef, 0, 8)
	for i := 0; i < 3; i++ {
		defs = append(defs, property(side.Sub1, pricing.Tier1Price, hues[0]))
	}
	defs = append(defs, tileDef{
		Type:      SequencingCore,
		Name:      coreLabel,
		Color:     coreColor,
		Price:     pricing.CorePrice,
		Questions: core.Questions,
	})
	for i := 0; i < 3; i++ {
		defs = append(defs, property(side.Sub2, pricing.Tier2Price, hues[1]))
	}
	defs = append(defs, tileDef{
		Type:  Chance,
		Name:  mishapName,
		Color: mishapColor,
	})
	return defs
}

func finishTile(def tileDef, id int, pricing Pricing) Tile {
	color := def.Color
	if color == "" {
		color = "#ffffff"
	}

	tile := Tile{
		ID:          id,
		Type:        def.Type,
		Name:        def.Name,
		Color:       color,
		Owner:       Unowned(),
		Group:       def.Group,
		Sub:         def.Sub,
		Questions:   def.Questions,
		Quiz:        def.Quiz,
		Price:       def.Price,
		FixedAmount: def.FixedAmount,
		IsStart:     def.IsStart,
		BaseRent:    baseRent(def, pricing),
	}
	if def.Type == Property {
		tile.HouseCost = def.Price
		tile.CastleCost = def.Price * 2
	}
	return tile
}

// baseRent is a pure function of tile type: properties rent at a fixed rate
// of price, facilities at flat constants, chance tiles at zero.
func baseRent(def tileDef, pricing Pricing) int {
	switch def.Type {
	case Property:
		return int(math.Floor(float64(def.Price) * pricing.PropertyRentRate))
	case SequencingCore:
		return pricing.CoreBaseRent
	case Milestone:
		return pricing.MilestoneBaseRent
	default:
		return 0
	}
}
