package board

import "github.com/scienceboard/scienceboard/game/tsv"

// TileType discriminates the four board tile kinds.
type TileType string

const (
	Property       TileType = "property"
	Milestone      TileType = "milestone"
	SequencingCore TileType = "sequencing_core"
	Chance         TileType = "chance"
)

// OwnerKind discriminates ownership states. The rival lab is its own kind
// rather than a sentinel player id, so pre-seeded boards cannot collide with
// a real player index.
type OwnerKind string

const (
	OwnerNone   OwnerKind = "none"
	OwnerPlayer OwnerKind = "player"
	OwnerRival  OwnerKind = "rival"
)

// Owner identifies who holds a tile: nobody, a seated player, or the
// non-player rival lab.
type Owner struct {
	Kind   OwnerKind `json:"kind"`
	Player int       `json:"player,omitempty"`
}

// Unowned returns the no-owner value.
func Unowned() Owner { return Owner{Kind: OwnerNone} }

// PlayerOwner returns ownership by the player at the given seat index.
func PlayerOwner(index int) Owner { return Owner{Kind: OwnerPlayer, Player: index} }

// RivalOwner returns ownership by the non-player rival lab.
func RivalOwner() Owner { return Owner{Kind: OwnerRival} }

// IsOwned reports whether anyone (player or rival) holds the tile.
func (o Owner) IsOwned() bool { return o.Kind == OwnerPlayer || o.Kind == OwnerRival }

// IsRival reports whether the rival lab holds the tile.
func (o Owner) IsRival() bool { return o.Kind == OwnerRival }

// IsPlayer reports whether the given seat index holds the tile.
func (o Owner) IsPlayer(index int) bool { return o.Kind == OwnerPlayer && o.Player == index }

// Tile is one square of the board loop.
type Tile struct {
	ID    int      `json:"id"`
	Type  TileType `json:"type"`
	Name  string   `json:"name"`
	Color string   `json:"color"`

	Owner Owner `json:"owner"`
	Level int   `json:"level"` // 0..MaxLevel, meaningful for properties only

	Group string `json:"group,omitempty"` // side theme name
	Sub   string `json:"sub,omitempty"`   // sub-theme name ("START" on the start corner)

	Questions []tsv.Question `json:"questions,omitempty"`
	Quiz      []tsv.Question `json:"quiz,omitempty"`

	Price       int  `json:"price"`
	BaseRent    int  `json:"base_rent"`
	HouseCost   int  `json:"house_cost"`
	CastleCost  int  `json:"castle_cost"`
	FixedAmount int  `json:"fixed_amount"`
	IsStart     bool `json:"is_start"`
}

// Pricing carries the tile economics knobs the builder applies.
type Pricing struct {
	Tier1Price        int     `json:"tier1_price"`
	Tier2Price        int     `json:"tier2_price"`
	CorePrice         int     `json:"core_price"`
	MilestonePrice    int     `json:"milestone_price"`
	PropertyRentRate  float64 `json:"property_rent_rate"`
	CoreBaseRent      int     `json:"core_base_rent"`
	MilestoneBaseRent int     `json:"milestone_base_rent"`
}

// DefaultPricing matches the classic ruleset: $100/$160 property tiers,
// $200 cores, $500 milestones, 20% base rent, flat $120/$250 facility rents.
func DefaultPricing() Pricing {
	return Pricing{
		Tier1Price:        100,
		Tier2Price:        160,
		CorePrice:         200,
		MilestonePrice:    500,
		PropertyRentRate:  0.2,
		CoreBaseRent:      120,
		MilestoneBaseRent: 250,
	}
}

// SubgroupTiles returns every property tile sharing the given tile's group
// and sub-theme (the 3-tile price-tier run the rent multiplier keys on).
func SubgroupTiles(tiles []Tile, tile Tile) []Tile {
	if tile.Type != Property {
		return nil
	}
	var group []Tile
	for _, t := range tiles {
		if t.Type == Property && t.Group == tile.Group && t.Sub == tile.Sub {
			group = append(group, t)
		}
	}
	return group
}

// OwnsFullSubgroup reports whether owner holds every tile in the sub-group.
func OwnsFullSubgroup(tiles []Tile, tile Tile, owner Owner) bool {
	group := SubgroupTiles(tiles, tile)
	if len(group) == 0 {
		return false
	}
	for _, t := range group {
		if t.Owner != owner {
			return false
		}
	}
	return true
}

// Milestones returns the corner milestone tiles in board order.
func Milestones(tiles []Tile) []Tile {
	var out []Tile
	for _, t := range tiles {
		if t.Type == Milestone {
			out = append(out, t)
		}
	}
	return out
}
