package engine

import (
	"fmt"
	"strings"

	"github.com/scienceboard/scienceboard/game/board"
)

// Validation bounds for rule sets.
const (
	MinPlayers = 1
	MaxPlayers = 4
	MaxLevel   = 4 // terminal "castle" tier
)

// Rules is the tunable rule set for a game, loaded from JSON presets. The
// rent curve in particular is a parameter, not a constant: the classic
// preset uses 1/3/6/10/20 and the legacy preset 1/1.5/2/3/5.
type Rules struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartingMoney   int `json:"starting_money"`
	PassGoBonus     int `json:"pass_go_bonus"`
	QuestionPenalty int `json:"question_penalty"`

	Pricing board.Pricing `json:"pricing"`

	RentCurve            []float64 `json:"rent_curve"` // multiplier per level 0..MaxLevel
	SplitGroupMultiplier float64   `json:"split_group_multiplier"`

	ChaosTokenPrice int `json:"chaos_token_price"`
	GrantBonus      int `json:"grant_bonus"`
	MishapBonus     int `json:"mishap_bonus"`
	MishapPenalty   int `json:"mishap_penalty"`

	MilestoneExamSize   int `json:"milestone_exam_size"`
	MilestoneExamTarget int `json:"milestone_exam_target"`
	MaxMistakes         int `json:"max_mistakes"`
	GrantExamSize       int `json:"grant_exam_size"`
	GrantExamTarget     int `json:"grant_exam_target"`

	DiceCount int `json:"dice_count"`
	DiceSides int `json:"dice_sides"`

	Messages struct {
		Welcome           string `json:"welcome"`
		PassGo            string `json:"pass_go"`
		OwnTile           string `json:"own_tile"`
		InsufficientFunds string `json:"insufficient_funds"`
		DebtNotice        string `json:"debt_notice"`
		Victory           string `json:"victory"`
	} `json:"messages"`
}

// DefaultRules returns the classic rule set used when no preset is loaded.
func DefaultRules() *Rules {
	r := &Rules{
		Name:                 "Classic",
		Description:          "Standard Science Around the Board rules",
		StartingMoney:        2500,
		PassGoBonus:          200,
		QuestionPenalty:      20,
		Pricing:              board.DefaultPricing(),
		RentCurve:            []float64{1, 3, 6, 10, 20},
		SplitGroupMultiplier: 0.5,
		ChaosTokenPrice:      500,
		GrantBonus:           500,
		MishapBonus:          50,
		MishapPenalty:        100,
		MilestoneExamSize:    6,
		MilestoneExamTarget:  5,
		MaxMistakes:          2,
		GrantExamSize:        3,
		GrantExamTarget:      2,
		DiceCount:            2,
		DiceSides:            6,
	}
	r.Messages.Welcome = "Welcome to the lab. Roll to begin your research run."
	r.Messages.PassGo = "Grant renewal (+$%d)."
	r.Messages.OwnTile = "Welcome back to your lab. Operations are normal."
	r.Messages.InsufficientFunds = "Insufficient funds for mastery certification."
	r.Messages.DebtNotice = "You are in debt. Resolve your funding crisis before continuing."
	r.Messages.Victory = "%s has unified all milestones! VICTORY!"
	return r
}

// ValidateRules checks a rule set for correctness and playability.
func ValidateRules(r *Rules) error {
	if r == nil {
		return fmt.Errorf("rules validation: rules cannot be nil")
	}
	if r.Name == "" {
		return fmt.Errorf("rules validation: name is required")
	}
	if r.StartingMoney <= 0 {
		return fmt.Errorf("rules validation: starting_money must be positive, got %d", r.StartingMoney)
	}
	if r.PassGoBonus < 0 {
		return fmt.Errorf("rules validation: pass_go_bonus cannot be negative, got %d", r.PassGoBonus)
	}
	if r.QuestionPenalty < 0 {
		return fmt.Errorf("rules validation: question_penalty cannot be negative, got %d", r.QuestionPenalty)
	}

	p := r.Pricing
	if p.Tier1Price <= 0 || p.Tier2Price <= 0 || p.CorePrice <= 0 || p.MilestonePrice <= 0 {
		return fmt.Errorf("rules validation: all tile prices must be positive")
	}
	if p.Tier2Price < p.Tier1Price {
		return fmt.Errorf("rules validation: tier2_price (%d) must be at least tier1_price (%d)", p.Tier2Price, p.Tier1Price)
	}
	if p.PropertyRentRate <= 0 || p.PropertyRentRate >= 1 {
		return fmt.Errorf("rules validation: property_rent_rate must be in (0, 1), got %g", p.PropertyRentRate)
	}

	if len(r.RentCurve) != MaxLevel+1 {
		return fmt.Errorf("rules validation: rent_curve must have %d entries (levels 0..%d), got %d",
			MaxLevel+1, MaxLevel, len(r.RentCurve))
	}
	for i := 1; i < len(r.RentCurve); i++ {
		if r.RentCurve[i] <= r.RentCurve[i-1] {
			return fmt.Errorf("rules validation: rent_curve must be strictly increasing, entry %d (%g) <= entry %d (%g)",
				i, r.RentCurve[i], i-1, r.RentCurve[i-1])
		}
	}
	if r.SplitGroupMultiplier <= 0 || r.SplitGroupMultiplier >= r.RentCurve[0] {
		return fmt.Errorf("rules validation: split_group_multiplier must be in (0, %g), got %g",
			r.RentCurve[0], r.SplitGroupMultiplier)
	}

	if r.ChaosTokenPrice <= 0 {
		return fmt.Errorf("rules validation: chaos_token_price must be positive, got %d", r.ChaosTokenPrice)
	}
	if r.GrantBonus < 0 {
		return fmt.Errorf("rules validation: grant_bonus cannot be negative, got %d", r.GrantBonus)
	}

	if r.MilestoneExamSize <= 0 {
		return fmt.Errorf("rules validation: milestone_exam_size must be positive, got %d", r.MilestoneExamSize)
	}
	if r.MilestoneExamTarget <= 0 || r.MilestoneExamTarget > r.MilestoneExamSize {
		return fmt.Errorf("rules validation: milestone_exam_target must be between 1 and milestone_exam_size (%d), got %d",
			r.MilestoneExamSize, r.MilestoneExamTarget)
	}
	if r.MaxMistakes <= 0 {
		return fmt.Errorf("rules validation: max_mistakes must be positive, got %d", r.MaxMistakes)
	}
	if r.GrantExamSize <= 0 {
		return fmt.Errorf("rules validation: grant_exam_size must be positive, got %d", r.GrantExamSize)
	}
	if r.GrantExamTarget <= 0 || r.GrantExamTarget > r.GrantExamSize {
		return fmt.Errorf("rules validation: grant_exam_target must be between 1 and grant_exam_size (%d), got %d",
			r.GrantExamSize, r.GrantExamTarget)
	}

	if r.DiceCount <= 0 || r.DiceSides <= 1 {
		return fmt.Errorf("rules validation: need at least one die with at least two sides, got %dd%d",
			r.DiceCount, r.DiceSides)
	}

	if r.Messages.PassGo != "" && !strings.Contains(r.Messages.PassGo, "%d") {
		return fmt.Errorf("rules validation: messages.pass_go must contain %%d for the bonus amount")
	}
	if r.Messages.Victory != "" && !strings.Contains(r.Messages.Victory, "%s") {
		return fmt.Errorf("rules validation: messages.victory must contain %%s for the winner name")
	}

	return nil
}
