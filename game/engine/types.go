package engine

import (
	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/tsv"
)

// Stage is the interaction the game is currently waiting on. Exactly one
// player acts at a time; the stage tells the client which commands are legal.
type Stage string

const (
	// StageIdle waits for the current player to roll (or upgrade, or spend
	// a chaos token).
	StageIdle Stage = "idle"
	// StageQuestion is the acquisition question posed on an unowned tile.
	StageQuestion Stage = "question"
	// StageRentDefense is the question posed after landing on another
	// owner's tile; answering correctly halves the fee.
	StageRentDefense Stage = "rent_defense"
	// StageDecision is the buy-or-skip choice after a correct acquisition answer.
	StageDecision Stage = "decision"
	// StageMilestoneIntro offers the certification exam on an unowned milestone.
	StageMilestoneIntro Stage = "milestone_intro"
	// StageChallengeIntro offers the challenge exam on another owner's milestone.
	StageChallengeIntro Stage = "milestone_challenge_intro"
	// StageExam is an in-progress multi-question exam.
	StageExam Stage = "exam"
	// StageLiquidation forces an indebted player to sell assets.
	StageLiquidation Stage = "liquidation"
	// StageGrantIntro offers the emergency grant exam to an insolvent player.
	StageGrantIntro Stage = "grant_intro"
	// StageGrantResult shows the grant outcome before the turn passes.
	StageGrantResult Stage = "grant_result"
	// StageChaosQuestion is the takeover question after spending a chaos token.
	StageChaosQuestion Stage = "chaos_question"
	// StageMishap shows a lab mishap; acknowledging it passes the turn.
	StageMishap Stage = "mishap"
	// StageMessage shows an informational notice; acknowledging it returns
	// to idle without passing the turn.
	StageMessage Stage = "message"
	// StageFeedback shows an outcome; acknowledging it passes the turn.
	StageFeedback Stage = "feedback"
	// StageWon is terminal.
	StageWon Stage = "won"
)

// CommandType identifies a player action.
type CommandType string

const (
	CmdRoll            CommandType = "roll"
	CmdAnswer          CommandType = "answer"
	CmdBuy             CommandType = "buy"
	CmdSkip            CommandType = "skip"
	CmdStartExam       CommandType = "start_exam"
	CmdDecline         CommandType = "decline"
	CmdAcceptChallenge CommandType = "accept_challenge"
	CmdPayFullFee      CommandType = "pay_full_fee"
	CmdNext            CommandType = "next"
	CmdQuitExam        CommandType = "quit_exam"
	CmdAcknowledge     CommandType = "acknowledge"
	CmdUpgrade         CommandType = "upgrade"
	CmdLiquidate       CommandType = "liquidate"
	CmdApplyForGrant   CommandType = "apply_for_grant"
	CmdBuyChaosToken   CommandType = "buy_chaos_token"
	CmdUseChaosToken   CommandType = "use_chaos_token"
)

// Command is one player action fed to Engine.Apply. Option carries the
// chosen answer index for CmdAnswer; TileID carries the target tile for
// CmdUpgrade, CmdLiquidate, and CmdUseChaosToken.
type Command struct {
	Type   CommandType `json:"type"`
	Option int         `json:"option,omitempty"`
	TileID int         `json:"tile_id,omitempty"`
}

// Player is one team around the board.
type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	Position     int    `json:"position"`
	Money        int    `json:"money"`
	ChaosTokens  int    `json:"chaos_tokens"`
	HasBailedOut bool   `json:"has_bailed_out"`
}

// ActivePrompt is the question or notice the current stage is waiting on.
type ActivePrompt struct {
	TileID   int           `json:"tile_id"`
	Question *tsv.Question `json:"question,omitempty"`
	Rent     int           `json:"rent,omitempty"`
	Owner    board.Owner   `json:"owner"`
	Message  string        `json:"message,omitempty"`
	Fact     string        `json:"fact,omitempty"`
}

// ExamMode distinguishes why an exam is running, which decides what passing
// awards.
type ExamMode string

const (
	ExamAcquire   ExamMode = "milestone_acquire"
	ExamChallenge ExamMode = "milestone_challenge"
	ExamGrant     ExamMode = "grant"
)

// ExamState is an in-progress exam. After each answer the exam waits for an
// explicit CmdNext before advancing, so the client can show per-question
// feedback.
type ExamState struct {
	Mode        ExamMode       `json:"mode"`
	TileID      int            `json:"tile_id"`
	Questions   []tsv.Question `json:"questions"`
	Index       int            `json:"index"`
	Score       int            `json:"score"`
	Mistakes    int            `json:"mistakes"`
	Target      int            `json:"target"`
	MaxMistakes int            `json:"max_mistakes"`
	Waiting     bool           `json:"waiting"`
	Selected    *int           `json:"selected,omitempty"`
	LastCorrect *bool          `json:"last_correct,omitempty"`
}

// GameState is the complete serializable state of one game.
type GameState struct {
	Board      []board.Tile  `json:"board"`
	Players    []Player      `json:"players"`
	Turn       int           `json:"turn"`
	TotalTurns int           `json:"total_turns"`
	Stage      Stage         `json:"stage"`
	Dice       []int         `json:"dice"`
	Prompt     *ActivePrompt `json:"prompt,omitempty"`
	Exam       *ExamState    `json:"exam,omitempty"`
	Feedback   string        `json:"feedback,omitempty"`
	Winner     *int          `json:"winner,omitempty"`
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *Player {
	return &s.Players[s.Turn]
}

var playerDefaults = []struct {
	Name  string
	Color string
}{
	{"Red Team", "#e57373"},
	{"Blue Team", "#64b5f6"},
	{"Green Team", "#81c784"},
	{"Orange Team", "#ffb74d"},
}

func newPlayers(count, startingMoney int) []Player {
	players := make([]Player, count)
	for i := range players {
		players[i] = Player{
			ID:    i,
			Name:  playerDefaults[i].Name,
			Color: playerDefaults[i].Color,
			Money: startingMoney,
		}
	}
	if count == 1 {
		players[0].Name = "Candidate"
	}
	return players
}
