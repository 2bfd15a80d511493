package engine

import (
	"fmt"
	"math"

	"github.com/scienceboard/scienceboard/game/board"
	"github.com/scienceboard/scienceboard/game/eventlog"
	"github.com/scienceboard/scienceboard/game/tsv"
)

func isCorrect(q *tsv.Question, option int) bool {
	return q != nil && q.Answer != nil && option == *q.Answer
}

// answer resolves the selected option for whichever question stage is open.
func (e *GameEngine) answer(option int) error {
	switch e.state.Stage {
	case StageQuestion:
		return e.answerAcquisition(option)
	case StageRentDefense:
		return e.answerRentDefense(option)
	case StageExam:
		return e.answerExam(option)
	case StageChaosQuestion:
		return e.answerChaos(option)
	default:
		return fmt.Errorf("%w: answer in %s", ErrWrongStage, e.state.Stage)
	}
}

// answerAcquisition handles the question on an unowned tile. A correct
// answer earns the right to buy; a wrong one costs the question penalty and
// the turn.
func (e *GameEngine) answerAcquisition(option int) error {
	s := e.state
	p := s.CurrentPlayer()
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}

	if isCorrect(s.Prompt.Question, option) {
		correct := true
		e.record(eventlog.Record{
			EventType:   "ACQUISITION_Q",
			PlayerIndex: p.ID,
			PlayerName:  p.Name,
			Action:      "answered correctly",
			TileID:      t.ID,
			TileName:    t.Name,
			Correct:     &correct,
		})
		s.Stage = StageDecision
		return nil
	}

	wrong := false
	e.transact(p.ID, -e.rules.QuestionPenalty, "ACQUISITION_Q", "wrong answer", t, &wrong, "")
	s.Stage = StageFeedback
	s.Feedback = explanationOr(s.Prompt.Question, "Not quite. Review the material and try again next lap.")
	return nil
}

// answerRentDefense settles the fee on another owner's tile. A correct
// answer halves it. The owner is credited unless the tile belongs to the
// rival lab.
func (e *GameEngine) answerRentDefense(option int) error {
	s := e.state
	p := s.CurrentPlayer()
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}

	fee := s.Prompt.Rent
	correct := isCorrect(s.Prompt.Question, option)
	if correct {
		fee = int(math.Floor(float64(fee) / 2))
	}
	e.settleFee(p.ID, t, fee, "RENT", &correct)

	s.Stage = StageFeedback
	if correct {
		s.Feedback = fmt.Sprintf("Correct! Fee reduced to $%d.", fee)
	} else {
		s.Feedback = explanationOr(s.Prompt.Question, fmt.Sprintf("Wrong. Full fee of $%d charged.", fee))
	}
	return nil
}

// settleFee debits the payer and credits the owning player. Rival-held
// tiles absorb the fee; nobody is credited.
func (e *GameEngine) settleFee(payerID int, t *board.Tile, fee int, eventType string, correct *bool) {
	e.transact(payerID, -fee, eventType, "paid fee", t, correct, "")
	if t.Owner.Kind == board.OwnerPlayer {
		e.transact(t.Owner.Player, fee, eventType, "collected fee", t, nil,
			fmt.Sprintf("from %s", e.state.Players[payerID].Name))
	}
}

// drawExam builds an exam sheet: the pool is cycled until it holds at least
// ten entries, shuffled, and the first size questions are dealt.
func (e *GameEngine) drawExam(pool []tsv.Question, size int) ([]tsv.Question, error) {
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}
	sheet := make([]tsv.Question, 0, max(len(pool), 10))
	sheet = append(sheet, pool...)
	for i := 0; len(sheet) < 10; i++ {
		sheet = append(sheet, pool[i%len(pool)])
	}
	e.rng.Shuffle(len(sheet), func(i, j int) { sheet[i], sheet[j] = sheet[j], sheet[i] })
	if size > len(sheet) {
		size = len(sheet)
	}
	return sheet[:size], nil
}

// startMilestoneExam begins the certification exam offered on an unowned
// milestone.
func (e *GameEngine) startMilestoneExam() error {
	if e.state.Stage != StageMilestoneIntro {
		return fmt.Errorf("%w: start_exam in %s", ErrWrongStage, e.state.Stage)
	}
	return e.beginExam(ExamAcquire)
}

// acceptChallenge begins the challenge exam on another owner's milestone.
func (e *GameEngine) acceptChallenge() error {
	if e.state.Stage != StageChallengeIntro {
		return fmt.Errorf("%w: accept_challenge in %s", ErrWrongStage, e.state.Stage)
	}
	return e.beginExam(ExamChallenge)
}

func (e *GameEngine) beginExam(mode ExamMode) error {
	s := e.state
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}
	sheet, err := e.drawExam(t.Quiz, e.rules.MilestoneExamSize)
	if err != nil {
		return err
	}
	s.Stage = StageExam
	s.Exam = &ExamState{
		Mode:        mode,
		TileID:      t.ID,
		Questions:   sheet,
		Target:      e.rules.MilestoneExamTarget,
		MaxMistakes: e.rules.MaxMistakes,
	}
	return nil
}

// decline turns down a milestone exam offer and passes the turn.
func (e *GameEngine) decline() error {
	if e.state.Stage != StageMilestoneIntro && e.state.Stage != StageChallengeIntro {
		return fmt.Errorf("%w: decline in %s", ErrWrongStage, e.state.Stage)
	}
	e.passTurn()
	return nil
}

// payFullFee pays the milestone fee instead of risking the challenge exam.
func (e *GameEngine) payFullFee() error {
	s := e.state
	if s.Stage != StageChallengeIntro {
		return fmt.Errorf("%w: pay_full_fee in %s", ErrWrongStage, s.Stage)
	}
	t, err := e.tile(s.Prompt.TileID)
	if err != nil {
		return err
	}
	e.settleFee(s.CurrentPlayer().ID, t, t.BaseRent, "MILESTONE_FEE", nil)
	e.passTurn()
	return nil
}

// answerExam scores one exam question and waits for CmdNext so the client
// can show the explanation.
func (e *GameEngine) answerExam(option int) error {
	ex := e.state.Exam
	if ex.Waiting {
		return fmt.Errorf("%w: question already answered", ErrWrongStage)
	}
	q := ex.Questions[ex.Index]
	correct := isCorrect(&q, option)
	if correct {
		ex.Score++
	} else {
		ex.Mistakes++
	}
	sel := option
	ex.Selected = &sel
	ex.LastCorrect = &correct
	ex.Waiting = true
	return nil
}

// examNext advances past an answered exam question. Milestone exams abort as
// soon as the mistake budget is spent; the grant exam always runs its full
// three questions.
func (e *GameEngine) examNext() error {
	s := e.state
	if s.Stage != StageExam || s.Exam == nil || !s.Exam.Waiting {
		return fmt.Errorf("%w: next in %s", ErrWrongStage, s.Stage)
	}
	ex := s.Exam

	if ex.Mode != ExamGrant && ex.Mistakes >= ex.MaxMistakes {
		return e.finishExam(false)
	}
	if ex.Index < len(ex.Questions)-1 {
		ex.Index++
		ex.Waiting = false
		ex.Selected = nil
		ex.LastCorrect = nil
		return nil
	}

	passed := ex.Score >= ex.Target
	if ex.Mode == ExamGrant {
		return e.finishGrant(passed)
	}
	return e.finishExam(passed)
}

// quitExam abandons the exam, which counts as failing it.
func (e *GameEngine) quitExam() error {
	if e.state.Stage != StageExam || e.state.Exam == nil {
		return fmt.Errorf("%w: quit_exam in %s", ErrWrongStage, e.state.Stage)
	}
	if e.state.Exam.Mode == ExamGrant {
		return e.finishGrant(false)
	}
	return e.finishExam(false)
}

// finishExam settles a milestone exam. Passing an acquisition exam buys the
// milestone and awards a chaos token; passing a challenge halves the fee.
func (e *GameEngine) finishExam(passed bool) error {
	s := e.state
	p := s.CurrentPlayer()
	ex := s.Exam
	t, err := e.tile(ex.TileID)
	if err != nil {
		return err
	}
	s.Exam = nil

	switch ex.Mode {
	case ExamAcquire:
		if !passed {
			s.Stage = StageFeedback
			s.Feedback = fmt.Sprintf("Certification failed (%d/%d). The milestone remains open.", ex.Score, len(ex.Questions))
			return nil
		}
		e.transact(p.ID, -t.Price, "MILESTONE_BUY", "certified and purchased", t, nil, "")
		t.Owner = board.PlayerOwner(p.ID)
		p.ChaosTokens++
		if e.checkWin(p.ID) {
			return nil
		}
		s.Stage = StageFeedback
		s.Feedback = fmt.Sprintf("Mastery achieved! %s is yours (+1 chaos token).", t.Name)
		return nil

	case ExamChallenge:
		fee := t.BaseRent
		if passed {
			fee = int(math.Floor(float64(fee) / 2))
		}
		correct := passed
		e.settleFee(p.ID, t, fee, "MILESTONE_FEE", &correct)
		s.Stage = StageFeedback
		if passed {
			s.Feedback = fmt.Sprintf("Challenge passed! Fee reduced to $%d.", fee)
		} else {
			s.Feedback = fmt.Sprintf("Challenge failed. Full fee of $%d charged.", fee)
		}
		return nil
	}
	return fmt.Errorf("unexpected exam mode %q", ex.Mode)
}

// applyForGrant begins the emergency grant exam for an insolvent player.
// The sheet is drawn from every question on the board, falling back to the
// built-in bank on an empty board.
func (e *GameEngine) applyForGrant() error {
	s := e.state
	if s.Stage != StageGrantIntro {
		return fmt.Errorf("%w: apply_for_grant in %s", ErrWrongStage, s.Stage)
	}

	var pool []tsv.Question
	for _, t := range s.Board {
		pool = append(pool, t.Questions...)
	}
	if len(pool) == 0 {
		pool = takeoverQuestionBank
	}
	sheet, err := e.drawExam(pool, e.rules.GrantExamSize)
	if err != nil {
		return err
	}
	s.Stage = StageExam
	s.Exam = &ExamState{
		Mode:      ExamGrant,
		Questions: sheet,
		Target:    e.rules.GrantExamTarget,
	}
	return nil
}

// finishGrant settles the grant exam. The committee covers the debt either
// way, but a player who took the grant can no longer win the game.
func (e *GameEngine) finishGrant(passed bool) error {
	s := e.state
	p := s.CurrentPlayer()
	ex := s.Exam
	s.Exam = nil

	amount := -p.Money + e.rules.GrantBonus
	correct := passed
	e.transact(p.ID, amount, "EMERGENCY_GRANT", "grant awarded", nil, &correct,
		fmt.Sprintf("scored %d/%d", ex.Score, len(ex.Questions)))
	p.HasBailedOut = true

	s.Stage = StageGrantResult
	if passed {
		s.Feedback = fmt.Sprintf("Grant approved (%d/%d). Debt cleared plus $%d, but the title is out of reach.", ex.Score, len(ex.Questions), e.rules.GrantBonus)
	} else {
		s.Feedback = fmt.Sprintf("A pity grant (%d/%d). Debt cleared plus $%d, but the title is out of reach.", ex.Score, len(ex.Questions), e.rules.GrantBonus)
	}
	return nil
}

func explanationOr(q *tsv.Question, fallback string) string {
	if q != nil && q.Explanation != "" {
		return q.Explanation
	}
	return fallback
}
