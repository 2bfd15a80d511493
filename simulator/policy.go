package main

import (
	"math/rand"
	"time"
)

// RandomPolicy picks a legal command for the current stage, with just enough
// bias to make games terminate: it always rolls when idle, always buys when
// offered, and guesses uniformly on questions. It knows nothing about the
// subject matter, so its exam pass rate is the baseline a real student should
// beat.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

// NextCommand returns a command for the given state, or ok=false when the
// game is over or the stage is unknown to the policy.
func (p *RandomPolicy) NextCommand(state *GameState) (Command, bool) {
	switch state.Stage {
	case "idle":
		return Command{Type: "roll"}, true

	case "question", "rent_defense", "chaos_question":
		return Command{Type: "answer", Option: p.guess(state.Prompt)}, true

	case "decision":
		return Command{Type: "buy"}, true

	case "milestone_intro":
		// Take the exam two times out of three; declining keeps short
		// games short when the budget is tight.
		if p.rng.Intn(3) < 2 {
			return Command{Type: "start_exam"}, true
		}
		return Command{Type: "decline"}, true

	case "milestone_challenge_intro":
		if p.rng.Intn(2) == 0 {
			return Command{Type: "accept_challenge"}, true
		}
		return Command{Type: "pay_full_fee"}, true

	case "exam":
		if state.Exam != nil && state.Exam.Waiting {
			return Command{Type: "next"}, true
		}
		return Command{Type: "answer", Option: p.guessExam(state.Exam)}, true

	case "liquidation":
		return Command{Type: "liquidate"}, true

	case "grant_intro":
		return Command{Type: "apply_for_grant"}, true

	case "grant_result", "mishap", "message", "feedback":
		return Command{Type: "acknowledge"}, true

	case "won":
		return Command{}, false
	}

	return Command{}, false
}

func (p *RandomPolicy) guess(prompt *ActivePrompt) int {
	if prompt == nil || prompt.Question == nil || len(prompt.Question.Options) == 0 {
		return 0
	}
	return p.rng.Intn(len(prompt.Question.Options))
}

func (p *RandomPolicy) guessExam(exam *ExamState) int {
	if exam == nil || exam.Index >= len(exam.Questions) {
		return 0
	}
	q := exam.Questions[exam.Index]
	if len(q.Options) == 0 {
		return 0
	}
	return p.rng.Intn(len(q.Options))
}
