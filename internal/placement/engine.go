package placement

import "github.com/at-ishikawa/lernpfad/internal/learner"

// Policy holds the block size and decision thresholds. Percentages keep the
// comparisons in integer arithmetic so boundary scores behave exactly.
type Policy struct {
	// BlockSize caps how many questions one tier block asks.
	BlockSize int
	// PromotePercent and above advances to the next tier.
	PromotePercent int
	// KeepPercent up to PromotePercent concludes at the current tier;
	// below KeepPercent concludes one tier down.
	KeepPercent int
}

// DefaultPolicy returns the standard 10-question block with 80/60 cutoffs,
// i.e. 8+ promotes and 6-7 concludes as-is on a full block.
func DefaultPolicy() Policy {
	return Policy{BlockSize: 10, PromotePercent: 80, KeepPercent: 60}
}

// Engine runs adaptive placement sessions against an immutable question
// bank. The engine itself is stateless; all progress lives in the Session.
type Engine struct {
	bank   *Bank
	policy Policy
}

// NewEngine creates an Engine over a validated question bank.
func NewEngine(bank *Bank, policy Policy) *Engine {
	return &Engine{bank: bank, policy: policy}
}

// SessionUpdate reports the effect of one submitted answer.
type SessionUpdate struct {
	Correct       bool
	CorrectIndex  int
	BlockComplete bool
}

// Decision says how a completed block moved the session.
type Decision string

const (
	// DecisionPromoted advances the session to the next tier.
	DecisionPromoted Decision = "promoted"
	// DecisionConcluded ends the session with a final level.
	DecisionConcluded Decision = "concluded"
)

// BlockOutcome is the result of evaluating one completed block.
type BlockOutcome struct {
	Decision Decision
	Score    BlockScore
	// Level is the next tier after a promotion, or the final level after
	// the session concludes.
	Level learner.Level
}

// Result is the immutable summary written back to the learner record once
// the session concludes.
type Result struct {
	Level         learner.Level
	PerTier       map[learner.Level]BlockScore
	TotalAnswered int
	TotalCorrect  int
}

// StartSession initializes a session at the lowest tier with zeroed
// counters. The bank must hold at least one question for that tier.
func (e *Engine) StartSession() (*Session, error) {
	lowest := learner.LowestLevel()
	if len(e.bank.QuestionsFor(lowest)) == 0 {
		return nil, &EmptyQuestionBankError{Level: lowest}
	}
	return &Session{
		state:   StateAwaitingAnswer,
		results: make(map[learner.Level]BlockScore),
	}, nil
}

// BlockSize returns how many questions the current block asks: the policy
// cap, or the pool size when the tier has fewer questions.
func (e *Engine) BlockSize(level learner.Level) int {
	return e.blockSize(level)
}

func (e *Engine) blockSize(level learner.Level) int {
	pool := len(e.bank.QuestionsFor(level))
	if pool < e.policy.BlockSize {
		return pool
	}
	return e.policy.BlockSize
}

// CurrentQuestion returns the next question of the current block.
func (e *Engine) CurrentQuestion(s *Session) (Question, error) {
	if s.state != StateAwaitingAnswer {
		return Question{}, &SessionStateError{Operation: "CurrentQuestion", State: s.state}
	}
	pool := e.bank.QuestionsFor(s.CurrentLevel())
	return pool[s.blockAnswered], nil
}

// SubmitAnswer grades one answer and advances the block. Invalid answers
// are rejected without touching session state.
func (e *Engine) SubmitAnswer(s *Session, questionID string, optionIndex int) (SessionUpdate, error) {
	if s.state != StateAwaitingAnswer {
		return SessionUpdate{}, &SessionStateError{Operation: "SubmitAnswer", State: s.state}
	}

	pool := e.bank.QuestionsFor(s.CurrentLevel())
	var question *Question
	for i := range pool {
		if pool[i].ID == questionID {
			question = &pool[i]
			break
		}
	}
	if question == nil {
		return SessionUpdate{}, &InvalidAnswerError{
			QuestionID:  questionID,
			OptionIndex: optionIndex,
			Reason:      "question does not belong to the current tier",
		}
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return SessionUpdate{}, &InvalidAnswerError{
			QuestionID:  questionID,
			OptionIndex: optionIndex,
			Reason:      "option index out of range",
		}
	}

	correct := optionIndex == question.CorrectIndex
	s.blockAnswered++
	s.totalAnswered++
	if correct {
		s.blockCorrect++
		s.totalCorrect++
	}

	update := SessionUpdate{Correct: correct, CorrectIndex: question.CorrectIndex}
	if s.blockAnswered >= e.blockSize(s.CurrentLevel()) {
		s.state = StateBlockComplete
		update.BlockComplete = true
	}
	return update, nil
}

// EvaluateBlock applies the three-way promotion decision to a completed
// block. Thresholds scale proportionally when the block was shorter than
// the policy size.
func (e *Engine) EvaluateBlock(s *Session) (BlockOutcome, error) {
	if s.state != StateBlockComplete {
		return BlockOutcome{}, &SessionStateError{Operation: "EvaluateBlock", State: s.state}
	}

	level := s.CurrentLevel()
	score := BlockScore{Correct: s.blockCorrect, Total: s.blockAnswered}
	s.results[level] = score

	switch {
	case score.Correct*100 >= score.Total*e.policy.PromotePercent:
		next, ok := level.Next()
		if !ok {
			// Passed the highest tier; nothing left to test.
			return e.conclude(s, level, score), nil
		}
		if len(e.bank.QuestionsFor(next)) == 0 {
			// No material above this tier; the learner demonstrated the
			// current one, so conclude here.
			return e.conclude(s, level, score), nil
		}
		s.tierIndex++
		s.blockAnswered = 0
		s.blockCorrect = 0
		s.state = StateAwaitingAnswer
		return BlockOutcome{Decision: DecisionPromoted, Score: score, Level: next}, nil

	case score.Correct*100 >= score.Total*e.policy.KeepPercent:
		return e.conclude(s, level, score), nil

	default:
		final := level
		if below, ok := level.Previous(); ok {
			final = below
		}
		return e.conclude(s, final, score), nil
	}
}

func (e *Engine) conclude(s *Session, final learner.Level, score BlockScore) BlockOutcome {
	s.state = StateConcluded
	s.finalLevel = final
	return BlockOutcome{Decision: DecisionConcluded, Score: score, Level: final}
}

// Finalize produces the immutable summary of a concluded session. The
// session is not usable afterwards.
func (e *Engine) Finalize(s *Session) (Result, error) {
	if s.state != StateConcluded {
		return Result{}, &SessionStateError{Operation: "Finalize", State: s.state}
	}
	perTier := make(map[learner.Level]BlockScore, len(s.results))
	for level, score := range s.results {
		perTier[level] = score
	}
	return Result{
		Level:         s.finalLevel,
		PerTier:       perTier,
		TotalAnswered: s.totalAnswered,
		TotalCorrect:  s.totalCorrect,
	}, nil
}
