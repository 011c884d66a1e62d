package placement

import "github.com/at-ishikawa/lernpfad/internal/learner"

// State is the session's position in the test state machine.
type State string

const (
	// StateAwaitingAnswer means the current block still accepts answers.
	StateAwaitingAnswer State = "awaiting_answer"
	// StateBlockComplete means the block is full and must be evaluated.
	StateBlockComplete State = "block_complete"
	// StateConcluded is terminal; only Finalize is valid.
	StateConcluded State = "concluded"
)

// BlockScore is the per-tier result of one answered block.
type BlockScore struct {
	Correct int
	Total   int
}

// Session is the ephemeral state of one placement test run. It lives only
// for the duration of the test; the final summary is what gets persisted.
// The tier index never decreases within a session.
type Session struct {
	state         State
	tierIndex     int
	blockAnswered int
	blockCorrect  int
	results       map[learner.Level]BlockScore
	totalAnswered int
	totalCorrect  int
	finalLevel    learner.Level
}

// State returns the session's state machine position.
func (s *Session) State() State {
	return s.state
}

// CurrentLevel returns the tier the session is currently testing.
func (s *Session) CurrentLevel() learner.Level {
	return learner.Levels()[s.tierIndex]
}

// BlockProgress returns answered and correct counts inside the current block.
func (s *Session) BlockProgress() BlockScore {
	return BlockScore{Correct: s.blockCorrect, Total: s.blockAnswered}
}

// TotalProgress returns cumulative answered and correct counts.
func (s *Session) TotalProgress() BlockScore {
	return BlockScore{Correct: s.totalCorrect, Total: s.totalAnswered}
}
