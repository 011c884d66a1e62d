// Package placement implements the adaptive placement test that converges on
// a learner's proficiency level from graded question blocks.
package placement

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// Question is one multiple-choice placement question. Questions are
// immutable reference data, loaded once and shared read-only.
type Question struct {
	ID           string        `yaml:"id"`
	Level        learner.Level `yaml:"level"`
	Prompt       string        `yaml:"prompt"`
	Options      []string      `yaml:"options"`
	CorrectIndex int           `yaml:"correct_index"`
}

// Bank holds all placement questions grouped by tier, in file order.
type Bank struct {
	byLevel map[learner.Level][]Question
}

type bankFile struct {
	Questions []Question `yaml:"questions"`
}

// NewBank builds a bank from a question list, validating every entry.
func NewBank(questions []Question) (*Bank, error) {
	byLevel := make(map[learner.Level][]Question)
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: empty id", i)
		}
		if _, ok := seen[q.ID]; ok {
			return nil, fmt.Errorf("question %s: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}
		if !q.Level.Valid() {
			return nil, fmt.Errorf("question %s: unknown level %q", q.ID, q.Level)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %s: needs at least 2 options, got %d", q.ID, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %s: correct index %d out of range", q.ID, q.CorrectIndex)
		}
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}
	return &Bank{byLevel: byLevel}, nil
}

// ParseBank builds a validated bank from YAML contents.
func ParseBank(contents []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	bank, err := NewBank(file.Questions)
	if err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	return bank, nil
}

// LoadBank reads and validates a question bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	bank, err := ParseBank(contents)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return bank, nil
}

// QuestionsFor returns the tier's questions in bank order.
func (b *Bank) QuestionsFor(level learner.Level) []Question {
	return b.byLevel[level]
}
