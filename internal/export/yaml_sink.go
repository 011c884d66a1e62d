package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type exportProgress struct {
	ID            int64  `yaml:"id"`
	Username      string `yaml:"username"`
	FirstName     string `yaml:"first_name,omitempty"`
	Level         string `yaml:"level"`
	TotalXP       int    `yaml:"total_xp"`
	StreakDays    int    `yaml:"streak_days"`
	BestStreak    int    `yaml:"best_streak"`
	LastActiveDay string `yaml:"last_active_day,omitempty"`
	FreezeBalance int    `yaml:"freeze_balance"`
	DailyGoal     int    `yaml:"daily_goal"`
	ExportedAt    string `yaml:"exported_at"`
}

type exportVocabularyItem struct {
	ID          int64  `yaml:"id"`
	Term        string `yaml:"term"`
	Translation string `yaml:"translation,omitempty"`
	TimesSeen   int    `yaml:"times_seen"`
	Learned     bool   `yaml:"learned"`
	Stage       int    `yaml:"stage"`
	DueAt       string `yaml:"due_at"`
	LastGrade   int    `yaml:"last_grade,omitempty"`
}

// YAMLSink writes snapshots as YAML files under one output directory.
type YAMLSink struct {
	outputDir string
}

// NewYAMLSink creates a new YAMLSink.
func NewYAMLSink(outputDir string) *YAMLSink {
	return &YAMLSink{outputDir: outputDir}
}

// WriteAll writes progress.yml and vocabulary.yml for the snapshot.
func (s *YAMLSink) WriteAll(snapshot *Snapshot, now time.Time) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	l := snapshot.Learner
	progress := exportProgress{
		ID:            l.ID,
		Username:      l.Username,
		FirstName:     l.FirstName,
		Level:         string(l.Level),
		TotalXP:       l.TotalXP,
		StreakDays:    l.StreakDays,
		BestStreak:    l.BestStreak,
		FreezeBalance: l.FreezeBalance,
		DailyGoal:     l.DailyGoal,
		ExportedAt:    now.UTC().Format(time.RFC3339),
	}
	if !l.LastActiveDay.IsZero() {
		progress.LastActiveDay = l.LastActiveDay.String()
	}
	if err := writeYAML(filepath.Join(s.outputDir, "progress.yml"), progress); err != nil {
		return fmt.Errorf("write progress.yml: %w", err)
	}

	out := make([]exportVocabularyItem, len(snapshot.Vocabulary))
	for i, item := range snapshot.Vocabulary {
		out[i] = exportVocabularyItem{
			ID:          item.ID,
			Term:        item.Term,
			Translation: item.Translation,
			TimesSeen:   item.TimesSeen,
			Learned:     item.Learned,
			Stage:       item.Stage,
			DueAt:       item.Due.UTC().Format(time.RFC3339),
			LastGrade:   item.LastGrade,
		}
	}
	if err := writeYAML(filepath.Join(s.outputDir, "vocabulary.yml"), out); err != nil {
		return fmt.Errorf("write vocabulary.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
