package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/placement"
)

func TestReadQuestionBank(t *testing.T) {
	t.Run("missing file falls back to the embedded bank", func(t *testing.T) {
		contents, err := ReadQuestionBank(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, fallbackQuestionBank, contents)
	})

	t.Run("existing file wins over the embedded bank", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.yaml")
		require.NoError(t, os.WriteFile(path, []byte("questions: []"), 0o644))

		contents, err := ReadQuestionBank(path)
		require.NoError(t, err)
		assert.Equal(t, "questions: []", string(contents))
	})
}

func TestEmbeddedQuestionBank(t *testing.T) {
	bank, err := placement.ParseBank(fallbackQuestionBank)
	require.NoError(t, err)
	for _, level := range learner.Levels() {
		assert.NotEmpty(t, bank.QuestionsFor(level), "level %s has no questions", level)
	}
}
