// Package assets ships default reference data that a deployment can
// override with files on disk.
package assets

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

//go:embed placement_questions.yaml
var fallbackQuestionBank []byte

// ReadQuestionBank returns the question bank at path, or the embedded
// default when no file exists there.
func ReadQuestionBank(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err == nil {
		return contents, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	slog.Default().Debug("question bank file not found, using the built-in bank",
		slog.String("path", path),
	)
	return fallbackQuestionBank, nil
}
