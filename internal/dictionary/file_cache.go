package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (f *FileCache) filePath(term string) string {
	// Terms may contain characters a filesystem rejects.
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '\x00':
			return '_'
		}
		return r
	}, term)
	return filepath.Join(f.rootDir, name+".json")
}

func (f *FileCache) cache(term string, lookup func() ([]byte, error)) ([]byte, error) {
	localFilePath := f.filePath(term)
	if _, err := os.Stat(localFilePath); err == nil {
		contents, err := os.ReadFile(localFilePath)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile > %w", err)
		}
		return contents, nil
	}

	contents, err := lookup()
	if err != nil {
		return nil, fmt.Errorf("lookup > %w", err)
	}

	if err := os.MkdirAll(f.rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(localFilePath, contents, 0o644); err != nil {
		return contents, fmt.Errorf("os.WriteFile > %w", err)
	}
	return contents, nil
}
