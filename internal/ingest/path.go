package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Path validation errors.
var (
	ErrEmptyPath    = errors.New("card path cannot be empty")
	ErrPathIsDir    = errors.New("card path cannot be a directory")
	ErrNotMarkdown  = errors.New("card path must be a markdown file")
	ErrPathNotFound = errors.New("card path does not exist")
)

// IsMarkdown reports whether path has a .md extension, in any case.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// ValidateCardPath checks that path names a markdown file that can hold a
// card and returns it trimmed. A path that does not exist yet is accepted
// as long as it looks like a markdown file.
func ValidateCardPath(path string) (string, error) {
	cardPath := strings.TrimSpace(path)
	if cardPath == "" {
		return "", ErrEmptyPath
	}

	if info, err := os.Stat(cardPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrPathIsDir, cardPath)
	}

	if !IsMarkdown(cardPath) {
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, cardPath)
	}

	return cardPath, nil
}

// Discover expands paths into the markdown files they contain. Directories
// are walked recursively and non-markdown files inside them are skipped;
// a file named explicitly must be markdown. The result is sorted and free
// of duplicates.
func Discover(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		root := strings.TrimSpace(p)
		if root == "" {
			return nil, ErrEmptyPath
		}

		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
			}
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			file, err := ValidateCardPath(root)
			if err != nil {
				return nil, err
			}
			files = append(files, filepath.Clean(file))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && IsMarkdown(path) {
				files = append(files, filepath.Clean(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
