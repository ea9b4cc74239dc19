// Package uploads stores uploaded metric files under a single directory.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/utils"
)

// ErrInvalidName is returned when a file name has no usable characters.
var ErrInvalidName = errors.New("invalid file name")

// Store writes uploads into Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Save sanitizes name, writes r to Dir atomically and returns the stored path.
// An existing file with the same name is replaced.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	clean := SecureFilename(name)
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := utils.EnsureDir(s.Dir); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.Dir, clean)
	if _, err := utils.SafeCopyFile(path, r); err != nil {
		return "", err
	}
	return path, nil
}

// SecureFilename reduces name to a safe base name: path separators are
// dropped, whitespace becomes "_", and only ASCII letters, digits, '.', '_'
// and '-' are kept. Leading dots and underscores are trimmed.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.Join(strings.Fields(name), "_")
	parts := strings.Split(name, "/")
	name = parts[len(parts)-1]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
