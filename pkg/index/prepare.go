package index

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
)

// ErrUnsafeReset is returned when the output directory holds files that are
// not part of an index, or contains the word list itself.
var ErrUnsafeReset = errors.New("refusing to reset index dir")

// PrepareDir empties dir for a fresh build. Only a missing or empty directory
// or a previous index is removed; anything else is left alone.
func PrepareDir(dir, wordListPath string) error {
	inside, err := contains(dir, wordListPath)
	if err != nil {
		return err
	}
	if inside {
		return fmt.Errorf("%w: word list %s is inside %s", ErrUnsafeReset, wordListPath, dir)
	}

	ok, err := dictionary.IsResettable(dir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s holds files that are not part of an index", ErrUnsafeReset, dir)
	}
	return utils.ResetDir(dir)
}

// contains reports whether path lies under dir.
func contains(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
