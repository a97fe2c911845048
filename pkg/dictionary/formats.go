package dictionary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// ValidateIndexDir checks that dir holds a non-empty rank table and exactly
// buckets bucket files. A bucket count smaller than the one used at build
// time is detected by the presence of ngrams_<buckets>.
func ValidateIndexDir(dir string, buckets int) error {
	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat index dir %s: %w", dir, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("index path %s is not a directory", dir)
	}

	words := WordsPath(dir)
	info, err := os.Stat(words)
	if err != nil {
		return fmt.Errorf("failed to stat rank table %s: %w", words, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrMalformedRankTable, words)
	}

	for id := 0; id < buckets; id++ {
		path := BucketPath(dir, id)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: bucket %s: %w", ErrIndexMismatch, path, err)
		}
	}
	if _, err := os.Stat(BucketPath(dir, buckets)); err == nil {
		return fmt.Errorf("%w: %s has more than %d buckets", ErrIndexMismatch, dir, buckets)
	}

	log.Debugf("Index dir %s validated: %d buckets", dir, buckets)
	return nil
}

// IsResettable reports whether dir may be wiped before a build: it is missing,
// empty, or holds nothing but index files ("words", "manifest.toml",
// "ngrams_<n>") with at least a rank table or a manifest among them.
func IsResettable(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return true, nil
	}

	marked := false
	for _, e := range entries {
		if !e.Type().IsRegular() {
			return false, nil
		}
		switch name := e.Name(); {
		case name == WordsFile, name == ManifestFile:
			marked = true
		case isBucketName(name):
		default:
			return false, nil
		}
	}
	return marked, nil
}

func isBucketName(name string) bool {
	id, ok := strings.CutPrefix(name, BucketPrefix)
	if !ok || id == "" {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 32)
	return err == nil
}
