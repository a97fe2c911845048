package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadWordList calls fn with every word of the newline-delimited list at
// path, in file order. Surrounding whitespace is trimmed and blank lines are
// skipped. line is the 1-based line number of word.
func ReadWordList(path string, fn func(word string, line int) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if err := fn(word, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return nil
}
