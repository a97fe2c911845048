// Package score computes Scrabble tile scores for words and defines the
// total order used to rank both the on-disk vocabulary and suggestions.
package score

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLetter is returned when a word holds a character outside a..z
// (case-insensitive).
var ErrInvalidLetter = errors.New("invalid letter")

// points holds the tile value for each letter a..z.
var points = [26]int{
	// a, b, c, d, e, f, g, h, i, j
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8,
	// k, l, m, n, o, p, q, r, s, t
	5, 1, 3, 1, 1, 3, 10, 1, 1, 1,
	// u, v, w, x, y, z
	1, 4, 4, 8, 4, 10,
}

// InvalidLetterError reports the offending character and its byte position.
type InvalidLetterError struct {
	Word string
	Char rune
	Pos  int
}

func (e *InvalidLetterError) Error() string {
	return fmt.Sprintf("word %q has invalid letter %q at position %d", e.Word, e.Char, e.Pos)
}

func (e *InvalidLetterError) Is(target error) bool {
	return target == ErrInvalidLetter
}

// Word is an immutable vocabulary entry.
type Word struct {
	Text  string
	Score int
}

// NewWord scores text and wraps it as a Word.
func NewWord(text string) (Word, error) {
	s, err := Score(text)
	if err != nil {
		return Word{}, err
	}
	return Word{Text: text, Score: s}, nil
}

// Score returns the sum of tile values of word, ignoring case.
func Score(word string) (int, error) {
	total := 0
	for i, r := range word {
		c := r
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			return 0, &InvalidLetterError{Word: word, Char: r, Pos: i}
		}
		total += points[c-'a']
	}
	return total, nil
}

// Compare orders by ascending score, then ascending word text.
func Compare(a, b Word) int {
	if a.Score != b.Score {
		if a.Score < b.Score {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Text, b.Text)
}

// Descending is Compare reversed on both keys at once: higher score first,
// and on equal score the lexicographically later word first.
func Descending(a, b Word) int {
	return Compare(b, a)
}

func (w Word) String() string {
	return fmt.Sprintf("%s (%d)", w.Text, w.Score)
}
