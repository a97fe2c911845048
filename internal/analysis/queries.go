package analysis

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/bastiangx/scrabbler/pkg/dictionary"
)

// ExtractWords returns the words of the list with at least minLength letters,
// in list order.
func ExtractWords(wordList string, minLength int) ([]string, error) {
	var words []string
	err := dictionary.ReadWordList(wordList, func(word string, _ int) error {
		if len(word) >= minLength {
			words = append(words, word)
		}
		return nil
	})
	return words, err
}

// RandomWords generates n lowercase strings with lengths in
// [minLength, maxLength].
func RandomWords(rng *rand.Rand, minLength, maxLength, n int) []string {
	if maxLength < minLength {
		maxLength = minLength
	}
	words := make([]string, 0, n)
	var b strings.Builder
	for range n {
		b.Reset()
		length := minLength + rng.IntN(maxLength-minLength+1)
		for range length {
			b.WriteByte(byte('a' + rng.IntN(26)))
		}
		words = append(words, b.String())
	}
	return words
}

// TestQueries picks n distinct queries: about half from real words, the rest
// from random letter strings, so both hits and misses are timed.
func TestQueries(rng *rand.Rand, known, random []string, n int) ([]string, error) {
	seen := make(map[string]struct{}, n)
	queries := make([]string, 0, n)

	pick := func(candidates []string, target int) {
		// bounded so a small candidate pool cannot spin forever
		for tries := 0; len(queries) < target && tries < 20*n && len(candidates) > 0; tries++ {
			q := candidates[rng.IntN(len(candidates))]
			if _, ok := seen[q]; ok {
				continue
			}
			seen[q] = struct{}{}
			queries = append(queries, q)
		}
	}
	pick(known, n/2)
	pick(random, n)

	if len(queries) < n {
		return queries, fmt.Errorf("only %d distinct queries available, wanted %d", len(queries), n)
	}
	return queries, nil
}

// WriteList stores words as a single comma terminated line.
func WriteList(path string, words []string) error {
	var buf bytes.Buffer
	for _, w := range words {
		buf.WriteString(w)
		buf.WriteByte(',')
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadList reads a file written by WriteList.
func ReadList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, w := range strings.Split(strings.TrimSpace(string(data)), ",") {
		if w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}
