// Package analysis measures a word list and the indexes built from it.
// It backs the "analyze" command and is used to pick max n-gram and bucket
// counts for a dictionary.
package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/index"
	"github.com/bastiangx/scrabbler/pkg/ngram"
	"github.com/charmbracelet/log"
)

// WordCount returns a histogram of word lengths: counts[n] is the number of
// words with n letters.
func WordCount(wordList string) ([]int, error) {
	var counts []int
	err := dictionary.ReadWordList(wordList, func(word string, _ int) error {
		counts = bump(counts, len(word))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// NGramCount returns, for every width n up to maxNGram, how many
// (word, n-gram) pairs the word list produces. A word contributes each
// distinct n-gram once.
func NGramCount(wordList string, maxNGram int) ([]int, error) {
	gen := ngram.NewGenerator(maxNGram)
	counts := make([]int, gen.Max()+1)
	err := dictionary.ReadWordList(wordList, func(word string, _ int) error {
		for _, g := range gen.GenerateAll(word) {
			counts[len(g)]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// IndexSize builds a single bucket index for every max n-gram from 1 to
// maxNGram inside workDir and returns the bucket size in bytes per width.
// workDir is reset before each build.
func IndexSize(wordList, workDir string, maxNGram int, logger *log.Logger) ([]int64, error) {
	if logger == nil {
		logger = log.Default()
	}
	sizes := make([]int64, maxNGram+1)
	for n := 1; n <= maxNGram; n++ {
		if err := index.PrepareDir(workDir, wordList); err != nil {
			return nil, err
		}
		ix, err := index.New(index.Options{
			Dir:      workDir,
			MaxNGram: n,
			Buckets:  1,
			Hash:     dictionary.HashJava,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		if err := ix.Index(wordList); err != nil {
			return nil, fmt.Errorf("failed to index with max n-gram %d: %w", n, err)
		}

		info, err := os.Stat(dictionary.BucketPath(workDir, 0))
		if err != nil {
			return nil, err
		}
		sizes[n] = info.Size()
		logger.Debugf("max n-gram %d: %s bytes", n, utils.FormatWithCommas(sizes[n]))
	}
	return sizes, nil
}

// LongestWord returns the length of the longest word in the list.
func LongestWord(wordList string) (int, error) {
	counts, err := WordCount(wordList)
	if err != nil {
		return 0, err
	}
	return max(len(counts)-1, 0), nil
}

func bump(counts []int, n int) []int {
	for len(counts) <= n {
		counts = append(counts, 0)
	}
	counts[n]++
	return counts
}

// scratchDir returns a per-run directory under root.
func scratchDir(root, name string) string {
	return filepath.Join(root, name)
}
