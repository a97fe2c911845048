// Package dictionary owns the on-disk artifacts shared by the indexer and the
// suggester: the rank table, the bucketed posting files, the bucket router
// and the index manifest.
//
// An index directory looks like:
//
//	index/
//	  words          <count>,<word_rank_N>,<word_rank_N-1>,...,<word_rank_1>,
//	  ngrams_0       <ngram>=<rank>,<rank>,...\n  (ranks descending)
//	  ...
//	  ngrams_<n-1>
//	  manifest.toml  build parameters, checked at load time
package dictionary

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// WordsFile is the rank table file name.
	WordsFile = "words"
	// BucketPrefix prefixes every bucket file name; the suffix is the bucket id.
	BucketPrefix = "ngrams_"
	// ManifestFile records the parameters an index was built with.
	ManifestFile = "manifest.toml"
)

var (
	// ErrMalformedRankTable is returned when the rank table cannot be decoded.
	ErrMalformedRankTable = errors.New("malformed rank table")
	// ErrMalformedBucket is returned when a bucket line cannot be decoded.
	ErrMalformedBucket = errors.New("malformed bucket file")
	// ErrIndexMismatch is returned when an index on disk disagrees with the
	// parameters it is being read with, or references unknown ranks.
	ErrIndexMismatch = errors.New("index mismatch")
)

// WordsPath returns the rank table path inside dir.
func WordsPath(dir string) string {
	return filepath.Join(dir, WordsFile)
}

// BucketPath returns the path of bucket id inside dir.
func BucketPath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d", BucketPrefix, id))
}

// ManifestPath returns the manifest path inside dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFile)
}
