// Package suggest answers queries against an index written by package index.
// It loads only the rank table up front; posting lists are read per query
// from the buckets the query's n-grams route to.
package suggest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/scrabbler/internal/logger"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/ngram"
	"github.com/bastiangx/scrabbler/pkg/score"
	"github.com/charmbracelet/log"
)

// ErrIndexMismatch is returned when the index on disk does not agree with
// the options it is loaded with, or a posting references an unknown rank.
var ErrIndexMismatch = dictionary.ErrIndexMismatch

// Options configures a Suggester. MaxNGram, Buckets and Hash must match the
// values the index was built with.
type Options struct {
	Dir      string
	MaxNGram int
	Buckets  int
	Hash     dictionary.HashKind
	Logger   *log.Logger
}

// Suggester is immutable after Load and safe for concurrent queries, as long
// as nobody rebuilds the index directory underneath it.
type Suggester struct {
	dir    string
	gen    *ngram.Generator
	router *dictionary.Router
	table  *dictionary.RankTable
	log    *log.Logger
}

// Load validates the index directory and reads the rank table into memory.
func Load(opts Options) (*Suggester, error) {
	if opts.MaxNGram < 1 {
		return nil, fmt.Errorf("max n-gram must be at least 1, got %d", opts.MaxNGram)
	}
	router, err := dictionary.NewRouter(opts.Buckets, opts.Hash)
	if err != nil {
		return nil, err
	}
	l := opts.Logger
	if l == nil {
		l = logger.New("suggester")
	}

	l.Debug("Loading index", "dir", opts.Dir)
	start := time.Now()

	manifest, ok, err := dictionary.ReadManifest(opts.Dir)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := manifest.Check(opts.MaxNGram, router.Buckets(), router.Hash()); err != nil {
			return nil, err
		}
	} else {
		l.Warnf("No manifest in %s, build parameters cannot be verified", opts.Dir)
	}

	if err := dictionary.ValidateIndexDir(opts.Dir, router.Buckets()); err != nil {
		return nil, err
	}

	table, err := dictionary.ReadRankTable(dictionary.WordsPath(opts.Dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	if ok && manifest.Words != table.Len() {
		return nil, fmt.Errorf("%w: manifest lists %d words, rank table has %d",
			ErrIndexMismatch, manifest.Words, table.Len())
	}

	l.Debugf("Completed loading %d words in %v", table.Len(), time.Since(start))
	return &Suggester{
		dir:    opts.Dir,
		gen:    ngram.NewGenerator(opts.MaxNGram),
		router: router,
		table:  table,
		log:    l,
	}, nil
}

// Words returns the vocabulary size.
func (s *Suggester) Words() int {
	return s.table.Len()
}

// MaxNGram returns the widest n-gram width used for queries.
func (s *Suggester) MaxNGram() int {
	return s.gen.Max()
}

// Buckets returns the bucket count of the loaded index.
func (s *Suggester) Buckets() int {
	return s.router.Buckets()
}

// Hash returns the bucket hash of the loaded index.
func (s *Suggester) Hash() dictionary.HashKind {
	return s.router.Hash()
}

// ResolveBuckets maps each n-gram to the bucket file holding it, grouping
// n-grams that share a file.
func (s *Suggester) ResolveBuckets(ngrams []string) map[string][]string {
	files := make(map[string][]string)
	for id, grams := range s.router.Group(ngrams) {
		files[dictionary.BucketPath(s.dir, id)] = grams
	}
	return files
}

// LoadPostings scans each bucket file once and returns the rank lists of the
// requested n-grams, highest rank first. N-grams absent from the index are
// absent from the result.
func (s *Suggester) LoadPostings(files map[string][]string) (map[string][]uint32, error) {
	postings := make(map[string][]uint32)
	for path, grams := range files {
		wanted := make(map[string]struct{}, len(grams))
		for _, g := range grams {
			wanted[g] = struct{}{}
		}
		err := dictionary.ScanBucket(path, wanted, func(gram string, ranks []uint32) {
			postings[gram] = ranks
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load n-gram postings: %w", err)
		}
	}
	s.log.Debugf("Read %d bucket files", len(files))
	return postings, nil
}

// Suggest returns up to top words containing query, best score first and,
// on equal score, the lexicographically later word first.
//
// Each query n-gram contributes at most top words that contain query and were
// not already picked for another n-gram; the merged pool is then re-sorted
// and cut to top. A non-positive top returns an empty list without touching
// the index.
func (s *Suggester) Suggest(query string, top int) ([]score.Word, error) {
	suggestions := []score.Word{}
	if top <= 0 || query == "" {
		return suggestions, nil
	}

	s.log.Debug("Computing suggestions", "query", query, "top", top)
	start := time.Now()

	grams := s.gen.Generate(query)
	postings, err := s.LoadPostings(s.ResolveBuckets(grams))
	if err != nil {
		return nil, err
	}

	var candidates []score.Word
	seen := make(map[string]struct{})
	for _, gram := range grams {
		ranks := postings[gram]
		accepted := 0
		for _, rank := range ranks {
			if accepted >= top {
				break
			}
			word, ok := s.table.Word(rank)
			if !ok {
				return nil, fmt.Errorf("%w: n-gram %q references rank %d, vocabulary has %d words",
					ErrIndexMismatch, gram, rank, s.table.Len())
			}
			if _, dup := seen[word]; dup || !strings.Contains(word, query) {
				continue
			}
			w, err := score.NewWord(word)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrIndexMismatch, err)
			}
			seen[word] = struct{}{}
			candidates = append(candidates, w)
			accepted++
		}
	}

	slices.SortFunc(candidates, score.Descending)
	if len(candidates) > top {
		candidates = candidates[:top]
	}
	suggestions = append(suggestions, candidates...)

	s.log.Debugf("Completed computing %d suggestions in %v", len(suggestions), time.Since(start))
	return suggestions, nil
}

// IsIndexMismatch reports whether err stems from an inconsistent index.
func IsIndexMismatch(err error) bool {
	return errors.Is(err, ErrIndexMismatch)
}
