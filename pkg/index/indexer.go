// Package index builds the on-disk n-gram index: it ranks a word list by
// Scrabble score, maps every n-gram of every word to the ranks of the words
// containing it, and writes the rank table and the bucketed posting lists.
//
// An Indexer is single-use per output directory and not safe for concurrent
// use; callers reset the directory before a build.
package index

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/bastiangx/scrabbler/internal/logger"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/ngram"
	"github.com/bastiangx/scrabbler/pkg/score"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var (
	// ErrNotRanked is returned when postings are built before the vocabulary
	// has been ranked.
	ErrNotRanked = errors.New("vocabulary not ranked")
	// ErrRankMissing is returned when a word read while building postings has
	// no rank, meaning the word list changed between the two passes.
	ErrRankMissing = errors.New("word has no rank")
)

// Options configures an Indexer.
type Options struct {
	Dir      string
	MaxNGram int
	Buckets  int
	Hash     dictionary.HashKind
	Logger   *log.Logger
}

// Stats describes the last build.
type Stats struct {
	Words       int
	NGrams      int
	LongestWord string
}

// Indexer turns a word list into an index directory.
type Indexer struct {
	dir    string
	gen    *ngram.Generator
	router *dictionary.Router
	log    *log.Logger

	table    *dictionary.RankTable
	postings *patricia.Trie // ngram -> *roaring.Bitmap of ranks
	stats    Stats
}

// New validates opts and returns an Indexer writing into opts.Dir.
func New(opts Options) (*Indexer, error) {
	if opts.Dir == "" {
		return nil, errors.New("index dir is required")
	}
	if opts.MaxNGram < 1 {
		return nil, fmt.Errorf("max n-gram must be at least 1, got %d", opts.MaxNGram)
	}
	router, err := dictionary.NewRouter(opts.Buckets, opts.Hash)
	if err != nil {
		return nil, err
	}
	l := opts.Logger
	if l == nil {
		l = logger.New("indexer")
	}
	return &Indexer{
		dir:      opts.Dir,
		gen:      ngram.NewGenerator(opts.MaxNGram),
		router:   router,
		log:      l,
		postings: patricia.NewTrie(),
	}, nil
}

// Index ranks the vocabulary, builds the postings and writes every artifact.
func (ix *Indexer) Index(wordListPath string) error {
	start := time.Now()
	if err := os.MkdirAll(ix.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index dir %s: %w", ix.dir, err)
	}
	if err := ix.RankVocabulary(wordListPath); err != nil {
		return err
	}
	if err := ix.BuildPostings(wordListPath); err != nil {
		return err
	}
	if err := ix.WritePostings(); err != nil {
		return err
	}

	manifest := dictionary.Manifest{
		MaxNGram:    ix.gen.Max(),
		Buckets:     ix.router.Buckets(),
		Hash:        ix.router.Hash(),
		Words:       ix.stats.Words,
		NGrams:      ix.stats.NGrams,
		LongestWord: ix.stats.LongestWord,
	}
	if err := dictionary.WriteManifest(ix.dir, manifest); err != nil {
		return err
	}

	ix.log.Info("Completed indexing",
		"words", ix.stats.Words,
		"ngrams", ix.stats.NGrams,
		"buckets", ix.router.Buckets(),
		"took", time.Since(start))
	return nil
}

// RankVocabulary reads the word list, orders it by descending score (ties by
// descending text), assigns ranks N..1 and writes the rank table.
func (ix *Indexer) RankVocabulary(wordListPath string) error {
	ix.log.Debug("Ranking words")
	start := time.Now()

	var vocab []score.Word
	seen := make(map[string]struct{})
	err := dictionary.ReadWordList(wordListPath, func(word string, line int) error {
		if _, dup := seen[word]; dup {
			ix.log.Warnf("Duplicate word %q at line %d, keeping first", word, line)
			return nil
		}
		w, err := score.NewWord(word)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", wordListPath, line, err)
		}
		seen[word] = struct{}{}
		vocab = append(vocab, w)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rank words: %w", err)
	}

	slices.SortFunc(vocab, score.Descending)

	descending := make([]string, len(vocab))
	longest := ""
	for i, w := range vocab {
		descending[i] = w.Text
		if len(w.Text) > len(longest) {
			longest = w.Text
		}
	}
	ix.table = dictionary.NewRankTable(descending)
	ix.postings = patricia.NewTrie()
	ix.stats = Stats{Words: len(vocab), LongestWord: longest}

	ix.log.Debugf("Word with max length: %s (%d)", longest, len(longest))

	if err := dictionary.WriteRankTable(dictionary.WordsPath(ix.dir), ix.table); err != nil {
		return err
	}
	ix.log.Debugf("Completed ranking %d words in %v", len(vocab), time.Since(start))
	return nil
}

// BuildPostings adds the rank of every word to the posting list of each of
// its n-grams. RankVocabulary must have run on the same word list.
func (ix *Indexer) BuildPostings(wordListPath string) error {
	if ix.table == nil {
		return ErrNotRanked
	}
	ix.log.Debug("Building n-gram postings")
	start := time.Now()

	err := dictionary.ReadWordList(wordListPath, func(word string, line int) error {
		rank, ok := ix.table.Rank(word)
		if !ok {
			return fmt.Errorf("%w: %q at %s:%d", ErrRankMissing, word, wordListPath, line)
		}
		for _, gram := range ix.gen.GenerateAll(word) {
			key := patricia.Prefix(gram)
			if item := ix.postings.Get(key); item != nil {
				item.(*roaring.Bitmap).Add(rank)
				continue
			}
			ix.postings.Insert(key, roaring.BitmapOf(rank))
			ix.stats.NGrams++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to build postings: %w", err)
	}

	ix.log.Debugf("Completed building %d n-gram postings in %v", ix.stats.NGrams, time.Since(start))
	return nil
}

// WritePostings routes every n-gram to its bucket and writes one file per
// bucket, n-grams in lexicographic order and ranks in descending order.
func (ix *Indexer) WritePostings() error {
	ix.log.Debug("Writing n-gram postings")
	start := time.Now()

	buckets := make([][]byte, ix.router.Buckets())
	var ranks []uint32
	err := ix.postings.Visit(func(p patricia.Prefix, item patricia.Item) error {
		ranks = drainDescending(item.(*roaring.Bitmap), ranks[:0])
		gram := string(p)
		id := ix.router.Bucket(gram)
		buckets[id] = dictionary.AppendPosting(buckets[id], gram, ranks)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to collect postings: %w", err)
	}

	if err := dictionary.WriteBuckets(ix.dir, buckets); err != nil {
		return err
	}
	ix.log.Debugf("Completed writing %d buckets in %v", len(buckets), time.Since(start))
	return nil
}

// Stats returns counters of the last build.
func (ix *Indexer) Stats() Stats {
	return ix.stats
}

// drainDescending appends the ranks of bm to dst, highest first.
func drainDescending(bm *roaring.Bitmap, dst []uint32) []uint32 {
	it := bm.ReverseIterator()
	for it.HasNext() {
		dst = append(dst, it.Next())
	}
	return dst
}
