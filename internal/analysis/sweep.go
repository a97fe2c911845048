package analysis

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/bastiangx/scrabbler/pkg/index"
	"github.com/bastiangx/scrabbler/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultBucketCounts are the bucket counts swept when none are given.
var DefaultBucketCounts = []int{250, 500, 750, 1000, 1250, 1500}

// SweepOptions configures BucketSweep.
type SweepOptions struct {
	WordList     string
	WorkDir      string
	MaxNGram     int
	Hash         dictionary.HashKind
	BucketCounts []int
	Queries      []string
	Top          int
	Iterations   int
	// Workers bounds concurrent queries; 0 means GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

// SweepResult is the query timing for one bucket count.
type SweepResult struct {
	Buckets int
	// Runs holds one wall time per iteration.
	Runs []time.Duration
}

// Mean returns the average of Runs.
func (r SweepResult) Mean() time.Duration {
	if len(r.Runs) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range r.Runs {
		total += d
	}
	return total / time.Duration(len(r.Runs))
}

// BucketSweep builds one index per bucket count and times running every
// query against it. Results are ordered by bucket count.
func BucketSweep(ctx context.Context, opts SweepOptions) ([]SweepResult, error) {
	if len(opts.Queries) == 0 {
		return nil, fmt.Errorf("no queries to run")
	}
	counts := opts.BucketCounts
	if len(counts) == 0 {
		counts = DefaultBucketCounts
	}
	counts = slices.Sorted(slices.Values(counts))
	iterations := max(opts.Iterations, 1)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	results := make([]SweepResult, 0, len(counts))
	for _, buckets := range counts {
		dir := scratchDir(opts.WorkDir, fmt.Sprintf("buckets_%d", buckets))
		s, err := buildAndLoad(opts, dir, buckets, logger)
		if err != nil {
			return nil, err
		}

		res := SweepResult{Buckets: buckets}
		for i := range iterations {
			logger.Infof("Running %d queries with %d buckets (iteration %d)", len(opts.Queries), buckets, i+1)
			elapsed, err := runQueries(ctx, s, opts.Queries, opts.Top, workers)
			if err != nil {
				return nil, fmt.Errorf("sweep with %d buckets: %w", buckets, err)
			}
			res.Runs = append(res.Runs, elapsed)
		}
		logger.Infof("Completed %d buckets, mean %v", buckets, res.Mean())
		results = append(results, res)
	}
	return results, nil
}

func buildAndLoad(opts SweepOptions, dir string, buckets int, logger *log.Logger) (*suggest.Suggester, error) {
	if err := index.PrepareDir(dir, opts.WordList); err != nil {
		return nil, err
	}
	ix, err := index.New(index.Options{
		Dir:      dir,
		MaxNGram: opts.MaxNGram,
		Buckets:  buckets,
		Hash:     opts.Hash,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	if err := ix.Index(opts.WordList); err != nil {
		return nil, err
	}
	return suggest.Load(suggest.Options{
		Dir:      dir,
		MaxNGram: opts.MaxNGram,
		Buckets:  buckets,
		Hash:     opts.Hash,
		Logger:   logger,
	})
}

func runQueries(ctx context.Context, s *suggest.Suggester, queries []string, top, workers int) (time.Duration, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	start := time.Now()
	for _, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := s.Suggest(q, top)
			return err
		})
	}
	err := g.Wait()
	return time.Since(start), err
}
