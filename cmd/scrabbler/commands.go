package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bastiangx/scrabbler/internal/analysis"
	clipkg "github.com/bastiangx/scrabbler/internal/cli"
	"github.com/bastiangx/scrabbler/internal/logger"
	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/config"
	"github.com/bastiangx/scrabbler/pkg/index"
	"github.com/bastiangx/scrabbler/pkg/server"
	"github.com/bastiangx/scrabbler/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

// setupLogging replaces the default logger according to --debug and
// --log-format. Logs go to the app error writer, stderr by default.
func setupLogging(c *cli.Context) error {
	var formatter log.Formatter
	switch c.String("log-format") {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return fmt.Errorf("unknown log format %q", c.String("log-format"))
	}

	level := log.WarnLevel
	debug := c.Bool("debug")
	if debug {
		level = log.DebugLevel
	}
	log.SetDefault(logger.NewWithConfig(c.App.ErrWriter, "", level, false, debug, formatter))
	return nil
}

// loadConfig reads --config when given and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.InitConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log.Debugf("Using config file: (%s)", path)
	}

	if c.IsSet("dir") {
		cfg.Index.Dir = c.String("dir")
	}
	if c.IsSet("max-ngram") {
		cfg.Index.MaxNGram = c.Int("max-ngram")
	}
	if c.IsSet("buckets") {
		cfg.Index.Buckets = c.Int("buckets")
	}
	if c.IsSet("hash") {
		cfg.Index.Hash = c.String("hash")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadSuggester(cfg *config.Config) (*suggest.Suggester, error) {
	s, err := suggest.Load(suggest.Options{
		Dir:      cfg.Index.Dir,
		MaxNGram: cfg.Index.MaxNGram,
		Buckets:  cfg.Index.Buckets,
		Hash:     cfg.HashKind(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load index from %s: %w", cfg.Index.Dir, err)
	}
	return s, nil
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Build the index from a word list, replacing any previous index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "word-list",
				Aliases: []string{"w"},
				Usage:   "Word list, one word per line (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			wordList := cfg.Index.WordList
			if c.IsSet("word-list") {
				wordList = c.String("word-list")
			}

			if err := index.PrepareDir(cfg.Index.Dir, wordList); err != nil {
				return err
			}
			ix, err := index.New(index.Options{
				Dir:      cfg.Index.Dir,
				MaxNGram: cfg.Index.MaxNGram,
				Buckets:  cfg.Index.Buckets,
				Hash:     cfg.HashKind(),
			})
			if err != nil {
				return err
			}

			start := time.Now()
			if err := ix.Index(wordList); err != nil {
				return fmt.Errorf("failed to index %s: %w", wordList, err)
			}
			elapsed := time.Since(start)
			stats := ix.Stats()
			size, err := utils.DirSize(cfg.Index.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Indexed %s words (%s n-grams, longest %q) into %s: %s bytes in %v\n",
				utils.FormatWithCommas(int64(stats.Words)),
				utils.FormatWithCommas(int64(stats.NGrams)),
				stats.LongestWord,
				utils.GetAbsolutePath(cfg.Index.Dir),
				utils.FormatWithCommas(size),
				elapsed.Round(time.Millisecond))
			return nil
		},
	}
}

func topFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "top",
		Aliases: []string{"n"},
		Usage:   "Number of suggestions to return (default from config)",
	}
}

func topValue(c *cli.Context, cfg *config.Config) int {
	if c.IsSet("top") {
		return c.Int("top")
	}
	return cfg.Query.DefaultLimit
}

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Aliases:   []string{"s"},
		Usage:     "Print the best scoring words containing each query",
		ArgsUsage: "QUERY [QUERY...]",
		Flags:     []cli.Flag{topFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("at least one query is required")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := loadSuggester(cfg)
			if err != nil {
				return err
			}

			h := clipkg.NewInputHandler(s, cfg.Query.MinQueryLen, cfg.Query.MaxQueryLen, topValue(c, cfg), c.App.Writer)
			var errs []error
			for _, q := range c.Args().Slice() {
				if err := h.HandleQuery(q); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Read queries from stdin, one per line",
		Flags:   []cli.Flag{topFlag()},
		Action: func(c *cli.Context) error {
			sigHandler()
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := loadSuggester(cfg)
			if err != nil {
				return err
			}
			log.Debug("Input info:",
				"minQuery", cfg.Query.MinQueryLen,
				"maxQuery", cfg.Query.MaxQueryLen,
				"top", topValue(c, cfg))

			h := clipkg.NewInputHandler(s, cfg.Query.MinQueryLen, cfg.Query.MaxQueryLen, topValue(c, cfg), c.App.Writer)
			return h.Start(os.Stdin)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Answer msgpack requests on stdin/stdout",
		Action: func(c *cli.Context) error {
			sigHandler()
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := loadSuggester(cfg)
			if err != nil {
				return err
			}
			showStartupInfo(cfg, s.Words())
			return server.NewServer(s, cfg, os.Stdin, os.Stdout).Start()
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Word list statistics and query timings across bucket counts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "word-list",
				Aliases: []string{"w"},
				Usage:   "Word list (overrides config)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory for generated query lists and scratch indexes",
				Value: "analysis",
			},
			&cli.IntFlag{Name: "min-length", Usage: "Minimum query length", Value: 5},
			&cli.IntFlag{Name: "queries", Usage: "Number of test queries", Value: 500},
			&cli.IntFlag{Name: "iterations", Usage: "Timed runs per bucket count", Value: 5},
			&cli.IntFlag{Name: "top", Usage: "Suggestions per query", Value: 100},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent queries (0 = GOMAXPROCS)"},
			&cli.IntSliceFlag{Name: "sweep", Usage: "Bucket counts to time (default 250..1500)"},
			&cli.BoolFlag{Name: "index-size", Usage: "Also measure index size for every max n-gram"},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed (0 = time based)"},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	wordList := cfg.Index.WordList
	if c.IsSet("word-list") {
		wordList = c.String("word-list")
	}
	out := c.String("out")
	if err := utils.EnsureDir(out); err != nil {
		return err
	}
	w := c.App.Writer

	counts, err := analysis.WordCount(wordList)
	if err != nil {
		return err
	}
	longest := max(len(counts)-1, 0)
	fmt.Fprintf(w, "Word count for each length n word : %v\n", counts)

	grams, err := analysis.NGramCount(wordList, longest)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Word count for each n-gram : %v\n", grams)

	if c.Bool("index-size") {
		sizes, err := analysis.IndexSize(wordList, filepath.Join(out, "index_size"), longest, log.Default())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Index size (bytes) for each max n-gram : %v\n", sizes)
	}

	seed := c.Uint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	minLength := c.Int("min-length")

	known, err := analysis.ExtractWords(wordList, minLength)
	if err != nil {
		return err
	}
	random := analysis.RandomWords(rng, minLength, max(longest, minLength), c.Int("queries"))
	queries, err := analysis.TestQueries(rng, known, random, c.Int("queries"))
	if err != nil {
		log.Warn("Running with fewer queries", "err", err)
	}
	queryFile := filepath.Join(out, fmt.Sprintf("test_words_min_length_%d", minLength))
	if err := analysis.WriteList(queryFile, queries); err != nil {
		return err
	}
	fmt.Fprintf(w, "Picked %d test queries (%d candidate words, seed %d)\n", len(queries), len(known), seed)

	results, err := analysis.BucketSweep(ctx, analysis.SweepOptions{
		WordList:     wordList,
		WorkDir:      filepath.Join(out, "sweep"),
		MaxNGram:     cfg.Index.MaxNGram,
		Hash:         cfg.HashKind(),
		BucketCounts: c.IntSlice("sweep"),
		Queries:      queries,
		Top:          c.Int("top"),
		Iterations:   c.Int("iterations"),
		Workers:      c.Int("workers"),
		Logger:       log.Default(),
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(w, "%5d buckets = %v (mean %v)\n", r.Buckets, r.Runs, r.Mean())
	}
	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show current version",
		Action: func(c *cli.Context) error {
			printBanner()
			return nil
		},
	}
}

func printBanner() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ Scrabbler ] Best scoring words for any run of letters")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the loaded index.
func showStartupInfo(cfg *config.Config, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("index dir: ( %s )", cfg.Index.Dir)
	log.Info("index:", "words", words, "max_ngram", cfg.Index.MaxNGram, "buckets", cfg.Index.Buckets, "hash", cfg.Index.Hash)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
