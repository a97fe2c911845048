// Copyright 2025 The Scrabbler Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the scrabbler command: it builds an n-gram index over
a word list and suggests the highest scoring Scrabble words that contain a
given run of letters.

# Usage

Build an index from a word list, one word per line:

	scrabbler index --word-list words.txt --dir index

Ask for the ten best words containing "dog":

	scrabbler suggest --top 10 dog

	endogeny (13)
	fogdog (12)
	firedog (12)
	...

Queries must be letters only. A query with no match prints

	Sorry, there is no suggestion for nosuggestion.

Other commands:

	scrabbler interactive     read queries from stdin, one per line
	scrabbler serve           msgpack IPC over stdin/stdout (see pkg/server)
	scrabbler analyze         word list statistics and a bucket count sweep
	scrabbler version

# Index

The index directory holds a rank table ("words"), one bucket file per bucket
("ngrams_0" .. "ngrams_<buckets-1>") and a manifest.toml recording the build
parameters. The suggester refuses to load an index whose manifest or bucket
files disagree with the requested --max-ngram, --buckets or --hash, so always
query with the values the index was built with. The config file is the easy
way to keep them in one place.

# Configuration

	[index]
	word_list = "words.txt"
	dir = "index"
	max_ngram = 4
	buckets = 50
	hash = "java"

	[query]
	default_limit = 10
	min_query_len = 1
	max_query_len = 21

	[server]
	max_limit = 64

Pass it with --config. The file is created with defaults if it doesn't exist.
Command line flags override file values.

# Flags

	--config, -c  path to the TOML config
	--debug, -d   debug logging with timestamps
	--log-format  text, json or logfmt
	--dir         index directory
	--max-ngram   widest n-gram indexed
	--buckets     number of bucket files
	--hash        bucket hash, java or xxhash
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

const (
	Version = "0.3.0"
	AppName = "scrabbler"
	gh      = "https://github.com/bastiangx/scrabbler"
)

// sigHandler is a simple handler for OS signals to exit normally.
// Used by the long running stdin loops; analyze cancels a context instead.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   AppName,
		Usage:                  "Suggest the best scoring Scrabble words containing a query",
		Version:                Version,
		UseShortOptionHandling: true,
		HideVersion:            true,
		Flags:                  globalFlags(),
		Before:                 setupLogging,
		Commands: []*cli.Command{
			indexCommand(),
			suggestCommand(),
			interactiveCommand(),
			serveCommand(),
			analyzeCommand(),
			versionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (created with defaults if missing)",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Toggle debug mode",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json or logfmt",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Index directory (overrides config)",
		},
		&cli.IntFlag{
			Name:  "max-ngram",
			Usage: "Widest n-gram indexed (overrides config)",
		},
		&cli.IntFlag{
			Name:  "buckets",
			Usage: "Number of bucket files (overrides config)",
		},
		&cli.StringFlag{
			Name:  "hash",
			Usage: "Bucket hash: java or xxhash (overrides config)",
		},
	}
}

// main only wires the commands; each command lives in commands.go.
func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
