/*
Package config manages the TOML config shared by the scrabbler commands.

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

The [index] values are read by both the indexer and the suggester; an index
must be queried with the max_ngram, buckets and hash it was built with.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/scrabbler/internal/utils"
	"github.com/bastiangx/scrabbler/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Index  IndexConfig  `toml:"index"`
	Query  QueryConfig  `toml:"query"`
	Server ServerConfig `toml:"server"`
}

// IndexConfig holds build parameters and the index location.
type IndexConfig struct {
	WordList string `toml:"word_list"`
	Dir      string `toml:"dir"`
	MaxNGram int    `toml:"max_ngram"`
	Buckets  int    `toml:"buckets"`
	Hash     string `toml:"hash"`
}

// QueryConfig holds query defaults.
type QueryConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MinQueryLen  int `toml:"min_query_len"`
	MaxQueryLen  int `toml:"max_query_len"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			WordList: "words.txt",
			Dir:      "index",
			MaxNGram: 4,
			Buckets:  50,
			Hash:     string(dictionary.HashJava),
		},
		Query: QueryConfig{
			DefaultLimit: 10,
			MinQueryLen:  1,
			// longest word of the Moby crossword list
			MaxQueryLen: 21,
		},
		Server: ServerConfig{
			MaxLimit: 64,
		},
	}
}

// Validate rejects values the indexer or suggester cannot work with.
func (c *Config) Validate() error {
	if c.Index.Dir == "" {
		return fmt.Errorf("index.dir must not be empty")
	}
	if c.Index.MaxNGram < 1 {
		return fmt.Errorf("index.max_ngram must be at least 1, got %d", c.Index.MaxNGram)
	}
	if c.Index.Buckets < 1 {
		return fmt.Errorf("index.buckets must be at least 1, got %d", c.Index.Buckets)
	}
	if _, err := dictionary.ParseHashKind(c.Index.Hash); err != nil {
		return fmt.Errorf("index.hash: %w", err)
	}
	if c.Query.MinQueryLen < 1 || c.Query.MaxQueryLen < c.Query.MinQueryLen {
		return fmt.Errorf("query length bounds [%d, %d] are invalid", c.Query.MinQueryLen, c.Query.MaxQueryLen)
	}
	if c.Server.MaxLimit < 1 {
		return fmt.Errorf("server.max_limit must be at least 1, got %d", c.Server.MaxLimit)
	}
	return nil
}

// HashKind returns the parsed index.hash value.
func (c *Config) HashKind() dictionary.HashKind {
	kind, err := dictionary.ParseHashKind(c.Index.Hash)
	if err != nil {
		return dictionary.HashJava
	}
	return kind
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not parse as a whole
// is recovered section by section; values that are missing or of the wrong
// type keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(tempConfig, "query"); ok {
		extractQueryConfig(section, &config.Query)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_limit"); ok {
			config.Server.MaxLimit = val
		}
	}
	return config, nil
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractString(data, "word_list"); ok {
		index.WordList = val
	}
	if val, ok := utils.ExtractString(data, "dir"); ok {
		index.Dir = val
	}
	if val, ok := utils.ExtractInt64(data, "max_ngram"); ok {
		index.MaxNGram = val
	}
	if val, ok := utils.ExtractInt64(data, "buckets"); ok {
		index.Buckets = val
	}
	if val, ok := utils.ExtractString(data, "hash"); ok {
		index.Hash = val
	}
}

func extractQueryConfig(data map[string]any, query *QueryConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		query.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query_len"); ok {
		query.MinQueryLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		query.MaxQueryLen = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
