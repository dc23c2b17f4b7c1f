// Package config provides the constructor-injected configuration for the
// conversation memory core. There are no process-wide mutable globals: a
// Config is built once and handed to the components that need it.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the memory core's tunables.
type Config struct {
	// MemoryDir is where the sessions index, transcripts and archive live.
	MemoryDir string

	// MaxContextLength is the conversation window capacity.
	MaxContextLength int

	// FlushEvery is the auto-flush cadence in turns.
	FlushEvery int

	// KeywordCap bounds the per-session and per-extraction keyword sets.
	KeywordCap int

	// ArchiveOnSupersede copies a session into the sqlite archive when a
	// new session replaces it.
	ArchiveOnSupersede bool
}

const (
	defaultContextLength = 50
	defaultFlushEvery    = 5
	defaultKeywordCap    = 10
)

// Default returns the stock configuration rooted at ~/.ari/memory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		MemoryDir:        filepath.Join(home, ".ari", "memory"),
		MaxContextLength: defaultContextLength,
		FlushEvery:       defaultFlushEvery,
		KeywordCap:       defaultKeywordCap,
	}
}

// FromEnv returns Default overridden by ARI_MEMORY_DIR, ARI_CONTEXT_LENGTH
// and ARI_ARCHIVE, for CLI use. Library callers should build a Config
// directly instead.
func FromEnv() Config {
	cfg := Default()
	if dir := os.Getenv("ARI_MEMORY_DIR"); dir != "" {
		cfg.MemoryDir = dir
	}
	if v := os.Getenv("ARI_CONTEXT_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxContextLength = n
		}
	}
	if v := os.Getenv("ARI_ARCHIVE"); v == "1" || strings.EqualFold(v, "true") {
		cfg.ArchiveOnSupersede = true
	}
	return cfg
}

// Normalized returns a copy with zero or negative fields replaced by
// defaults.
func (c Config) Normalized() Config {
	if c.MemoryDir == "" {
		c.MemoryDir = Default().MemoryDir
	}
	if c.MaxContextLength <= 0 {
		c.MaxContextLength = defaultContextLength
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = defaultFlushEvery
	}
	if c.KeywordCap <= 0 {
		c.KeywordCap = defaultKeywordCap
	}
	return c
}
