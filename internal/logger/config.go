// Package logger wraps log/slog with printf-style helpers and source/tag filtering.
package logger

import (
	"log/slog"
	"strings"
)

// Config holds all settings for the logger. It is decoded from the [logger] table.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFilePath is the output file. Empty or "-" means stderr.
	LogFilePath string `toml:"log_file"`

	// Tag filters apply to records written through DebugTagf and friends.
	EnabledTags  []string `toml:"enabled_tags"`
	DisabledTags []string `toml:"disabled_tags"`

	// Package filters match the directory of the calling file, e.g. "tagsync" or "markup".
	EnabledPackages  []string `toml:"enabled_packages"`
	DisabledPackages []string `toml:"disabled_packages"`

	// File filters match the base name of the calling file, e.g. "tracker.go".
	EnabledFiles  []string `toml:"enabled_files"`
	DisabledFiles []string `toml:"disabled_files"`
}

// NewConfig returns the defaults: info level, stderr.
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// filterSet is an allow/deny pair of lowercase names.
type filterSet struct {
	allow map[string]struct{}
	deny  map[string]struct{}
}

func newFilterSet(allow, deny []string) filterSet {
	return filterSet{allow: toSet(allow), deny: toSet(deny)}
}

// permits reports whether name passes. Deny wins over allow; an empty allow list allows all.
func (f filterSet) permits(name string) bool {
	name = strings.ToLower(name)
	if _, denied := f.deny[name]; denied {
		return false
	}
	if f.allow == nil {
		return true
	}
	_, ok := f.allow[name]
	return ok
}

func toSet(items []string) map[string]struct{} {
	var set map[string]struct{}
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(items))
		}
		set[item] = struct{}{}
	}
	return set
}
