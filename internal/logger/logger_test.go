package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var out bytes.Buffer
	Init(Config{LogLevel: "warn"}, &out)
	t.Cleanup(func() { Init(NewConfig(), nil) })

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	require.NotContains(t, out.String(), "hidden 1")
	require.Contains(t, out.String(), "shown 2")
	require.Contains(t, out.String(), "source=logger_test.go")
}

func TestTagFiltering(t *testing.T) {
	var out bytes.Buffer
	Init(Config{LogLevel: "debug", DisabledTags: []string{"noisy"}}, &out)
	t.Cleanup(func() { Init(NewConfig(), nil) })

	DebugTagf("noisy", "dropped")
	DebugTagf("tagsync", "kept")

	require.NotContains(t, out.String(), "dropped")
	require.Contains(t, out.String(), "kept")
	require.Contains(t, out.String(), "tag=tagsync")
}

func TestEnabledTagsDropUntagged(t *testing.T) {
	var out bytes.Buffer
	Init(Config{LogLevel: "debug", EnabledTags: []string{"tagsync"}}, &out)
	t.Cleanup(func() { Init(NewConfig(), nil) })

	Debugf("untagged")
	DebugTagf("TagSync", "tagged")

	require.NotContains(t, out.String(), "untagged")
	require.Contains(t, out.String(), "tagged")
}

func TestPackageFiltering(t *testing.T) {
	var out bytes.Buffer
	Init(Config{LogLevel: "debug", DisabledPackages: []string{"logger"}}, &out)
	t.Cleanup(func() { Init(NewConfig(), nil) })

	Infof("from logger package")
	require.Empty(t, out.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("err"))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
