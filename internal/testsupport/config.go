package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"teasers/internal/config"
)

// ConfigOption adjusts the config built by NewConfig.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns the default config with every path rooted in a fresh
// temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Catalog = filepath.Join(base, "teasers.json")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.SegmentsDir = filepath.Join(base, "segments")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Level = "info"
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithTargetSampleRate sets audio.target_sample_rate.
func WithTargetSampleRate(rate int) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Audio.TargetSampleRate = rate
	}
}

// WithPublish turns publishing on for bucket/prefix.
func WithPublish(bucket, prefix string) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Publish.Enabled = true
		cfg.Publish.Bucket = bucket
		cfg.Publish.Prefix = prefix
		cfg.Publish.Region = "us-east-1"
	}
}

// WithStubbedBinaries puts no-op executables for names (audio-separator,
// yt-dlp and ffmpeg by default) first on PATH for the test's lifetime.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, base string, _ *config.Config) {
		if len(names) == 0 {
			names = []string{"audio-separator", "yt-dlp", "ffmpeg"}
		}
		bin := filepath.Join(base, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir is the temp directory NewConfig rooted cfg in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
