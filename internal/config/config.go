package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the catalog location and the dataset directory roots.
type Paths struct {
	Catalog     string `toml:"catalog"`
	DataDir     string `toml:"data_dir"`
	SegmentsDir string `toml:"segments_dir"`
	LogDir      string `toml:"log_dir"`
}

// Audio contains resampling and subtitle decoding settings.
type Audio struct {
	// TargetSampleRate is the rate vocal stems are converted to. Zero keeps
	// the separator's output rate.
	TargetSampleRate int    `toml:"target_sample_rate"`
	SubtitleEncoding string `toml:"subtitle_encoding"`
}

// Separator contains configuration for the audio-separator CLI.
type Separator struct {
	Binary     string   `toml:"binary"`
	Model      string   `toml:"model"`
	ModelDir   string   `toml:"model_dir"`
	SingleStem string   `toml:"single_stem"`
	StemMarker string   `toml:"stem_marker"`
	ExtraArgs  []string `toml:"extra_args"`
}

// Download contains configuration for the yt-dlp fetch step.
type Download struct {
	Binary      string `toml:"binary"`
	CookiesFile string `toml:"cookies_file"`
	Subtitles   bool   `toml:"subtitles"`
	Format      string `toml:"format"`
}

// Publish contains configuration for uploading finished entries to S3.
type Publish struct {
	Enabled bool   `toml:"enabled"`
	Bucket  string `toml:"bucket"`
	Prefix  string `toml:"prefix"`
	Region  string `toml:"region"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	// TextfilePath is written after each batch run when set.
	TextfilePath string `toml:"textfile_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for teasers.
//
// Configuration sections by subsystem:
//   - Paths: catalog file plus data, segments and log directories
//   - Audio: target sample rate and subtitle text encoding
//   - Separator: vocal isolation tool settings
//   - Download: yt-dlp settings for the download command
//   - Publish: optional S3 upload of finished entries
//   - Metrics: optional Prometheus textfile
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Audio     Audio     `toml:"audio"`
	Separator Separator `toml:"separator"`
	Download  Download  `toml:"download"`
	Publish   Publish   `toml:"publish"`
	Metrics   Metrics   `toml:"metrics"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultUserConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path and the third reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath prefers an explicit path, then ./teasers.toml, then the
// user config file.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	defaultPath, err := expandPath(defaultUserConfigPath)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, segments and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.SegmentsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogPath is the combined log file written alongside console output.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, logFileName)
}

// LedgerPath is the SQLite run ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.LogDir, ledgerFileName)
}

// LockPath is the batch lock file inside the segments root.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.SegmentsDir, lockFileName)
}

// EntryDir is the per-entry output directory.
func (c *Config) EntryDir(filename string) string {
	return filepath.Join(c.Paths.SegmentsDir, filename)
}

// VocalsPath is the canonical isolated vocal track for an entry.
func (c *Config) VocalsPath(filename string) string {
	return filepath.Join(c.EntryDir(filename), filename+".wav")
}

// DataPath resolves a file name inside the data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.Paths.DataDir, name)
}

// FFmpegBinary returns the ffmpeg executable used by yt-dlp post-processing.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
