package separator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoVocalStem reports that none of the outputs carried the vocal marker.
var ErrNoVocalStem = errors.New("no vocal stem in separator output")

// Service runs the audio-separator CLI.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a separator service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.StemMarker) == "" {
		cfg.StemMarker = DefaultStemMarker
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Binary returns the configured executable for dependency checks.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// StemMarker returns the vocal stem marker.
func (s *Service) StemMarker() string {
	return s.cfg.StemMarker
}

// Separate runs the separator on input and returns every file it wrote into
// outputDir, sorted by name. outputDir is created if needed and should be
// empty so stale files are not mistaken for fresh outputs.
func (s *Service) Separate(ctx context.Context, input, outputDir string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("separate: input path required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("separate: output dir required")
	}
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("separate: stat input: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("separate: ensure output dir: %w", err)
	}

	if err := s.run(ctx, s.cfg.Binary, s.buildArgs(input, outputDir)...); err != nil {
		return nil, fmt.Errorf("audio-separator: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("separate: list outputs: %w", err)
	}
	outputs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		outputs = append(outputs, filepath.Join(outputDir, entry.Name()))
	}
	sort.Strings(outputs)
	return outputs, nil
}

// VocalStem picks the output whose base name carries marker. The remaining
// outputs are returned so the caller can delete them.
func VocalStem(outputs []string, marker string) (string, []string, error) {
	if marker == "" {
		marker = DefaultStemMarker
	}
	vocal := ""
	rest := make([]string, 0, len(outputs))
	for _, path := range outputs {
		if vocal == "" && strings.Contains(filepath.Base(path), marker) {
			vocal = path
			continue
		}
		rest = append(rest, path)
	}
	if vocal == "" {
		return "", rest, fmt.Errorf("%w (marker %q, %d outputs)", ErrNoVocalStem, marker, len(outputs))
	}
	return vocal, rest, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *Service) buildArgs(input, outputDir string) []string {
	args := make([]string, 0, 12+len(s.cfg.ExtraArgs))
	args = append(args,
		input,
		"--model_filename", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)
	if s.cfg.ModelDir != "" {
		args = append(args, "--model_file_dir", s.cfg.ModelDir)
	}
	if s.cfg.SingleStem != "" {
		args = append(args, "--single_stem", s.cfg.SingleStem)
	}
	args = append(args, s.cfg.ExtraArgs...)
	return args
}
