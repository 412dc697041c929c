package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoSubtitles reports that subtitles were requested but none exist.
var ErrNoSubtitles = errors.New("no subtitles found")

// Defaults for the yt-dlp invocation.
const (
	DefaultBinary   = "yt-dlp"
	DefaultFormat   = "bestaudio/best"
	OutputTemplate  = "%(title)s.%(ext)s"
	AudioFormat     = "wav"
	SubtitleFormat  = "vtt"
	allSubtitleLang = "all"
)

// Config captures runtime settings for yt-dlp.
type Config struct {
	Binary      string
	Format      string
	CookiesFile string
}

// Request describes one download.
type Request struct {
	URL       string
	Subtitles bool
	// Dir is the working directory yt-dlp writes into.
	Dir string
}

// Result lists the files a download produced, relative paths resolved
// against Request.Dir.
type Result struct {
	AudioPath     string
	SubtitlePaths []string
	// Languages are the subtitle language keys in the same order as SubtitlePaths.
	Languages []string
	// Info is the sanitized metadata document from the probe.
	Info map[string]any
}

// Subtitle returns the subtitle file for lang. An exact key match wins;
// otherwise the first key with the same base language is used, so "en"
// selects "en-US" and "pt-BR" selects "pt". An empty lang selects the first
// file.
func (r Result) Subtitle(lang string) (path, key string, ok bool) {
	if len(r.SubtitlePaths) == 0 || len(r.Languages) != len(r.SubtitlePaths) {
		return "", "", false
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return r.SubtitlePaths[0], r.Languages[0], true
	}
	for i, candidate := range r.Languages {
		if strings.EqualFold(candidate, lang) {
			return r.SubtitlePaths[i], candidate, true
		}
	}
	want, err := language.Parse(lang)
	if err != nil {
		return "", "", false
	}
	wantBase, _ := want.Base()
	for i, candidate := range r.Languages {
		tag, err := language.Parse(candidate)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base == wantBase {
			return r.SubtitlePaths[i], candidate, true
		}
	}
	return "", "", false
}

// Service runs yt-dlp.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// NewService creates a yt-dlp service.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = DefaultFormat
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing). The runner
// receives the working directory and returns the combined output.
func (s *Service) WithCommandRunner(runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Binary returns the configured executable for dependency checks.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// Probe fetches metadata without downloading and returns the decoded document.
func (s *Service) Probe(ctx context.Context, req Request) (map[string]any, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("probe: url required")
	}
	args := append(s.commonArgs(req), "--dump-single-json", "--skip-download", req.URL)
	out, err := s.run(ctx, req.Dir, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe: %w", err)
	}
	raw, err := extractJSON(out)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe: %w", err)
	}
	var info map[string]any
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp probe: decode metadata: %w", err)
	}
	return info, nil
}

// Download probes req.URL, predicts the output names and then downloads the
// audio (and subtitles when requested).
func (s *Service) Download(ctx context.Context, req Request) (Result, error) {
	info, err := s.Probe(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result, err := plan(info, req)
	if err != nil {
		return Result{}, err
	}
	args := append(s.commonArgs(req), s.downloadArgs(req)...)
	args = append(args, req.URL)
	if _, err := s.run(ctx, req.Dir, args...); err != nil {
		return Result{}, fmt.Errorf("yt-dlp download: %w", err)
	}
	return result, nil
}

func plan(info map[string]any, req Request) (Result, error) {
	name := stringField(info, "_filename")
	if name == "" {
		name = stringField(info, "filename")
	}
	if name == "" {
		return Result{}, fmt.Errorf("yt-dlp probe: metadata has no filename")
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	result := Result{
		AudioPath: resolve(req.Dir, base+"."+AudioFormat),
		Info:      info,
	}
	if !req.Subtitles {
		return result, nil
	}
	requested, _ := info["requested_subtitles"].(map[string]any)
	if len(requested) == 0 {
		return Result{}, ErrNoSubtitles
	}
	langs := make([]string, 0, len(requested))
	for lang := range requested {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		result.Languages = append(result.Languages, lang)
		result.SubtitlePaths = append(result.SubtitlePaths, resolve(req.Dir, base+"."+lang+"."+SubtitleFormat))
	}
	return result, nil
}

func (s *Service) commonArgs(req Request) []string {
	args := []string{
		"--quiet",
		"--no-warnings",
		"--restrict-filenames",
		"--windows-filenames",
		"--output", OutputTemplate,
		"--format", s.cfg.Format,
	}
	if req.Subtitles {
		args = append(args, "--write-subs", "--sub-langs", allSubtitleLang)
	}
	if s.cfg.CookiesFile != "" {
		args = append(args, "--cookies", s.cfg.CookiesFile)
	}
	return args
}

func (s *Service) downloadArgs(req Request) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", AudioFormat,
		"--audio-quality", "0",
		"--no-overwrites",
	}
	if req.Subtitles {
		args = append(args, "--convert-subs", SubtitleFormat)
	}
	return args
}

func (s *Service) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, dir, s.cfg.Binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.cfg.Binary, args...) //nolint:gosec
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", s.cfg.Binary, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// extractJSON returns the last line of out that looks like a JSON document.
// yt-dlp may print warnings around it even in quiet mode.
func extractJSON(out []byte) ([]byte, error) {
	var jsonLine string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") {
			jsonLine = line
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("no JSON in output: %s", strings.TrimSpace(string(out)))
	}
	return []byte(jsonLine), nil
}

func stringField(info map[string]any, key string) string {
	v, _ := info[key].(string)
	return strings.TrimSpace(v)
}

func resolve(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
