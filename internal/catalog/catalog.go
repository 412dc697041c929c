package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"teasers/internal/services"
)

// Entry is one catalog record.
type Entry struct {
	URL           string   `json:"url" yaml:"url"`
	Filename      string   `json:"filename" yaml:"filename"`
	AudioFilename string   `json:"audio_filename" yaml:"audio_filename"`
	SubsFilenames []string `json:"subs_filenames" yaml:"subs_filenames"`
	LangCode      string   `json:"lang_code" yaml:"lang_code"`
	SubsLangCode  string   `json:"subs_lang_code" yaml:"subs_lang_code"`
}

// SubtitleFilename returns the subtitle file used for segmentation: the first
// listed one.
func (e Entry) SubtitleFilename() string {
	if len(e.SubsFilenames) == 0 {
		return ""
	}
	return e.SubsFilenames[0]
}

// Validate checks the fields segmentation depends on.
func (e Entry) Validate() error {
	var problems []string
	if strings.TrimSpace(e.Filename) == "" {
		problems = append(problems, "filename is required")
	} else if !safeName(e.Filename) {
		problems = append(problems, fmt.Sprintf("filename %q must be a plain name", e.Filename))
	}
	if strings.TrimSpace(e.AudioFilename) == "" {
		problems = append(problems, "audio_filename is required")
	} else if !safeName(e.AudioFilename) {
		problems = append(problems, fmt.Sprintf("audio_filename %q must be a plain name", e.AudioFilename))
	}
	if len(e.SubsFilenames) == 0 || strings.TrimSpace(e.SubsFilenames[0]) == "" {
		problems = append(problems, "subs_filenames needs at least one entry")
	} else if !safeName(e.SubsFilenames[0]) {
		problems = append(problems, fmt.Sprintf("subs_filenames[0] %q must be a plain name", e.SubsFilenames[0]))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// LanguageWarnings reports language codes that do not parse as BCP 47 tags.
// Codes are copied into the manifest verbatim regardless.
func (e Entry) LanguageWarnings() []string {
	var warnings []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"lang_code", e.LangCode},
		{"subs_lang_code", e.SubsLangCode},
	} {
		if strings.TrimSpace(field.value) == "" {
			warnings = append(warnings, field.name+" is empty")
			continue
		}
		if _, err := language.Parse(field.value); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %q is not a BCP 47 tag", field.name, field.value))
		}
	}
	return warnings
}

func safeName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// Load reads and validates the catalog at path.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogLoad, "catalog", "read catalog", path, err)
	}
	entries, err := Decode(data, formatFor(path))
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogLoad, "catalog", "decode catalog", path, err)
	}
	if err := ValidateAll(entries); err != nil {
		return nil, services.Wrap(services.ErrCatalogLoad, "catalog", "validate catalog", path, err)
	}
	return entries, nil
}

// Format names a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a catalog document without validating entries.
func Decode(data []byte, format Format) ([]Entry, error) {
	var entries []Entry
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, errors.New("catalog must be a JSON array")
		}
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}
	return entries, nil
}

// ValidateAll validates every entry and rejects duplicate filenames, which
// would share an output directory.
func ValidateAll(entries []Entry) error {
	var errs []error
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if prev, dup := seen[entry.Filename]; dup {
			errs = append(errs, fmt.Errorf("entry %d: filename %q already used by entry %d", i, entry.Filename, prev))
			continue
		}
		seen[entry.Filename] = i
	}
	return errors.Join(errs...)
}
