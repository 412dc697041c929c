package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"teasers/internal/services"
)

const sampleJSON = `[
  {
    "url": "https://www.youtube.com/watch?v=abc",
    "filename": "teaser_1",
    "audio_filename": "teaser_1.wav",
    "subs_filenames": ["teaser_1.en.vtt", "teaser_1.ru.vtt"],
    "lang_code": "en",
    "subs_lang_code": "en"
  },
  {
    "url": "https://www.youtube.com/watch?v=def",
    "filename": "teaser_2",
    "audio_filename": "teaser_2.wav",
    "subs_filenames": ["teaser_2.ru.srt"],
    "lang_code": "ru",
    "subs_lang_code": "ru"
  }
]`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	entries, err := Load(writeCatalog(t, "teasers.json", sampleJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Filename != "teaser_1" || first.SubtitleFilename() != "teaser_1.en.vtt" || first.LangCode != "en" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if entries[1].SubsLangCode != "ru" {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestLoadYAML(t *testing.T) {
	content := `- url: https://example.com/a
  filename: clip
  audio_filename: clip.wav
  subs_filenames: [clip.en.vtt]
  lang_code: en
  subs_lang_code: en
`
	entries, err := Load(writeCatalog(t, "teasers.yaml", content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 || entries[0].AudioFilename != "clip.wav" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"not an array", "c.json", `{"filename": "x"}`, "JSON array"},
		{"malformed", "c.json", `[{"filename": }]`, "parse json"},
		{"missing subtitles", "c.json", `[{"filename": "a", "audio_filename": "a.wav"}]`, "subs_filenames"},
		{"nested filename", "c.json", `[{"filename": "../a", "audio_filename": "a.wav", "subs_filenames": ["a.vtt"]}]`, "plain name"},
		{"duplicate", "c.json", `[{"filename": "a", "audio_filename": "a.wav", "subs_filenames": ["a.vtt"]},{"filename": "a", "audio_filename": "b.wav", "subs_filenames": ["b.vtt"]}]`, "already used"},
		{"yaml unknown key", "c.yml", "- filename: a\n  colour: red\n", "parse yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tc.file, tc.content))
			if !errors.Is(err, services.ErrCatalogLoad) {
				t.Fatalf("expected ErrCatalogLoad, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrCatalogLoad) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected catalog load + not exist, got %v", err)
	}
}

func TestLoadJSONIgnoresExtraKeys(t *testing.T) {
	path := writeCatalog(t, "c.json", `[{"filename": "a", "audio_filename": "a.wav", "subs_filenames": ["a.srt"], "title": "Trailer"}]`)
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "a" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestLanguageWarnings(t *testing.T) {
	entry := Entry{LangCode: "en", SubsLangCode: "en-US"}
	if warnings := entry.LanguageWarnings(); len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	entry = Entry{LangCode: "", SubsLangCode: "not a tag"}
	warnings := entry.LanguageWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", warnings)
	}
}

func TestEmptyCatalog(t *testing.T) {
	entries, err := Load(writeCatalog(t, "c.json", "[]"))
	if err != nil || len(entries) != 0 {
		t.Fatalf("Load = %v, %v", entries, err)
	}
}
