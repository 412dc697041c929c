package stage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"teasers/internal/services"
)

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RequireFile("isolating", "audio", file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := RequireFile("isolating", "audio", filepath.Join(dir, "missing.wav"))
	if !errors.Is(err, services.ErrEntryIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected entry io + not exist, got %v", err)
	}
	if d := services.Details(err); d.Stage != "isolating" || d.Operation != "locate audio" {
		t.Fatalf("unexpected details %+v", d)
	}

	if err := RequireFile("segmenting", "subtitles", dir); !errors.Is(err, services.ErrEntryIO) {
		t.Fatalf("expected entry io for directory, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	if h := Healthy("isolation"); !h.Ready || h.Name != "isolation" {
		t.Fatalf("unexpected %+v", h)
	}
	if h := Unhealthy("publishing", "no bucket"); h.Ready || h.Detail != "no bucket" {
		t.Fatalf("unexpected %+v", h)
	}
}
