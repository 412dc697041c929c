package separator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestSeparateListsOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.wav")
	if err := os.WriteFile(input, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	outDir := filepath.Join(dir, "scratch")

	svc := NewService(Config{SingleStem: DefaultSingleStem, ModelDir: "/models"})
	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		for _, file := range []string{"talk_(Vocals)_UVR.wav", "talk_(Instrumental)_UVR.wav"} {
			if err := os.WriteFile(filepath.Join(outDir, file), []byte("x"), 0o644); err != nil {
				return err
			}
		}
		return nil
	})

	outputs, err := svc.Separate(context.Background(), input, outDir)
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}
	if gotName != DefaultBinary {
		t.Fatalf("binary = %q", gotName)
	}
	for _, want := range []string{input, "--model_filename", DefaultModel, "--output_dir", outDir, "--single_stem", "Vocals", "--model_file_dir", "/models"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("args %v missing %q", gotArgs, want)
		}
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %v", outputs)
	}

	vocal, rest, err := VocalStem(outputs, svc.StemMarker())
	if err != nil {
		t.Fatalf("VocalStem: %v", err)
	}
	if filepath.Base(vocal) != "talk_(Vocals)_UVR.wav" {
		t.Fatalf("vocal = %q", vocal)
	}
	if len(rest) != 1 || filepath.Base(rest[0]) != "talk_(Instrumental)_UVR.wav" {
		t.Fatalf("rest = %v", rest)
	}
}

func TestSeparateMissingInput(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner should not be called")
		return nil
	})
	if _, err := svc.Separate(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestSeparateRunnerFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.wav")
	if err := os.WriteFile(input, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	boom := errors.New("model not found")
	svc := NewService(Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return boom })
	if _, err := svc.Separate(context.Background(), input, filepath.Join(dir, "out")); !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}
}

func TestVocalStemMissing(t *testing.T) {
	_, rest, err := VocalStem([]string{"/tmp/a_(Instrumental).wav"}, "")
	if !errors.Is(err, ErrNoVocalStem) {
		t.Fatalf("expected ErrNoVocalStem, got %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected leftovers to be returned, got %v", rest)
	}
}
