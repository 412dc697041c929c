package publishing

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"testing"

	"teasers/internal/catalog"
	"teasers/internal/fileutil"
	"teasers/internal/queue"
	"teasers/internal/segment"
	"teasers/internal/services"
	"teasers/internal/stage"
	"teasers/internal/testsupport"
)

type fakeStore struct {
	// sums maps existing keys to their recorded checksum.
	sums    map[string]string
	uploads []string
	deletes []string
	putErr  error
}

func (f *fakeStore) Checksum(_ context.Context, key string) (string, bool, error) {
	sum, ok := f.sums[key]
	return sum, ok, nil
}

func (f *fakeStore) Upload(_ context.Context, key, _, _, checksum string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.sums == nil {
		f.sums = make(map[string]string)
	}
	f.sums[key] = checksum
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.sums {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.sums, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStore) CheckBucket(context.Context) error { return nil }
func (f *fakeStore) Bucket() string                    { return "dataset" }

func newJob(t *testing.T) *stage.Job {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	dir := cfg.EntryDir("clip")
	for _, name := range []string{"segment_3.wav", "clip.wav", "segment_1.wav", ".separator.tmp"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 4)
	}
	if err := segment.WriteManifest(dir, segment.Manifest{{Filename: "segment_1.wav"}, {Filename: "segment_3.wav"}}); err != nil {
		t.Fatal(err)
	}
	return &stage.Job{
		Entry:     catalog.Entry{Filename: "clip"},
		Record:    &queue.Entry{Filename: "clip"},
		OutputDir: dir,
	}
}

func checksum(t *testing.T, path string) string {
	t.Helper()
	sum, err := fileutil.Checksum(path)
	if err != nil {
		t.Fatal(err)
	}
	return sum
}

func TestExecuteMirrorsEntryDir(t *testing.T) {
	job := newJob(t)
	store := &fakeStore{sums: map[string]string{
		"teasers/clip/segment_1.wav":  checksum(t, filepath.Join(job.OutputDir, "segment_1.wav")),
		"teasers/clip/segment_3.wav":  "stale",
		"teasers/clip/segment_7.wav":  "pruned locally",
		"teasers/clip/segments.json":  checksum(t, filepath.Join(job.OutputDir, segment.ManifestFile)),
		"teasers/clip2/segment_0.wav": "other entry",
	}}
	cfg := testsupport.NewConfig(t, testsupport.WithPublish("dataset", "/teasers/"))
	h := NewHandler(cfg, store, nil)

	if err := h.Prepare(context.Background(), job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := h.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"teasers/clip/clip.wav", "teasers/clip/segment_3.wav"}; !slices.Equal(store.uploads, want) {
		t.Fatalf("uploads = %v, want %v", store.uploads, want)
	}
	if want := []string{"teasers/clip/segment_7.wav"}; !slices.Equal(store.deletes, want) {
		t.Fatalf("deletes = %v, want %v", store.deletes, want)
	}
	if job.Record.PublishedTotal != 2 {
		t.Fatalf("published total = %d", job.Record.PublishedTotal)
	}
}

func TestExecuteUploadsChangedManifestLast(t *testing.T) {
	job := newJob(t)
	store := &fakeStore{sums: map[string]string{"clip/segments.json": "old manifest"}}
	h := NewHandler(testsupport.NewConfig(t), store, nil)

	if err := h.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"clip/clip.wav", "clip/segment_1.wav", "clip/segment_3.wav", "clip/segments.json"}
	if !slices.Equal(store.uploads, want) {
		t.Fatalf("uploads = %v, want %v", store.uploads, want)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("unexpected deletes %v", store.deletes)
	}
}

func TestExecuteUploadFailure(t *testing.T) {
	job := newJob(t)
	store := &fakeStore{putErr: errors.New("throttled")}
	h := NewHandler(testsupport.NewConfig(t), store, nil)
	if err := h.Execute(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestPrepareWithoutManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	job := &stage.Job{OutputDir: cfg.EntryDir("none"), Record: &queue.Entry{}}
	h := NewHandler(cfg, &fakeStore{}, nil)
	if err := h.Prepare(context.Background(), job); !errors.Is(err, services.ErrEntryIO) {
		t.Fatalf("expected ErrEntryIO, got %v", err)
	}
}

func TestKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if got := NewHandler(cfg, nil, nil).Key("clip", "segment_0.wav"); got != "clip/segment_0.wav" {
		t.Fatalf("Key without prefix = %q", got)
	}
	if health := NewHandler(cfg, nil, nil).HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy without store")
	}
}
