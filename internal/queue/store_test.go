package queue_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"teasers/internal/queue"
	"teasers/internal/services"
	"teasers/internal/testsupport"
)

func TestUpsertCreatesPendingEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := &queue.Entry{Filename: "clip", URL: "https://example.com/v", AudioPath: "/data/clip.wav", RunID: "run-1"}
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "clip")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Status != queue.StatusPending || got.URL != entry.URL || got.RunID != "run-1" {
		t.Fatalf("unexpected entry %#v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %#v", got)
	}
}

func TestUpsertResetsPreviousRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := &queue.Entry{Filename: "clip", RunID: "run-1"}
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	entry.SegmentsTotal = 4
	entry.SetFailed("segmenting", services.Wrap(services.ErrSubtitleParse, "segmenting", "read", "bad cue", nil))
	if err := store.Update(ctx, entry); err != nil {
		t.Fatalf("Update: %v", err)
	}
	created := entry.CreatedAt

	again := &queue.Entry{Filename: "clip", RunID: "run-2"}
	if err := store.Upsert(ctx, again); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, err := store.Get(ctx, "clip")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != queue.StatusPending || got.ErrorKind != "" || got.ErrorMessage != "" || got.SegmentsTotal != 0 {
		t.Fatalf("expected reset row, got %#v", got)
	}
	if got.RunID != "run-2" {
		t.Fatalf("run id = %q", got.RunID)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v -> %v", created, got.CreatedAt)
	}
}

func TestUpdatePersistsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := &queue.Entry{Filename: "clip"}
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	entry.IsolationSkipped = true
	entry.CuesTotal = 12
	entry.SetFailed("isolating", services.Wrap(services.ErrSeparation, "isolating", "find stem", "no vocals", nil))
	if err := store.Update(ctx, entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, "clip")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != queue.StatusFailed || got.ErrorKind != "separation" || got.ErrorStage != "isolating" {
		t.Fatalf("unexpected failure fields %#v", got)
	}
	if !got.IsolationSkipped || got.CuesTotal != 12 {
		t.Fatalf("unexpected counters %#v", got)
	}
}

func TestUpdateMissingEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Update(context.Background(), &queue.Entry{Filename: "ghost", Status: queue.StatusDone}); err == nil {
		t.Fatal("expected error updating an unknown entry")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	got, err := store.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("Get = %#v, %v", got, err)
	}
}

func TestListAndSummarize(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	statuses := []queue.Status{queue.StatusDone, queue.StatusFailed, queue.StatusSegmenting, queue.StatusPending, queue.StatusDone}
	for i, status := range statuses {
		entry := &queue.Entry{Filename: fmt.Sprintf("entry-%d", i)}
		if err := store.Upsert(ctx, entry); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		entry.Status = status
		if err := store.Update(ctx, entry); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != len(statuses) || all[0].Filename != "entry-0" || all[4].Filename != "entry-4" {
		t.Fatalf("unexpected list %#v", all)
	}

	done, err := store.List(ctx, queue.StatusDone)
	if err != nil {
		t.Fatalf("List(done): %v", err)
	}
	if len(done) != 2 {
		t.Fatalf("expected 2 done entries, got %d", len(done))
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := queue.Summary{Total: 5, Pending: 1, Processing: 1, Done: 2, Failed: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		if err := store.Upsert(ctx, &queue.Entry{Filename: name}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	removed, err := store.Remove(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	removed, err = store.Remove(ctx, "a")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}
	n, err := store.Clear(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Clear = %d, %v", n, err)
	}
}

func TestUpsertRequiresFilename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Upsert(context.Background(), &queue.Entry{}); err == nil {
		t.Fatal("expected error for missing filename")
	}
}

func TestReopenKeepsRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Upsert(context.Background(), &queue.Entry{Filename: "kept"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	got, err := reopened.Get(context.Background(), "kept")
	if err != nil || got == nil {
		t.Fatalf("Get after reopen = %#v, %v", got, err)
	}
	if reopened.Path() != cfg.LedgerPath() {
		t.Fatalf("path = %q", reopened.Path())
	}
	if reopened.Rebuilt() {
		t.Fatal("same schema version should not rebuild")
	}
}

func TestOpenRebuildsOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Upsert(context.Background(), &queue.Entry{Filename: "old"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.LedgerPath())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	reopened := testsupport.MustOpenStore(t, cfg)
	if !reopened.Rebuilt() {
		t.Fatal("expected rebuild")
	}
	got, err := reopened.Get(context.Background(), "old")
	if err != nil || got != nil {
		t.Fatalf("rebuilt ledger should be empty, got %#v %v", got, err)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want queue.Status
		ok   bool
	}{
		{"done", queue.StatusDone, true},
		{" Segmenting ", queue.StatusSegmenting, true},
		{"", "", false},
		{"ripping", "ripping", false},
	}
	for _, tc := range tests {
		got, ok := queue.ParseStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseStatus(%q) = %q, %v", tc.in, got, ok)
		}
	}
	if len(queue.AllStatuses()) != 8 {
		t.Fatalf("unexpected status count %d", len(queue.AllStatuses()))
	}
}

func TestSetFailedClassifies(t *testing.T) {
	var entry queue.Entry
	entry.SetFailed("isolating", errors.New("boom"))
	if entry.Status != queue.StatusFailed || entry.ErrorKind != "unknown" || entry.ErrorMessage != "boom" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	entry.ClearFailure()
	if entry.ErrorKind != "" || entry.ErrorStage != "" {
		t.Fatalf("ClearFailure left %#v", entry)
	}
}
