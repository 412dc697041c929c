package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"teasers/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "teasers.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLast(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "fewer than file", limit: 2, want: []string{"b", "c"}},
		{name: "more than file", limit: 10, want: []string{"a", "b", "c"}},
		{name: "zero", limit: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, offset, err := logs.Last(path, tt.limit)
			if err != nil {
				t.Fatalf("Last: %v", err)
			}
			if len(lines) != len(tt.want) {
				t.Fatalf("got %#v, want %#v", lines, tt.want)
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Fatalf("got %#v, want %#v", lines, tt.want)
				}
			}
			if offset != 6 {
				t.Fatalf("offset = %d, want 6", offset)
			}
		})
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || len(lines) != 0 || offset != 0 {
		t.Fatalf("unexpected result %v %d %v", lines, offset, err)
	}
}

func TestReadFromSkipsPartialLine(t *testing.T) {
	path := writeLog(t, "one\ntwo\npart")

	lines, offset, err := logs.ReadFrom(path, 4)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(lines) != 1 || lines[0] != "two" || offset != 8 {
		t.Fatalf("unexpected result %#v offset %d", lines, offset)
	}

	lines, _, err = logs.ReadFrom(path, 1000)
	if err != nil {
		t.Fatalf("ReadFrom past end: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("truncated file should restart at zero, got %#v", lines)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var once sync.Once
	var got []string
	received := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 20*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			once.Do(func() { close(received) })
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not emit the appended line")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected lines %#v", got)
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`{"ts":"t","level":"info","msg":"a","entry":"clip"}`,
		`{"ts":"t","level":"debug","msg":"b","entry":"clip"}`,
		`{"ts":"t","level":"error","msg":"c","entry":"other"}`,
		`not json`,
	}
	tests := []struct {
		name   string
		filter logs.Filter
		want   int
	}{
		{name: "empty", filter: logs.Filter{}, want: 4},
		{name: "entry", filter: logs.Filter{Entry: "clip"}, want: 2},
		{name: "level", filter: logs.Filter{MinLevel: "info"}, want: 2},
		{name: "entry and level", filter: logs.Filter{Entry: "clip", MinLevel: "warn"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Apply(lines); len(got) != tt.want {
				t.Fatalf("got %d lines %#v, want %d", len(got), got, tt.want)
			}
		})
	}
}
