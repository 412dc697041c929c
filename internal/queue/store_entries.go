package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Upsert records entry as pending for a new run. An existing row keeps its
// created_at; every other column is overwritten and the failure is cleared.
func (s *Store) Upsert(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if strings.TrimSpace(entry.Filename) == "" {
		return errors.New("entry filename is required")
	}
	now := time.Now().UTC()
	entry.Status = StatusPending
	entry.IsolationSkipped = false
	entry.CuesTotal = 0
	entry.SegmentsTotal = 0
	entry.PublishedTotal = 0
	entry.ClearFailure()
	entry.UpdatedAt = now
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO entries (`+entryColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, 0, 0, NULL, NULL, NULL, ?, ?, ?)
         ON CONFLICT(filename) DO UPDATE SET
             url = excluded.url,
             audio_path = excluded.audio_path,
             subtitle_path = excluded.subtitle_path,
             vocals_path = excluded.vocals_path,
             output_dir = excluded.output_dir,
             status = excluded.status,
             isolation_skipped = 0,
             cues_total = 0,
             segments_total = 0,
             published_total = 0,
             error_stage = NULL,
             error_kind = NULL,
             error_message = NULL,
             run_id = excluded.run_id,
             updated_at = excluded.updated_at`,
		entry.Filename,
		nullableString(entry.URL),
		nullableString(entry.AudioPath),
		nullableString(entry.SubtitlePath),
		nullableString(entry.VocalsPath),
		nullableString(entry.OutputDir),
		entry.Status,
		nullableString(entry.RunID),
		entry.CreatedAt.Format(time.RFC3339Nano),
		entry.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Update persists the mutable columns of entry.
func (s *Store) Update(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	entry.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE entries
         SET status = ?, isolation_skipped = ?, cues_total = ?, segments_total = ?,
             published_total = ?, error_stage = ?, error_kind = ?, error_message = ?,
             run_id = ?, updated_at = ?
         WHERE filename = ?`,
		entry.Status,
		boolToInt(entry.IsolationSkipped),
		entry.CuesTotal,
		entry.SegmentsTotal,
		entry.PublishedTotal,
		nullableString(entry.ErrorStage),
		nullableString(entry.ErrorKind),
		nullableString(entry.ErrorMessage),
		nullableString(entry.RunID),
		entry.UpdatedAt.Format(time.RFC3339Nano),
		entry.Filename,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update entry %q: not in ledger", entry.Filename)
	}
	return nil
}

// Get returns the row for filename, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, filename string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM entries WHERE filename = ?`, filename)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns rows ordered by filename, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY filename`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Stats counts rows per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Summarize buckets Stats into pending, processing, done and failed.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for status, count := range stats {
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case status == StatusDone:
			summary.Done += count
		case status == StatusFailed:
			summary.Failed += count
		default:
			summary.Processing += count
		}
	}
	return summary, nil
}

// Remove deletes the row for filename.
func (s *Store) Remove(ctx context.Context, filename string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM entries WHERE filename = ?`, filename)
	if err != nil {
		return false, fmt.Errorf("remove entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear drops every row.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("clear entries: %w", err)
	}
	return res.RowsAffected()
}
