package queue

import (
	"database/sql"
	"errors"
	"time"
)

const entryColumns = "filename, url, audio_path, subtitle_path, vocals_path, output_dir, status, isolation_skipped, cues_total, segments_total, published_total, error_stage, error_kind, error_message, run_id, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		filename       string
		url            sql.NullString
		audioPath      sql.NullString
		subtitlePath   sql.NullString
		vocalsPath     sql.NullString
		outputDir      sql.NullString
		statusStr      string
		skipped        int64
		cuesTotal      int64
		segmentsTotal  int64
		publishedTotal int64
		errorStage     sql.NullString
		errorKind      sql.NullString
		errorMessage   sql.NullString
		runID          sql.NullString
		createdRaw     string
		updatedRaw     string
	)
	if err := scanner.Scan(
		&filename,
		&url,
		&audioPath,
		&subtitlePath,
		&vocalsPath,
		&outputDir,
		&statusStr,
		&skipped,
		&cuesTotal,
		&segmentsTotal,
		&publishedTotal,
		&errorStage,
		&errorKind,
		&errorMessage,
		&runID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		Filename:         filename,
		URL:              url.String,
		AudioPath:        audioPath.String,
		SubtitlePath:     subtitlePath.String,
		VocalsPath:       vocalsPath.String,
		OutputDir:        outputDir.String,
		Status:           Status(statusStr),
		IsolationSkipped: skipped != 0,
		CuesTotal:        int(cuesTotal),
		SegmentsTotal:    int(segmentsTotal),
		PublishedTotal:   int(publishedTotal),
		ErrorStage:       errorStage.String,
		ErrorKind:        errorKind.String,
		ErrorMessage:     errorMessage.String,
		RunID:            runID.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := range count {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
