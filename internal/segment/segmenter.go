package segment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"teasers/internal/audio"
	"teasers/internal/logging"
	"teasers/internal/services"
	"teasers/internal/subtitles"
)

var clipPattern = regexp.MustCompile(`^segment_\d+\.wav$`)

// ClipName returns the file name for the cue at index.
func ClipName(index int) string {
	return fmt.Sprintf("segment_%d.wav", index)
}

// FrameAt maps a millisecond offset onto a frame index at rate, truncating.
func FrameAt(ms int64, rate int) int64 {
	if ms <= 0 || rate <= 0 {
		return 0
	}
	return ms * int64(rate) / 1000
}

// Observer receives per-cue outcomes. Implementations must be cheap; they run
// inline with segmentation.
type Observer interface {
	CueRejected(reason Reason)
	SegmentWritten()
}

// Input describes one segmentation pass.
type Input struct {
	Waveform  audio.Waveform
	Cues      []subtitles.Cue
	AudioLang string
	TextLang  string
	OutputDir string
}

// Segmenter writes clips and the manifest for one entry at a time.
type Segmenter struct {
	logger   *slog.Logger
	observer Observer
}

// New constructs a Segmenter. Both arguments are optional.
func New(logger *slog.Logger, observer Observer) *Segmenter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Segmenter{logger: logger, observer: observer}
}

// Write slices in.Waveform for every accepted cue and replaces the manifest.
// Clips from an earlier run that the new manifest does not name are removed
// once the manifest is in place. A cue ending before it starts aborts the
// pass before the manifest is touched; clips already written by this pass
// remain on disk.
func (s *Segmenter) Write(ctx context.Context, in Input) (Manifest, error) {
	if in.Waveform.SampleRate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "segmenting", "write segments", fmt.Sprintf("invalid sample rate %d", in.Waveform.SampleRate), nil)
	}
	if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystemWrite, "segmenting", "ensure output dir", in.OutputDir, err)
	}

	rate := in.Waveform.SampleRate
	manifest := make(Manifest, 0, len(in.Cues))
	for i, cue := range in.Cues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cue.EndMS < cue.StartMS {
			return nil, services.Wrap(services.ErrSubtitleParse, "segmenting", "map cue",
				fmt.Sprintf("cue %d ends before it starts (%d < %d ms)", i, cue.EndMS, cue.StartMS), nil)
		}

		verdict := Accept(cue)
		if !verdict.Accepted {
			s.logger.Debug("cue rejected",
				logging.Int("cue_index", i),
				logging.Int64("start_ms", cue.StartMS),
				logging.Int64("end_ms", cue.EndMS),
				logging.String("reason", string(verdict.Reason)),
			)
			if s.observer != nil {
				s.observer.CueRejected(verdict.Reason)
			}
			continue
		}

		seg := Segment{
			Filename:   ClipName(i),
			StartFrame: FrameAt(cue.StartMS, rate),
			EndFrame:   FrameAt(cue.EndMS, rate),
			StartMS:    cue.StartMS,
			EndMS:      cue.EndMS,
			AudioLang:  in.AudioLang,
			TextLang:   in.TextLang,
			Text:       cue.Text,
		}
		clip := in.Waveform.Slice(int(seg.StartFrame), int(seg.EndFrame))
		if err := audio.WriteFile(filepath.Join(in.OutputDir, seg.Filename), clip); err != nil {
			return nil, services.Wrap(services.ErrFilesystemWrite, "segmenting", "write clip", seg.Filename, err)
		}
		manifest = append(manifest, seg)
		if s.observer != nil {
			s.observer.SegmentWritten()
		}
	}

	if err := WriteManifest(in.OutputDir, manifest); err != nil {
		return nil, services.Wrap(services.ErrFilesystemWrite, "segmenting", "write manifest", in.OutputDir, err)
	}
	removed, err := PruneClips(in.OutputDir, manifest)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystemWrite, "segmenting", "prune clips", in.OutputDir, err)
	}
	if removed > 0 {
		s.logger.Info("removed stale clips", logging.Int("removed", removed))
	}
	return manifest, nil
}

// PruneClips deletes segment_<n>.wav files in dir that m does not list.
func PruneClips(dir string, m Manifest) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	keep := m.Filenames()
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !clipPattern.MatchString(name) {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
