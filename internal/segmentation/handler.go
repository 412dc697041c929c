package segmentation

import (
	"context"
	"errors"
	"log/slog"

	"teasers/internal/audio"
	"teasers/internal/config"
	"teasers/internal/logging"
	"teasers/internal/segment"
	"teasers/internal/services"
	"teasers/internal/stage"
	"teasers/internal/subtitles"
)

const stageName = "segmenting"

// Handler cuts one entry's vocals into labeled clips.
type Handler struct {
	encoding string
	observer segment.Observer
	logger   *slog.Logger
}

// NewHandler builds the stage. observer may be nil.
func NewHandler(cfg *config.Config, observer segment.Observer, logger *slog.Logger) *Handler {
	h := &Handler{encoding: cfg.Audio.SubtitleEncoding, observer: observer}
	h.SetLogger(logger)
	return h
}

// SetLogger implements stage.LoggerAware.
func (h *Handler) SetLogger(logger *slog.Logger) {
	h.logger = logging.NewComponentLogger(logger, "segmentation")
}

// Prepare checks both inputs exist so a missing subtitle file is reported as
// an entry I/O failure before any audio is decoded.
func (h *Handler) Prepare(_ context.Context, job *stage.Job) error {
	if err := stage.RequireFile(stageName, "subtitles", job.SubtitlePath); err != nil {
		return err
	}
	return stage.RequireFile(stageName, "vocals", job.VocalsPath)
}

// Execute writes the clips and manifest into job.OutputDir.
func (h *Handler) Execute(ctx context.Context, job *stage.Job) error {
	cues, err := subtitles.Read(job.SubtitlePath, h.encoding)
	if err != nil {
		if errors.Is(err, services.ErrEntryIO) {
			return err
		}
		return services.Wrap(services.ErrSubtitleParse, stageName, "read subtitles", job.SubtitlePath, err)
	}
	waveform, err := audio.ReadFile(job.VocalsPath)
	if err != nil {
		return services.Wrap(services.ErrEntryIO, stageName, "read vocals", job.VocalsPath, err)
	}
	h.logger.Debug("inputs loaded",
		logging.Int("cues", len(cues)),
		logging.Int("sample_rate", waveform.SampleRate),
		logging.Duration("duration", waveform.Duration()),
	)

	seg := segment.New(h.logger, h.observer)
	manifest, err := seg.Write(ctx, segment.Input{
		Waveform:  waveform,
		Cues:      cues,
		AudioLang: job.Entry.LangCode,
		TextLang:  job.Entry.SubsLangCode,
		OutputDir: job.OutputDir,
	})
	if err != nil {
		return err
	}

	job.Manifest = manifest
	job.Record.CuesTotal = len(cues)
	job.Record.SegmentsTotal = len(manifest)
	h.logger.Info("segments written",
		logging.Int("cues", len(cues)),
		logging.Int("segments", len(manifest)),
		logging.String("manifest", segment.ManifestFile),
	)
	return nil
}

// HealthCheck always reports ready; segmentation has no external dependency.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("segmentation")
}
