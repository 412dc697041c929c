package isolation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"teasers/internal/audio"
	"teasers/internal/config"
	"teasers/internal/fileutil"
	"teasers/internal/logging"
	"teasers/internal/services"
	"teasers/internal/services/separator"
	"teasers/internal/stage"
)

const stageName = "isolating"

// ScratchDirName is the per-entry directory the separator writes into.
const ScratchDirName = ".separator"

// Separator is the subset of separator.Service the stage needs.
type Separator interface {
	Separate(ctx context.Context, input, outputDir string) ([]string, error)
	StemMarker() string
	Binary() string
}

// Handler runs vocal isolation for one entry.
type Handler struct {
	sep        Separator
	targetRate int
	logger     *slog.Logger
}

// NewHandler builds the stage from config and a separator.
func NewHandler(cfg *config.Config, sep Separator, logger *slog.Logger) *Handler {
	h := &Handler{sep: sep, targetRate: cfg.Audio.TargetSampleRate}
	h.SetLogger(logger)
	return h
}

// SetLogger implements stage.LoggerAware.
func (h *Handler) SetLogger(logger *slog.Logger) {
	h.logger = logging.NewComponentLogger(logger, "isolation")
}

// Prepare checks the raw audio is present.
func (h *Handler) Prepare(_ context.Context, job *stage.Job) error {
	return stage.RequireFile(stageName, "raw audio", job.AudioPath)
}

// Execute separates job.AudioPath and installs the vocal stem at
// job.VocalsPath. The vocals file appears atomically, so its presence always
// means a completed isolation.
func (h *Handler) Execute(ctx context.Context, job *stage.Job) error {
	if h.sep == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "separate", "separator unavailable", nil)
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrFilesystemWrite, stageName, "ensure output dir", job.OutputDir, err)
	}
	scratch := filepath.Join(job.OutputDir, ScratchDirName)
	if err := os.RemoveAll(scratch); err != nil {
		return services.Wrap(services.ErrFilesystemWrite, stageName, "clear scratch dir", scratch, err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			h.logger.Warn("scratch cleanup failed", logging.String("path", scratch), logging.Error(err))
		}
	}()

	h.logger.Info("cleaning audio", logging.String("audio", filepath.Base(job.AudioPath)))
	outputs, err := h.sep.Separate(ctx, job.AudioPath, scratch)
	if err != nil {
		return services.Wrap(services.ErrSeparation, stageName, "separate", filepath.Base(job.AudioPath), err)
	}
	vocal, rest, err := separator.VocalStem(outputs, h.sep.StemMarker())
	if err != nil {
		return services.Wrap(services.ErrSeparation, stageName, "find vocal stem", "", err)
	}

	installed, err := h.install(vocal, job.VocalsPath)
	if err != nil {
		return err
	}
	if err := fileutil.RemoveFiles(rest...); err != nil {
		h.logger.Warn("discarding stems failed", logging.Error(err))
	}

	h.logger.Info("background removed",
		logging.String("vocals", job.VocalsPath),
		logging.String("install", installed),
		logging.Int("discarded_stems", len(rest)),
	)
	return nil
}

func (h *Handler) install(vocal, dst string) (string, error) {
	if h.targetRate > 0 {
		w, wrote, err := audio.ResampleFile(vocal, dst, h.targetRate)
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			return "", services.Wrap(services.ErrSeparation, stageName, "read vocal stem", filepath.Base(vocal), err)
		case err != nil:
			return "", services.Wrap(services.ErrFilesystemWrite, stageName, "resample vocals", dst, err)
		case wrote:
			return fmt.Sprintf("resampled to %d Hz", w.SampleRate), nil
		}
	}
	if err := fileutil.MoveFile(vocal, dst); err != nil {
		return "", services.Wrap(services.ErrFilesystemWrite, stageName, "move vocals", dst, err)
	}
	return "moved", nil
}

// HealthCheck reports whether the separator executable resolves.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	const name = "isolation"
	if h.sep == nil {
		return stage.Unhealthy(name, "separator unavailable")
	}
	if _, err := exec.LookPath(h.sep.Binary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("binary %q not found", h.sep.Binary()))
	}
	return stage.Healthy(name)
}
