package publishing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"teasers/internal/config"
	"teasers/internal/fileutil"
	"teasers/internal/logging"
	"teasers/internal/segment"
	"teasers/internal/services"
	"teasers/internal/stage"
)

const stageName = "publishing"

// ObjectStore is what the stage needs from a bucket.
type ObjectStore interface {
	Checksum(ctx context.Context, key string) (sum string, found bool, err error)
	Upload(ctx context.Context, key, path, contentType, checksum string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	CheckBucket(ctx context.Context) error
	Bucket() string
}

// Handler uploads an entry's clips, vocals and manifest.
type Handler struct {
	store  ObjectStore
	prefix string
	logger *slog.Logger
}

// NewHandler builds the stage around store.
func NewHandler(cfg *config.Config, store ObjectStore, logger *slog.Logger) *Handler {
	h := &Handler{store: store, prefix: strings.Trim(cfg.Publish.Prefix, "/")}
	h.SetLogger(logger)
	return h
}

// SetLogger implements stage.LoggerAware.
func (h *Handler) SetLogger(logger *slog.Logger) {
	h.logger = logging.NewComponentLogger(logger, "publishing")
}

// Key returns the object key for file inside the entry named filename.
func (h *Handler) Key(filename, file string) string {
	if h.prefix == "" {
		return path.Join(filename, file)
	}
	return path.Join(h.prefix, filename, file)
}

// Prepare requires the manifest, which only exists after a successful
// segmentation.
func (h *Handler) Prepare(_ context.Context, job *stage.Job) error {
	return stage.RequireFile(stageName, "manifest", filepath.Join(job.OutputDir, segment.ManifestFile))
}

// Execute mirrors job.OutputDir into the bucket. Files whose remote
// checksum matches are skipped, the manifest is uploaded last so readers
// never see it name clips that are not there yet, and remote objects with
// no local file are deleted once the new manifest is in place.
func (h *Handler) Execute(ctx context.Context, job *stage.Job) error {
	if h.store == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "publish", "object store unavailable", nil)
	}
	files, err := publishable(job.OutputDir)
	if err != nil {
		return services.Wrap(services.ErrEntryIO, stageName, "list entry dir", job.OutputDir, err)
	}

	uploaded, skipped := 0, 0
	local := make(map[string]struct{}, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := h.Key(job.Entry.Filename, name)
		local[key] = struct{}{}
		path := filepath.Join(job.OutputDir, name)
		sum, err := fileutil.Checksum(path)
		if err != nil {
			return services.Wrap(services.ErrEntryIO, stageName, "checksum", path, err)
		}
		remote, found, err := h.store.Checksum(ctx, key)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, stageName, "head object", key, err)
		}
		if found && remote == sum {
			skipped++
			continue
		}
		if err := h.store.Upload(ctx, key, path, contentType(name), sum); err != nil {
			return services.Wrap(services.ErrExternalTool, stageName, "put object", key, err)
		}
		uploaded++
	}

	deleted, err := h.deleteStale(ctx, h.Key(job.Entry.Filename, "")+"/", local)
	if err != nil {
		return err
	}

	job.Record.PublishedTotal = uploaded
	h.logger.Info("entry published",
		logging.String("bucket", h.store.Bucket()),
		logging.String("prefix", h.Key(job.Entry.Filename, "")),
		logging.Int("uploaded", uploaded),
		logging.Int("skipped", skipped),
		logging.Int("deleted", deleted),
	)
	return nil
}

func (h *Handler) deleteStale(ctx context.Context, prefix string, keep map[string]struct{}) (int, error) {
	keys, err := h.store.List(ctx, prefix)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, stageName, "list objects", prefix, err)
	}
	deleted := 0
	for _, key := range keys {
		if _, ok := keep[key]; ok {
			continue
		}
		if err := h.store.Delete(ctx, key); err != nil {
			return deleted, services.Wrap(services.ErrExternalTool, stageName, "delete object", key, err)
		}
		deleted++
	}
	return deleted, nil
}

// HealthCheck verifies the bucket is reachable.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	const name = "publishing"
	if h.store == nil {
		return stage.Unhealthy(name, "object store unavailable")
	}
	if err := h.store.CheckBucket(ctx); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("bucket %q: %v", h.store.Bucket(), err))
	}
	return stage.Healthy(name)
}

// publishable lists the entry files in upload order: everything but the
// manifest sorted by name, then the manifest.
func publishable(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	hasManifest := false
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if name == segment.ManifestFile {
			hasManifest = true
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	if hasManifest {
		files = append(files, segment.ManifestFile)
	}
	return files, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".json":
		return "application/json"
	default:
		return ""
	}
}
